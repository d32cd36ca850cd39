package sim

import (
	"errors"
	"math/rand"

	"go.uber.org/zap"

	"matchcore-go/book"
	"matchcore-go/bot"
	"matchcore-go/exec"
	"matchcore-go/inventory"
	"matchcore-go/market"
	"matchcore-go/metrics"
	"matchcore-go/order"
	"matchcore-go/risk"
	"matchcore-go/stream"
)

// Options 组装一个 Runner 所需的全部参数。
type Options struct {
	Seed          int64
	InitialMark   float64
	IndicatorCap  int
	Thresholds    risk.Thresholds
	Logger        *zap.Logger        // nil 时静默
	Publisher     *stream.Publisher  // 可选：UI 推送
	SnapshotDepth int                // 推送快照档数，<=0 为全档
}

// Runner 把簿、执行算法、风控和 bot 串成一个单线程协作循环。
// 每个 tick 的处理顺序固定：bot 下单 -> 执行算法 -> 风控评估，
// 先产生流动性再做风险检查；确定性回放依赖这一顺序。
type Runner struct {
	log    *zap.Logger
	book   *book.Book
	ledger *inventory.Ledger
	ind    *market.Indicators
	bots   *bot.Manager
	execs  *exec.Manager
	risk   *risk.Evaluator
	pub    *stream.Publisher

	rng       *rand.Rand
	tick      int
	mark      float64
	snapDepth int
}

// marketGateway 让 exec 与 risk 以市价口径接入同一提交路径。
type marketGateway struct{ r *Runner }

func (g marketGateway) SubmitMarket(owner string, side order.Side, qty float64) error {
	_, err := g.r.SubmitOrder(owner, order.Market, side, 0, qty)
	return err
}

func NewRunner(opts Options) (*Runner, error) {
	if opts.InitialMark <= 0 {
		return nil, errors.New("initial mark must be > 0")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := &Runner{
		log:       log,
		book:      book.New(),
		ledger:    inventory.NewLedger(),
		ind:       market.NewIndicators(opts.IndicatorCap),
		pub:       opts.Publisher,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		mark:      opts.InitialMark,
		snapDepth: opts.SnapshotDepth,
	}
	gw := marketGateway{r}
	r.bots = bot.NewManager(r, log)
	r.execs = exec.NewManager(gw, log)

	ev, err := risk.NewEvaluator(opts.Thresholds, r.ledger, gw, log)
	if err != nil {
		return nil, err
	}
	r.risk = ev
	ev.OnLiquidation(r.bots.Deactivate)

	r.book.OnTrade(func(tr book.Trade) {
		r.ledger.ApplyTrade(tr)
		metrics.TradesTotal.Inc()
		log.Debug("trade",
			zap.Float64("price", tr.Price),
			zap.Float64("qty", tr.Qty),
			zap.String("maker", tr.MakerOwner),
			zap.String("taker", tr.TakerOwner),
		)
		if r.pub != nil {
			r.pub.PublishTrade(tr)
		}
	})
	return r, nil
}

// SubmitOrder 统一的下单入口（外部 UI 与内部组件共用）。
func (r *Runner) SubmitOrder(owner string, typ order.Type, side order.Side, price, qty float64) (book.Result, error) {
	res, err := r.book.Submit(order.Order{
		Owner:    owner,
		Side:     side,
		Type:     typ,
		Price:    price,
		Quantity: qty,
	})
	if err != nil {
		metrics.OrdersRejected.Inc()
		return res, err
	}
	metrics.OrdersSubmitted.WithLabelValues(typ.String()).Inc()
	return res, nil
}

// Submit 满足 bot.Submitter。
func (r *Runner) Submit(o order.Order) (book.Result, error) {
	return r.SubmitOrder(o.Owner, o.Type, o.Side, o.Price, o.Quantity)
}

// RegisterBot 注册参与者。
func (r *Runner) RegisterBot(b bot.Bot) { r.bots.Register(b) }

// StartExec 启动一张 TWAP/VWAP 母单。
func (r *Runner) StartExec(cfg exec.Config) (*exec.Algo, error) {
	return r.execs.Start(cfg)
}

// CancelExec 两次 Tick 之间取消母单。
func (r *Runner) CancelExec(id uint64) error { return r.execs.Cancel(id) }

// Tick 推进一个模拟步。markOverride > 0 时以外部标记价驱动，
// 否则用最近成交价，缺省退回中间价，再退回上一个标记价。
func (r *Runner) Tick(markOverride float64) risk.Report {
	r.tick++
	if markOverride > 0 {
		r.mark = markOverride
	} else {
		r.mark = r.deriveMark()
	}
	r.ind.Record(r.mark)

	bid, _ := r.book.BestBid()
	ask, _ := r.book.BestAsk()
	r.bots.Tick(bot.View{
		Tick:    r.tick,
		Mark:    r.mark,
		BestBid: bid,
		BestAsk: ask,
		Ind:     r.ind,
		Rand:    r.rng,
	})

	r.execs.Tick()

	// 强平单已进簿，用最新价格口径评估
	rep := r.risk.Evaluate(r.deriveMark())

	snap := r.book.Snapshot(r.snapDepth)
	metrics.BookDepth.WithLabelValues("bid").Set(float64(len(snap.Bids)))
	metrics.BookDepth.WithLabelValues("ask").Set(float64(len(snap.Asks)))
	if r.pub != nil {
		r.pub.PublishSnapshot(snap)
	}
	return rep
}

// deriveMark 标记价推导：成交价 > 中间价 > 上一个标记价。
func (r *Runner) deriveMark() float64 {
	if last := r.book.LastPrice(); last > 0 {
		return last
	}
	if mid := r.book.Mid(); mid > 0 {
		return mid
	}
	return r.mark
}

// Book 暴露簿只读入口（快照、成交记录）。
func (r *Runner) Book() *book.Book { return r.book }

// Ledger 暴露仓位账本。
func (r *Runner) Ledger() *inventory.Ledger { return r.ledger }

// Risk 暴露风控评估器（调阈值、查强平计数）。
func (r *Runner) Risk() *risk.Evaluator { return r.risk }

// Indicators 暴露指标计算器。
func (r *Runner) Indicators() *market.Indicators { return r.ind }

// ActiveBots 返回仍在交易的参与者数量。
func (r *Runner) ActiveBots() int { return r.bots.ActiveCount() }

// CurrentTick 返回已推进的 tick 数。
func (r *Runner) CurrentTick() int { return r.tick }

// Mark 返回当前标记价。
func (r *Runner) Mark() float64 { return r.mark }
