package risk

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"matchcore-go/inventory"
	"matchcore-go/metrics"
	"matchcore-go/order"
)

// Thresholds 强平阈值。两个条件同时满足才触发：
// 仓位价值超过 SizeThreshold 且未实现亏损低于 LossThreshold（负数）。
type Thresholds struct {
	SizeThreshold float64
	LossThreshold float64
}

func (t Thresholds) Validate() error {
	if t.SizeThreshold <= 0 {
		return ErrBadSizeThreshold
	}
	if t.LossThreshold >= 0 {
		return ErrBadLossThreshold
	}
	return nil
}

// Liquidator 强平单走普通提交路径，不开特权通道。
type Liquidator interface {
	SubmitMarket(owner string, side order.Side, qty float64) error
}

// Report 单次评估结果。全局敞口/盈亏每次全量重算，不跨 tick 累积。
type Report struct {
	MarkPrice           float64
	GlobalExposure      float64
	GlobalUnrealizedPnL float64
	Liquidated          []string
}

// Evaluator 逐参与者评估敞口与未实现盈亏，越限即强平。
// 强平市价单本身会移动价格，可能在本轮或后续评估中引发连锁强平；
// 这是有意保留的市场反馈路径，只计数，不抑制。
type Evaluator struct {
	mu         sync.Mutex
	th         Thresholds
	ledger     *inventory.Ledger
	sub        Liquidator
	log        *zap.Logger
	liquidated map[string]struct{}
	count      uint64
	onLiq      []func(owner string)
}

func NewEvaluator(th Thresholds, ledger *inventory.Ledger, sub Liquidator, log *zap.Logger) (*Evaluator, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{
		th:         th,
		ledger:     ledger,
		sub:        sub,
		log:        log,
		liquidated: make(map[string]struct{}),
	}, nil
}

// OnLiquidation 注册强平回调（如让 bot 管理器停掉该参与者）。
func (e *Evaluator) OnLiquidation(fn func(owner string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onLiq = append(e.onLiq, fn)
}

// SetThresholds 运行中调整阈值（配置热更新入口）。
func (e *Evaluator) SetThresholds(th Thresholds) error {
	if err := th.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.th = th
	e.mu.Unlock()
	return nil
}

// LiquidationCount 返回累计强平次数（单调递增）。
func (e *Evaluator) LiquidationCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

// Evaluate 按标记价格全量评估一轮。
// 参与者按 ID 排序遍历，保证回放结果确定。
func (e *Evaluator) Evaluate(mark float64) Report {
	e.mu.Lock()
	th := e.th
	e.mu.Unlock()

	rep := Report{MarkPrice: mark}
	if mark <= 0 {
		return rep
	}

	owners := e.ledger.Owners()
	sort.Strings(owners)

	for _, owner := range owners {
		if _, gone := e.liquidated[owner]; gone {
			continue
		}
		pos := e.ledger.Position(owner)
		net := pos.Net()
		if net == 0 {
			continue
		}
		exposure := pos.Exposure(mark)
		upnl := pos.UnrealizedPnL(mark)
		rep.GlobalExposure += exposure
		rep.GlobalUnrealizedPnL += upnl

		if exposure > th.SizeThreshold && upnl < th.LossThreshold {
			e.liquidate(owner, net, exposure, upnl, mark)
			rep.Liquidated = append(rep.Liquidated, owner)
		}
	}

	metrics.MarkPrice.Set(mark)
	metrics.GlobalExposure.Set(rep.GlobalExposure)
	return rep
}

// liquidate 停掉参与者并以市价全量平仓。
func (e *Evaluator) liquidate(owner string, net, exposure, upnl, mark float64) {
	e.mu.Lock()
	e.liquidated[owner] = struct{}{}
	e.count++
	subs := e.onLiq
	e.mu.Unlock()

	metrics.LiquidationsTotal.Inc()
	e.log.Warn("liquidation",
		zap.String("owner", owner),
		zap.Float64("net", net),
		zap.Float64("exposure", exposure),
		zap.Float64("unrealized_pnl", upnl),
		zap.Float64("mark", mark),
	)

	for _, fn := range subs {
		fn(owner)
	}

	side := order.Ask
	qty := net
	if net < 0 {
		side = order.Bid
		qty = -net
	}
	if e.sub != nil {
		if err := e.sub.SubmitMarket(owner, side, qty); err != nil {
			e.log.Error("liquidation_submit_failed", zap.String("owner", owner), zap.Error(err))
		}
	}
}
