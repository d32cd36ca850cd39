package book

import (
	"errors"
	"sync"
	"time"

	"matchcore-go/order"
)

var ErrUnknownOrder = errors.New("unknown order")

// Book 单一标的的中央限价簿，价格优先、同价位时间优先。
// 所有变更都在撮合内完成；撮合结束后簿上不允许存在交叉。
type Book struct {
	mu     sync.RWMutex
	bids   *sideBook
	asks   *sideBook
	orders map[uint64]*order.Order // 仅索引在簿订单
	ids    order.IDAllocator
	seq    uint64
	sm     *order.StateMachine

	trades    []Trade
	lastPrice float64

	subMu sync.RWMutex
	subs  []func(Trade)
}

func New() *Book {
	return &Book{
		bids:   newSideBook(order.Bid),
		asks:   newSideBook(order.Ask),
		orders: make(map[uint64]*order.Order),
		sm:     order.NewStateMachine(),
	}
}

// OnTrade 注册成交回调；回调在撮合锁之外同步触发。
func (b *Book) OnTrade(fn func(Trade)) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	b.subs = append(b.subs, fn)
}

// Submit 提交订单并立即撮合。
// 限价单先挂入再撮合至不再交叉；市价单直接吃对手盘，剩余量丢弃（绝不挂簿）。
// 非法订单同步拒绝，不改变簿状态。
func (b *Book) Submit(o order.Order) (Result, error) {
	if err := o.Validate(); err != nil {
		return Result{Status: order.StatusRejected}, err
	}

	b.mu.Lock()
	o.ID = b.ids.Next()
	b.seq++
	o.Seq = b.seq
	o.Status = order.StatusNew

	res := Result{OrderID: o.ID, Status: order.StatusNew}

	switch o.Type {
	case order.Market:
		b.matchMarket(&o, &res)
	default:
		b.sideFor(o.Side).add(&o)
		b.orders[o.ID] = &o
		b.matchCrossed(&res)
		if o.Quantity > 0 {
			res.Rested = true
		}
	}
	res.Status = o.Status
	b.mu.Unlock()

	b.notify(res.Trades)
	return res, nil
}

// Cancel 撤掉在簿订单；终态订单或未知订单返回 ErrUnknownOrder。
func (b *Book) Cancel(id uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok || !b.sm.CanCancel(o.Status) {
		return ErrUnknownOrder
	}
	if !b.sideFor(o.Side).remove(id, o.Price) {
		return ErrUnknownOrder
	}
	delete(b.orders, id)
	o.Status = order.StatusCanceled
	return nil
}

// matchCrossed 对两笔在簿限价单撮合至不再交叉。
// 成交价由先挂入（Seq 较小）的一方决定；后到者是主动方。
func (b *Book) matchCrossed(res *Result) {
	for {
		bid, okB := b.bids.front()
		ask, okA := b.asks.front()
		if !okB || !okA || bid.Price < ask.Price {
			return
		}
		maker, taker := bid, ask
		if ask.Seq < bid.Seq {
			maker, taker = ask, bid
		}
		b.execute(maker, taker, maker.Price, minQty(bid.Quantity, ask.Quantity), res)
	}
}

// matchMarket 市价单吃对手盘；对手盘耗尽即停，不报错。
func (b *Book) matchMarket(o *order.Order, res *Result) {
	opp := b.sideFor(o.Side.Opposite())
	for o.Quantity > 0 {
		rest, ok := opp.front()
		if !ok {
			break
		}
		b.execute(rest, o, rest.Price, minQty(o.Quantity, rest.Quantity), res)
	}
	// 剩余量丢弃：市价单绝不挂簿
	if o.Quantity > 0 && !b.sm.IsFinalState(o.Status) {
		o.Status = order.StatusCanceled
	}
}

// execute 按 price/qty 撮合 maker 与 taker 各一笔。
func (b *Book) execute(maker, taker *order.Order, price, qty float64, res *Result) {
	maker.Quantity = clampQty(maker.Quantity - qty)
	taker.Quantity = clampQty(taker.Quantity - qty)

	b.settle(maker)
	b.settle(taker)

	tr := Trade{
		Price:      price,
		Qty:        qty,
		Ts:         time.Now(),
		MakerOrder: maker.ID,
		TakerOrder: taker.ID,
		MakerOwner: maker.Owner,
		TakerOwner: taker.Owner,
		TakerSide:  taker.Side,
	}
	b.trades = append(b.trades, tr)
	b.lastPrice = price
	res.Trades = append(res.Trades, tr)
	if res.OrderID == maker.ID || res.OrderID == taker.ID {
		res.Filled += qty
	}
}

// settle 成交后推进订单状态，量归零时出簿。
func (b *Book) settle(o *order.Order) {
	to := order.StatusPartial
	if o.Quantity == 0 {
		to = order.StatusFilled
	}
	if err := b.sm.ValidateTransition(o.Status, to); err == nil {
		o.Status = to
	}
	if o.Quantity == 0 {
		if _, resting := b.orders[o.ID]; resting {
			sb := b.sideFor(o.Side)
			if front, ok := sb.front(); ok && front.ID == o.ID {
				sb.popFront()
			} else {
				sb.remove(o.ID, o.Price)
			}
			delete(b.orders, o.ID)
		}
	}
}

func (b *Book) sideFor(s order.Side) *sideBook {
	if s == order.Bid {
		return b.bids
	}
	return b.asks
}

func (b *Book) notify(trades []Trade) {
	if len(trades) == 0 {
		return
	}
	b.subMu.RLock()
	subs := b.subs
	b.subMu.RUnlock()
	for _, tr := range trades {
		for _, fn := range subs {
			fn(tr)
		}
	}
}

// BestBid 返回最优买价；簿空时第二个返回值为 false。
// bestPrice 会惰性剔除空价位（改堆），所以这里必须拿写锁。
func (b *Book) BestBid() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bids.bestPrice()
}

// BestAsk 返回最优卖价。
func (b *Book) BestAsk() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.asks.bestPrice()
}

// Mid 返回中间价；缺任一侧返回 0。
func (b *Book) Mid() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	bid, okB := b.bids.bestPrice()
	ask, okA := b.asks.bestPrice()
	if !okB || !okA {
		return 0
	}
	return (bid + ask) / 2
}

// LastPrice 最近一笔成交价；无成交为 0。
func (b *Book) LastPrice() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastPrice
}

// Snapshot 输出按价位聚合的双边快照，从优到劣；depth<=0 表示全档。
func (b *Book) Snapshot(depth int) Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{
		Bids: b.bids.levels(depth),
		Asks: b.asks.levels(depth),
	}
}

// Trades 返回成交记录拷贝。
func (b *Book) Trades() []Trade {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

func minQty(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// clampQty 防止浮点误差把剩余量带成负数。
func clampQty(q float64) float64 {
	if q < 0 {
		return 0
	}
	return q
}
