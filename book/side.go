package book

import (
	"sort"

	"matchcore-go/order"
	"matchcore-go/pqueue"
)

// sideBook 单边簿：价位 -> FIFO 队列，堆维护最优价。
// 堆里只在价位新建时压入一次，价位清空后在 bestPrice 里惰性剔除。
type sideBook struct {
	side   order.Side
	prices *pqueue.Queue[float64]
	queues map[float64][]*order.Order
}

func newSideBook(s order.Side) *sideBook {
	var less func(a, b float64) bool
	if s == order.Bid {
		less = func(a, b float64) bool { return a > b } // 买方高价优先
	} else {
		less = func(a, b float64) bool { return a < b } // 卖方低价优先
	}
	return &sideBook{
		side:   s,
		prices: pqueue.New(less),
		queues: make(map[float64][]*order.Order),
	}
}

// add 挂入新订单；同价位按到达顺序排队（FIFO）。
func (sb *sideBook) add(o *order.Order) {
	if len(sb.queues[o.Price]) == 0 {
		sb.prices.Push(o.Price)
	}
	sb.queues[o.Price] = append(sb.queues[o.Price], o)
}

// bestPrice 返回当前最优价；剔除已清空的价位。
// 注意：这是一个写操作（动堆和价位表），调用方必须持有簿的写锁。
func (sb *sideBook) bestPrice() (float64, bool) {
	for {
		p, ok := sb.prices.Peek()
		if !ok {
			return 0, false
		}
		if len(sb.queues[p]) > 0 {
			return p, true
		}
		delete(sb.queues, p)
		sb.prices.Pop()
	}
}

// front 返回最优价位队首订单。
func (sb *sideBook) front() (*order.Order, bool) {
	p, ok := sb.bestPrice()
	if !ok {
		return nil, false
	}
	return sb.queues[p][0], true
}

// popFront 移除最优价位队首订单（已成交完毕时调用）。
func (sb *sideBook) popFront() {
	p, ok := sb.bestPrice()
	if !ok {
		return
	}
	q := sb.queues[p]
	q[0] = nil
	sb.queues[p] = q[1:]
}

// remove 按订单号撤出指定订单；不在簿上返回 false。
func (sb *sideBook) remove(id uint64, price float64) bool {
	q, ok := sb.queues[price]
	if !ok {
		return false
	}
	for i, o := range q {
		if o.ID == id {
			sb.queues[price] = append(q[:i:i], q[i+1:]...)
			return true
		}
	}
	return false
}

// levels 按优先级输出聚合档位；depth<=0 表示全部。
func (sb *sideBook) levels(depth int) []Level {
	prices := make([]float64, 0, len(sb.queues))
	for p, q := range sb.queues {
		if len(q) > 0 {
			prices = append(prices, p)
		}
	}
	if sb.side == order.Bid {
		sort.Sort(sort.Reverse(sort.Float64Slice(prices)))
	} else {
		sort.Float64s(prices)
	}
	if depth > 0 && len(prices) > depth {
		prices = prices[:depth]
	}
	out := make([]Level, 0, len(prices))
	for _, p := range prices {
		var vol float64
		for _, o := range sb.queues[p] {
			vol += o.Quantity
		}
		out = append(out, Level{Price: p, Volume: vol})
	}
	return out
}
