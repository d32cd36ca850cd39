package order

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Side 买卖方向，闭合枚举。
type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "BID"
	case Ask:
		return "ASK"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Opposite 返回对手方向。
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// Type 订单类型。
type Type int

const (
	Limit Type = iota
	Market
)

func (t Type) String() string {
	switch t {
	case Limit:
		return "LIMIT"
	case Market:
		return "MARKET"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

var (
	ErrInvalidQuantity = errors.New("order quantity must be > 0")
	ErrInvalidPrice    = errors.New("limit order price must be > 0")
)

// Order 单笔订单。Quantity 为剩余数量，成交时递减。
// Seq 由提交顺序单调分配，同价位按 Seq 先进先出。
type Order struct {
	ID       uint64
	Owner    string
	Side     Side
	Type     Type
	Price    float64 // MARKET 单忽略价格
	Quantity float64
	Seq      uint64
	Status   Status
}

// Validate 提交前校验；非法订单不得进入撮合。
func (o *Order) Validate() error {
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if o.Type == Limit && o.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// IDAllocator 进程内单调递增的订单号分配器。
type IDAllocator struct {
	next atomic.Uint64
}

func (a *IDAllocator) Next() uint64 {
	return a.next.Add(1)
}
