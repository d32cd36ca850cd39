package inventory

import (
	"sync"

	"matchcore-go/book"
	"matchcore-go/order"
)

// Ledger 维护全部参与者的仓位，按成交归属双边入账。
type Ledger struct {
	mu        sync.RWMutex
	positions map[string]*Position
}

func NewLedger() *Ledger {
	return &Ledger{positions: make(map[string]*Position)}
}

// Position 返回参与者仓位，不存在则创建。
func (l *Ledger) Position(owner string) *Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.positions[owner]
	if !ok {
		p = &Position{}
		l.positions[owner] = p
	}
	return p
}

// ApplyTrade 把一笔成交记到 maker/taker 双方仓位上。
func (l *Ledger) ApplyTrade(tr book.Trade) {
	takerDelta := tr.Qty
	if tr.TakerSide == order.Ask {
		takerDelta = -tr.Qty
	}
	if tr.TakerOwner != "" {
		l.Position(tr.TakerOwner).ApplyFill(takerDelta, tr.Price)
	}
	if tr.MakerOwner != "" {
		l.Position(tr.MakerOwner).ApplyFill(-takerDelta, tr.Price)
	}
}

// Owners 返回当前有记录的参与者列表。
func (l *Ledger) Owners() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.positions))
	for o := range l.positions {
		out = append(out, o)
	}
	return out
}
