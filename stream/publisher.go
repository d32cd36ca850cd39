package stream

import (
	"sync"

	"matchcore-go/book"
)

// Publisher 轻量事件分发器：簿快照与成交各一路。
// 订阅通道带缓冲，消费不及时直接丢弃，不阻塞撮合线程。
type Publisher struct {
	mu        sync.RWMutex
	snapSubs  []chan book.Snapshot
	tradeSubs []chan book.Trade
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) SubscribeSnapshot() <-chan book.Snapshot {
	ch := make(chan book.Snapshot, 1)
	p.mu.Lock()
	p.snapSubs = append(p.snapSubs, ch)
	p.mu.Unlock()
	return ch
}

func (p *Publisher) SubscribeTrade() <-chan book.Trade {
	ch := make(chan book.Trade, 16)
	p.mu.Lock()
	p.tradeSubs = append(p.tradeSubs, ch)
	p.mu.Unlock()
	return ch
}

func (p *Publisher) PublishSnapshot(s book.Snapshot) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, ch := range p.snapSubs {
		select {
		case ch <- s:
		default:
		}
	}
}

func (p *Publisher) PublishTrade(t book.Trade) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, ch := range p.tradeSubs {
		select {
		case ch <- t:
		default:
		}
	}
}
