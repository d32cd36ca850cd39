package book

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchcore-go/order"
)

// 撤单会在堆里留下一个空价位，最优价查询要做惰性清理；
// 多个并发读方同时触发清理不得出现数据竞争（go test -race 验证）。
func TestConcurrentBestPriceAfterCancel(t *testing.T) {
	b := New()
	res, err := b.Submit(limit(order.Bid, 100, 10))
	require.NoError(t, err)
	_, err = b.Submit(limit(order.Bid, 99, 5))
	require.NoError(t, err)
	require.NoError(t, b.Cancel(res.OrderID)) // 100 档清空，价位仍在堆上

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if bid, ok := b.BestBid(); ok {
					assert.Equal(t, 99.0, bid)
				}
				b.Mid()
				_, _ = b.BestAsk()
			}
		}()
	}
	wg.Wait()

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, 99.0, bid)
}

// 读快照与撮合写入并发进行也必须安全。
func TestConcurrentReadersDuringMatching(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				b.BestBid()
				b.BestAsk()
				b.Snapshot(5)
				b.LastPrice()
			}
		}
	}()

	for i := 0; i < 200; i++ {
		b.Submit(limit(order.Bid, 100-float64(i%5), 1))
		b.Submit(limit(order.Ask, 101+float64(i%5), 1))
		if i%10 == 0 {
			b.Submit(market(order.Ask, 3))
		}
	}
	close(stop)
	wg.Wait()

	bid, okB := b.BestBid()
	ask, okA := b.BestAsk()
	if okB && okA {
		assert.Less(t, bid, ask)
	}
}
