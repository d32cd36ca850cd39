package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchcore-go/bot"
	"matchcore-go/exec"
	"matchcore-go/order"
	"matchcore-go/risk"
)

func testOptions() Options {
	return Options{
		Seed:        7,
		InitialMark: 100,
		Thresholds:  risk.Thresholds{SizeThreshold: 1e6, LossThreshold: -1e6},
	}
}

func TestRunnerRejectsBadOptions(t *testing.T) {
	_, err := NewRunner(Options{InitialMark: 0, Thresholds: risk.Thresholds{SizeThreshold: 1, LossThreshold: -1}})
	assert.Error(t, err)
	_, err = NewRunner(Options{InitialMark: 100, Thresholds: risk.Thresholds{}})
	assert.Error(t, err)
}

func TestSubmitOrderRouting(t *testing.T) {
	r, err := NewRunner(testOptions())
	require.NoError(t, err)

	_, err = r.SubmitOrder("ui", order.Limit, order.Bid, 99, 5)
	require.NoError(t, err)
	_, err = r.SubmitOrder("ui", order.Limit, order.Ask, 0, 5)
	assert.ErrorIs(t, err, order.ErrInvalidPrice)

	snap := r.Book().Snapshot(0)
	require.Len(t, snap.Bids, 1)
	assert.Equal(t, 99.0, snap.Bids[0].Price)
}

func TestTickDrivesBotsAndFillsLedger(t *testing.T) {
	r, err := NewRunner(testOptions())
	require.NoError(t, err)
	r.RegisterBot(&bot.NoiseTrader{Name: "maker", Size: 1, Spread: 0.005})
	r.RegisterBot(&bot.NoiseTrader{Name: "taker", Size: 1, Spread: 0.005, TakerProb: 1})

	for i := 0; i < 50; i++ {
		r.Tick(0)
	}
	assert.Equal(t, 50, r.CurrentTick())
	assert.NotEmpty(t, r.Book().Trades(), "taker flow should produce fills")
	// 成交归属进账本
	assert.NotZero(t, len(r.Ledger().Owners()))
}

func TestMarkOverrideAndFallback(t *testing.T) {
	r, err := NewRunner(testOptions())
	require.NoError(t, err)

	// 无成交无挂单：退回上一个标记价
	r.Tick(0)
	assert.Equal(t, 100.0, r.Mark())

	// 外部驱动
	r.Tick(123)
	assert.Equal(t, 123.0, r.Mark())

	// 有成交后优先用成交价
	r.SubmitOrder("a", order.Limit, order.Ask, 111, 1)
	r.SubmitOrder("b", order.Market, order.Bid, 0, 1)
	r.Tick(0)
	assert.Equal(t, 111.0, r.Mark())
}

func TestExecRunsBeforeRiskEachTick(t *testing.T) {
	r, err := NewRunner(Options{
		Seed:        1,
		InitialMark: 100,
		Thresholds:  risk.Thresholds{SizeThreshold: 500, LossThreshold: -50},
	})
	require.NoError(t, err)

	// whale 以市价吃入 10 @ 100
	r.SubmitOrder("mm", order.Limit, order.Ask, 100, 10)
	_, err = r.SubmitOrder("whale", order.Market, order.Bid, 0, 10)
	require.NoError(t, err)

	// 低价承接盘：强平发生时有流动性
	r.SubmitOrder("mm", order.Limit, order.Bid, 80, 40)

	// 同一个 tick 内：TWAP 卖单先进簿压价，然后风控以新价格评估
	_, err = r.StartExec(exec.Config{
		Owner: "algo", Side: order.Ask, Strategy: exec.TWAP,
		TotalSize: 5, DurationTicks: 1,
	})
	require.NoError(t, err)

	rep := r.Tick(0)
	// TWAP 子单把 lastPrice 打到 80，whale 浮亏 -200，敞口 800 -> 强平
	assert.Contains(t, rep.Liquidated, "whale")
	assert.Equal(t, uint64(1), r.Risk().LiquidationCount())
	assert.InDelta(t, 0, r.Ledger().Position("whale").Net(), 1e-9)
}

func TestDeterministicReplay(t *testing.T) {
	run := func() []float64 {
		r, err := NewRunner(testOptions())
		require.NoError(t, err)
		r.RegisterBot(&bot.NoiseTrader{Name: "a", Size: 1, Spread: 0.01, TakerProb: 0.2})
		r.RegisterBot(&bot.NoiseTrader{Name: "b", Size: 2, Spread: 0.02, TakerProb: 0.2})
		for i := 0; i < 100; i++ {
			r.Tick(0)
		}
		var prices []float64
		for _, tr := range r.Book().Trades() {
			prices = append(prices, tr.Price, tr.Qty)
		}
		return prices
	}
	assert.Equal(t, run(), run())
}

func TestLiquidatedBotStopsTrading(t *testing.T) {
	r, err := NewRunner(Options{
		Seed:        3,
		InitialMark: 100,
		Thresholds:  risk.Thresholds{SizeThreshold: 500, LossThreshold: -50},
	})
	require.NoError(t, err)
	r.RegisterBot(&bot.MomentumTrader{Name: "whale", Size: 1, RSIPeriod: 14, Oversold: 30, Overbot: 70})
	require.Equal(t, 1, r.ActiveBots())

	// 直接构造越限仓位并触发强平
	r.Ledger().Position("whale").ApplyFill(10, 100)
	r.SubmitOrder("mm", order.Limit, order.Bid, 85, 20)
	rep := r.Tick(90)
	require.Contains(t, rep.Liquidated, "whale")
	assert.Equal(t, 0, r.ActiveBots())
}
