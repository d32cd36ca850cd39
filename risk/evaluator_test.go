package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchcore-go/book"
	"matchcore-go/inventory"
	"matchcore-go/order"
)

// bookLiquidator 把强平单转成真实的簿内市价单。
type bookLiquidator struct{ b *book.Book }

func (bl bookLiquidator) SubmitMarket(owner string, side order.Side, qty float64) error {
	_, err := bl.b.Submit(order.Order{Owner: owner, Side: side, Type: order.Market, Quantity: qty})
	return err
}

func TestThresholdValidation(t *testing.T) {
	assert.ErrorIs(t, Thresholds{SizeThreshold: 0, LossThreshold: -1}.Validate(), ErrBadSizeThreshold)
	assert.ErrorIs(t, Thresholds{SizeThreshold: 1, LossThreshold: 0}.Validate(), ErrBadLossThreshold)
	assert.NoError(t, Thresholds{SizeThreshold: 1, LossThreshold: -1}.Validate())
}

func TestNoTriggerWhenOnlyOneConditionHolds(t *testing.T) {
	ledger := inventory.NewLedger()
	ev, err := NewEvaluator(Thresholds{SizeThreshold: 500, LossThreshold: -50}, ledger, nil, nil)
	require.NoError(t, err)

	// 大仓位但仍盈利：不触发
	ledger.Position("whale").ApplyFill(10, 100)
	rep := ev.Evaluate(110)
	assert.Empty(t, rep.Liquidated)
	assert.InDelta(t, 1100, rep.GlobalExposure, 1e-9)
	assert.InDelta(t, 100, rep.GlobalUnrealizedPnL, 1e-9)

	// 亏损但仓位价值低于阈值：不触发
	ledger2 := inventory.NewLedger()
	ev2, _ := NewEvaluator(Thresholds{SizeThreshold: 500, LossThreshold: -5}, ledger2, nil, nil)
	ledger2.Position("small").ApplyFill(1, 100)
	rep = ev2.Evaluate(80)
	assert.Empty(t, rep.Liquidated)
	assert.Equal(t, uint64(0), ev2.LiquidationCount())
}

func TestLiquidationFlattensPosition(t *testing.T) {
	b := book.New()
	ledger := inventory.NewLedger()
	b.OnTrade(ledger.ApplyTrade)

	// whale 多头 10 @ 100
	ledger.Position("whale").ApplyFill(10, 100)
	// 对手盘挂足量买单，强平卖单能全部吃掉
	_, err := b.Submit(order.Order{Owner: "mm", Side: order.Bid, Type: order.Limit, Price: 90, Quantity: 20})
	require.NoError(t, err)

	ev, err := NewEvaluator(Thresholds{SizeThreshold: 500, LossThreshold: -50}, ledger, bookLiquidator{b}, nil)
	require.NoError(t, err)

	var stopped []string
	ev.OnLiquidation(func(owner string) { stopped = append(stopped, owner) })

	rep := ev.Evaluate(90) // 敞口 900 > 500，浮亏 -100 < -50
	require.Equal(t, []string{"whale"}, rep.Liquidated)
	assert.Equal(t, uint64(1), ev.LiquidationCount())
	assert.Equal(t, []string{"whale"}, stopped)

	// 仓位被打平，成交可见于成交记录
	assert.InDelta(t, 0, ledger.Position("whale").Net(), 1e-9)
	trades := b.Trades()
	require.NotEmpty(t, trades)
	last := trades[len(trades)-1]
	assert.Equal(t, "whale", last.TakerOwner)
	assert.Equal(t, order.Ask, last.TakerSide)

	// 已强平的参与者不会被重复处理
	rep = ev.Evaluate(90)
	assert.Empty(t, rep.Liquidated)
	assert.Equal(t, uint64(1), ev.LiquidationCount())
}

func TestLiquidationCascade(t *testing.T) {
	b := book.New()
	ledger := inventory.NewLedger()
	b.OnTrade(ledger.ApplyTrade)

	ledger.Position("a").ApplyFill(10, 100)
	ledger.Position("b").ApplyFill(10, 100)
	// 仅有低价买单承接，强平会把 lastPrice 打到 80
	b.Submit(order.Order{Owner: "mm", Side: order.Bid, Type: order.Limit, Price: 80, Quantity: 40})

	ev, err := NewEvaluator(Thresholds{SizeThreshold: 500, LossThreshold: -50}, ledger, bookLiquidator{b}, nil)
	require.NoError(t, err)

	// 第一轮：mark=92 时 a、b 均越限，一轮内连锁强平两家
	rep := ev.Evaluate(92)
	assert.Len(t, rep.Liquidated, 2)
	assert.Equal(t, uint64(2), ev.LiquidationCount())
	assert.Equal(t, 80.0, b.LastPrice())
	assert.InDelta(t, 0, ledger.Position("a").Net(), 1e-9)
	assert.InDelta(t, 0, ledger.Position("b").Net(), 1e-9)
}

func TestSetThresholds(t *testing.T) {
	ev, err := NewEvaluator(Thresholds{SizeThreshold: 1, LossThreshold: -1}, inventory.NewLedger(), nil, nil)
	require.NoError(t, err)
	assert.Error(t, ev.SetThresholds(Thresholds{SizeThreshold: -1, LossThreshold: -1}))
	assert.NoError(t, ev.SetThresholds(Thresholds{SizeThreshold: 10, LossThreshold: -10}))
}
