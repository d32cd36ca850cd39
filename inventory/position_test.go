package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"matchcore-go/book"
	"matchcore-go/order"
)

func TestWeightedAvgCost(t *testing.T) {
	p := &Position{}
	p.ApplyFill(2, 100)
	p.ApplyFill(2, 110)
	assert.Equal(t, 4.0, p.Net())
	assert.InDelta(t, 105, p.AvgCost(), 1e-9)
}

func TestRealizedOnReduce(t *testing.T) {
	p := &Position{}
	p.ApplyFill(4, 100)
	p.ApplyFill(-2, 110) // 平一半，+20
	assert.InDelta(t, 20, p.RealizedPnL(), 1e-9)
	assert.Equal(t, 2.0, p.Net())
	assert.InDelta(t, 100, p.AvgCost(), 1e-9)

	p.ApplyFill(-2, 90) // 平剩余，-20
	assert.InDelta(t, 0, p.RealizedPnL(), 1e-9)
	assert.Equal(t, 0.0, p.Net())
	assert.Equal(t, 0.0, p.AvgCost())
}

func TestShortSide(t *testing.T) {
	p := &Position{}
	p.ApplyFill(-3, 100)
	assert.InDelta(t, 30, p.UnrealizedPnL(90), 1e-9) // 空头跌价盈利
	p.ApplyFill(3, 90)
	assert.InDelta(t, 30, p.RealizedPnL(), 1e-9)
}

func TestFlipThroughZero(t *testing.T) {
	p := &Position{}
	p.ApplyFill(2, 100)
	p.ApplyFill(-5, 120) // 平 2 赚 40，反手空 3，成本 120
	assert.InDelta(t, 40, p.RealizedPnL(), 1e-9)
	assert.Equal(t, -3.0, p.Net())
	assert.InDelta(t, 120, p.AvgCost(), 1e-9)
}

func TestExposure(t *testing.T) {
	p := &Position{}
	p.ApplyFill(-4, 50)
	assert.InDelta(t, 200, p.Exposure(50), 1e-9)
}

func TestLedgerAppliesBothSides(t *testing.T) {
	l := NewLedger()
	l.ApplyTrade(book.Trade{
		Price: 100, Qty: 5,
		MakerOwner: "maker", TakerOwner: "taker",
		TakerSide: order.Bid,
	})
	assert.Equal(t, 5.0, l.Position("taker").Net())
	assert.Equal(t, -5.0, l.Position("maker").Net())
	assert.Len(t, l.Owners(), 2)
}
