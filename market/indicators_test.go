package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryRingWraps(t *testing.T) {
	h := NewHistory(3)
	for _, p := range []float64{1, 2, 3, 4, 5} {
		h.Push(p)
	}
	if h.Len() != 3 {
		t.Fatalf("expected len 3 got %d", h.Len())
	}
	got := h.Last(3)
	want := []float64{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}
	if latest, _ := h.Latest(); latest != 5 {
		t.Fatalf("expected latest 5 got %f", latest)
	}
}

func TestSMA(t *testing.T) {
	ind := NewIndicators(0)
	assert.Equal(t, 0.0, ind.SMA(5))
	for _, p := range []float64{10, 20, 30} {
		ind.Record(p)
	}
	assert.InDelta(t, 20, ind.SMA(3), 1e-9)
	// 样本不足时用可用数据
	assert.InDelta(t, 20, ind.SMA(10), 1e-9)
}

func TestEMASeedsWithSMA(t *testing.T) {
	ind := NewIndicators(0)
	for _, p := range []float64{10, 12, 14} {
		ind.Record(p)
	}
	// 首次调用：无种子，等于 SMA(3)=12
	assert.InDelta(t, 12, ind.EMA(3), 1e-9)

	ind.Record(16)
	k := 2.0 / 4.0
	want := 16*k + 12*(1-k)
	assert.InDelta(t, want, ind.EMA(3), 1e-9)
}

func TestRSIBoundaries(t *testing.T) {
	const period = 14

	// 样本不足 -> 中性 50
	ind := NewIndicators(0)
	ind.Record(100)
	assert.Equal(t, 50.0, ind.RSI(period))

	// 单调上涨 -> avgLoss 为 0 -> 100
	up := NewIndicators(0)
	for i := 0; i <= period+2; i++ {
		up.Record(100 + float64(i))
	}
	assert.Equal(t, 100.0, up.RSI(period))

	// 单调下跌 -> 走 avgLoss 分支，结果为 0 且绝不为 NaN/Inf
	down := NewIndicators(0)
	for i := 0; i <= period+2; i++ {
		down.Record(200 - float64(i))
	}
	rsi := down.RSI(period)
	assert.False(t, math.IsNaN(rsi) || math.IsInf(rsi, 0))
	assert.InDelta(t, 0, rsi, 1e-9)
}

func TestRealizedVol(t *testing.T) {
	ind := NewIndicators(0)
	assert.Equal(t, 0.0, ind.RealizedVol(20))
	// 恒定价格 -> 波动率为 0
	for i := 0; i < 10; i++ {
		ind.Record(100)
	}
	assert.InDelta(t, 0, ind.RealizedVol(10), 1e-12)
	// 有波动时应为正
	ind.Record(101)
	ind.Record(99)
	assert.Greater(t, ind.RealizedVol(10), 0.0)
}
