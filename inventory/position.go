package inventory

import (
	"math"
	"sync"
)

// Position 单个参与者的净仓位。正为多头，负为空头。
// 仅通过归属于该参与者的成交变动。
type Position struct {
	mu       sync.RWMutex
	net      float64
	avgCost  float64
	realized float64
}

// ApplyFill 按成交调整仓位。deltaQty 带符号（买入为正，卖出为负）。
// 加仓按加权平均成本；减仓按均价与成交价之差落实已实现盈亏。
func (p *Position) ApplyFill(deltaQty, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if deltaQty == 0 {
		return
	}
	if p.net == 0 || sameSign(p.net, deltaQty) {
		total := p.avgCost*math.Abs(p.net) + price*math.Abs(deltaQty)
		p.net += deltaQty
		p.avgCost = total / math.Abs(p.net)
		return
	}

	// 反向成交：先平仓
	closed := math.Min(math.Abs(deltaQty), math.Abs(p.net))
	if p.net > 0 {
		p.realized += (price - p.avgCost) * closed
	} else {
		p.realized += (p.avgCost - price) * closed
	}
	p.net += deltaQty
	switch {
	case p.net == 0:
		p.avgCost = 0
	case !sameSign(p.net-deltaQty, p.net):
		// 穿仓反向：剩余部分以本次成交价为新成本
		p.avgCost = price
	}
}

// Net 返回带符号净仓位。
func (p *Position) Net() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.net
}

// AvgCost 返回加权平均成本。
func (p *Position) AvgCost() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.avgCost
}

// RealizedPnL 返回累计已实现盈亏。
func (p *Position) RealizedPnL() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.realized
}

// UnrealizedPnL 按标记价格估值未实现盈亏。
func (p *Position) UnrealizedPnL(mark float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.net == 0 {
		return 0
	}
	return (mark - p.avgCost) * p.net
}

// Exposure 返回 |net| × mark。
func (p *Position) Exposure(mark float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return math.Abs(p.net) * mark
}

func sameSign(a, b float64) bool {
	return (a > 0) == (b > 0)
}
