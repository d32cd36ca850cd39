package bot

import (
	"matchcore-go/order"
)

// NoiseTrader 围绕标记价随机双边挂单，偶尔打市价；为簿提供基础流动性。
// VolWindow > 0 时按已实现波动率放宽价差：行情越抖，挂得越远。
type NoiseTrader struct {
	Name      string
	Size      float64 // 单笔数量
	Spread    float64 // 挂单偏离标记价的最大比例
	TakerProb float64 // 打市价单的概率
	VolWindow int     // 波动率观察窗口，0 表示不启用
}

func (n *NoiseTrader) ID() string { return n.Name }

func (n *NoiseTrader) OnTick(v View) []Intent {
	if v.Mark <= 0 {
		return nil
	}
	if n.TakerProb > 0 && v.Rand.Float64() < n.TakerProb {
		side := order.Bid
		if v.Rand.Float64() < 0.5 {
			side = order.Ask
		}
		return []Intent{{Side: side, Type: order.Market, Qty: n.Size}}
	}
	spread := n.Spread
	if n.VolWindow > 0 && v.Ind != nil {
		spread *= 1 + v.Ind.RealizedVol(n.VolWindow)
	}
	offset := v.Mark * spread * v.Rand.Float64()
	return []Intent{
		{Side: order.Bid, Type: order.Limit, Price: v.Mark - offset, Qty: n.Size},
		{Side: order.Ask, Type: order.Limit, Price: v.Mark + offset, Qty: n.Size},
	}
}

// MomentumTrader 用 RSI 追势：超卖买入、超买卖出。
type MomentumTrader struct {
	Name      string
	Size      float64
	RSIPeriod int
	Oversold  float64 // 低于该值买入，常用 30
	Overbot   float64 // 高于该值卖出，常用 70
}

func (m *MomentumTrader) ID() string { return m.Name }

func (m *MomentumTrader) OnTick(v View) []Intent {
	if v.Ind == nil {
		return nil
	}
	rsi := v.Ind.RSI(m.RSIPeriod)
	switch {
	case rsi <= m.Oversold:
		return []Intent{{Side: order.Bid, Type: order.Market, Qty: m.Size}}
	case rsi >= m.Overbot:
		return []Intent{{Side: order.Ask, Type: order.Market, Qty: m.Size}}
	default:
		return nil
	}
}
