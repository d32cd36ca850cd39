package bot

import (
	"math/rand"

	"matchcore-go/market"
	"matchcore-go/order"
)

// View 每个 tick 提供给 bot 的市场视图。
// Rand 为共享且带种子的随机源；bot 按固定顺序消费它，回放才可复现。
type View struct {
	Tick    int
	Mark    float64
	BestBid float64
	BestAsk float64
	Ind     *market.Indicators
	Rand    *rand.Rand
}

// Intent 一条下单意图，由管理器落实为真实订单。
type Intent struct {
	Side  order.Side
	Type  order.Type
	Price float64
	Qty   float64
}

// Bot 参与者策略。
type Bot interface {
	ID() string
	OnTick(v View) []Intent
}
