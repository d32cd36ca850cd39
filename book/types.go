package book

import (
	"time"

	"matchcore-go/order"
)

// Trade 一笔成交，写入后不可变。
// Maker 为被动方（挂单方），Taker 为主动方。
type Trade struct {
	Price      float64
	Qty        float64
	Ts         time.Time
	MakerOrder uint64
	TakerOrder uint64
	MakerOwner string
	TakerOwner string
	TakerSide  order.Side
}

// Result 一次提交的结果：成交明细与剩余状态。
type Result struct {
	OrderID uint64
	Status  order.Status
	Filled  float64 // 本次提交累计成交量
	Trades  []Trade
	Rested  bool // 是否仍有剩余量挂在簿上（仅限价单可能）
}

// Level 按价位聚合后的档位。
type Level struct {
	Price  float64
	Volume float64
}

// Snapshot 簿快照，买卖双边按优先级从优到劣排列。
type Snapshot struct {
	Bids []Level
	Asks []Level
}
