package exec

import (
	"errors"
	"fmt"
	"math"

	"matchcore-go/order"
)

// epsilon 剩余量低于该值视为执行完毕。
const epsilon = 1e-4

// Strategy 执行策略。
type Strategy int

const (
	TWAP Strategy = iota
	VWAP
)

func (s Strategy) String() string {
	switch s {
	case TWAP:
		return "TWAP"
	case VWAP:
		return "VWAP"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Submitter 子单下发口，由撮合入口实现。
type Submitter interface {
	SubmitMarket(owner string, side order.Side, qty float64) error
}

var (
	ErrInvalidSize     = errors.New("exec total size must be > 0")
	ErrInvalidDuration = errors.New("exec duration ticks must be > 0")
)

// Config 母单参数。
type Config struct {
	Owner         string
	Side          order.Side
	Strategy      Strategy
	TotalSize     float64
	DurationTicks int
	TargetChunk   float64 // 单笔子单参考量；缺省为 TotalSize/10
	MinChunk      float64 // TWAP 子单下限
}

func (c *Config) defaults() error {
	if c.TotalSize <= 0 {
		return ErrInvalidSize
	}
	if c.DurationTicks <= 0 {
		return ErrInvalidDuration
	}
	if c.TargetChunk <= 0 {
		c.TargetChunk = c.TotalSize / 10
	}
	return nil
}

// Algo 把一张母单拆成若干市价子单，按 tick 节奏下发。
// RemainingSize 按「请求量」而非实际成交量递减；
// 执行滑点不回灌到算法账目，这是沿用下来的既定行为。
type Algo struct {
	id       uint64
	cfg      Config
	interval int

	remaining float64
	executed  float64
	elapsed   int
	active    bool

	sub Submitter
}

func newAlgo(id uint64, cfg Config, sub Submitter) *Algo {
	chunks := cfg.TotalSize / cfg.TargetChunk
	interval := 1
	if chunks > 0 {
		interval = int(math.Floor(float64(cfg.DurationTicks) / chunks))
		if interval < 1 {
			interval = 1
		}
	}
	return &Algo{
		id:        id,
		cfg:       cfg,
		interval:  interval,
		remaining: cfg.TotalSize,
		active:    true,
		sub:       sub,
	}
}

func (a *Algo) ID() uint64         { return a.id }
func (a *Algo) Active() bool       { return a.active }
func (a *Algo) Remaining() float64 { return a.remaining }
func (a *Algo) Elapsed() int       { return a.elapsed }

// Tick 推进一个模拟步。到期或执行完毕后转入非活跃，等待回收。
func (a *Algo) Tick() {
	if !a.active {
		return
	}
	a.elapsed++
	if a.remaining <= epsilon {
		a.active = false
		return
	}
	// 到达周期节点或最后一个 tick 时下发子单
	if a.elapsed%a.interval == 0 || a.elapsed >= a.cfg.DurationTicks {
		a.executeChunk()
	}
	if a.remaining <= epsilon || a.elapsed >= a.cfg.DurationTicks {
		a.active = false
	}
}

// executeChunk 计算本次子单量并按市价下发。
func (a *Algo) executeChunk() {
	var chunk float64
	progress := float64(a.elapsed) / float64(a.cfg.DurationTicks)
	switch a.cfg.Strategy {
	case VWAP:
		// 正弦成交量轮廓：盘中参与度更高
		chunk = a.cfg.TargetChunk * (0.5 + math.Sin(math.Pi*progress))
	default:
		// 向均匀执行曲线回归，可自动补上跳过的 tick
		target := a.cfg.TotalSize * progress
		chunk = target - a.executed
		if chunk < a.cfg.MinChunk {
			chunk = a.cfg.MinChunk
		}
	}
	if chunk <= 0 {
		return
	}
	if chunk > a.remaining {
		chunk = a.remaining
	}

	if err := a.sub.SubmitMarket(a.cfg.Owner, a.cfg.Side, chunk); err != nil {
		// 拒单不重试；母单账目不变，等下一个节点
		return
	}
	a.executed += chunk
	a.remaining -= chunk
	if a.remaining < 0 {
		a.remaining = 0
	}
}
