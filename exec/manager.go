package exec

import (
	"errors"

	"go.uber.org/zap"
)

var ErrUnknownAlgo = errors.New("unknown exec algo")

// Manager 持有全部执行算法。Tick 按启动顺序推进（确定性回放依赖该顺序），
// 已完成的算法在每轮 Tick 末尾回收。
type Manager struct {
	sub    Submitter
	log    *zap.Logger
	nextID uint64
	algos  []*Algo
}

func NewManager(sub Submitter, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{sub: sub, log: log}
}

// Start 启动一张母单。
func (m *Manager) Start(cfg Config) (*Algo, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}
	m.nextID++
	a := newAlgo(m.nextID, cfg, m.sub)
	m.algos = append(m.algos, a)
	m.log.Info("exec_start",
		zap.Uint64("algo_id", a.id),
		zap.String("owner", cfg.Owner),
		zap.String("strategy", cfg.Strategy.String()),
		zap.String("side", cfg.Side.String()),
		zap.Float64("total", cfg.TotalSize),
		zap.Int("duration_ticks", cfg.DurationTicks),
	)
	return a, nil
}

// Cancel 终止一张母单。只允许在两次 Tick 之间调用。
func (m *Manager) Cancel(id uint64) error {
	for _, a := range m.algos {
		if a.id == id && a.active {
			a.active = false
			m.log.Info("exec_cancel", zap.Uint64("algo_id", id), zap.Float64("remaining", a.remaining))
			return nil
		}
	}
	return ErrUnknownAlgo
}

// Tick 推进所有算法一步并回收完成者。
func (m *Manager) Tick() {
	for _, a := range m.algos {
		a.Tick()
	}
	kept := m.algos[:0]
	for _, a := range m.algos {
		if a.active {
			kept = append(kept, a)
			continue
		}
		m.log.Info("exec_done",
			zap.Uint64("algo_id", a.id),
			zap.Float64("executed", a.executed),
			zap.Float64("remaining", a.remaining),
			zap.Int("elapsed", a.elapsed),
		)
	}
	for i := len(kept); i < len(m.algos); i++ {
		m.algos[i] = nil
	}
	m.algos = kept
}

// ActiveCount 返回仍在执行中的算法数量。
func (m *Manager) ActiveCount() int { return len(m.algos) }
