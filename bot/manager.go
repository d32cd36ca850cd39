package bot

import (
	"sync"

	"go.uber.org/zap"

	"matchcore-go/book"
	"matchcore-go/order"
)

// Submitter 订单落地口，*book.Book 直接满足。
type Submitter interface {
	Submit(o order.Order) (book.Result, error)
}

// Manager 持有全部 bot，按注册顺序驱动（固定顺序，确定性回放）。
// 被强平的 bot 从活跃集合移除，之后不再下单。
type Manager struct {
	mu     sync.RWMutex
	bots   []Bot
	active map[string]bool
	sub    Submitter
	log    *zap.Logger
}

func NewManager(sub Submitter, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		active: make(map[string]bool),
		sub:    sub,
		log:    log,
	}
}

// Register 注册 bot 并标记为活跃。
func (m *Manager) Register(b Bot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bots = append(m.bots, b)
	m.active[b.ID()] = true
}

// Deactivate 停掉一个参与者（风控强平回调走这里）。
func (m *Manager) Deactivate(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active[owner] {
		m.active[owner] = false
		m.log.Info("bot_deactivated", zap.String("owner", owner))
	}
}

// IsActive 查询参与者是否仍可下单。
func (m *Manager) IsActive(owner string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[owner]
}

// ActiveCount 返回活跃 bot 数量。
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, ok := range m.active {
		if ok {
			n++
		}
	}
	return n
}

// Tick 让每个活跃 bot 产生意图并提交。拒单只记日志，不中断本轮。
func (m *Manager) Tick(v View) {
	m.mu.RLock()
	bots := m.bots
	m.mu.RUnlock()

	for _, b := range bots {
		if !m.IsActive(b.ID()) {
			continue
		}
		for _, intent := range b.OnTick(v) {
			_, err := m.sub.Submit(order.Order{
				Owner:    b.ID(),
				Side:     intent.Side,
				Type:     intent.Type,
				Price:    intent.Price,
				Quantity: intent.Qty,
			})
			if err != nil {
				m.log.Warn("bot_order_rejected",
					zap.String("owner", b.ID()),
					zap.String("side", intent.Side.String()),
					zap.Error(err),
				)
			}
		}
	}
}
