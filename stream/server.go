package stream

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"matchcore-go/book"
)

// Message 推给前端渲染层的统一信封。
type Message struct {
	Type     string         `json:"type"` // snapshot | trade
	Snapshot *book.Snapshot `json:"snapshot,omitempty"`
	Trade    *book.Trade    `json:"trade,omitempty"`
}

// Server 通过 websocket 向图表/盘口渲染端广播快照与成交。
type Server struct {
	pub      *Publisher
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewServer(pub *Publisher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		pub: pub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// 本地模拟器，前端来源不受限
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP 升级连接后持续转发事件，写失败即断开。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws_upgrade_failed", zap.Error(err))
		return
	}
	s.log.Info("ws_client_connected", zap.String("remote", conn.RemoteAddr().String()))

	snaps := s.pub.SubscribeSnapshot()
	trades := s.pub.SubscribeTrade()

	go func() {
		defer conn.Close()
		for {
			var msg Message
			select {
			case snap, ok := <-snaps:
				if !ok {
					return
				}
				msg = Message{Type: "snapshot", Snapshot: &snap}
			case tr, ok := <-trades:
				if !ok {
					return
				}
				msg = Message{Type: "trade", Trade: &tr}
			}
			if err := conn.WriteJSON(msg); err != nil {
				s.log.Info("ws_client_gone", zap.Error(err))
				return
			}
		}
	}()
}
