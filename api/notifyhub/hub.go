package notifyhub

import (
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/imageshare/imageshare-go/types"
)

// client wraps a connection with its write lock. Task goroutines broadcast
// concurrently and gorilla allows at most one writer per connection, so
// every write goes through wmu.
type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub holds WebSocket connections and broadcasts notifications to all clients.
// Progress ticks arrive once per transport read across every in-flight task,
// so those are throttled; everything else goes out unconditionally.
type Hub struct {
	mu       sync.RWMutex
	conns    map[*websocket.Conn]*client
	progress *rate.Limiter
}

// New creates a new notify hub.
func New() *Hub {
	return &Hub{
		conns:    make(map[*websocket.Conn]*client),
		progress: rate.NewLimiter(rate.Limit(20), 5), // 20 progress frames/s is plenty for a UI
	}
}

// Register adds a WebSocket connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = &client{conn: conn}
}

// Unregister removes a WebSocket connection from the hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Broadcast sends the notification as JSON to all registered connections.
func (h *Hub) Broadcast(notification *types.Notification) {
	if notification == nil {
		return
	}
	if notification.Type == types.NotifyTypeTaskProgress && !h.progress.Allow() {
		return
	}
	payload, err := sonic.Marshal(notification)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.conns))
	for _, c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		_ = c.write(payload)
	}
}
