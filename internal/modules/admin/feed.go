package admin

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"artclub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // configure in prod
}

// FeedEvent is a booking lifecycle event pushed to connected admin dashboards.
type FeedEvent struct {
	Type      string    `json:"type"`
	Booking   BookingRow `json:"booking"`
	Timestamp time.Time `json:"timestamp"`
}

type feedConn struct {
	conn *websocket.Conn
	send chan []byte
}

// FeedHub fans booking lifecycle events out to all connected admin clients.
// It satisfies the LifecycleFeed interface consumed by the booking and
// payment services.
type FeedHub struct {
	mu     sync.RWMutex
	conns  map[*feedConn]bool
	logger *logrus.Logger
}

func NewFeedHub(logger *logrus.Logger) *FeedHub {
	return &FeedHub{
		conns:  make(map[*feedConn]bool),
		logger: logger,
	}
}

func (h *FeedHub) Publish(eventType string, b *domain.Booking) {
	ev := FeedEvent{
		Type:      eventType,
		Booking:   toBookingRow(b, nil),
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		select {
		case c.send <- data:
		default:
			// Client too slow — skip
		}
	}
}

// ServeWS upgrades the request and streams feed events until disconnect.
// Auth happens before the upgrade via the usual JWT/role middleware chain.
func (h *FeedHub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	fc := &feedConn{
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register(fc)

	go h.writePump(fc)
	h.readPump(fc) // blocks until disconnect
}

func (h *FeedHub) register(c *feedConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = true
}

func (h *FeedHub) unregister(c *feedConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[c] {
		delete(h.conns, c)
		close(c.send)
	}
}

func (h *FeedHub) readPump(c *feedConn) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The feed is one-way; inbound frames only keep the connection alive.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *FeedHub) writePump(c *feedConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
