package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mediconnect/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

// Push is the payload delivered to identified clients.
type Push struct {
	Type          string `json:"type"`
	AppointmentID string `json:"appointmentId"`
	NewStatus     string `json:"newStatus,omitempty"`
	Message       string `json:"message"`
}

// connection represents a single websocket client. A connection delivers
// nothing until it has been identified with a recipient.
type connection struct {
	conn        *websocket.Conn
	send        chan []byte
	connectedAt time.Time

	recipient  domain.Recipient
	identified bool
}

// Hub owns the live connection table. Connections are registered on
// upgrade, bound to a recipient by an identify message (or a pre-validated
// token), and dropped on disconnect. Publish touches the table read-only.
type Hub struct {
	mu          sync.RWMutex
	conns       map[*connection]struct{}
	byRecipient map[domain.Recipient]map[*connection]struct{}
	closed      bool
}

func NewHub() *Hub {
	return &Hub{
		conns:       make(map[*connection]struct{}),
		byRecipient: make(map[domain.Recipient]map[*connection]struct{}),
	}
}

func (h *Hub) register(c *connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[c] = struct{}{}
	if c.identified {
		h.bindLocked(c)
	}
	return true
}

// identify binds an already-registered connection to a recipient. Repeated
// identify messages rebind the connection.
func (h *Hub) identify(c *connection, r domain.Recipient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		return
	}
	if c.identified {
		h.unbindLocked(c)
	}
	c.recipient = r
	c.identified = true
	h.bindLocked(c)
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		return
	}
	delete(h.conns, c)
	if c.identified {
		h.unbindLocked(c)
	}
	close(c.send)
}

func (h *Hub) bindLocked(c *connection) {
	set, ok := h.byRecipient[c.recipient]
	if !ok {
		set = make(map[*connection]struct{})
		h.byRecipient[c.recipient] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unbindLocked(c *connection) {
	if set, ok := h.byRecipient[c.recipient]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byRecipient, c.recipient)
		}
	}
}

// Publish delivers the push to every connection identified as one of the
// targets. Delivery is best-effort and independent per connection: a slow
// client's full buffer is skipped and logged, never waited on. Clients that
// miss a push recover from the stored notifications on reconnect.
func (h *Hub) Publish(targets []domain.Recipient, p Push) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, target := range targets {
		for c := range h.byRecipient[target] {
			select {
			case c.send <- data:
			default:
				log.Printf("realtime: dropped push type=%s recipient=%s:%d (slow client)",
					p.Type, target.Role, target.ID)
			}
		}
	}
}

// ConnectionCount reports how many live connections are identified with the
// recipient.
func (h *Hub) ConnectionCount(r domain.Recipient) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byRecipient[r])
}

// Close tears the hub down: all live connections are closed and further
// registrations are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.conns {
		if c.identified {
			h.unbindLocked(c)
		}
		delete(h.conns, c)
		close(c.send)
	}
}

// ServeWS runs the read/write pumps for a new connection. If identified is
// non-nil the connection starts out bound to that recipient (token auth on
// the upgrade request); otherwise it stays silent until the client sends an
// identify message. Blocks until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, identified *domain.Recipient) {
	c := &connection{
		conn:        conn,
		send:        make(chan []byte, 64),
		connectedAt: time.Now(),
	}
	if identified != nil {
		c.recipient = *identified
		c.identified = true
	}

	if !h.register(c) {
		conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var m struct {
			Type        string      `json:"type"`
			RecipientID int64       `json:"recipientId"`
			Role        domain.Role `json:"role"`
		}
		if err := json.Unmarshal(msg, &m); err != nil {
			continue
		}

		switch m.Type {
		case "identify":
			if m.RecipientID > 0 && m.Role.Valid() {
				h.identify(c, domain.Recipient{ID: m.RecipientID, Role: m.Role})
			}
		}
	}
}

func (h *Hub) writePump(c *connection) {
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
