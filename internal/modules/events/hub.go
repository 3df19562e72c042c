package events

import (
	"sync"
	"time"

	"voyarental/internal/domain"

	"github.com/gorilla/websocket"
)

// Hub pushes live payment and booking events to connected admin dashboards.
// One connection per admin, a reconnect replaces the previous socket.
type Hub struct {
	connections map[int64]*websocket.Conn
	mutex       sync.RWMutex
	loggerf     func(format string, args ...interface{})
}

func NewHub(loggerf func(format string, args ...interface{})) *Hub {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Hub{
		connections: make(map[int64]*websocket.Conn),
		loggerf:     loggerf,
	}
}

type Event struct {
	Type string      `json:"type"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data"`
}

func (h *Hub) Register(adminID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if oldConn, exists := h.connections[adminID]; exists && oldConn != nil {
		_ = oldConn.Close()
	}

	h.connections[adminID] = conn
}

func (h *Hub) Unregister(adminID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[adminID]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, adminID)
	}
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

// Broadcast fans the event out to every connected admin. Dead connections are
// dropped on write failure.
func (h *Hub) Broadcast(e Event) {
	h.mutex.RLock()
	targets := make(map[int64]*websocket.Conn, len(h.connections))
	for id, conn := range h.connections {
		targets[id] = conn
	}
	h.mutex.RUnlock()

	for id, conn := range targets {
		if conn == nil {
			continue
		}
		if err := conn.WriteJSON(e); err != nil {
			h.loggerf("level=warn msg=dropping dead dashboard connection admin_id=%d err=%v", id, err)
			h.Unregister(id)
		}
	}
}

// PaymentCompleted notifies dashboards that a payment settled.
func (h *Hub) PaymentCompleted(p *domain.Payment) {
	h.Broadcast(Event{
		Type: "payment.completed",
		At:   time.Now().UTC(),
		Data: p,
	})
}

// BookingCreated notifies dashboards about a fresh booking.
func (h *Hub) BookingCreated(b *domain.Booking) {
	h.Broadcast(Event{
		Type: "booking.created",
		At:   time.Now().UTC(),
		Data: b,
	})
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for adminID, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, adminID)
	}
}
