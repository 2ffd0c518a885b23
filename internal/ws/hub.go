package ws

import (
	"encoding/json"
	"sync"
	"time"

	"go-stockledger/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

// Event is one entry on the live activity feed pushed to dashboard clients
// after a ledger mutation commits.
type Event struct {
	Type    string      `json:"type"`
	Actor   string      `json:"actor"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	At      time.Time   `json:"at"`
}

const (
	EventStockAdjusted   = "stock_adjusted"
	EventOrderCreated    = "order_created"
	EventStatusChanged   = "status_changed"
	EventPaymentReceived = "payment_received"
	EventExpenseRecorded = "expense_recorded"
)

type Hub struct {
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	broadcast  chan []byte
	clients    map[*websocket.Conn]bool
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 16),
		clients:    make(map[*websocket.Conn]bool),
	}
}

// Publish marshals and queues an event for all connected clients. Safe to
// call from any goroutine; never blocks the committing operation.
func (h *Hub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	msg, err := json.Marshal(event)
	if err != nil {
		logger.Get().WithField("module", "ws").Warn("drop unmarshalable event: ", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		logger.Get().WithField("module", "ws").Warn("activity feed backlog full, dropping event")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			logger.Get().WithField("module", "ws").Debug("activity feed client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
