package ws

import (
	"encoding/json"
	"errors"
	"sync"

	"go-retail-pos/internal/events"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

var ErrHubBusy = errors.New("websocket hub broadcast queue is full")

// Conn is the part of a websocket connection the hub uses.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub pushes ledger events to every connected dashboard.
type Hub struct {
	Clients    map[Conn]bool
	Register   chan Conn
	Unregister chan Conn
	Broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[Conn]bool),
		Register:   make(chan Conn),
		Unregister: make(chan Conn),
		Broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.logger.Debug("New WS client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()

		case <-h.done:
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Join registers a client. It returns at once if the hub has stopped.
func (h *Hub) Join(conn Conn) {
	select {
	case h.Register <- conn:
	case <-h.done:
		conn.Close()
	}
}

// Leave unregisters a client. It returns at once if the hub has stopped.
func (h *Hub) Leave(conn Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// Stop ends Run and closes every client.
func (h *Hub) Stop() {
	close(h.done)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish queues a ledger event for broadcast. A full queue drops the event
// rather than stall the request that produced it.
func (h *Hub) Publish(event events.LedgerEvent) error {
	msg, err := json.Marshal(map[string]interface{}{
		"type":   "stock_update",
		"action": event.Type,
		"event":  event,
	})
	if err != nil {
		return err
	}

	select {
	case h.Broadcast <- msg:
		return nil
	default:
		return ErrHubBusy
	}
}
