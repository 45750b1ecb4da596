package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/pingpoint/internal/app"
)

const (
	// clientBuffer is how many points may queue for a slow client before it
	// is dropped.
	clientBuffer = 16
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHandler pushes every published point to websocket clients as JSON.
type EventsHandler struct {
	clients map[*websocket.Conn]chan []byte
	mu      sync.RWMutex
}

// NewEventsHandler creates an EventsHandler. Call Publish for each point,
// usually by subscribing it to the session.
func NewEventsHandler() *EventsHandler {
	return &EventsHandler{
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan []byte, clientBuffer)

	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	defer h.remove(conn)

	go h.writeLoop(conn, send)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *EventsHandler) writeLoop(conn *websocket.Conn, send <-chan []byte) {
	for msg := range send {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			return
		}
	}
}

func (h *EventsHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if send, ok := h.clients[conn]; ok {
		close(send)
		delete(h.clients, conn)
	}
}

// Publish queues p for every connected client without blocking. Clients
// whose queue is full miss the point.
func (h *EventsHandler) Publish(p app.Point) {
	msg, err := json.Marshal(p)
	if err != nil {
		log.Printf("Failed to encode point: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, send := range h.clients {
		select {
		case send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
