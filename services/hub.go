// services/hub.go - WebSocket hub for live game events
package services

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Event is one message pushed to connected clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	EventLevelUp           = "level_up"
	EventLeaderboardUpdate = "leaderboard_update"
	EventDrawResult        = "draw_result"
)

// Hub fan-outs game events to all connected websocket clients. Slow or
// broken clients are dropped on write failure.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// Register adds a connection and blocks reading it until it closes.
// Intended to be the body of the websocket handler.
func (h *Hub) Register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("ws client connected (%d online)", count)

	defer h.unregister(c)
	for {
		// Clients only listen; reads just detect disconnect.
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Close()
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteJSON(event); err != nil {
			h.unregister(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
