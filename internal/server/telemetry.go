package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// TelemetryHub fans control states out to WebSocket clients. The driving
// loop calls Publish once per tick; the hub never reads the camera or
// detector itself.
type TelemetryHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewTelemetryHub creates an empty hub.
func NewTelemetryHub() *TelemetryHub {
	return &TelemetryHub{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP upgrades the connection and keeps it registered until the
// client goes away.
func (h *TelemetryHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Clients only listen; reading drives ping/pong and detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends v as JSON to every connected client, dropping clients
// whose writes fail.
func (h *TelemetryHub) Publish(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(v); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *TelemetryHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
