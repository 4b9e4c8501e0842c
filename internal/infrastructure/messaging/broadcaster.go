// Package messaging provides the websocket broadcaster behind the live
// dashboard feed.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
)

const writeTimeout = 10 * time.Second

// AlertBroadcaster fans dashboard events out to every connected websocket
// client. Clients that fail a write are dropped.
type AlertBroadcaster struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	logger  *logging.ChanneledLogger
}

// NewAlertBroadcaster creates an empty broadcaster.
func NewAlertBroadcaster(logger *logging.ChanneledLogger) *AlertBroadcaster {
	return &AlertBroadcaster{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// Register adds a connected dashboard client.
func (b *AlertBroadcaster) Register(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clients[conn] = true
	if b.logger != nil {
		b.logger.Socket().Debug("Dashboard client registered", "clients", len(b.clients))
	}
}

// Unregister removes a client and closes its connection.
func (b *AlertBroadcaster) Unregister(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.clients[conn]; exists {
		delete(b.clients, conn)
		conn.Close()
		if b.logger != nil {
			b.logger.Socket().Debug("Dashboard client unregistered", "clients", len(b.clients))
		}
	}
}

// ClientCount returns the number of connected dashboard clients.
func (b *AlertBroadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Broadcast sends a typed event payload to every connected client.
func (b *AlertBroadcaster) Broadcast(eventType string, payload any) {
	message, err := json.Marshal(map[string]any{
		"type":      eventType,
		"payload":   payload,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		if b.logger != nil {
			b.logger.Socket().Error("Failed to marshal broadcast event", "error", err.Error(), "eventType", eventType)
		}
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for conn := range b.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			delete(b.clients, conn)
			conn.Close()
			if b.logger != nil {
				b.logger.Socket().Debug("Dropped unresponsive dashboard client", "error", err.Error(), "clients", len(b.clients))
			}
		}
	}

	if b.logger != nil {
		b.logger.Socket().Debug("Dashboard event broadcasted", "eventType", eventType, "clients", len(b.clients))
	}
}

// Close disconnects every client.
func (b *AlertBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
}
