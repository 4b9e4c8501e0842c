package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/messaging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
)

// StreamHandlers upgrades dashboard clients onto the websocket alert feed.
type StreamHandlers struct {
	broadcaster *messaging.AlertBroadcaster
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

// NewStreamHandlers creates stream handlers with injected dependencies
func NewStreamHandlers(broadcaster *messaging.AlertBroadcaster, logger *logging.ChanneledLogger) *StreamHandlers {
	return &StreamHandlers{
		broadcaster: broadcaster,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is already enforced by the CORS layer for the
			// pre-upgrade request.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetStream handles GET /api/v1/dashboard/stream
func (h *StreamHandlers) GetStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Socket().Error("Websocket upgrade failed", "error", err.Error(), "remote", c.ClientIP())
		return
	}

	h.broadcaster.Register(conn)

	// Drain the connection until the client goes away; the feed is
	// one-directional.
	go func() {
		defer h.broadcaster.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
