package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
)

// HealthHandlers contains the liveness endpoint.
type HealthHandlers struct {
	cache   *manager.Manager
	started time.Time
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(cache *manager.Manager) *HealthHandlers {
	return &HealthHandlers{cache: cache, started: time.Now().UTC()}
}

// GetHealth handles GET /api/v1/health
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(h.started).String(),
		"leads":    h.cache.Leads().Count(),
		"sessions": h.cache.Sessions().Count(),
	})
}
