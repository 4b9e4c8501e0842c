// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdmarc/leadpulse-go/internal/application/services"
	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/performance"
)

// InteractionHandlers contains the intake endpoints the marketing site
// pushes events to.
type InteractionHandlers struct {
	interactionService *services.InteractionService
	logger             *logging.ChanneledLogger
	perfTracker        *performance.Tracker
}

// NewInteractionHandlers creates interaction handlers with injected dependencies
func NewInteractionHandlers(interactionService *services.InteractionService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *InteractionHandlers {
	return &InteractionHandlers{
		interactionService: interactionService,
		logger:             logger,
		perfTracker:        perfTracker,
	}
}

type interactionRequest struct {
	UserID    string            `json:"userId" binding:"required"`
	SessionID string            `json:"sessionId" binding:"required"`
	Timestamp time.Time         `json:"timestamp"`
	Type      string            `json:"type" binding:"required"`
	Element   string            `json:"element"`
	Page      string            `json:"page"`
	Duration  int64             `json:"duration"`
	Value     float64           `json:"value"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Referrer  string            `json:"referrer"`
	UTMSource string            `json:"utmSource"`
	Device    leads.DeviceHints `json:"device"`
}

// PostInteraction handles POST /api/v1/interactions
func (h *InteractionHandlers) PostInteraction(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_interaction_request")
	defer marker.Complete()

	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.interactionService.RecordInteraction(services.InteractionEvent{
		Interaction: leads.UserInteraction{
			UserID:    req.UserID,
			SessionID: req.SessionID,
			Timestamp: req.Timestamp,
			Type:      leads.InteractionType(req.Type),
			Element:   req.Element,
			Page:      req.Page,
			Duration:  req.Duration,
			Value:     req.Value,
			X:         req.X,
			Y:         req.Y,
		},
		Device:    req.Device,
		Referrer:  req.Referrer,
		UTMSource: req.UTMSource,
	})
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Analytics().Debug("Interaction request processed", "userId", req.UserID, "type", req.Type, "created", result.Created, "duration", time.Since(start))

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// GetPersonalization handles GET /api/v1/personalization?sessionId=...
func (h *InteractionHandlers) GetPersonalization(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		sessionID = c.GetHeader("X-LeadPulse-Session-ID")
	}
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	c.JSON(http.StatusOK, h.interactionService.GetPersonalization(sessionID))
}
