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

// AttributionHandlers contains the touchpoint and conversion endpoints.
type AttributionHandlers struct {
	attributionService *services.AttributionService
	registryService    *services.RegistryService
	logger             *logging.ChanneledLogger
	perfTracker        *performance.Tracker
}

// NewAttributionHandlers creates attribution handlers with injected dependencies
func NewAttributionHandlers(attributionService *services.AttributionService, registryService *services.RegistryService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AttributionHandlers {
	return &AttributionHandlers{
		attributionService: attributionService,
		registryService:    registryService,
		logger:             logger,
		perfTracker:        perfTracker,
	}
}

type conversionRequest struct {
	Channel string  `json:"channel"`
	Value   float64 `json:"value"`
	Revenue float64 `json:"revenue"`
}

// PostConversion handles POST /api/v1/conversions. A channel adds a
// touchpoint to every model; revenue is added to every model and
// redistributed.
func (h *AttributionHandlers) PostConversion(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_conversion_request")
	defer marker.Complete()

	var req conversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Channel == "" && req.Revenue == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a channel or revenue amount is required"})
		return
	}

	if req.Channel != "" {
		h.attributionService.TrackTouchpoint(req.Channel, req.Value)
	}
	if req.Revenue != 0 {
		h.attributionService.RecordConversion(req.Revenue)
		h.registryService.RecomputeMetrics()
	}

	h.logger.Analytics().Debug("Conversion request processed", "channel", req.Channel, "revenue", req.Revenue, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"models": h.attributionService.AllModels()})
}

type registerModelRequest struct {
	Name     string  `json:"name" binding:"required"`
	Strategy string  `json:"strategy" binding:"required"`
	Revenue  float64 `json:"revenue"`
}

// PostModel handles POST /api/v1/attribution/models
func (h *AttributionHandlers) PostModel(c *gin.Context) {
	var req registerModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := h.attributionService.RegisterModel(req.Name, leads.AttributionStrategy(req.Strategy), req.Revenue)
	c.JSON(http.StatusCreated, model)
}

// GetAttribution handles GET /api/v1/analytics/attribution
func (h *AttributionHandlers) GetAttribution(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.attributionService.AllModels()})
}
