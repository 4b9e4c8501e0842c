package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdmarc/leadpulse-go/internal/application/services"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/performance"
)

// AnalyticsHandlers contains the protected reporting endpoints.
type AnalyticsHandlers struct {
	reportingService *services.ReportingService
	registryService  *services.RegistryService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(reportingService *services.ReportingService, registryService *services.RegistryService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		reportingService: reportingService,
		registryService:  registryService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetLeadReport handles GET /api/v1/analytics/leads
func (h *AnalyticsHandlers) GetLeadReport(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_lead_report_request")
	defer marker.Complete()

	report := h.reportingService.GenerateLeadReport()
	h.logger.Analytics().Debug("Lead report request processed", "leads", report.TotalLeads, "duration", time.Since(start))
	c.JSON(http.StatusOK, report)
}

// GetDashboard handles GET /api/v1/analytics/dashboard
func (h *AnalyticsHandlers) GetDashboard(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_dashboard_request")
	defer marker.Complete()

	dashboard := h.reportingService.GetDashboardData()
	h.logger.Analytics().Debug("Dashboard request processed", "recentLeads", len(dashboard.RecentLeads), "duration", time.Since(start))
	c.JSON(http.StatusOK, dashboard)
}

// GetLead handles GET /api/v1/analytics/leads/:id
func (h *AnalyticsHandlers) GetLead(c *gin.Context) {
	profile := h.registryService.GetLead(c.Param("id"))
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetMetrics handles GET /api/v1/analytics/metrics
func (h *AnalyticsHandlers) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.registryService.Metrics())
}

// GetPerformance handles GET /api/v1/analytics/performance
func (h *AnalyticsHandlers) GetPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"uptime":     h.perfTracker.Uptime().String(),
		"operations": h.perfTracker.GetStats(),
	})
}
