// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jdmarc/leadpulse-go/internal/application/container"
	"github.com/jdmarc/leadpulse-go/internal/presentation/http/handlers"
	"github.com/jdmarc/leadpulse-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	interactionHandlers := handlers.NewInteractionHandlers(container.InteractionService, container.Logger, container.PerfTracker)
	attributionHandlers := handlers.NewAttributionHandlers(container.AttributionService, container.RegistryService, container.Logger, container.PerfTracker)
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.ReportingService, container.RegistryService, container.Logger, container.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	streamHandlers := handlers.NewStreamHandlers(container.Broadcaster, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.CacheManager)

	api := r.Group("/api/v1")
	{
		// Public intake endpoints used by the marketing site
		api.POST("/interactions", interactionHandlers.PostInteraction)
		api.POST("/conversions", attributionHandlers.PostConversion)
		api.GET("/personalization", interactionHandlers.GetPersonalization)
		api.GET("/health", healthHandlers.GetHealth)

		// Auth
		api.POST("/auth/login", authHandlers.PostLogin)
		api.GET("/auth/status", authHandlers.GetStatus)

		// Protected analytics endpoints
		protected := api.Group("")
		protected.Use(middleware.AdminAuthMiddleware(container.AuthService))
		{
			protected.GET("/analytics/leads", analyticsHandlers.GetLeadReport)
			protected.GET("/analytics/leads/:id", analyticsHandlers.GetLead)
			protected.GET("/analytics/dashboard", analyticsHandlers.GetDashboard)
			protected.GET("/analytics/metrics", analyticsHandlers.GetMetrics)
			protected.GET("/analytics/performance", analyticsHandlers.GetPerformance)
			protected.GET("/analytics/attribution", attributionHandlers.GetAttribution)
			protected.POST("/attribution/models", attributionHandlers.PostModel)
			protected.GET("/dashboard/stream", streamHandlers.GetStream)
		}
	}

	return r
}
