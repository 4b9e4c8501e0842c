// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/jdmarc/leadpulse-go/internal/application/services"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/email"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/messaging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/performance"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/persistence/snapshot"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Pipeline services (stateless singletons; state lives in the cache)
	BehaviorService    *services.BehaviorService
	ScoringService     *services.ScoringService
	RegistryService    *services.RegistryService
	AttributionService *services.AttributionService
	ReportingService   *services.ReportingService
	InteractionService *services.InteractionService
	PersistenceService *services.PersistenceService
	AuthService        *services.AuthService

	// Infrastructure
	CacheManager  *manager.Manager
	SnapshotStore snapshot.Store
	Notifier      email.Service
	Broadcaster   *messaging.AlertBroadcaster
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(cacheManager *manager.Manager, snapshotStore snapshot.Store, notifier email.Service, broadcaster *messaging.AlertBroadcaster, jwtSecret string, logger *logging.ChanneledLogger) *Container {
	behaviorService := services.NewBehaviorService()
	scoringService := services.NewScoringService()
	registryService := services.NewRegistryService(cacheManager, notifier, broadcaster, logger)

	return &Container{
		BehaviorService:    behaviorService,
		ScoringService:     scoringService,
		RegistryService:    registryService,
		AttributionService: services.NewAttributionService(cacheManager, logger),
		ReportingService:   services.NewReportingService(cacheManager, logger),
		InteractionService: services.NewInteractionService(cacheManager, behaviorService, scoringService, registryService, logger),
		PersistenceService: services.NewPersistenceService(cacheManager, snapshotStore, logger),
		AuthService:        services.NewAuthService(jwtSecret, logger),

		CacheManager:  cacheManager,
		SnapshotStore: snapshotStore,
		Notifier:      notifier,
		Broadcaster:   broadcaster,
		Logger:        logger,
		PerfTracker:   performance.NewTracker(logger),
	}
}
