// Package manager provides centralized cache operations by delegating to
// the specialized stores.
package manager

import (
	"time"

	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/stores"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/pkg/config"
)

// Manager bundles the in-memory stores behind one handle so services take a
// single dependency instead of three.
type Manager struct {
	leadsStore       *stores.LeadsStore
	sessionsStore    *stores.SessionsStore
	attributionStore *stores.AttributionStore
	logger           *logging.ChanneledLogger
}

// NewManager creates the cache manager and its stores.
func NewManager(logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager", "stores", []string{"leads", "sessions", "attribution"})
	}

	return &Manager{
		leadsStore:       stores.NewLeadsStore(logger),
		sessionsStore:    stores.NewSessionsStore(config.SessionTTL, logger),
		attributionStore: stores.NewAttributionStore(logger),
		logger:           logger,
	}
}

// Leads returns the lead registry store.
func (m *Manager) Leads() *stores.LeadsStore { return m.leadsStore }

// Sessions returns the session state store.
func (m *Manager) Sessions() *stores.SessionsStore { return m.sessionsStore }

// Attribution returns the attribution model store.
func (m *Manager) Attribution() *stores.AttributionStore { return m.attributionStore }

// SweepSessions evicts idle sessions; called by the background worker.
func (m *Manager) SweepSessions() int {
	start := time.Now()
	evicted := m.sessionsStore.Sweep()
	if m.logger != nil && evicted > 0 {
		m.logger.Cache().Info("Cache sweep completed", "evictedSessions", evicted, "duration", time.Since(start))
	}
	return evicted
}
