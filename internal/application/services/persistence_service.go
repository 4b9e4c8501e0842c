package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/persistence/snapshot"
	"github.com/jdmarc/leadpulse-go/pkg/config"
)

// registrySnapshot is the persisted blob: the metrics aggregate, the full
// lead map and the write timestamp. The shape is stable; there is no schema
// versioning, a malformed blob falls back to fresh defaults.
type registrySnapshot struct {
	Metrics   *leads.BusinessMetrics        `json:"metrics"`
	Leads     map[string]*leads.LeadProfile `json:"leads"`
	Timestamp time.Time                     `json:"timestamp"`
}

// PersistenceService saves and restores the lead registry through the
// snapshot store. Writes are last-writer-wins.
type PersistenceService struct {
	cache  *manager.Manager
	store  snapshot.Store
	logger *logging.ChanneledLogger
}

func NewPersistenceService(cache *manager.Manager, store snapshot.Store, logger *logging.ChanneledLogger) *PersistenceService {
	return &PersistenceService{cache: cache, store: store, logger: logger}
}

// SaveData serializes the full registry state and overwrites the previous
// snapshot.
func (s *PersistenceService) SaveData() error {
	start := time.Now()
	profiles, metrics := s.cache.Leads().Snapshot()

	blob, err := json.Marshal(registrySnapshot{
		Metrics:   metrics,
		Leads:     profiles,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to serialize registry snapshot: %w", err)
	}

	if err := s.store.Set(config.SnapshotKey, blob); err != nil {
		return fmt.Errorf("failed to persist registry snapshot: %w", err)
	}

	if s.logger != nil {
		s.logger.Database().Debug("Registry snapshot saved", "key", config.SnapshotKey, "leads", len(profiles), "bytes", len(blob), "duration", time.Since(start))
	}
	return nil
}

// LoadData restores the registry from the last snapshot. A missing or
// malformed snapshot is not an error: the registry starts from zeroed
// defaults and the problem is logged as a warning.
func (s *PersistenceService) LoadData() error {
	start := time.Now()

	blob, err := s.store.Get(config.SnapshotKey)
	if err != nil {
		return fmt.Errorf("failed to read registry snapshot: %w", err)
	}
	if blob == nil {
		if s.logger != nil {
			s.logger.Database().Info("No registry snapshot found, starting fresh", "key", config.SnapshotKey)
		}
		return nil
	}

	var snap registrySnapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		if s.logger != nil {
			s.logger.Database().Warn("Malformed registry snapshot ignored, starting fresh", "key", config.SnapshotKey, "error", err.Error())
		}
		return nil
	}
	if snap.Leads == nil {
		snap.Leads = make(map[string]*leads.LeadProfile)
	}

	s.cache.Leads().ReplaceAll(snap.Leads, snap.Metrics)
	for _, profile := range snap.Leads {
		if profile.UserID != "" {
			s.cache.Sessions().MarkKnownUser(profile.UserID)
		}
	}

	if s.logger != nil {
		s.logger.Database().Info("Registry snapshot restored", "key", config.SnapshotKey, "leads", len(snap.Leads), "snapshotAge", time.Since(snap.Timestamp), "duration", time.Since(start))
	}
	return nil
}
