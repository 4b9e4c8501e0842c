package snapshot

import (
	"context"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
)

// Persister is implemented by the service that serializes registry state.
type Persister interface {
	SaveData() error
}

// Worker periodically persists the registry snapshot and sweeps idle
// sessions. A snapshot overwrites the previous one; last writer wins.
type Worker struct {
	persister        Persister
	cache            *manager.Manager
	snapshotInterval time.Duration
	sweepInterval    time.Duration
	logger           *logging.ChanneledLogger
}

// NewWorker creates a background persistence worker.
func NewWorker(persister Persister, cache *manager.Manager, snapshotInterval, sweepInterval time.Duration, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		persister:        persister,
		cache:            cache,
		snapshotInterval: snapshotInterval,
		sweepInterval:    sweepInterval,
		logger:           logger,
	}
}

// Start runs the worker until the context is cancelled. A final snapshot is
// taken on shutdown so recent mutations are not lost.
func (w *Worker) Start(ctx context.Context) {
	snapshotTicker := time.NewTicker(w.snapshotInterval)
	defer snapshotTicker.Stop()
	sweepTicker := time.NewTicker(w.sweepInterval)
	defer sweepTicker.Stop()

	if w.logger != nil {
		w.logger.System().Info("Snapshot worker started", "snapshotInterval", w.snapshotInterval, "sweepInterval", w.sweepInterval)
	}

	for {
		select {
		case <-ctx.Done():
			if w.logger != nil {
				w.logger.Shutdown().Info("Snapshot worker stopping, taking final snapshot...")
			}
			w.persist()
			return
		case <-snapshotTicker.C:
			w.persist()
		case <-sweepTicker.C:
			w.cache.SweepSessions()
		}
	}
}

func (w *Worker) persist() {
	start := time.Now()
	if err := w.persister.SaveData(); err != nil {
		if w.logger != nil {
			w.logger.Database().Error("Periodic snapshot failed", "error", err.Error(), "duration", time.Since(start))
		}
		return
	}
	if w.logger != nil {
		w.logger.Database().Debug("Periodic snapshot completed", "duration", time.Since(start))
	}
}
