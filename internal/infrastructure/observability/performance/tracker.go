package performance

import (
	"sync"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
)

// slowOperationThreshold is when a completed operation gets logged.
const slowOperationThreshold = 500 * time.Millisecond

// OperationStats is the rolling aggregate per operation name.
type OperationStats struct {
	Count         int           `json:"count"`
	Failures      int           `json:"failures"`
	TotalDuration time.Duration `json:"totalDuration"`
	MaxDuration   time.Duration `json:"maxDuration"`
	AvgDuration   time.Duration `json:"avgDuration"`
	LastSeen      time.Time     `json:"lastSeen"`
}

// Tracker aggregates operation timings and flags slow requests.
type Tracker struct {
	stats   map[string]*OperationStats
	mu      sync.RWMutex
	started time.Time
	logger  *logging.ChanneledLogger
}

// NewTracker creates a performance tracker.
func NewTracker(logger *logging.ChanneledLogger) *Tracker {
	return &Tracker{
		stats:   make(map[string]*OperationStats),
		started: time.Now().UTC(),
		logger:  logger,
	}
}

// StartOperation begins timing a named operation. Callers defer
// marker.Complete().
func (t *Tracker) StartOperation(operation string) *Marker {
	return &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Success:   true,
		tracker:   t,
	}
}

// GetStats returns a copy of the per-operation aggregates.
func (t *Tracker) GetStats() map[string]OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]OperationStats, len(t.stats))
	for operation, stats := range t.stats {
		result[operation] = *stats
	}
	return result
}

// Uptime reports how long the tracker has been running.
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}

func (t *Tracker) record(marker *Marker) {
	t.mu.Lock()
	stats, found := t.stats[marker.Operation]
	if !found {
		stats = &OperationStats{}
		t.stats[marker.Operation] = stats
	}

	stats.Count++
	if !marker.Success {
		stats.Failures++
	}
	stats.TotalDuration += marker.Duration
	if marker.Duration > stats.MaxDuration {
		stats.MaxDuration = marker.Duration
	}
	stats.AvgDuration = stats.TotalDuration / time.Duration(stats.Count)
	stats.LastSeen = marker.EndTime.UTC()
	t.mu.Unlock()

	if marker.Duration > slowOperationThreshold && t.logger != nil {
		t.logger.System().Warn("Slow operation detected",
			"operation", marker.Operation,
			"duration", marker.Duration,
			"success", marker.Success,
		)
	}
}
