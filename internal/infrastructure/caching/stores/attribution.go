package stores

import (
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/types"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
)

// AttributionStore holds the registered attribution models. Models are
// copied on the way in and out; recalculation happens in the service layer.
type AttributionStore struct {
	cache  types.AttributionCache
	logger *logging.ChanneledLogger
}

// NewAttributionStore creates a new attribution model store.
func NewAttributionStore(logger *logging.ChanneledLogger) *AttributionStore {
	if logger != nil {
		logger.Cache().Info("Initializing attribution cache store")
	}
	as := &AttributionStore{logger: logger}
	as.cache.Models = make(map[string]*leads.AttributionModel)
	as.cache.LastLoaded = time.Now().UTC()
	return as
}

// Get retrieves a copy of an attribution model by id.
func (as *AttributionStore) Get(id string) (*leads.AttributionModel, bool) {
	start := time.Now()
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	model, found := as.cache.Models[id]
	if as.logger != nil {
		as.logger.Cache().Debug("Cache operation", "operation", "get", "type", "attribution_model", "modelId", id, "hit", found, "duration", time.Since(start))
	}
	if !found {
		return nil, false
	}
	return copyModel(model), true
}

// Set stores a copy of the given attribution model.
func (as *AttributionStore) Set(model *leads.AttributionModel) {
	start := time.Now()
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	as.cache.Models[model.ID] = copyModel(model)
	as.cache.LastLoaded = time.Now().UTC()

	if as.logger != nil {
		as.logger.Cache().Debug("Cache operation", "operation", "set", "type", "attribution_model", "modelId", model.ID, "strategy", string(model.Strategy), "touchpoints", len(model.Touchpoints), "duration", time.Since(start))
	}
}

// All returns copies of every registered model.
func (as *AttributionStore) All() []*leads.AttributionModel {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	result := make([]*leads.AttributionModel, 0, len(as.cache.Models))
	for _, model := range as.cache.Models {
		result = append(result, copyModel(model))
	}
	return result
}

// Count returns the number of registered models.
func (as *AttributionStore) Count() int {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()
	return len(as.cache.Models)
}

func copyModel(m *leads.AttributionModel) *leads.AttributionModel {
	clone := *m
	clone.Touchpoints = make([]leads.Touchpoint, len(m.Touchpoints))
	copy(clone.Touchpoints, m.Touchpoints)
	return &clone
}
