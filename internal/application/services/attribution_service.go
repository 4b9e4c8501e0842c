package services

import (
	"math"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/security"
)

// timeDecayRate is the per-day decay applied by the time_decay strategy.
// It is a fixed constant of the model, not configuration.
const timeDecayRate = 0.7

// AttributionService maintains the registered attribution models and
// redistributes each model's revenue across its touchpoints whenever a
// touchpoint or revenue event arrives.
type AttributionService struct {
	cache  *manager.Manager
	logger *logging.ChanneledLogger
	now    func() time.Time
}

func NewAttributionService(cache *manager.Manager, logger *logging.ChanneledLogger) *AttributionService {
	return &AttributionService{cache: cache, logger: logger, now: time.Now}
}

// RegisterModel creates an attribution model under the given strategy and
// stores it. Unknown strategies fall back to linear.
func (s *AttributionService) RegisterModel(name string, strategy leads.AttributionStrategy, revenue float64) *leads.AttributionModel {
	if !strategy.Valid() {
		if s.logger != nil {
			s.logger.Analytics().Warn("Unknown attribution strategy, falling back to linear", "strategy", string(strategy), "model", name)
		}
		strategy = leads.AttributionLinear
	}

	model := &leads.AttributionModel{
		ID:       security.GenerateULID(),
		Name:     name,
		Strategy: strategy,
		Revenue:  revenue,
	}
	s.cache.Attribution().Set(model)

	if s.logger != nil {
		s.logger.Analytics().Info("Attribution model registered", "modelId", model.ID, "name", name, "strategy", string(strategy), "revenue", revenue)
	}
	return model
}

// TrackTouchpoint appends a touchpoint to every registered model and
// recalculates each model's distribution.
func (s *AttributionService) TrackTouchpoint(channel string, value float64) {
	touchpoint := leads.Touchpoint{
		Channel:   channel,
		Timestamp: s.now().UTC(),
		Value:     value,
	}

	for _, model := range s.cache.Attribution().All() {
		model.Touchpoints = append(model.Touchpoints, touchpoint)
		s.recalculate(model)
		s.cache.Attribution().Set(model)
	}

	if s.logger != nil {
		s.logger.Analytics().Debug("Touchpoint tracked", "channel", channel, "value", value, "models", s.cache.Attribution().Count())
	}
}

// RecordConversion adds revenue to every model and redistributes it.
func (s *AttributionService) RecordConversion(revenue float64) {
	for _, model := range s.cache.Attribution().All() {
		model.Revenue += revenue
		s.recalculate(model)
		s.cache.Attribution().Set(model)
	}

	if s.logger != nil {
		s.logger.Analytics().Info("Conversion recorded", "revenue", revenue, "models", s.cache.Attribution().Count())
	}
}

// GetModel returns a copy of the model with the given id, or nil.
func (s *AttributionService) GetModel(id string) *leads.AttributionModel {
	model, found := s.cache.Attribution().Get(id)
	if !found {
		return nil
	}
	return model
}

// AllModels returns copies of every registered model.
func (s *AttributionService) AllModels() []*leads.AttributionModel {
	return s.cache.Attribution().All()
}

// recalculate redistributes model.Revenue across the touchpoint list. Every
// rule allocates the full amount by construction, so the per-touchpoint
// attributions always sum to the revenue.
func (s *AttributionService) recalculate(model *leads.AttributionModel) {
	count := len(model.Touchpoints)
	if count == 0 {
		return
	}

	for i := range model.Touchpoints {
		model.Touchpoints[i].Attribution = 0
	}

	switch model.Strategy {
	case leads.AttributionFirstTouch:
		model.Touchpoints[0].Attribution = model.Revenue

	case leads.AttributionLastTouch:
		model.Touchpoints[count-1].Attribution = model.Revenue

	case leads.AttributionTimeDecay:
		s.applyTimeDecay(model)

	case leads.AttributionPositionBased:
		s.applyPositionBased(model)

	default: // linear
		share := model.Revenue / float64(count)
		for i := range model.Touchpoints {
			model.Touchpoints[i].Attribution = share
		}
	}
}

// applyTimeDecay weights each touchpoint by 0.7^(days old) and normalizes
// the weights so the full revenue is allocated.
func (s *AttributionService) applyTimeDecay(model *leads.AttributionModel) {
	now := s.now()
	weights := make([]float64, len(model.Touchpoints))
	totalWeight := 0.0

	for i, touchpoint := range model.Touchpoints {
		days := math.Floor(now.Sub(touchpoint.Timestamp).Hours() / 24)
		if days < 0 {
			days = 0
		}
		weights[i] = math.Pow(timeDecayRate, days)
		totalWeight += weights[i]
	}

	for i := range model.Touchpoints {
		model.Touchpoints[i].Attribution = weights[i] / totalWeight * model.Revenue
	}
}

// applyPositionBased gives 40% to the first touch, 20% to the last, and
// splits the remaining 40% evenly across the middle. One touchpoint takes
// everything; two split evenly.
func (s *AttributionService) applyPositionBased(model *leads.AttributionModel) {
	count := len(model.Touchpoints)
	switch count {
	case 1:
		model.Touchpoints[0].Attribution = model.Revenue
	case 2:
		model.Touchpoints[0].Attribution = model.Revenue * 0.5
		model.Touchpoints[1].Attribution = model.Revenue * 0.5
	default:
		model.Touchpoints[0].Attribution = model.Revenue * 0.4
		model.Touchpoints[count-1].Attribution = model.Revenue * 0.2
		middleShare := model.Revenue * 0.4 / float64(count-2)
		for i := 1; i < count-1; i++ {
			model.Touchpoints[i].Attribution = middleShare
		}
	}
}
