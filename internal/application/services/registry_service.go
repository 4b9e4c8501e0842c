package services

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/email"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/messaging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/security"
	"github.com/jdmarc/leadpulse-go/pkg/config"
)

// RegistryService owns the lead lifecycle: creation, monotonic score
// updates, value estimation and the business metrics aggregate. Every
// mutation recomputes metrics over the full registry; n stays small enough
// that the rescan is cheaper than maintaining incremental counters.
type RegistryService struct {
	cache       *manager.Manager
	notifier    email.Service
	broadcaster *messaging.AlertBroadcaster
	logger      *logging.ChanneledLogger

	rngMu    sync.Mutex
	rng      *rand.Rand
	variance func() float64 // estimated-value variance multiplier, overridable in tests
}

func NewRegistryService(cache *manager.Manager, notifier email.Service, broadcaster *messaging.AlertBroadcaster, logger *logging.ChanneledLogger) *RegistryService {
	s := &RegistryService{
		cache:       cache,
		notifier:    notifier,
		broadcaster: broadcaster,
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.variance = s.randomVariance
	return s
}

// CreateLead builds a new lead profile from the first scored interaction of
// a visitor and registers it. High-value leads trigger a notification and a
// dashboard broadcast.
func (s *RegistryService) CreateLead(interaction leads.UserInteraction, scoring *leads.LeadScoringData, source string) *leads.LeadProfile {
	if source == "" {
		source = "direct"
	}

	nextAction, urgency := followUp(scoring.Classification)
	profile := &leads.LeadProfile{
		ID:             security.GenerateULID(),
		UserID:         interaction.UserID,
		Score:          scoring.Score,
		Classification: scoring.Classification,
		Source:         source,
		FirstTouch:     interaction.Timestamp,
		LastTouch:      interaction.Timestamp,
		Touchpoints:    []string{string(interaction.Type)},
		EstimatedValue: s.estimateValue(scoring),
		Probability:    estimateProbability(scoring),
		NextAction:     nextAction,
		Urgency:        urgency,
	}

	s.cache.Leads().Set(profile)
	s.recomputeMetrics()

	if s.logger != nil {
		s.logger.Analytics().Info("Lead created",
			"leadId", profile.ID,
			"score", profile.Score,
			"classification", string(profile.Classification),
			"source", profile.Source,
			"estimatedValue", profile.EstimatedValue,
		)
	}

	if profile.Score > config.HighValueLeadScore || profile.EstimatedValue > config.HighValueLeadEstimate {
		s.raiseHighValueAlert(profile)
	}
	return profile
}

// UpdateLead applies a fresh scoring pass to an existing lead. The score is
// monotonic (max of old and new); everything else is overwritten from the
// latest scoring data. The whole read-modify-write runs under the store's
// write lock so concurrent updates for the same lead cannot clobber each
// other. Returns nil when the id is unknown.
func (s *RegistryService) UpdateLead(id string, interaction leads.UserInteraction, scoring *leads.LeadScoringData) *leads.LeadProfile {
	profile, found := s.cache.Leads().Update(id, func(profile *leads.LeadProfile) {
		profile.Score = max(profile.Score, scoring.Score)
		profile.Classification = scoring.Classification
		// Client timestamps can arrive out of order; keep firstTouch the
		// earliest and lastTouch the latest ever seen.
		if interaction.Timestamp.After(profile.LastTouch) {
			profile.LastTouch = interaction.Timestamp
		}
		if interaction.Timestamp.Before(profile.FirstTouch) {
			profile.FirstTouch = interaction.Timestamp
		}
		profile.Touchpoints = append(profile.Touchpoints, string(interaction.Type))
		profile.EstimatedValue = s.estimateValue(scoring)
		profile.Probability = estimateProbability(scoring)
		profile.NextAction, profile.Urgency = followUp(scoring.Classification)
	})
	if !found {
		if s.logger != nil {
			s.logger.Analytics().Debug("Lead update skipped, unknown id", "leadId", id)
		}
		return nil
	}
	s.recomputeMetrics()

	if s.logger != nil {
		s.logger.Analytics().Debug("Lead updated",
			"leadId", profile.ID,
			"score", profile.Score,
			"classification", string(profile.Classification),
			"touchpoints", len(profile.Touchpoints),
		)
	}
	return profile
}

// GetLead returns a copy of the lead with the given id, or nil.
func (s *RegistryService) GetLead(id string) *leads.LeadProfile {
	profile, found := s.cache.Leads().Get(id)
	if !found {
		return nil
	}
	return profile
}

// GetLeadByUser returns the lead owned by a visitor, or nil.
func (s *RegistryService) GetLeadByUser(userID string) *leads.LeadProfile {
	profile, found := s.cache.Leads().GetByUser(userID)
	if !found {
		return nil
	}
	return profile
}

// AllLeads returns copies of every registered lead.
func (s *RegistryService) AllLeads() []*leads.LeadProfile {
	return s.cache.Leads().All()
}

// Metrics returns a copy of the current business metrics aggregate.
func (s *RegistryService) Metrics() *leads.BusinessMetrics {
	return s.cache.Leads().GetMetrics()
}

// RecomputeMetrics rebuilds the aggregate from the registry, e.g. after a
// snapshot rehydration or an attribution revenue change.
func (s *RegistryService) RecomputeMetrics() {
	s.recomputeMetrics()
}

// estimateValue projects a deal size in currency units from score and tier,
// with a small random variance so identical scores do not produce identical
// pipelines.
func (s *RegistryService) estimateValue(scoring *leads.LeadScoringData) float64 {
	scoreMultiplier := min(scoring.Score/50, 3)
	return config.LeadBaseValue * scoreMultiplier * classificationMultiplier(scoring.Classification) * s.variance()
}

// randomVariance returns a multiplier in [0.85, 1.15].
func (s *RegistryService) randomVariance() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return 1 + (s.rng.Float64()*0.3 - 0.15)
}

func classificationMultiplier(classification leads.Classification) float64 {
	switch classification {
	case leads.ClassificationQualified:
		return 2
	case leads.ClassificationHot:
		return 1.5
	case leads.ClassificationWarm:
		return 1
	default:
		return 0.5
	}
}

// estimateProbability derives a win probability from the classification base
// rate plus intent bonuses, capped at 0.95.
func estimateProbability(scoring *leads.LeadScoringData) float64 {
	var probability float64
	switch scoring.Classification {
	case leads.ClassificationQualified:
		probability = 0.65
	case leads.ClassificationHot:
		probability = 0.35
	case leads.ClassificationWarm:
		probability = 0.15
	default:
		probability = 0.05
	}

	if scoring.Factors.ContactFormInteraction > 20 {
		probability += 0.10
	}
	if scoring.Factors.PortfolioEngagement > 15 {
		probability += 0.05
	}
	if scoring.Factors.ReturnVisitor > 0 {
		probability += 0.05
	}
	if scoring.Factors.TimeOnSite > 20 {
		probability += 0.05
	}

	return min(probability, 0.95)
}

func followUp(classification leads.Classification) (string, leads.Urgency) {
	switch classification {
	case leads.ClassificationQualified:
		return "Schedule a site consultation", leads.UrgencyHigh
	case leads.ClassificationHot:
		return "Send a tailored project proposal", leads.UrgencyHigh
	case leads.ClassificationWarm:
		return "Add to nurture email sequence", leads.UrgencyMedium
	default:
		return "Continue monitoring engagement", leads.UrgencyLow
	}
}

// recomputeMetrics rescans the full registry and attribution models.
func (s *RegistryService) recomputeMetrics() {
	start := time.Now()
	allLeads := s.cache.Leads().All()

	metrics := leads.NewBusinessMetrics()
	metrics.Leads.Total = len(allLeads)

	var scoreSum float64
	for _, profile := range allLeads {
		switch profile.Classification {
		case leads.ClassificationQualified:
			metrics.Leads.Qualified++
		case leads.ClassificationHot:
			metrics.Leads.Hot++
		case leads.ClassificationWarm:
			metrics.Leads.Warm++
		default:
			metrics.Leads.Cold++
		}

		scoreSum += profile.Score
		metrics.Revenue.TotalPipeline += profile.EstimatedValue
		metrics.Revenue.WeightedPipeline += profile.EstimatedValue * profile.Probability
		metrics.Marketing.SourceBreakdown[profile.Source]++
		metrics.Marketing.TouchpointCount += len(profile.Touchpoints)
	}

	// Denominators are clamped to 1 so an empty registry reports zeros
	// instead of NaN.
	leadCount := nonZero(len(allLeads))
	metrics.Leads.AverageScore = scoreSum / leadCount
	metrics.Leads.ConversionRate = float64(metrics.Leads.Qualified) / leadCount
	metrics.Revenue.AverageDealSize = metrics.Revenue.TotalPipeline / leadCount

	for source, count := range metrics.Marketing.SourceBreakdown {
		if metrics.Marketing.TopSource == "" || count > metrics.Marketing.SourceBreakdown[metrics.Marketing.TopSource] {
			metrics.Marketing.TopSource = source
		}
	}
	metrics.Marketing.ROI = metrics.Revenue.WeightedPipeline / nonZero(metrics.Marketing.TouchpointCount)

	for _, model := range s.cache.Attribution().All() {
		metrics.Revenue.AttributedTotal += model.Revenue
	}

	for _, profile := range allLeads {
		if profile.Classification == leads.ClassificationHot || profile.Classification == leads.ClassificationQualified {
			metrics.Projects.ProspectiveProjects++
			metrics.Projects.PipelineValue += profile.EstimatedValue
		}
	}

	metrics.UpdatedAt = time.Now().UTC()
	s.cache.Leads().SetMetrics(metrics)

	if s.logger != nil {
		s.logger.Analytics().Debug("Business metrics recomputed", "leads", metrics.Leads.Total, "totalPipeline", metrics.Revenue.TotalPipeline, "duration", time.Since(start))
	}
}

func (s *RegistryService) raiseHighValueAlert(profile *leads.LeadProfile) {
	if s.notifier != nil {
		if err := s.notifier.SendHighValueLeadAlert(profile); err != nil && s.logger != nil {
			s.logger.LogError(logging.ChannelEmail, "high value lead alert", err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.Broadcast("high_value_lead", profile)
	}
	if s.logger != nil {
		s.logger.Alert().Info("High-value lead alert raised",
			"leadId", profile.ID,
			"score", profile.Score,
			"estimatedValue", profile.EstimatedValue,
		)
	}
}

func nonZero(n int) float64 {
	if n < 1 {
		return 1
	}
	return float64(n)
}
