// Package services contains the application services that implement the
// lead intelligence pipeline: behavior classification, lead scoring, the
// lead registry, revenue attribution and reporting.
package services

import (
	"strings"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
)

// ScoringService computes a lead score from an interaction and the session
// state it belongs to. Scoring is pure: the same inputs always produce the
// same factor breakdown.
type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// ScoreInteraction evaluates the seven scoring factors against the session
// state and returns the breakdown, total and classification.
func (s *ScoringService) ScoreInteraction(interaction leads.UserInteraction, state *leads.SessionState) *leads.LeadScoringData {
	factors := leads.ScoringFactors{
		TimeOnSite:             s.timeOnSitePoints(state.Duration()),
		PageDepth:              s.pageDepthPoints(len(state.UserJourney)),
		PortfolioEngagement:    s.portfolioPoints(state.UserJourney),
		ContactFormInteraction: s.contactPoints(state.UserJourney),
		ReturnVisitor:          s.returnVisitorPoints(state.ReturnVisitor),
		DeviceQuality:          s.deviceQualityPoints(state.Device),
		TimeOfDay:              s.timeOfDayPoints(interaction.Timestamp.Local().Hour()),
	}

	score := factors.Total()
	return &leads.LeadScoringData{
		Score:          score,
		Factors:        factors,
		Classification: leads.Classify(score),
	}
}

// timeOnSitePoints buckets session duration in milliseconds.
func (s *ScoringService) timeOnSitePoints(durationMs int64) float64 {
	switch {
	case durationMs >= 300000: // 5 minutes
		return 25
	case durationMs >= 120000: // 2 minutes
		return 20
	case durationMs >= 60000: // 1 minute
		return 15
	case durationMs >= 30000:
		return 10
	default:
		return 5
	}
}

func (s *ScoringService) pageDepthPoints(journeyLength int) float64 {
	switch {
	case journeyLength > 10:
		return 20
	case journeyLength > 5:
		return 15
	case journeyLength > 3:
		return 10
	default:
		return 5
	}
}

// portfolioPoints rewards visits to project and portfolio pages, 5 points
// per view capped at 20.
func (s *ScoringService) portfolioPoints(journey []string) float64 {
	views := 0.0
	for _, entry := range journey {
		lowered := strings.ToLower(entry)
		if strings.Contains(lowered, "project") || strings.Contains(lowered, "portfolio") {
			views++
		}
	}
	return min(5*views, 20)
}

// contactPoints rewards contact form engagement, the strongest intent
// signal, 10 points per interaction capped at 30.
func (s *ScoringService) contactPoints(journey []string) float64 {
	interactions := 0.0
	for _, entry := range journey {
		if strings.Contains(strings.ToLower(entry), "contact") {
			interactions++
		}
	}
	return min(10*interactions, 30)
}

func (s *ScoringService) returnVisitorPoints(returning bool) float64 {
	if returning {
		return 15
	}
	return 0
}

// deviceQualityPoints grades the client device: everyone gets the base,
// high-memory devices and fast connections add on top.
func (s *ScoringService) deviceQualityPoints(device leads.DeviceHints) float64 {
	points := 5.0
	if device.DeviceMemoryGB >= 8 {
		points += 5
	}
	if device.ConnectionType == "4g" {
		points += 5
	}
	return points
}

// timeOfDayPoints favors business hours, when commercial construction
// inquiries tend to be serious.
func (s *ScoringService) timeOfDayPoints(hour int) float64 {
	switch {
	case hour >= 9 && hour <= 17:
		return 10
	case hour >= 8 && hour <= 20:
		return 5
	default:
		return 2
	}
}
