package services

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/pkg/config"
)

// SourceCount is one entry of the top-sources ranking.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// ConversionFunnel is the five-stage pipeline view. The converted stage is
// a sampled estimate until real conversion tracking lands; see DESIGN.md.
type ConversionFunnel struct {
	Visitors   int `json:"visitors"`
	Engaged    int `json:"engaged"`    // score > 30
	Interested int `json:"interested"` // score > 50
	Qualified  int `json:"qualified"`
	Converted  int `json:"converted"`
}

// LeadReport is the on-demand summary over the current registry snapshot.
type LeadReport struct {
	GeneratedAt          time.Time        `json:"generatedAt"`
	TotalLeads           int              `json:"totalLeads"`
	ClassificationCounts map[string]int   `json:"classificationCounts"`
	AverageScore         float64          `json:"averageScore"`
	TotalEstimatedValue  float64          `json:"totalEstimatedValue"`
	TopSources           []SourceCount    `json:"topSources"`
	Funnel               ConversionFunnel `json:"funnel"`
	Recommendations      []string         `json:"recommendations"`
}

// LeadAlert is one dashboard alert entry.
type LeadAlert struct {
	LeadID         string    `json:"leadId"`
	Score          float64   `json:"score"`
	Classification string    `json:"classification"`
	EstimatedValue float64   `json:"estimatedValue"`
	LastTouch      time.Time `json:"lastTouch"`
	Reason         string    `json:"reason"`
}

// DashboardAlerts groups the dashboard's attention lists.
type DashboardAlerts struct {
	HighValue  []LeadAlert `json:"high_value"`
	StaleLeads []LeadAlert `json:"stale_leads"`
}

// MonthlyPerformance compares the current and previous calendar months,
// bucketed by first touch.
type MonthlyPerformance struct {
	CurrentMonthLeads  int     `json:"currentMonthLeads"`
	PreviousMonthLeads int     `json:"previousMonthLeads"`
	LeadGrowth         float64 `json:"leadGrowth"` // percent
	CurrentMonthValue  float64 `json:"currentMonthValue"`
	PreviousMonthValue float64 `json:"previousMonthValue"`
	ValueGrowth        float64 `json:"valueGrowth"` // percent
}

// DashboardData is the live operations view.
type DashboardData struct {
	RecentLeads []*leads.LeadProfile   `json:"recentLeads"`
	Alerts      DashboardAlerts        `json:"alerts"`
	Performance MonthlyPerformance     `json:"performance"`
	Metrics     *leads.BusinessMetrics `json:"metrics"`
}

// ReportingService computes read-only views over the registry. It never
// mutates state.
type ReportingService struct {
	cache  *manager.Manager
	logger *logging.ChanneledLogger
	now    func() time.Time
	chance func() float64 // conversion sampling, overridable in tests
}

func NewReportingService(cache *manager.Manager, logger *logging.ChanneledLogger) *ReportingService {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &ReportingService{
		cache:  cache,
		logger: logger,
		now:    time.Now,
		chance: rng.Float64,
	}
}

// GenerateLeadReport summarizes the registry: tier counts, averages, top
// sources, the conversion funnel and rule-based recommendations.
func (s *ReportingService) GenerateLeadReport() *LeadReport {
	start := time.Now()
	allLeads := s.cache.Leads().All()

	report := &LeadReport{
		GeneratedAt: s.now().UTC(),
		TotalLeads:  len(allLeads),
		ClassificationCounts: map[string]int{
			string(leads.ClassificationCold):      0,
			string(leads.ClassificationWarm):      0,
			string(leads.ClassificationHot):       0,
			string(leads.ClassificationQualified): 0,
		},
	}

	var scoreSum float64
	sources := make(map[string]int)
	for _, profile := range allLeads {
		report.ClassificationCounts[string(profile.Classification)]++
		scoreSum += profile.Score
		report.TotalEstimatedValue += profile.EstimatedValue
		sources[profile.Source]++
	}
	report.AverageScore = scoreSum / nonZero(len(allLeads))
	report.TopSources = topSources(sources, 5)
	report.Funnel = s.buildFunnel(allLeads)
	report.Recommendations = s.buildRecommendations(report, sources)

	if s.logger != nil {
		s.logger.Analytics().Info("Lead report generated", "leads", report.TotalLeads, "averageScore", report.AverageScore, "duration", time.Since(start))
	}
	return report
}

// GetDashboardData assembles the live dashboard: the ten most recently
// touched leads, attention alerts and month-over-month deltas.
func (s *ReportingService) GetDashboardData() *DashboardData {
	allLeads := s.cache.Leads().All()

	sort.Slice(allLeads, func(i, j int) bool {
		return allLeads[i].LastTouch.After(allLeads[j].LastTouch)
	})
	recent := allLeads
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return &DashboardData{
		RecentLeads: recent,
		Alerts:      s.buildAlerts(allLeads),
		Performance: s.buildPerformance(allLeads),
		Metrics:     s.cache.Leads().GetMetrics(),
	}
}

func (s *ReportingService) buildFunnel(allLeads []*leads.LeadProfile) ConversionFunnel {
	funnel := ConversionFunnel{Visitors: len(allLeads)}
	for _, profile := range allLeads {
		if profile.Score > 30 {
			funnel.Engaged++
		}
		if profile.Score > 50 {
			funnel.Interested++
		}
		if profile.Classification == leads.ClassificationQualified {
			funnel.Qualified++
			if s.chance() > 0.7 {
				funnel.Converted++
			}
		}
	}
	return funnel
}

func (s *ReportingService) buildRecommendations(report *LeadReport, sources map[string]int) []string {
	recommendations := make([]string, 0, 3)

	if report.TotalLeads == 0 {
		return append(recommendations, "No leads recorded yet; verify the site is pushing interactions.")
	}

	if report.AverageScore < 40 {
		recommendations = append(recommendations, "Average lead score is below 40; review audience targeting and landing content.")
	}

	if len(report.TopSources) > 0 {
		top := report.TopSources[0]
		if float64(top.Count)/nonZero(report.TotalLeads) > 0.6 {
			recommendations = append(recommendations, fmt.Sprintf("Over 60%% of leads come from %q; diversify acquisition channels.", top.Source))
		}
	}

	if report.Funnel.Qualified > 0 && report.Funnel.Converted == 0 {
		recommendations = append(recommendations, "Qualified leads are not converting; review follow-up cadence.")
	}

	return recommendations
}

func (s *ReportingService) buildAlerts(allLeads []*leads.LeadProfile) DashboardAlerts {
	alerts := DashboardAlerts{
		HighValue:  make([]LeadAlert, 0),
		StaleLeads: make([]LeadAlert, 0),
	}
	staleCutoff := s.now().Add(-config.StaleLeadAge)

	for _, profile := range allLeads {
		if profile.Score > config.HighValueLeadScore || profile.EstimatedValue > config.HighValueLeadEstimate {
			alerts.HighValue = append(alerts.HighValue, leadAlert(profile, "high estimated value"))
		}
		if profile.Classification != leads.ClassificationCold && profile.LastTouch.Before(staleCutoff) {
			alerts.StaleLeads = append(alerts.StaleLeads, leadAlert(profile, "no touch in over 7 days"))
		}
	}
	return alerts
}

func (s *ReportingService) buildPerformance(allLeads []*leads.LeadProfile) MonthlyPerformance {
	now := s.now()
	currentYear, currentMonth, _ := now.Date()
	previous := now.AddDate(0, -1, -now.Day()+1) // first day of previous month
	previousYear, previousMonth, _ := previous.Date()

	var performance MonthlyPerformance
	for _, profile := range allLeads {
		year, month, _ := profile.FirstTouch.Date()
		switch {
		case year == currentYear && month == currentMonth:
			performance.CurrentMonthLeads++
			performance.CurrentMonthValue += profile.EstimatedValue
		case year == previousYear && month == previousMonth:
			performance.PreviousMonthLeads++
			performance.PreviousMonthValue += profile.EstimatedValue
		}
	}

	performance.LeadGrowth = (float64(performance.CurrentMonthLeads) - float64(performance.PreviousMonthLeads)) / nonZero(performance.PreviousMonthLeads) * 100
	performance.ValueGrowth = (performance.CurrentMonthValue - performance.PreviousMonthValue) / max(performance.PreviousMonthValue, 1) * 100
	return performance
}

func leadAlert(profile *leads.LeadProfile, reason string) LeadAlert {
	return LeadAlert{
		LeadID:         profile.ID,
		Score:          profile.Score,
		Classification: string(profile.Classification),
		EstimatedValue: profile.EstimatedValue,
		LastTouch:      profile.LastTouch,
		Reason:         reason,
	}
}

func topSources(sources map[string]int, limit int) []SourceCount {
	ranked := make([]SourceCount, 0, len(sources))
	for source, count := range sources {
		ranked = append(ranked, SourceCount{Source: source, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Source < ranked[j].Source
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
