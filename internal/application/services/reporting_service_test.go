package services

import (
	"testing"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/stretchr/testify/require"
)

func newTestReporting(t *testing.T) (*ReportingService, *manager.Manager) {
	t.Helper()
	cache := manager.NewManager(nil)
	service := NewReportingService(cache, nil)
	service.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	service.chance = func() float64 { return 0 } // converted stage off by default
	return service, cache
}

func seedLead(cache *manager.Manager, id string, score float64, value float64, source string, firstTouch, lastTouch time.Time) {
	cache.Leads().Set(&leads.LeadProfile{
		ID:             id,
		Score:          score,
		Classification: leads.Classify(score),
		Source:         source,
		FirstTouch:     firstTouch,
		LastTouch:      lastTouch,
		EstimatedValue: value,
		Probability:    0.2,
	})
}

func TestGenerateLeadReport(t *testing.T) {
	service, cache := newTestReporting(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	seedLead(cache, "l1", 85, 170000, "google_ads", now, now)
	seedLead(cache, "l2", 65, 90000, "google_ads", now, now)
	seedLead(cache, "l3", 45, 50000, "referral:linkedin.com", now, now)
	seedLead(cache, "l4", 20, 10000, "direct", now, now)

	report := service.GenerateLeadReport()

	require.Equal(t, 4, report.TotalLeads)
	require.Equal(t, 1, report.ClassificationCounts["qualified"])
	require.Equal(t, 1, report.ClassificationCounts["hot"])
	require.Equal(t, 1, report.ClassificationCounts["warm"])
	require.Equal(t, 1, report.ClassificationCounts["cold"])
	require.InDelta(t, (85+65+45+20)/4.0, report.AverageScore, 0.001)
	require.InDelta(t, 320000, report.TotalEstimatedValue, 0.001)

	require.Equal(t, "google_ads", report.TopSources[0].Source)
	require.Equal(t, 2, report.TopSources[0].Count)

	require.Equal(t, 4, report.Funnel.Visitors)
	require.Equal(t, 3, report.Funnel.Engaged)    // score > 30
	require.Equal(t, 2, report.Funnel.Interested) // score > 50
	require.Equal(t, 1, report.Funnel.Qualified)
	require.Equal(t, 0, report.Funnel.Converted)
}

func TestConvertedStageSampling(t *testing.T) {
	service, cache := newTestReporting(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	seedLead(cache, "l1", 90, 200000, "direct", now, now)
	seedLead(cache, "l2", 88, 190000, "direct", now, now)

	service.chance = func() float64 { return 0.9 } // above the 0.7 gate
	require.Equal(t, 2, service.GenerateLeadReport().Funnel.Converted)

	service.chance = func() float64 { return 0.1 }
	require.Equal(t, 0, service.GenerateLeadReport().Funnel.Converted)
}

func TestRecommendations(t *testing.T) {
	service, cache := newTestReporting(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	// Low average score plus a single dominant source.
	seedLead(cache, "l1", 20, 10000, "instagram", now, now)
	seedLead(cache, "l2", 25, 10000, "instagram", now, now)
	seedLead(cache, "l3", 30, 10000, "instagram", now, now)
	seedLead(cache, "l4", 35, 10000, "direct", now, now)

	report := service.GenerateLeadReport()
	require.Contains(t, report.Recommendations[0], "below 40")
	joined := ""
	for _, recommendation := range report.Recommendations {
		joined += recommendation + "\n"
	}
	require.Contains(t, joined, "instagram")
	require.Contains(t, joined, "diversify")
}

func TestEmptyRegistryReport(t *testing.T) {
	service, _ := newTestReporting(t)

	report := service.GenerateLeadReport()
	require.Equal(t, 0, report.TotalLeads)
	require.Equal(t, 0.0, report.AverageScore)
	require.Len(t, report.Recommendations, 1)
	require.Contains(t, report.Recommendations[0], "No leads")
}

func TestDashboardStaleLeadAlerts(t *testing.T) {
	service, cache := newTestReporting(t)
	now := service.now()

	// Hot lead untouched for 8 days is stale; 2 days is not.
	seedLead(cache, "stale", 65, 90000, "direct", now.Add(-30*24*time.Hour), now.Add(-8*24*time.Hour))
	seedLead(cache, "fresh", 65, 90000, "direct", now.Add(-10*24*time.Hour), now.Add(-2*24*time.Hour))

	dashboard := service.GetDashboardData()

	require.Len(t, dashboard.Alerts.StaleLeads, 1)
	require.Equal(t, "stale", dashboard.Alerts.StaleLeads[0].LeadID)
}

func TestDashboardHighValueAlertsAndRecents(t *testing.T) {
	service, cache := newTestReporting(t)
	now := service.now()

	for i := 0; i < 12; i++ {
		seedLead(cache, string(rune('a'+i)), 50, 60000, "direct", now.Add(-time.Duration(i)*time.Hour), now.Add(-time.Duration(i)*time.Hour))
	}
	seedLead(cache, "big", 90, 250000, "direct", now, now)

	dashboard := service.GetDashboardData()

	require.Len(t, dashboard.RecentLeads, 10)
	require.Equal(t, "big", dashboard.RecentLeads[0].ID, "most recently touched first")

	require.Len(t, dashboard.Alerts.HighValue, 1)
	require.Equal(t, "big", dashboard.Alerts.HighValue[0].LeadID)
}

func TestDashboardMonthOverMonth(t *testing.T) {
	service, cache := newTestReporting(t)

	current := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	previous := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)

	seedLead(cache, "c1", 50, 60000, "direct", current, current)
	seedLead(cache, "c2", 50, 60000, "direct", current, current)
	seedLead(cache, "p1", 50, 40000, "direct", previous, previous)

	performance := service.GetDashboardData().Performance

	require.Equal(t, 2, performance.CurrentMonthLeads)
	require.Equal(t, 1, performance.PreviousMonthLeads)
	require.InDelta(t, 100, performance.LeadGrowth, 0.001)
	require.InDelta(t, 120000, performance.CurrentMonthValue, 0.001)
	require.InDelta(t, 40000, performance.PreviousMonthValue, 0.001)
	require.InDelta(t, 200, performance.ValueGrowth, 0.001)
}
