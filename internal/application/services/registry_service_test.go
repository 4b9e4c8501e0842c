package services

import (
	"sync"
	"testing"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	highValue []*leads.LeadProfile
	business  []string
}

func (n *captureNotifier) SendHighValueLeadAlert(profile *leads.LeadProfile) error {
	n.highValue = append(n.highValue, profile)
	return nil
}

func (n *captureNotifier) SendBusinessAlert(subject string, lines []string) error {
	n.business = append(n.business, subject)
	return nil
}

func newTestRegistry(t *testing.T) (*RegistryService, *captureNotifier, *manager.Manager) {
	t.Helper()
	cache := manager.NewManager(nil)
	notifier := &captureNotifier{}
	registry := NewRegistryService(cache, notifier, nil, nil)
	registry.variance = func() float64 { return 1 } // deterministic values
	return registry, notifier, cache
}

func scoringData(score float64, factors leads.ScoringFactors) *leads.LeadScoringData {
	return &leads.LeadScoringData{
		Score:          score,
		Factors:        factors,
		Classification: leads.Classify(score),
	}
}

func TestCreateLeadQualified(t *testing.T) {
	registry, notifier, _ := newTestRegistry(t)

	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	interaction := leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionFormSubmit, Timestamp: now}
	scoring := scoringData(85, leads.ScoringFactors{
		TimeOnSite:             25,
		ContactFormInteraction: 25,
		PortfolioEngagement:    20,
		ReturnVisitor:          15,
	})

	profile := registry.CreateLead(interaction, scoring, "google_ads")

	require.NotEmpty(t, profile.ID)
	require.Equal(t, "u1", profile.UserID)
	require.Equal(t, leads.ClassificationQualified, profile.Classification)
	require.Equal(t, "google_ads", profile.Source)
	require.Equal(t, now, profile.FirstTouch)
	require.Equal(t, now, profile.LastTouch)
	require.Equal(t, []string{"form_submit"}, profile.Touchpoints)

	// 50000 x (85/50) x 2 with variance pinned to 1.
	require.InDelta(t, 170000, profile.EstimatedValue, 0.001)

	// 0.65 base + 0.10 contact + 0.05 portfolio + 0.05 return + 0.05 time,
	// capped at 0.95.
	require.InDelta(t, 0.90, profile.Probability, 0.001)
	require.Equal(t, leads.UrgencyHigh, profile.Urgency)

	// Score 85 crosses the high-value threshold.
	require.Len(t, notifier.highValue, 1)
	require.Equal(t, profile.ID, notifier.highValue[0].ID)
}

func TestCreateLeadProbabilityCap(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	scoring := scoringData(150, leads.ScoringFactors{
		TimeOnSite:             25,
		PageDepth:              20,
		PortfolioEngagement:    20,
		ContactFormInteraction: 30,
		ReturnVisitor:          15,
		DeviceQuality:          15,
		TimeOfDay:              10,
	})
	profile := registry.CreateLead(leads.UserInteraction{UserID: "u2", SessionID: "s2", Type: leads.InteractionClick, Timestamp: time.Now()}, scoring, "")

	require.Equal(t, 0.95, profile.Probability)
	require.Equal(t, "direct", profile.Source)

	// Score multiplier caps at 3.
	require.InDelta(t, 50000*3*2, profile.EstimatedValue, 0.001)
}

func TestCreateLeadColdNoAlert(t *testing.T) {
	registry, notifier, _ := newTestRegistry(t)

	scoring := scoringData(20, leads.ScoringFactors{TimeOnSite: 5})
	profile := registry.CreateLead(leads.UserInteraction{UserID: "u3", SessionID: "s3", Type: leads.InteractionPageView, Timestamp: time.Now()}, scoring, "direct")

	// 50000 x 0.4 x 0.5.
	require.InDelta(t, 10000, profile.EstimatedValue, 0.001)
	require.InDelta(t, 0.05, profile.Probability, 0.001)
	require.Equal(t, leads.UrgencyLow, profile.Urgency)
	require.Empty(t, notifier.highValue)
}

func TestUpdateLeadScoreIsMonotonic(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	first := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	created := registry.CreateLead(
		leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionPageView, Timestamp: first},
		scoringData(70, leads.ScoringFactors{}),
		"direct",
	)

	later := first.Add(time.Hour)
	updated := registry.UpdateLead(created.ID,
		leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionScroll, Timestamp: later},
		scoringData(45, leads.ScoringFactors{}),
	)

	require.NotNil(t, updated)
	require.Equal(t, 70.0, updated.Score, "score never decreases")
	require.Equal(t, leads.ClassificationWarm, updated.Classification, "classification follows the latest scoring")
	require.Equal(t, later, updated.LastTouch)
	require.Equal(t, first, updated.FirstTouch)
	require.Equal(t, []string{"page_view", "scroll"}, updated.Touchpoints)

	// A higher rescore raises the stored score.
	higher := registry.UpdateLead(created.ID,
		leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionClick, Timestamp: later.Add(time.Minute)},
		scoringData(88, leads.ScoringFactors{}),
	)
	require.Equal(t, 88.0, higher.Score)
}

func TestUpdateLeadClampsOutOfOrderTimestamps(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	nineAM := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	created := registry.CreateLead(
		leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionPageView, Timestamp: nineAM},
		scoringData(50, leads.ScoringFactors{}),
		"direct",
	)

	// An interaction from before the lead existed arrives late (skewed
	// client clock or out-of-order delivery).
	eightAM := nineAM.Add(-time.Hour)
	updated := registry.UpdateLead(created.ID,
		leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionClick, Timestamp: eightAM},
		scoringData(50, leads.ScoringFactors{}),
	)

	require.False(t, updated.LastTouch.Before(updated.FirstTouch), "lastTouch must never precede firstTouch")
	require.Equal(t, nineAM, updated.LastTouch, "a stale timestamp does not move lastTouch backwards")
	require.Equal(t, eightAM, updated.FirstTouch, "the earliest contact wins firstTouch")

	// A genuinely newer interaction still advances lastTouch.
	tenAM := nineAM.Add(time.Hour)
	updated = registry.UpdateLead(created.ID,
		leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionScroll, Timestamp: tenAM},
		scoringData(50, leads.ScoringFactors{}),
	)
	require.Equal(t, tenAM, updated.LastTouch)
	require.Equal(t, eightAM, updated.FirstTouch)
}

func TestConcurrentUpdatesKeepHighestScore(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	created := registry.CreateLead(
		leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionPageView, Timestamp: now},
		scoringData(10, leads.ScoringFactors{}),
		"direct",
	)

	// Pairs of racing rescores: whatever order they land in, the max must
	// survive because the read-modify-write is atomic in the store.
	for round := 0; round < 200; round++ {
		var wg sync.WaitGroup
		for _, score := range []float64{90, 50} {
			wg.Add(1)
			go func(score float64) {
				defer wg.Done()
				registry.UpdateLead(created.ID,
					leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionClick, Timestamp: now.Add(time.Minute)},
					scoringData(score, leads.ScoringFactors{}),
				)
			}(score)
		}
		wg.Wait()

		require.Equal(t, 90.0, registry.GetLead(created.ID).Score, "a lower racing rescore must not overwrite a higher one")
	}
}

func TestUpdateLeadUnknownIDReturnsNil(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	result := registry.UpdateLead("no-such-lead",
		leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionClick, Timestamp: time.Now()},
		scoringData(50, leads.ScoringFactors{}),
	)
	require.Nil(t, result)
}

func TestMetricsRecomputedOnEveryMutation(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	now := time.Now().UTC()
	registry.CreateLead(leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionClick, Timestamp: now}, scoringData(85, leads.ScoringFactors{}), "google_ads")
	registry.CreateLead(leads.UserInteraction{UserID: "u2", SessionID: "s2", Type: leads.InteractionClick, Timestamp: now}, scoringData(45, leads.ScoringFactors{}), "google_ads")
	registry.CreateLead(leads.UserInteraction{UserID: "u3", SessionID: "s3", Type: leads.InteractionClick, Timestamp: now}, scoringData(10, leads.ScoringFactors{}), "referral:linkedin.com")

	metrics := registry.Metrics()

	require.Equal(t, 3, metrics.Leads.Total)
	require.Equal(t, 1, metrics.Leads.Qualified)
	require.Equal(t, 1, metrics.Leads.Warm)
	require.Equal(t, 1, metrics.Leads.Cold)
	require.InDelta(t, (85+45+10)/3.0, metrics.Leads.AverageScore, 0.001)
	require.InDelta(t, 1.0/3.0, metrics.Leads.ConversionRate, 0.001)
	require.Equal(t, "google_ads", metrics.Marketing.TopSource)
	require.Equal(t, 3, metrics.Marketing.TouchpointCount)
	require.Equal(t, 1, metrics.Projects.ProspectiveProjects)
	require.Greater(t, metrics.Revenue.TotalPipeline, 0.0)
}

func TestEmptyRegistryMetricsAreZeroNotNaN(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	registry.RecomputeMetrics()

	metrics := registry.Metrics()
	require.Equal(t, 0, metrics.Leads.Total)
	require.Equal(t, 0.0, metrics.Leads.AverageScore)
	require.Equal(t, 0.0, metrics.Revenue.AverageDealSize)
	require.False(t, metrics.Leads.AverageScore != metrics.Leads.AverageScore, "no NaN")
}

func TestGetLeadByUser(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	created := registry.CreateLead(leads.UserInteraction{UserID: "u9", SessionID: "s9", Type: leads.InteractionClick, Timestamp: time.Now()}, scoringData(50, leads.ScoringFactors{}), "direct")

	byUser := registry.GetLeadByUser("u9")
	require.NotNil(t, byUser)
	require.Equal(t, created.ID, byUser.ID)
	require.Nil(t, registry.GetLeadByUser("stranger"))
}
