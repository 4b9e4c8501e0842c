package services

import (
	"testing"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/stretchr/testify/require"
)

func sessionWith(duration time.Duration, journey []string, returning bool, device leads.DeviceHints) *leads.SessionState {
	started := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	return &leads.SessionState{
		SessionID:     "s1",
		UserID:        "u1",
		StartedAt:     started,
		LastSeen:      started.Add(duration),
		UserJourney:   journey,
		ReturnVisitor: returning,
		Device:        device,
	}
}

func TestScoreInteractionEngagedSession(t *testing.T) {
	scorer := NewScoringService()

	state := sessionWith(400*time.Second,
		[]string{"view_project", "view_project", "contact_form"},
		true,
		leads.DeviceHints{DeviceMemoryGB: 16, ConnectionType: "4g"},
	)
	interaction := leads.UserInteraction{
		UserID:    "u1",
		SessionID: "s1",
		Type:      leads.InteractionClick,
		Timestamp: time.Date(2026, 3, 10, 14, 6, 40, 0, time.Local),
	}

	result := scorer.ScoreInteraction(interaction, state)

	require.Equal(t, 25.0, result.Factors.TimeOnSite)
	require.Equal(t, 5.0, result.Factors.PageDepth)
	require.Equal(t, 10.0, result.Factors.PortfolioEngagement)
	require.Equal(t, 10.0, result.Factors.ContactFormInteraction)
	require.Equal(t, 15.0, result.Factors.ReturnVisitor)
	require.Equal(t, 15.0, result.Factors.DeviceQuality)
	require.Equal(t, 10.0, result.Factors.TimeOfDay)
	require.Equal(t, 90.0, result.Score)
	require.Equal(t, leads.ClassificationQualified, result.Classification)
}

func TestScoreInteractionColdVisitor(t *testing.T) {
	scorer := NewScoringService()

	state := sessionWith(10*time.Second, []string{"/"}, false, leads.DeviceHints{})
	interaction := leads.UserInteraction{
		UserID:    "u1",
		SessionID: "s1",
		Type:      leads.InteractionPageView,
		Timestamp: time.Date(2026, 3, 10, 3, 0, 0, 0, time.Local),
	}

	result := scorer.ScoreInteraction(interaction, state)

	// 5 (time) + 5 (depth) + 0 + 0 + 0 + 5 (device base) + 2 (night)
	require.Equal(t, 17.0, result.Score)
	require.Equal(t, leads.ClassificationCold, result.Classification)
}

func TestScoringFactorCaps(t *testing.T) {
	scorer := NewScoringService()

	journey := make([]string, 0, 12)
	for i := 0; i < 6; i++ {
		journey = append(journey, "project_gallery", "contact_form")
	}
	state := sessionWith(time.Hour, journey, false, leads.DeviceHints{})
	interaction := leads.UserInteraction{
		UserID:    "u1",
		SessionID: "s1",
		Type:      leads.InteractionClick,
		Timestamp: time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local),
	}

	result := scorer.ScoreInteraction(interaction, state)

	require.Equal(t, 20.0, result.Factors.PortfolioEngagement)
	require.Equal(t, 30.0, result.Factors.ContactFormInteraction)
	require.Equal(t, 20.0, result.Factors.PageDepth)
}

func TestTimeOnSiteBuckets(t *testing.T) {
	scorer := NewScoringService()

	cases := []struct {
		durationMs int64
		points     float64
	}{
		{0, 5},
		{29999, 5},
		{30000, 10},
		{60000, 15},
		{120000, 20},
		{300000, 25},
		{900000, 25},
	}
	for _, tc := range cases {
		require.Equal(t, tc.points, scorer.timeOnSitePoints(tc.durationMs), "duration %dms", tc.durationMs)
	}
}

func TestTimeOfDayBuckets(t *testing.T) {
	scorer := NewScoringService()

	require.Equal(t, 10.0, scorer.timeOfDayPoints(9))
	require.Equal(t, 10.0, scorer.timeOfDayPoints(17))
	require.Equal(t, 5.0, scorer.timeOfDayPoints(8))
	require.Equal(t, 5.0, scorer.timeOfDayPoints(20))
	require.Equal(t, 2.0, scorer.timeOfDayPoints(23))
	require.Equal(t, 2.0, scorer.timeOfDayPoints(3))
}

func TestClassificationMonotonicity(t *testing.T) {
	previousRank := -1
	for score := 0.0; score <= 155; score++ {
		rank := leads.Classify(score).Rank()
		require.GreaterOrEqual(t, rank, previousRank, "score %.0f", score)
		previousRank = rank
	}

	require.Equal(t, leads.ClassificationCold, leads.Classify(39.9))
	require.Equal(t, leads.ClassificationWarm, leads.Classify(40))
	require.Equal(t, leads.ClassificationHot, leads.Classify(60))
	require.Equal(t, leads.ClassificationQualified, leads.Classify(80))
}
