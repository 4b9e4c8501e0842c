package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/stretchr/testify/require"
)

func newTestAttribution(t *testing.T) *AttributionService {
	t.Helper()
	service := NewAttributionService(manager.NewManager(nil), nil)
	service.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return service
}

func attributionSum(model *leads.AttributionModel) float64 {
	sum := 0.0
	for _, touchpoint := range model.Touchpoints {
		sum += touchpoint.Attribution
	}
	return sum
}

func TestAttributionConservation(t *testing.T) {
	strategies := []leads.AttributionStrategy{
		leads.AttributionFirstTouch,
		leads.AttributionLastTouch,
		leads.AttributionLinear,
		leads.AttributionTimeDecay,
		leads.AttributionPositionBased,
	}

	for _, strategy := range strategies {
		for _, touchpoints := range []int{0, 1, 2, 3, 10} {
			t.Run(fmt.Sprintf("%s_%d", strategy, touchpoints), func(t *testing.T) {
				service := newTestAttribution(t)
				model := service.RegisterModel("test", strategy, 100000)

				for i := 0; i < touchpoints; i++ {
					service.TrackTouchpoint(fmt.Sprintf("channel_%d", i), 0)
				}

				result := service.GetModel(model.ID)
				require.NotNil(t, result)
				require.Len(t, result.Touchpoints, touchpoints)

				if touchpoints == 0 {
					require.Equal(t, 0.0, attributionSum(result))
					return
				}
				require.InDelta(t, 100000, attributionSum(result), 0.0001, "full revenue allocated")
			})
		}
	}
}

func TestFirstAndLastTouch(t *testing.T) {
	service := newTestAttribution(t)
	first := service.RegisterModel("first", leads.AttributionFirstTouch, 1000)
	last := service.RegisterModel("last", leads.AttributionLastTouch, 1000)

	service.TrackTouchpoint("organic", 0)
	service.TrackTouchpoint("email", 0)
	service.TrackTouchpoint("paid", 0)

	firstResult := service.GetModel(first.ID)
	require.Equal(t, 1000.0, firstResult.Touchpoints[0].Attribution)
	require.Equal(t, 0.0, firstResult.Touchpoints[1].Attribution)
	require.Equal(t, 0.0, firstResult.Touchpoints[2].Attribution)

	lastResult := service.GetModel(last.ID)
	require.Equal(t, 0.0, lastResult.Touchpoints[0].Attribution)
	require.Equal(t, 1000.0, lastResult.Touchpoints[2].Attribution)
}

func TestPositionBasedSplits(t *testing.T) {
	service := newTestAttribution(t)
	model := service.RegisterModel("position", leads.AttributionPositionBased, 1000)

	service.TrackTouchpoint("a", 0)
	require.Equal(t, 1000.0, service.GetModel(model.ID).Touchpoints[0].Attribution)

	service.TrackTouchpoint("b", 0)
	result := service.GetModel(model.ID)
	require.Equal(t, 500.0, result.Touchpoints[0].Attribution)
	require.Equal(t, 500.0, result.Touchpoints[1].Attribution)

	service.TrackTouchpoint("c", 0)
	service.TrackTouchpoint("d", 0)
	service.TrackTouchpoint("e", 0)
	result = service.GetModel(model.ID)
	require.Len(t, result.Touchpoints, 5)
	require.InDelta(t, 400, result.Touchpoints[0].Attribution, 0.0001)
	require.InDelta(t, 200, result.Touchpoints[4].Attribution, 0.0001)
	for i := 1; i <= 3; i++ {
		require.InDelta(t, 400.0/3, result.Touchpoints[i].Attribution, 0.0001)
	}
}

func TestTimeDecayFavorsRecentTouchpoints(t *testing.T) {
	service := newTestAttribution(t)
	model := service.RegisterModel("decay", leads.AttributionTimeDecay, 1000)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return base.Add(-5 * 24 * time.Hour) }
	service.TrackTouchpoint("old", 0)

	service.now = func() time.Time { return base }
	service.TrackTouchpoint("recent", 0)

	result := service.GetModel(model.ID)
	require.InDelta(t, 1000, attributionSum(result), 0.0001)
	require.Greater(t, result.Touchpoints[1].Attribution, result.Touchpoints[0].Attribution)

	// 0.7^5 vs 0.7^0 normalized.
	expectedOldWeight := 0.16807 / (1 + 0.16807)
	require.InDelta(t, 1000*expectedOldWeight, result.Touchpoints[0].Attribution, 0.01)
}

func TestRecordConversionAddsRevenue(t *testing.T) {
	service := newTestAttribution(t)
	model := service.RegisterModel("linear", leads.AttributionLinear, 0)

	service.TrackTouchpoint("organic", 0)
	service.TrackTouchpoint("paid", 0)
	service.RecordConversion(5000)

	result := service.GetModel(model.ID)
	require.Equal(t, 5000.0, result.Revenue)
	require.InDelta(t, 2500, result.Touchpoints[0].Attribution, 0.0001)
	require.InDelta(t, 2500, result.Touchpoints[1].Attribution, 0.0001)
}

func TestRegisterModelUnknownStrategyFallsBackToLinear(t *testing.T) {
	service := newTestAttribution(t)
	model := service.RegisterModel("odd", leads.AttributionStrategy("made_up"), 100)
	require.Equal(t, leads.AttributionLinear, model.Strategy)
}
