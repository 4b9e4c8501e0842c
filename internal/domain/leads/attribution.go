package leads

import "time"

// AttributionStrategy names one of the five revenue allocation rules.
type AttributionStrategy string

const (
	AttributionFirstTouch    AttributionStrategy = "first_touch"
	AttributionLastTouch     AttributionStrategy = "last_touch"
	AttributionLinear        AttributionStrategy = "linear"
	AttributionTimeDecay     AttributionStrategy = "time_decay"
	AttributionPositionBased AttributionStrategy = "position_based"
)

// Valid reports whether s is one of the recognized strategies.
func (s AttributionStrategy) Valid() bool {
	switch s {
	case AttributionFirstTouch, AttributionLastTouch, AttributionLinear,
		AttributionTimeDecay, AttributionPositionBased:
		return true
	}
	return false
}

// Touchpoint is a single attributed marketing event within a model.
type Touchpoint struct {
	Channel     string    `json:"channel"`
	Timestamp   time.Time `json:"timestamp"`
	Value       float64   `json:"value"`
	Attribution float64   `json:"attribution"`
}

// AttributionModel holds an ordered list of touchpoints and the revenue
// being split across them under one strategy.
//
// Invariant: after every recalculation the per-touchpoint Attribution
// values sum to Revenue exactly (each rule allocates the full amount by
// construction).
type AttributionModel struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Strategy    AttributionStrategy `json:"strategy"`
	Revenue     float64             `json:"revenue"`
	Touchpoints []Touchpoint        `json:"touchpoints"`
}
