package leads

import "time"

// Classification is the four-tier bucket a lead score maps into.
type Classification string

const (
	ClassificationCold      Classification = "cold"
	ClassificationWarm      Classification = "warm"
	ClassificationHot       Classification = "hot"
	ClassificationQualified Classification = "qualified"
)

// Classification thresholds. A score at or above a threshold earns the tier.
const (
	ThresholdWarm      = 40.0
	ThresholdHot       = 60.0
	ThresholdQualified = 80.0
)

// Classify maps a score onto its tier. The mapping is monotonic: a higher
// score never yields a lower tier.
func Classify(score float64) Classification {
	switch {
	case score >= ThresholdQualified:
		return ClassificationQualified
	case score >= ThresholdHot:
		return ClassificationHot
	case score >= ThresholdWarm:
		return ClassificationWarm
	default:
		return ClassificationCold
	}
}

// Rank returns the ordering of a tier, cold lowest.
func (c Classification) Rank() int {
	switch c {
	case ClassificationQualified:
		return 3
	case ClassificationHot:
		return 2
	case ClassificationWarm:
		return 1
	default:
		return 0
	}
}

// Urgency grades how quickly a lead should be followed up.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// LeadProfile is the durable entity owned by the lead registry.
//
// Invariants maintained by the registry:
//   - Score never decreases across updates (max of old and new).
//   - LastTouch >= FirstTouch.
//   - EstimatedValue and Probability are always recomputed from the latest
//     classification and factors, never persisted independently of them.
type LeadProfile struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId,omitempty"`
	Score          float64        `json:"score"`
	Classification Classification `json:"classification"`
	Source         string         `json:"source"`
	FirstTouch     time.Time      `json:"firstTouch"`
	LastTouch      time.Time      `json:"lastTouch"`
	Touchpoints    []string       `json:"touchpoints"`
	EstimatedValue float64        `json:"estimatedValue"`
	Probability    float64        `json:"probability"`
	NextAction     string         `json:"nextAction"`
	Urgency        Urgency        `json:"urgency"`
	AssignedTo     string         `json:"assignedTo,omitempty"`
	CompanySize    string         `json:"companySize,omitempty"`
	Industry       string         `json:"industry,omitempty"`
	Location       string         `json:"location,omitempty"`
}
