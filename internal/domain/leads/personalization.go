package leads

import "time"

// UserType is the coarse visitor profile used for personalization.
type UserType string

const (
	UserTypeNew        UserType = "new"
	UserTypeReturning  UserType = "returning"
	UserTypeEnterprise UserType = "enterprise"
)

// DeviceType is inferred from viewport width and user agent.
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
)

// TimeOfDay buckets the local hour of the visit.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
)

// ScrollBehavior buckets average scroll speed.
type ScrollBehavior string

const (
	ScrollFastScanner ScrollBehavior = "fast_scanner"
	ScrollSlowReader  ScrollBehavior = "slow_reader"
	ScrollExplorer    ScrollBehavior = "explorer"
)

// Viewport holds the reported browser viewport dimensions.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PersonalizationConfig is the fully populated visitor profile produced by
// the behavior classifier. Defaults are used when signals are absent; there
// are no error conditions.
type PersonalizationConfig struct {
	UserType       UserType       `json:"userType"`
	GeoLocation    string         `json:"geoLocation"`
	DeviceType     DeviceType     `json:"deviceType"`
	TimeOfDay      TimeOfDay      `json:"timeOfDay"`
	ScrollBehavior ScrollBehavior `json:"scrollBehavior"`
	Viewport       Viewport       `json:"viewport"`
}

// DeviceHints carries the client device signals the site reports alongside
// interactions. Absent hints degrade scoring gracefully.
type DeviceHints struct {
	UserAgent      string   `json:"userAgent,omitempty"`
	Viewport       Viewport `json:"viewport,omitempty"`
	DeviceMemoryGB float64  `json:"deviceMemoryGb,omitempty"`
	ConnectionType string   `json:"connectionType,omitempty"` // effective type, e.g. "4g"
	GeoLocation    string   `json:"geoLocation,omitempty"`
}

// SessionState is the per-session analytics state the scorer and classifier
// read. It replaces the browser-side AnalyticsState: the site pushes
// interactions and the server accumulates journey and duration here.
type SessionState struct {
	SessionID     string            `json:"sessionId"`
	UserID        string            `json:"userId"`
	StartedAt     time.Time         `json:"startedAt"`
	LastSeen      time.Time         `json:"lastSeen"`
	UserJourney   []string          `json:"userJourney"`
	Interactions  []UserInteraction `json:"interactions"`
	ReturnVisitor bool              `json:"returnVisitor"`
	Device        DeviceHints       `json:"device"`
}

// Duration returns the elapsed session time in milliseconds.
func (s *SessionState) Duration() int64 {
	if s.LastSeen.Before(s.StartedAt) {
		return 0
	}
	return s.LastSeen.Sub(s.StartedAt).Milliseconds()
}
