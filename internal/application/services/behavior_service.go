package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
)

var (
	mobileAgentPattern = regexp.MustCompile(`(?i)mobile|android|iphone|ipod`)
	tabletAgentPattern = regexp.MustCompile(`(?i)ipad|tablet`)
)

// BehaviorService derives a coarse visitor profile from accumulated session
// state. It always returns a fully populated config; missing signals fall
// back to defaults rather than errors.
type BehaviorService struct {
	now func() time.Time
}

func NewBehaviorService() *BehaviorService {
	return &BehaviorService{now: time.Now}
}

// ClassifyBehavior produces the personalization profile for a session.
func (s *BehaviorService) ClassifyBehavior(state *leads.SessionState) *leads.PersonalizationConfig {
	geo := state.Device.GeoLocation
	if geo == "" {
		geo = "unknown"
	}

	return &leads.PersonalizationConfig{
		UserType:       s.classifyUserType(state),
		GeoLocation:    geo,
		DeviceType:     s.classifyDevice(state.Device),
		TimeOfDay:      s.classifyTimeOfDay(state),
		ScrollBehavior: s.classifyScrollBehavior(state.Interactions),
		Viewport:       state.Device.Viewport,
	}
}

// classifyUserType applies the profile rules in fixed priority order:
// enterprise overrides returning overrides new.
func (s *BehaviorService) classifyUserType(state *leads.SessionState) leads.UserType {
	servicePageViews := 0
	contactAttempts := 0
	portfolioViews := 0
	for _, entry := range state.UserJourney {
		lowered := strings.ToLower(entry)
		if strings.Contains(lowered, "service") {
			servicePageViews++
		}
		if strings.Contains(lowered, "contact") {
			contactAttempts++
		}
		if strings.Contains(lowered, "project") || strings.Contains(lowered, "portfolio") {
			portfolioViews++
		}
	}

	if servicePageViews > 3 || contactAttempts > 1 || state.Duration() > 300000 {
		return leads.UserTypeEnterprise
	}
	if state.ReturnVisitor || portfolioViews > 5 {
		return leads.UserTypeReturning
	}
	return leads.UserTypeNew
}

func (s *BehaviorService) classifyDevice(device leads.DeviceHints) leads.DeviceType {
	if device.UserAgent != "" {
		if tabletAgentPattern.MatchString(device.UserAgent) {
			return leads.DeviceTablet
		}
		if mobileAgentPattern.MatchString(device.UserAgent) {
			return leads.DeviceMobile
		}
	}

	switch width := device.Viewport.Width; {
	case width == 0:
		return leads.DeviceDesktop
	case width < 768:
		return leads.DeviceMobile
	case width < 1024:
		return leads.DeviceTablet
	default:
		return leads.DeviceDesktop
	}
}

func (s *BehaviorService) classifyTimeOfDay(state *leads.SessionState) leads.TimeOfDay {
	at := state.LastSeen
	if at.IsZero() {
		at = s.now()
	}

	switch hour := at.Local().Hour(); {
	case hour < 12:
		return leads.TimeMorning
	case hour < 18:
		return leads.TimeAfternoon
	default:
		return leads.TimeEvening
	}
}

// classifyScrollBehavior averages |Δy| / Δt over consecutive scroll events.
func (s *BehaviorService) classifyScrollBehavior(interactions []leads.UserInteraction) leads.ScrollBehavior {
	var prev *leads.UserInteraction
	totalSpeed := 0.0
	samples := 0

	for i := range interactions {
		current := &interactions[i]
		if current.Type != leads.InteractionScroll {
			continue
		}
		if prev != nil {
			deltaY := float64(current.Y - prev.Y)
			if deltaY < 0 {
				deltaY = -deltaY
			}
			deltaT := float64(current.Timestamp.Sub(prev.Timestamp).Milliseconds())
			if deltaT > 0 {
				totalSpeed += deltaY / deltaT * 1000
				samples++
			}
		}
		prev = current
	}

	if samples == 0 {
		return leads.ScrollExplorer
	}

	switch average := totalSpeed / float64(samples); {
	case average > 1000:
		return leads.ScrollFastScanner
	case average > 500:
		return leads.ScrollSlowReader
	default:
		return leads.ScrollExplorer
	}
}
