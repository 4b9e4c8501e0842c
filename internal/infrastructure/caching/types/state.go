// Package types defines the shared cache state structures used by the
// in-memory stores.
package types

import (
	"sync"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
)

// LeadRegistryCache holds every lead profile keyed by id plus the business
// metrics aggregate derived from them. The registry service is the only
// writer; profiles never escape by reference.
type LeadRegistryCache struct {
	Mu         sync.RWMutex
	Leads      map[string]*leads.LeadProfile
	Users      map[string]string // user id -> lead id
	Metrics    *leads.BusinessMetrics
	LastLoaded time.Time
}

// SessionStateCache holds per-session analytics state keyed by session id.
type SessionStateCache struct {
	Mu         sync.RWMutex
	Sessions   map[string]*leads.SessionState
	KnownUsers map[string]bool // users seen in a prior session (return visitors)
	LastLoaded time.Time
}

// AttributionCache holds the registered attribution models keyed by id.
type AttributionCache struct {
	Mu         sync.RWMutex
	Models     map[string]*leads.AttributionModel
	LastLoaded time.Time
}
