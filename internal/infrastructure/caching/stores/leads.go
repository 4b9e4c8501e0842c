// Package stores provides concrete cache store implementations
package stores

import (
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/types"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
)

// LeadsStore implements the in-memory lead registry. It is the exclusive
// owner of every LeadProfile: callers always receive copies, never the
// stored pointer.
type LeadsStore struct {
	cache  types.LeadRegistryCache
	logger *logging.ChanneledLogger
}

// NewLeadsStore creates a new lead registry store.
func NewLeadsStore(logger *logging.ChanneledLogger) *LeadsStore {
	if logger != nil {
		logger.Cache().Info("Initializing leads cache store")
	}
	ls := &LeadsStore{logger: logger}
	ls.cache.Leads = make(map[string]*leads.LeadProfile)
	ls.cache.Users = make(map[string]string)
	ls.cache.Metrics = leads.NewBusinessMetrics()
	ls.cache.LastLoaded = time.Now().UTC()
	return ls
}

// Get retrieves a copy of a lead profile by id.
func (ls *LeadsStore) Get(id string) (*leads.LeadProfile, bool) {
	start := time.Now()
	ls.cache.Mu.RLock()
	defer ls.cache.Mu.RUnlock()

	profile, found := ls.cache.Leads[id]
	if ls.logger != nil {
		ls.logger.Cache().Debug("Cache operation", "operation", "get", "type", "lead", "leadId", id, "hit", found, "duration", time.Since(start))
	}
	if !found {
		return nil, false
	}
	return copyProfile(profile), true
}

// Set stores a copy of the given lead profile.
func (ls *LeadsStore) Set(profile *leads.LeadProfile) {
	start := time.Now()
	ls.cache.Mu.Lock()
	defer ls.cache.Mu.Unlock()

	ls.cache.Leads[profile.ID] = copyProfile(profile)
	if profile.UserID != "" {
		ls.cache.Users[profile.UserID] = profile.ID
	}
	ls.cache.LastLoaded = time.Now().UTC()

	if ls.logger != nil {
		ls.logger.Cache().Debug("Cache operation", "operation", "set", "type", "lead", "leadId", profile.ID, "score", profile.Score, "duration", time.Since(start))
	}
}

// Update applies a mutation to a stored lead under a single write lock, so
// concurrent read-modify-write sequences cannot lose each other's writes.
// The apply func receives a private copy; the result is stored back and
// returned. Returns nil, false when the id is unknown.
func (ls *LeadsStore) Update(id string, apply func(*leads.LeadProfile)) (*leads.LeadProfile, bool) {
	start := time.Now()
	ls.cache.Mu.Lock()
	defer ls.cache.Mu.Unlock()

	stored, found := ls.cache.Leads[id]
	if !found {
		return nil, false
	}
	updated := copyProfile(stored)
	apply(updated)
	ls.cache.Leads[id] = updated
	if updated.UserID != "" {
		ls.cache.Users[updated.UserID] = id
	}
	ls.cache.LastLoaded = time.Now().UTC()

	if ls.logger != nil {
		ls.logger.Cache().Debug("Cache operation", "operation", "update", "type", "lead", "leadId", id, "score", updated.Score, "duration", time.Since(start))
	}
	return copyProfile(updated), true
}

// GetByUser retrieves a copy of the lead profile owned by the given user.
func (ls *LeadsStore) GetByUser(userID string) (*leads.LeadProfile, bool) {
	ls.cache.Mu.RLock()
	defer ls.cache.Mu.RUnlock()

	leadID, found := ls.cache.Users[userID]
	if !found {
		return nil, false
	}
	profile, found := ls.cache.Leads[leadID]
	if !found {
		return nil, false
	}
	return copyProfile(profile), true
}

// All returns copies of every lead profile in the registry.
func (ls *LeadsStore) All() []*leads.LeadProfile {
	start := time.Now()
	ls.cache.Mu.RLock()
	defer ls.cache.Mu.RUnlock()

	result := make([]*leads.LeadProfile, 0, len(ls.cache.Leads))
	for _, profile := range ls.cache.Leads {
		result = append(result, copyProfile(profile))
	}

	if ls.logger != nil {
		ls.logger.Cache().Debug("Cache operation", "operation", "get_all", "type", "lead", "count", len(result), "duration", time.Since(start))
	}
	return result
}

// Count returns the number of leads in the registry.
func (ls *LeadsStore) Count() int {
	ls.cache.Mu.RLock()
	defer ls.cache.Mu.RUnlock()
	return len(ls.cache.Leads)
}

// GetMetrics returns a copy of the current business metrics aggregate.
func (ls *LeadsStore) GetMetrics() *leads.BusinessMetrics {
	ls.cache.Mu.RLock()
	defer ls.cache.Mu.RUnlock()
	return copyMetrics(ls.cache.Metrics)
}

// SetMetrics replaces the business metrics aggregate.
func (ls *LeadsStore) SetMetrics(metrics *leads.BusinessMetrics) {
	ls.cache.Mu.Lock()
	defer ls.cache.Mu.Unlock()
	ls.cache.Metrics = copyMetrics(metrics)
}

// ReplaceAll swaps in a full registry state. Used when rehydrating from a
// persisted snapshot at startup.
func (ls *LeadsStore) ReplaceAll(profiles map[string]*leads.LeadProfile, metrics *leads.BusinessMetrics) {
	start := time.Now()
	ls.cache.Mu.Lock()
	defer ls.cache.Mu.Unlock()

	ls.cache.Leads = make(map[string]*leads.LeadProfile, len(profiles))
	ls.cache.Users = make(map[string]string, len(profiles))
	for id, profile := range profiles {
		ls.cache.Leads[id] = copyProfile(profile)
		if profile.UserID != "" {
			ls.cache.Users[profile.UserID] = id
		}
	}
	if metrics != nil {
		ls.cache.Metrics = copyMetrics(metrics)
	} else {
		ls.cache.Metrics = leads.NewBusinessMetrics()
	}
	ls.cache.LastLoaded = time.Now().UTC()

	if ls.logger != nil {
		ls.logger.Cache().Info("Lead registry rehydrated", "operation", "replace_all", "type", "lead", "count", len(profiles), "duration", time.Since(start))
	}
}

// Snapshot returns a copy of the full registry state for persistence.
func (ls *LeadsStore) Snapshot() (map[string]*leads.LeadProfile, *leads.BusinessMetrics) {
	ls.cache.Mu.RLock()
	defer ls.cache.Mu.RUnlock()

	profiles := make(map[string]*leads.LeadProfile, len(ls.cache.Leads))
	for id, profile := range ls.cache.Leads {
		profiles[id] = copyProfile(profile)
	}
	return profiles, copyMetrics(ls.cache.Metrics)
}

func copyProfile(p *leads.LeadProfile) *leads.LeadProfile {
	clone := *p
	clone.Touchpoints = make([]string, len(p.Touchpoints))
	copy(clone.Touchpoints, p.Touchpoints)
	return &clone
}

func copyMetrics(m *leads.BusinessMetrics) *leads.BusinessMetrics {
	clone := *m
	clone.Marketing.SourceBreakdown = make(map[string]int, len(m.Marketing.SourceBreakdown))
	for source, count := range m.Marketing.SourceBreakdown {
		clone.Marketing.SourceBreakdown[source] = count
	}
	return &clone
}
