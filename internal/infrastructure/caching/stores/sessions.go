package stores

import (
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/types"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
)

// SessionsStore implements per-session analytics state caching. Sessions
// accumulate the interactions and journey entries the scorer reads, and the
// KnownUsers set marks return visitors across sessions.
type SessionsStore struct {
	cache  types.SessionStateCache
	ttl    time.Duration
	logger *logging.ChanneledLogger
}

// NewSessionsStore creates a new session state store with the given TTL.
func NewSessionsStore(ttl time.Duration, logger *logging.ChanneledLogger) *SessionsStore {
	if logger != nil {
		logger.Cache().Info("Initializing sessions cache store", "ttl", ttl)
	}
	ss := &SessionsStore{ttl: ttl, logger: logger}
	ss.cache.Sessions = make(map[string]*leads.SessionState)
	ss.cache.KnownUsers = make(map[string]bool)
	ss.cache.LastLoaded = time.Now().UTC()
	return ss
}

// Get retrieves a copy of a session state by session id.
func (ss *SessionsStore) Get(sessionID string) (*leads.SessionState, bool) {
	start := time.Now()
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()

	state, found := ss.cache.Sessions[sessionID]
	if found && ss.ttl > 0 && time.Since(state.LastSeen) > ss.ttl {
		if ss.logger != nil {
			ss.logger.Cache().Debug("Cache operation", "operation", "get", "type", "session", "sessionId", sessionID, "hit", false, "reason", "expired", "duration", time.Since(start))
		}
		return nil, false
	}

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "get", "type", "session", "sessionId", sessionID, "hit", found, "duration", time.Since(start))
	}
	if !found {
		return nil, false
	}
	return copySession(state), true
}

// Record appends an interaction to its session, creating the session on
// first sight, and returns a copy of the updated state. The journey gains
// one entry per interaction, named after the element for engagement events
// and the page for page views.
func (ss *SessionsStore) Record(interaction leads.UserInteraction, hints leads.DeviceHints) *leads.SessionState {
	start := time.Now()
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	state, found := ss.cache.Sessions[interaction.SessionID]
	if !found {
		state = &leads.SessionState{
			SessionID:     interaction.SessionID,
			UserID:        interaction.UserID,
			StartedAt:     interaction.Timestamp,
			ReturnVisitor: ss.cache.KnownUsers[interaction.UserID],
		}
		ss.cache.Sessions[interaction.SessionID] = state
		ss.cache.KnownUsers[interaction.UserID] = true
	}

	state.LastSeen = interaction.Timestamp
	state.Interactions = append(state.Interactions, interaction)
	state.UserJourney = append(state.UserJourney, journeyEntry(interaction))
	if hints != (leads.DeviceHints{}) {
		state.Device = hints
	}
	ss.cache.LastLoaded = time.Now().UTC()

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "record", "type", "session", "sessionId", interaction.SessionID, "interactionType", string(interaction.Type), "journeyLength", len(state.UserJourney), "new", !found, "duration", time.Since(start))
	}
	return copySession(state)
}

// IsReturnVisitor reports whether the user has been seen before.
func (ss *SessionsStore) IsReturnVisitor(userID string) bool {
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()
	return ss.cache.KnownUsers[userID]
}

// MarkKnownUser records that a user has an established history, e.g. after
// rehydrating leads from a snapshot.
func (ss *SessionsStore) MarkKnownUser(userID string) {
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()
	ss.cache.KnownUsers[userID] = true
}

// Sweep removes sessions idle beyond the TTL and returns how many were
// evicted. KnownUsers survives sweeps so return-visitor detection persists.
func (ss *SessionsStore) Sweep() int {
	start := time.Now()
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	if ss.ttl <= 0 {
		return 0
	}

	evicted := 0
	cutoff := time.Now().Add(-ss.ttl)
	for sessionID, state := range ss.cache.Sessions {
		if state.LastSeen.Before(cutoff) {
			delete(ss.cache.Sessions, sessionID)
			evicted++
		}
	}

	if ss.logger != nil && evicted > 0 {
		ss.logger.Cache().Info("Session sweep completed", "operation", "sweep", "type", "session", "evicted", evicted, "remaining", len(ss.cache.Sessions), "duration", time.Since(start))
	}
	return evicted
}

// Count returns the number of live sessions.
func (ss *SessionsStore) Count() int {
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()
	return len(ss.cache.Sessions)
}

func journeyEntry(interaction leads.UserInteraction) string {
	if interaction.Type == leads.InteractionPageView {
		return interaction.Page
	}
	return interaction.Element
}

func copySession(s *leads.SessionState) *leads.SessionState {
	clone := *s
	clone.UserJourney = make([]string, len(s.UserJourney))
	copy(clone.UserJourney, s.UserJourney)
	clone.Interactions = make([]leads.UserInteraction, len(s.Interactions))
	copy(clone.Interactions, s.Interactions)
	return &clone
}
