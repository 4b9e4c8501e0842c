package services

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
)

// InteractionEvent is one intake unit pushed by the marketing site: the UI
// event itself plus the device hints and acquisition context that arrive
// with it.
type InteractionEvent struct {
	Interaction leads.UserInteraction
	Device      leads.DeviceHints
	Referrer    string
	UTMSource   string
}

// InteractionResult is what one recorded interaction produced downstream.
type InteractionResult struct {
	Lead            *leads.LeadProfile           `json:"lead"`
	Scoring         *leads.LeadScoringData       `json:"scoring"`
	Personalization *leads.PersonalizationConfig `json:"personalization"`
	Created         bool                         `json:"created"`
}

// InteractionService runs the intake pipeline: record the interaction into
// session state, score it, classify behavior, then create or update the
// visitor's lead.
type InteractionService struct {
	cache    *manager.Manager
	behavior *BehaviorService
	scorer   *ScoringService
	registry *RegistryService
	logger   *logging.ChanneledLogger

	userMu    sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewInteractionService(cache *manager.Manager, behavior *BehaviorService, scorer *ScoringService, registry *RegistryService, logger *logging.ChanneledLogger) *InteractionService {
	return &InteractionService{
		cache:     cache,
		behavior:  behavior,
		scorer:    scorer,
		registry:  registry,
		logger:    logger,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// lockUser serializes the create-or-update section per visitor. Without it
// two concurrent first interactions can both miss the exists check and
// register duplicate leads for the same user.
func (s *InteractionService) lockUser(userID string) func() {
	s.userMu.Lock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	s.userMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// RecordInteraction validates and processes one interaction through the
// full pipeline. The first interaction of a visitor creates their lead;
// later ones update it.
func (s *InteractionService) RecordInteraction(event InteractionEvent) (*InteractionResult, error) {
	interaction := event.Interaction
	if interaction.UserID == "" {
		return nil, fmt.Errorf("interaction is missing a user id")
	}
	if interaction.SessionID == "" {
		return nil, fmt.Errorf("interaction is missing a session id")
	}
	if !interaction.Type.Valid() {
		return nil, fmt.Errorf("unknown interaction type %q", interaction.Type)
	}
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = time.Now().UTC()
	}

	state := s.cache.Sessions().Record(interaction, event.Device)
	scoring := s.scorer.ScoreInteraction(interaction, state)
	personalization := s.behavior.ClassifyBehavior(state)

	result := &InteractionResult{
		Scoring:         scoring,
		Personalization: personalization,
	}

	unlock := s.lockUser(interaction.UserID)
	if existing := s.registry.GetLeadByUser(interaction.UserID); existing != nil {
		result.Lead = s.registry.UpdateLead(existing.ID, interaction, scoring)
	} else {
		result.Lead = s.registry.CreateLead(interaction, scoring, deriveSource(event.Referrer, event.UTMSource))
		result.Created = true
	}
	unlock()

	if s.logger != nil {
		s.logger.Analytics().Debug("Interaction recorded",
			"userId", interaction.UserID,
			"sessionId", interaction.SessionID,
			"type", string(interaction.Type),
			"score", scoring.Score,
			"created", result.Created,
		)
	}
	return result, nil
}

// GetPersonalization classifies the current state of a session without
// recording anything. Unknown sessions get the default profile.
func (s *InteractionService) GetPersonalization(sessionID string) *leads.PersonalizationConfig {
	state, found := s.cache.Sessions().Get(sessionID)
	if !found {
		state = &leads.SessionState{SessionID: sessionID}
	}
	return s.behavior.ClassifyBehavior(state)
}

// deriveSource maps acquisition context onto a lead source string. UTM
// tags win over the referrer host; neither means a direct visit.
func deriveSource(referrer, utmSource string) string {
	if utmSource != "" {
		return utmSource
	}
	if referrer != "" {
		if parsed, err := url.Parse(referrer); err == nil && parsed.Host != "" {
			return "referral:" + strings.TrimPrefix(parsed.Host, "www.")
		}
		return "referral:" + referrer
	}
	return "direct"
}
