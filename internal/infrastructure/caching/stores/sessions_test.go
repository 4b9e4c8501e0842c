package stores

import (
	"testing"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/stretchr/testify/require"
)

func TestRecordBuildsJourney(t *testing.T) {
	store := NewSessionsStore(time.Hour, nil)
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	store.Record(leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionPageView, Page: "/projects", Timestamp: base}, leads.DeviceHints{})
	state := store.Record(leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionClick, Element: "contact_form", Timestamp: base.Add(time.Minute)}, leads.DeviceHints{})

	require.Equal(t, []string{"/projects", "contact_form"}, state.UserJourney)
	require.Len(t, state.Interactions, 2)
	require.Equal(t, base, state.StartedAt)
	require.Equal(t, base.Add(time.Minute), state.LastSeen)
	require.Equal(t, int64(60000), state.Duration())
}

func TestReturnVisitorAcrossSessions(t *testing.T) {
	store := NewSessionsStore(time.Hour, nil)
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	first := store.Record(leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionPageView, Page: "/", Timestamp: base}, leads.DeviceHints{})
	require.False(t, first.ReturnVisitor)

	second := store.Record(leads.UserInteraction{UserID: "u1", SessionID: "s2", Type: leads.InteractionPageView, Page: "/", Timestamp: base.Add(time.Hour)}, leads.DeviceHints{})
	require.True(t, second.ReturnVisitor)
}

func TestDeviceHintsStickToSession(t *testing.T) {
	store := NewSessionsStore(time.Hour, nil)
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	hints := leads.DeviceHints{DeviceMemoryGB: 16, ConnectionType: "4g"}
	store.Record(leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionPageView, Page: "/", Timestamp: base}, hints)

	// Later interactions without hints keep the earlier ones.
	state := store.Record(leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionScroll, Element: "hero", Timestamp: base.Add(time.Minute)}, leads.DeviceHints{})
	require.Equal(t, 16.0, state.Device.DeviceMemoryGB)
	require.Equal(t, "4g", state.Device.ConnectionType)
}

func TestSweepEvictsIdleSessionsButKeepsKnownUsers(t *testing.T) {
	store := NewSessionsStore(time.Minute, nil)
	stale := time.Now().Add(-time.Hour)

	store.Record(leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionPageView, Page: "/", Timestamp: stale}, leads.DeviceHints{})
	require.Equal(t, 1, store.Count())

	evicted := store.Sweep()
	require.Equal(t, 1, evicted)
	require.Equal(t, 0, store.Count())
	require.True(t, store.IsReturnVisitor("u1"))
}

func TestGetCopiesState(t *testing.T) {
	store := NewSessionsStore(time.Hour, nil)
	now := time.Now()

	store.Record(leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionPageView, Page: "/", Timestamp: now}, leads.DeviceHints{})

	copy1, found := store.Get("s1")
	require.True(t, found)
	copy1.UserJourney[0] = "mutated"

	copy2, _ := store.Get("s1")
	require.Equal(t, "/", copy2.UserJourney[0])
}
