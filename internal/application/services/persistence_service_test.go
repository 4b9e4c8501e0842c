package services

import (
	"testing"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/caching/manager"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/persistence/snapshot"
	"github.com/jdmarc/leadpulse-go/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	store := snapshot.NewMemoryStore()

	cache := manager.NewManager(nil)
	registry := NewRegistryService(cache, nil, nil, nil)
	registry.variance = func() float64 { return 1 }
	persistence := NewPersistenceService(cache, store, nil)

	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	registry.CreateLead(leads.UserInteraction{UserID: "u1", SessionID: "s1", Type: leads.InteractionClick, Timestamp: now}, scoringData(85, leads.ScoringFactors{}), "google_ads")
	registry.CreateLead(leads.UserInteraction{UserID: "u2", SessionID: "s2", Type: leads.InteractionPageView, Timestamp: now}, scoringData(45, leads.ScoringFactors{}), "direct")

	require.NoError(t, persistence.SaveData())

	// A fresh cache hydrated from the same store reproduces the registry.
	restoredCache := manager.NewManager(nil)
	restored := NewPersistenceService(restoredCache, store, nil)
	require.NoError(t, restored.LoadData())

	require.Equal(t, 2, restoredCache.Leads().Count())

	original := cache.Leads().All()
	for _, profile := range original {
		loaded, found := restoredCache.Leads().Get(profile.ID)
		require.True(t, found)
		require.Equal(t, profile.Score, loaded.Score)
		require.Equal(t, profile.Classification, loaded.Classification)
		require.Equal(t, profile.Source, loaded.Source)
	}

	// Users from the snapshot count as return visitors.
	require.True(t, restoredCache.Sessions().IsReturnVisitor("u1"))
	require.True(t, restoredCache.Sessions().IsReturnVisitor("u2"))

	// The user index is rebuilt from the snapshot.
	byUser, found := restoredCache.Leads().GetByUser("u1")
	require.True(t, found)
	require.Equal(t, 85.0, byUser.Score)

	metrics := restoredCache.Leads().GetMetrics()
	require.Equal(t, 2, metrics.Leads.Total)
}

func TestLoadDataMissingSnapshotStartsFresh(t *testing.T) {
	cache := manager.NewManager(nil)
	persistence := NewPersistenceService(cache, snapshot.NewMemoryStore(), nil)

	require.NoError(t, persistence.LoadData())
	require.Equal(t, 0, cache.Leads().Count())
}

func TestLoadDataMalformedSnapshotStartsFresh(t *testing.T) {
	store := snapshot.NewMemoryStore()
	require.NoError(t, store.Set(config.SnapshotKey, []byte("{not json")))

	cache := manager.NewManager(nil)
	persistence := NewPersistenceService(cache, store, nil)

	require.NoError(t, persistence.LoadData())
	require.Equal(t, 0, cache.Leads().Count())

	metrics := cache.Leads().GetMetrics()
	require.Equal(t, 0, metrics.Leads.Total)
}
