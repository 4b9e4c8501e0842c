package stores

import (
	"sync"
	"testing"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/domain/leads"
	"github.com/stretchr/testify/require"
)

func sampleProfile(id, userID string, score float64) *leads.LeadProfile {
	return &leads.LeadProfile{
		ID:             id,
		UserID:         userID,
		Score:          score,
		Classification: leads.Classify(score),
		Source:         "direct",
		FirstTouch:     time.Now().UTC(),
		LastTouch:      time.Now().UTC(),
		Touchpoints:    []string{"page_view"},
	}
}

func TestLeadsStoreCopiesInAndOut(t *testing.T) {
	store := NewLeadsStore(nil)

	original := sampleProfile("l1", "u1", 50)
	store.Set(original)
	original.Score = 0 // mutating the caller's copy must not affect the store

	stored, found := store.Get("l1")
	require.True(t, found)
	require.Equal(t, 50.0, stored.Score)

	stored.Touchpoints[0] = "mutated"
	again, _ := store.Get("l1")
	require.Equal(t, "page_view", again.Touchpoints[0])
}

func TestUpdateIsAtomic(t *testing.T) {
	store := NewLeadsStore(nil)
	store.Set(sampleProfile("l1", "u1", 0))

	// 100 concurrent increments through Update: every one must be applied,
	// which only holds if the read-modify-write runs under one lock.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update("l1", func(p *leads.LeadProfile) { p.Score++ })
		}()
	}
	wg.Wait()

	stored, found := store.Get("l1")
	require.True(t, found)
	require.Equal(t, 100.0, stored.Score)

	_, found = store.Update("missing", func(p *leads.LeadProfile) { p.Score = 1 })
	require.False(t, found)
}

func TestLeadsStoreUserIndex(t *testing.T) {
	store := NewLeadsStore(nil)
	store.Set(sampleProfile("l1", "u1", 50))

	byUser, found := store.GetByUser("u1")
	require.True(t, found)
	require.Equal(t, "l1", byUser.ID)

	_, found = store.GetByUser("u2")
	require.False(t, found)
}

func TestReplaceAllRebuildsIndex(t *testing.T) {
	store := NewLeadsStore(nil)
	store.Set(sampleProfile("old", "u_old", 10))

	metrics := leads.NewBusinessMetrics()
	metrics.Leads.Total = 2
	store.ReplaceAll(map[string]*leads.LeadProfile{
		"l1": sampleProfile("l1", "u1", 60),
		"l2": sampleProfile("l2", "u2", 40),
	}, metrics)

	require.Equal(t, 2, store.Count())
	_, found := store.Get("old")
	require.False(t, found)
	_, found = store.GetByUser("u_old")
	require.False(t, found)

	byUser, found := store.GetByUser("u2")
	require.True(t, found)
	require.Equal(t, "l2", byUser.ID)
	require.Equal(t, 2, store.GetMetrics().Leads.Total)
}

func TestSnapshotReturnsDetachedCopies(t *testing.T) {
	store := NewLeadsStore(nil)
	store.Set(sampleProfile("l1", "u1", 50))

	profiles, metrics := store.Snapshot()
	profiles["l1"].Score = 0
	metrics.Leads.Total = 99

	stored, _ := store.Get("l1")
	require.Equal(t, 50.0, stored.Score)
	require.NotEqual(t, 99, store.GetMetrics().Leads.Total)
}
