package snapshot

import "sync"

// MemoryStore is an in-memory Store used by tests and by deployments that
// opt out of durability.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get returns the stored value for a key, or nil if absent.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, found := s.values[key]
	if !found {
		return nil, nil
	}
	clone := make([]byte, len(value))
	copy(clone, value)
	return clone, nil
}

// Set stores a value under a key.
func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := make([]byte, len(value))
	copy(clone, value)
	s.values[key] = clone
	return nil
}

// Clear removes a key.
func (s *MemoryStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
