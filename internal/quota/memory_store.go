package quota

import "sync"

// MemoryStore implements Store in memory. Used in tests and when no durable
// store is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	counters map[string]Counter
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]Counter),
	}
}

// Load returns the stored counter for a service.
func (s *MemoryStore) Load(service string) (Counter, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.counters[service]
	return c, ok, nil
}

// Save persists the counter for a service.
func (s *MemoryStore) Save(service string, c Counter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[service] = c
	return nil
}
