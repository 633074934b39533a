package usage

import (
	"context"
	"sync"
)

// InMemoryStore keeps usage counters in process memory. Used in tests and
// for local development without Redis.
type InMemoryStore struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{counts: make(map[string]int)}
}

func (s *InMemoryStore) Get(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key], nil
}

func (s *InMemoryStore) IncrementAtomic(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func (s *InMemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, key)
	return nil
}
