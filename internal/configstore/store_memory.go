package configstore

import (
	"context"
	"sync"
)

// InMemoryStore keeps the configuration documents in process memory, seeded
// with defaults. Used in tests and for local development without Postgres.
type InMemoryStore struct {
	mu         sync.RWMutex
	features   Features
	pricing    Pricing
	limits     Limits
	adminFlags AdminFlags
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		features:   DefaultFeatures(),
		pricing:    DefaultPricing(),
		limits:     DefaultLimits(),
		adminFlags: DefaultAdminFlags(),
	}
}

func (s *InMemoryStore) GetFeatures(_ context.Context) (Features, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.features, nil
}

func (s *InMemoryStore) PutFeatures(_ context.Context, f Features) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features = f
	return nil
}

func (s *InMemoryStore) GetPricing(_ context.Context) (Pricing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pricing, nil
}

func (s *InMemoryStore) PutPricing(_ context.Context, p Pricing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pricing = p
	return nil
}

func (s *InMemoryStore) GetLimits(_ context.Context) (Limits, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits, nil
}

func (s *InMemoryStore) PutLimits(_ context.Context, l Limits) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = l
	return nil
}

func (s *InMemoryStore) GetAdminFlags(_ context.Context) (AdminFlags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminFlags, nil
}

func (s *InMemoryStore) PutAdminFlags(_ context.Context, a AdminFlags) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminFlags = a
	return nil
}
