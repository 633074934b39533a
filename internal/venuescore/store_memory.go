package venuescore

import (
	"context"
	"sort"
	"sync"
)

// VenueCounts holds the raw tallies backing a venue's score.
type VenueCounts struct {
	EventsCompleted int
	Refunds         int
	Disputes        int
	SafetyIncidents int
}

// InMemoryStore implements both CountsSource and VenueStore in process
// memory. Used in tests and for local development without Postgres.
type InMemoryStore struct {
	mu     sync.RWMutex
	counts map[string]VenueCounts
	scores map[string]Components
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		counts: make(map[string]VenueCounts),
		scores: make(map[string]Components),
	}
}

// AddVenue registers a venue with its raw counts.
func (s *InMemoryStore) AddVenue(venueID string, counts VenueCounts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[venueID] = counts
	if _, ok := s.scores[venueID]; !ok {
		s.scores[venueID] = DefaultComponents()
	}
}

func (s *InMemoryStore) CountEventsCompleted(_ context.Context, venueID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[venueID].EventsCompleted, nil
}

func (s *InMemoryStore) CountRefunds(_ context.Context, venueID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[venueID].Refunds, nil
}

func (s *InMemoryStore) CountDisputes(_ context.Context, venueID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[venueID].Disputes, nil
}

func (s *InMemoryStore) CountSafetyIncidents(_ context.Context, venueID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[venueID].SafetyIncidents, nil
}

func (s *InMemoryStore) ListVenueIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.scores))
	for id := range s.scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *InMemoryStore) UpdateScore(_ context.Context, venueID string, components Components) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[venueID] = components
	return nil
}

// Score returns the last persisted components for a venue.
func (s *InMemoryStore) Score(venueID string) (Components, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.scores[venueID]
	return c, ok
}
