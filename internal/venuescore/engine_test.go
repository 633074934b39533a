package venuescore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "gatehouse/pkg/domain-errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(store *InMemoryStore, opts ...Option) *Engine {
	opts = append([]Option{WithLogger(discardLogger()), WithSweepPause(0)}, opts...)
	return New(store, store, opts...)
}

func TestComputeScore_Formula(t *testing.T) {
	store := NewInMemoryStore()
	store.AddVenue("venue-1", VenueCounts{
		EventsCompleted: 10,
		Refunds:         2,
		Disputes:        1,
		SafetyIncidents: 0,
	})
	engine := newTestEngine(store)

	c, err := engine.ComputeScore(context.Background(), "venue-1")
	require.NoError(t, err)

	// 750 + 10*10 - 2*20 - 1*50 = 760
	assert.Equal(t, 760, c.TotalScore)
	assert.Equal(t, BaseScore, c.BaseScore)
	assert.Equal(t, 10, c.EventsCompleted)
	assert.Equal(t, 2, c.Refunds)
	assert.Equal(t, 1, c.Disputes)
	assert.Equal(t, 0, c.SafetyIncidents)
}

func TestComputeScore_ClampsAtUpperBound(t *testing.T) {
	store := NewInMemoryStore()
	// 750 + 50*10 - 2*20 = 1210, clamps to 1000.
	store.AddVenue("venue-1", VenueCounts{EventsCompleted: 50, Refunds: 2})
	engine := newTestEngine(store)

	c, err := engine.ComputeScore(context.Background(), "venue-1")
	require.NoError(t, err)
	assert.Equal(t, 1000, c.TotalScore)
	assert.Equal(t, 50, c.EventsCompleted)
}

func TestComputeScore_ClampsAtZero(t *testing.T) {
	store := NewInMemoryStore()
	// 750 - 10*100 = -250, clamps to 0.
	store.AddVenue("venue-1", VenueCounts{SafetyIncidents: 10})
	engine := newTestEngine(store)

	c, err := engine.ComputeScore(context.Background(), "venue-1")
	require.NoError(t, err)
	assert.Equal(t, 0, c.TotalScore)
}

func TestComputeScore_NewVenueGetsBaseScore(t *testing.T) {
	store := NewInMemoryStore()
	store.AddVenue("venue-1", VenueCounts{})
	engine := newTestEngine(store)

	c, err := engine.ComputeScore(context.Background(), "venue-1")
	require.NoError(t, err)
	assert.Equal(t, BaseScore, c.TotalScore)
}

func TestComputeScore_Deterministic(t *testing.T) {
	store := NewInMemoryStore()
	store.AddVenue("venue-1", VenueCounts{EventsCompleted: 7, Refunds: 3, Disputes: 2, SafetyIncidents: 1})
	engine := newTestEngine(store)

	first, err := engine.ComputeScore(context.Background(), "venue-1")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := engine.ComputeScore(context.Background(), "venue-1")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeScore_CustomWeights(t *testing.T) {
	store := NewInMemoryStore()
	store.AddVenue("venue-1", VenueCounts{EventsCompleted: 4, Refunds: 1})
	engine := newTestEngine(store, WithWeights(Weights{
		EventCompleted: 5,
		Refund:         -10,
		Dispute:        -25,
		SafetyIncident: -50,
	}))

	c, err := engine.ComputeScore(context.Background(), "venue-1")
	require.NoError(t, err)
	// 750 + 4*5 - 1*10 = 760
	assert.Equal(t, 760, c.TotalScore)
}

func TestRecompute_PersistsScoreWithComponents(t *testing.T) {
	store := NewInMemoryStore()
	store.AddVenue("venue-1", VenueCounts{EventsCompleted: 3})
	engine := newTestEngine(store)

	c, err := engine.Recompute(context.Background(), "venue-1")
	require.NoError(t, err)
	assert.Equal(t, 780, c.TotalScore)

	persisted, ok := store.Score("venue-1")
	require.True(t, ok)
	assert.Equal(t, c, persisted)
}

func TestRecomputeAll_SweepsWholeFleet(t *testing.T) {
	store := NewInMemoryStore()
	for i := 0; i < 25; i++ {
		store.AddVenue(fmt.Sprintf("venue-%02d", i), VenueCounts{EventsCompleted: i})
	}
	engine := newTestEngine(store, WithSweepBatchSize(10))

	result, err := engine.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, result.Total)
	assert.Equal(t, 25, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Outcomes, 25)

	persisted, ok := store.Score("venue-05")
	require.True(t, ok)
	assert.Equal(t, 800, persisted.TotalScore)
}

// flakyCounts fails the counting queries for selected venues.
type flakyCounts struct {
	*InMemoryStore
	mu     sync.Mutex
	broken map[string]bool
}

func (f *flakyCounts) CountEventsCompleted(ctx context.Context, venueID string) (int, error) {
	f.mu.Lock()
	broken := f.broken[venueID]
	f.mu.Unlock()
	if broken {
		return 0, errors.New("query timeout")
	}
	return f.InMemoryStore.CountEventsCompleted(ctx, venueID)
}

func TestRecomputeAll_FailingVenueFallsBackAndSweepContinues(t *testing.T) {
	store := NewInMemoryStore()
	store.AddVenue("venue-a", VenueCounts{EventsCompleted: 10})
	store.AddVenue("venue-b", VenueCounts{EventsCompleted: 10})
	store.AddVenue("venue-c", VenueCounts{EventsCompleted: 10})
	counts := &flakyCounts{InMemoryStore: store, broken: map[string]bool{"venue-b": true}}

	engine := New(counts, store, WithLogger(discardLogger()), WithSweepPause(0))
	result, err := engine.RecomputeAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	// The failing venue got the neutral default, not a stale or partial score.
	persisted, ok := store.Score("venue-b")
	require.True(t, ok)
	assert.Equal(t, DefaultComponents(), persisted)

	// Healthy venues scored normally.
	persisted, ok = store.Score("venue-a")
	require.True(t, ok)
	assert.Equal(t, 850, persisted.TotalScore)

	for _, outcome := range result.Outcomes {
		if outcome.VenueID == "venue-b" {
			assert.True(t, outcome.FellBack)
		}
	}
}

func TestRecomputeAll_PausesBetweenBatches(t *testing.T) {
	store := NewInMemoryStore()
	for i := 0; i < 6; i++ {
		store.AddVenue(fmt.Sprintf("venue-%d", i), VenueCounts{})
	}
	engine := New(store, store,
		WithLogger(discardLogger()),
		WithSweepBatchSize(2),
		WithSweepPause(20*time.Millisecond),
	)

	start := time.Now()
	result, err := engine.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, result.Succeeded)

	// Three batches, two pauses.
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRecomputeAll_CancelledContextStopsSweep(t *testing.T) {
	store := NewInMemoryStore()
	for i := 0; i < 30; i++ {
		store.AddVenue(fmt.Sprintf("venue-%d", i), VenueCounts{})
	}
	engine := New(store, store,
		WithLogger(discardLogger()),
		WithSweepBatchSize(5),
		WithSweepPause(50*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.RecomputeAll(ctx)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestComputeScore_CountsUnavailable(t *testing.T) {
	store := NewInMemoryStore()
	store.AddVenue("venue-1", VenueCounts{})
	counts := &flakyCounts{InMemoryStore: store, broken: map[string]bool{"venue-1": true}}
	engine := New(counts, store, WithLogger(discardLogger()))

	_, err := engine.ComputeScore(context.Background(), "venue-1")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}
