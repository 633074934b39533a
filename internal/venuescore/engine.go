package venuescore

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/audit"
)

// Engine computes and persists venue trust scores. It is stateless between
// invocations; every score is derived from the counts at the moment of
// computation.
type Engine struct {
	counts         CountsSource
	venues         VenueStore
	weights        Weights
	batchSize      int
	pause          time.Duration
	logger         *slog.Logger
	auditPublisher audit.Publisher
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(e *Engine) {
		e.auditPublisher = publisher
	}
}

func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithSweepBatchSize sets how many venues recompute concurrently per batch.
func WithSweepBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithSweepPause sets the rest between batches, the sweep's backpressure on
// the counting store.
func WithSweepPause(d time.Duration) Option {
	return func(e *Engine) {
		e.pause = d
	}
}

const (
	defaultBatchSize = 10
	defaultPause     = 100 * time.Millisecond
)

func New(counts CountsSource, venues VenueStore, opts ...Option) *Engine {
	e := &Engine{
		counts:    counts,
		venues:    venues,
		weights:   DefaultWeights(),
		batchSize: defaultBatchSize,
		pause:     defaultPause,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComputeScore derives a venue's current score without persisting it. The
// four counting queries are independent and run concurrently; any failure
// fails the whole computation.
func (e *Engine) ComputeScore(ctx context.Context, venueID string) (Components, error) {
	var events, refunds, disputes, safety int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = e.counts.CountEventsCompleted(gctx, venueID)
		return err
	})
	g.Go(func() error {
		var err error
		refunds, err = e.counts.CountRefunds(gctx, venueID)
		return err
	})
	g.Go(func() error {
		var err error
		disputes, err = e.counts.CountDisputes(gctx, venueID)
		return err
	})
	g.Go(func() error {
		var err error
		safety, err = e.counts.CountSafetyIncidents(gctx, venueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Components{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "venue counts unavailable")
	}

	raw := float64(BaseScore) +
		float64(events)*e.weights.EventCompleted +
		float64(refunds)*e.weights.Refund +
		float64(disputes)*e.weights.Dispute +
		float64(safety)*e.weights.SafetyIncident

	return Components{
		BaseScore:       BaseScore,
		EventsCompleted: events,
		Refunds:         refunds,
		Disputes:        disputes,
		SafetyIncidents: safety,
		TotalScore:      clampScore(raw),
	}, nil
}

// Recompute derives and persists a venue's score. Score and components are
// written together.
func (e *Engine) Recompute(ctx context.Context, venueID string) (Components, error) {
	components, err := e.ComputeScore(ctx, venueID)
	if err != nil {
		recomputes.WithLabelValues("failed").Inc()
		return Components{}, err
	}
	if err := e.venues.UpdateScore(ctx, venueID, components); err != nil {
		recomputes.WithLabelValues("failed").Inc()
		return Components{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "persist venue score")
	}
	recomputes.WithLabelValues("succeeded").Inc()
	return components, nil
}

// RecomputeAll sweeps the whole fleet. Venues are processed in fixed-size
// batches, concurrently within a batch, with a pause between batches. A
// venue whose counts cannot be read is written with the neutral default
// components rather than left with a stale score, and the sweep continues.
func (e *Engine) RecomputeAll(ctx context.Context) (SweepResult, error) {
	start := time.Now()

	ids, err := e.venues.ListVenueIDs(ctx)
	if err != nil {
		return SweepResult{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "list venues")
	}

	result := SweepResult{
		Total:    len(ids),
		Outcomes: make([]VenueOutcome, len(ids)),
	}

	for batchStart := 0; batchStart < len(ids); batchStart += e.batchSize {
		if batchStart > 0 && e.pause > 0 {
			select {
			case <-ctx.Done():
				return result, dErrors.Wrap(ctx.Err(), dErrors.CodeUnavailable, "sweep cancelled")
			case <-time.After(e.pause):
			}
		}

		end := min(batchStart+e.batchSize, len(ids))
		var g errgroup.Group
		for i := batchStart; i < end; i++ {
			g.Go(func() error {
				result.Outcomes[i] = e.sweepOne(ctx, ids[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, outcome := range result.Outcomes {
		if outcome.Error == "" && !outcome.FellBack {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	sweepDuration.Observe(time.Since(start).Seconds())
	audit.Log(ctx, e.logger, e.auditPublisher, "venue_score_sweep",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (e *Engine) sweepOne(ctx context.Context, venueID string) VenueOutcome {
	components, err := e.ComputeScore(ctx, venueID)
	if err != nil {
		sweepFallbacks.Inc()
		e.logger.WarnContext(ctx, "venue counts unreadable, writing default score",
			"venue_id", venueID, "error", err.Error())

		components = DefaultComponents()
		if persistErr := e.venues.UpdateScore(ctx, venueID, components); persistErr != nil {
			return VenueOutcome{VenueID: venueID, FellBack: true, Error: persistErr.Error()}
		}
		return VenueOutcome{VenueID: venueID, TotalScore: components.TotalScore, FellBack: true}
	}

	if err := e.venues.UpdateScore(ctx, venueID, components); err != nil {
		return VenueOutcome{VenueID: venueID, Error: err.Error()}
	}
	return VenueOutcome{VenueID: venueID, TotalScore: components.TotalScore}
}
