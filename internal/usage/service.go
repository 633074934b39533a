package usage

import (
	"context"
	"log/slog"
	"time"

	"gatehouse/internal/configstore"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/audit"
)

// LimitsSource provides the limits document in force. Implemented by the
// config service.
type LimitsSource interface {
	Limits(ctx context.Context) (configstore.Limits, error)
}

// Service enforces the per-identity daily usage cap.
//
// The cap is a soft limit: CheckLimit and Consume race, so N in-flight
// requests can overshoot by up to N. That is accepted; the counter exists to
// stop unbounded consumption, not to serialize requests. Unlike the
// entitlement gate the limiter fails CLOSED: when the store is unreachable a
// request is denied rather than given a free pass, because an uncounted
// grant cannot be taken back.
type Service struct {
	store          Store
	limits         LimitsSource
	logger         *slog.Logger
	auditPublisher audit.Publisher
	clock          func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithClock injects the time source used for day bucketing.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func New(store Store, limits LimitsSource, opts ...Option) *Service {
	s := &Service{
		store:  store,
		limits: limits,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckLimit reports the identity's standing for today without consuming
// anything. A missing bucket reads as zero usage.
func (s *Service) CheckLimit(ctx context.Context, identityID string) (CheckResult, error) {
	now := s.clock()
	limit, err := s.dailyLimit(ctx)
	if err != nil {
		return CheckResult{}, err
	}

	count, err := s.store.Get(ctx, BucketKey(identityID, now))
	if err != nil {
		storeFailures.WithLabelValues("get").Inc()
		return CheckResult{}, s.unavailable(ctx, "read usage counter", err)
	}

	result := s.result(count, limit, now)
	if result.Allowed {
		checks.WithLabelValues("allowed").Inc()
	} else {
		checks.WithLabelValues("denied").Inc()
	}
	return result, nil
}

// Consume checks the cap and, if there is headroom, records one unit of
// usage. At or over the cap it returns a LimitExceeded error carrying the
// reset time.
func (s *Service) Consume(ctx context.Context, identityID string) (CheckResult, error) {
	result, err := s.CheckLimit(ctx, identityID)
	if err != nil {
		return CheckResult{}, err
	}
	if !result.Allowed {
		return CheckResult{}, dErrors.New(dErrors.CodeLimitExceeded, "daily usage limit reached").
			WithDetail("dailyLimit", result.DailyLimit).
			WithDetail("remaining", 0).
			WithDetail("resetTime", result.ResetTime.Format(time.RFC3339))
	}

	now := s.clock()
	newCount, err := s.store.IncrementAtomic(ctx, BucketKey(identityID, now))
	if err != nil {
		storeFailures.WithLabelValues("increment").Inc()
		return CheckResult{}, s.unavailable(ctx, "increment usage counter", err)
	}
	increments.Inc()
	return s.result(newCount, result.DailyLimit, now), nil
}

// Increment records one unit of usage without a pre-check, returning the new
// count. Most callers want Consume; this exists for callers that checked
// earlier and must count a completed action even if the cap was reached in
// the meantime.
func (s *Service) Increment(ctx context.Context, identityID string) (int, error) {
	newCount, err := s.store.IncrementAtomic(ctx, BucketKey(identityID, s.clock()))
	if err != nil {
		storeFailures.WithLabelValues("increment").Inc()
		return 0, s.unavailable(ctx, "increment usage counter", err)
	}
	increments.Inc()
	return newCount, nil
}

// Reset clears an identity's counter for the given day. Support remediation
// path; always audited.
func (s *Service) Reset(ctx context.Context, identityID string, day time.Time) error {
	key := BucketKey(identityID, day)
	if err := s.store.Reset(ctx, key); err != nil {
		storeFailures.WithLabelValues("reset").Inc()
		return s.unavailable(ctx, "reset usage counter", err)
	}
	audit.Log(ctx, s.logger, s.auditPublisher, "usage_counter_reset",
		"identity_id", identityID,
		"bucket", key,
	)
	return nil
}

func (s *Service) dailyLimit(ctx context.Context) (int, error) {
	l, err := s.limits.Limits(ctx)
	if err != nil {
		// Fail closed: no limit document, no grants.
		storeFailures.WithLabelValues("limits").Inc()
		return 0, s.unavailable(ctx, "read limits document", err)
	}
	return l.AIGuestDailyMessages, nil
}

func (s *Service) result(count, limit int, now time.Time) CheckResult {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return CheckResult{
		Allowed:      count < limit,
		CurrentUsage: count,
		DailyLimit:   limit,
		Remaining:    remaining,
		ResetTime:    NextUTCMidnight(now),
	}
}

func (s *Service) unavailable(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "usage store unavailable, denying", "op", op, "error", err.Error())
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "usage tracking unavailable")
}
