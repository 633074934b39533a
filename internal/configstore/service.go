package configstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gatehouse/pkg/platform/audit"
	"gatehouse/pkg/platform/sentinel"

	dErrors "gatehouse/pkg/domain-errors"
)

// CacheInvalidator is notified after every successful configuration write.
// Invalidation runs synchronously before the write call returns, so a
// writer's own next read is guaranteed fresh. The entitlement gate's cache
// implements this.
type CacheInvalidator interface {
	Invalidate(doc Document)
}

// Service owns the administrative update path for the configuration
// documents: whole-document validation, the write itself, synchronous cache
// invalidation, and the audit trail.
type Service struct {
	store          Store
	invalidators   []CacheInvalidator
	logger         *slog.Logger
	auditPublisher audit.Publisher
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

// WithInvalidator registers a cache to invalidate on writes.
func WithInvalidator(inv CacheInvalidator) Option {
	return func(s *Service) {
		if inv != nil {
			s.invalidators = append(s.invalidators, inv)
		}
	}
}

// RegisterInvalidator adds a cache to invalidate on writes after
// construction. Needed at startup where the cache reads through this very
// service.
func (s *Service) RegisterInvalidator(inv CacheInvalidator) {
	if inv != nil {
		s.invalidators = append(s.invalidators, inv)
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("config store is required")
	}
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Features returns the current features document.
func (s *Service) Features(ctx context.Context) (Features, error) {
	f, err := s.store.GetFeatures(ctx)
	if err != nil {
		return Features{}, s.classify(err, DocFeatures)
	}
	return f, nil
}

// Pricing returns the current pricing document.
func (s *Service) Pricing(ctx context.Context) (Pricing, error) {
	p, err := s.store.GetPricing(ctx)
	if err != nil {
		return Pricing{}, s.classify(err, DocPricing)
	}
	return p, nil
}

// Limits returns the current limits document.
func (s *Service) Limits(ctx context.Context) (Limits, error) {
	l, err := s.store.GetLimits(ctx)
	if err != nil {
		return Limits{}, s.classify(err, DocLimits)
	}
	return l, nil
}

// AdminFlags returns the current admin flags document.
func (s *Service) AdminFlags(ctx context.Context) (AdminFlags, error) {
	a, err := s.store.GetAdminFlags(ctx)
	if err != nil {
		return AdminFlags{}, s.classify(err, DocAdminFlags)
	}
	return a, nil
}

// UpdateFeatures validates and writes the features document. The raw map is
// required to match the fixed capability set exactly.
func (s *Service) UpdateFeatures(ctx context.Context, raw map[string]bool) (Features, error) {
	f, err := ParseFeatures(raw)
	if err != nil {
		return Features{}, err
	}
	if err := s.store.PutFeatures(ctx, f); err != nil {
		return Features{}, s.classify(err, DocFeatures)
	}
	s.invalidate(DocFeatures)
	audit.Log(ctx, s.logger, s.auditPublisher, "config_features_updated")
	return f, nil
}

// UpdatePricing validates and writes the pricing document.
func (s *Service) UpdatePricing(ctx context.Context, patch PricingPatch) (Pricing, error) {
	p, err := patch.Resolve()
	if err != nil {
		return Pricing{}, err
	}
	if err := s.store.PutPricing(ctx, p); err != nil {
		return Pricing{}, s.classify(err, DocPricing)
	}
	s.invalidate(DocPricing)
	audit.Log(ctx, s.logger, s.auditPublisher, "config_pricing_updated",
		"platform_fee_pct", p.PlatformFeePct,
		"processing_fee_gbp", p.ProcessingFeeGBP,
	)
	return p, nil
}

// UpdateLimits validates and writes the limits document.
func (s *Service) UpdateLimits(ctx context.Context, patch LimitsPatch) (Limits, error) {
	l, err := patch.Resolve()
	if err != nil {
		return Limits{}, err
	}
	if err := s.store.PutLimits(ctx, l); err != nil {
		return Limits{}, s.classify(err, DocLimits)
	}
	s.invalidate(DocLimits)
	audit.Log(ctx, s.logger, s.auditPublisher, "config_limits_updated",
		"ai_guest_daily_messages", l.AIGuestDailyMessages,
	)
	return l, nil
}

// UpdateAdminFlags validates and writes the admin flags document. Flipping
// the kill-switch takes effect on the next gate read; the synchronous
// invalidation below means that read is at most one store round-trip away.
func (s *Service) UpdateAdminFlags(ctx context.Context, patch AdminFlagsPatch) (AdminFlags, error) {
	a, err := patch.Resolve()
	if err != nil {
		return AdminFlags{}, err
	}
	if err := s.store.PutAdminFlags(ctx, a); err != nil {
		return AdminFlags{}, s.classify(err, DocAdminFlags)
	}
	s.invalidate(DocAdminFlags)
	audit.Log(ctx, s.logger, s.auditPublisher, "config_admin_flags_updated",
		"global_read_only", a.GlobalReadOnly,
	)
	return a, nil
}

// invalidate notifies all registered caches synchronously. The write is not
// complete until this returns.
func (s *Service) invalidate(doc Document) {
	for _, inv := range s.invalidators {
		inv.Invalidate(doc)
	}
}

func (s *Service) classify(err error, doc Document) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("config document %s not seeded", doc))
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("config store unavailable for %s", doc))
}
