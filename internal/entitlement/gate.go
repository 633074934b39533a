package entitlement

import (
	"context"
	"log/slog"
	"time"

	"gatehouse/internal/configstore"
	dErrors "gatehouse/pkg/domain-errors"
)

// ConfigSource provides the two documents the gate reads. Implemented by the
// config service.
type ConfigSource interface {
	Features(ctx context.Context) (configstore.Features, error)
	AdminFlags(ctx context.Context) (configstore.AdminFlags, error)
}

// Gate answers "may this action proceed" for every transactional code path.
//
// Decisions read AdminFlags and Features through a process-local TTL cache.
// When the config store is unreachable the gate fails open to SafeDefaults,
// keeping the core business (ticketing, door scanning) running while the
// collaborative and monetary extras go dark. The cache is per process;
// multi-instance deployments accept up to one TTL of cross-instance
// staleness after a config write.
type Gate struct {
	source ConfigSource
	logger *slog.Logger
	clock  func() time.Time
	ttl    time.Duration

	features   cached[configstore.Features]
	adminFlags cached[configstore.AdminFlags]
}

type Option func(*Gate)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		g.ttl = ttl
	}
}

// WithClock injects the time source used for cache freshness.
func WithClock(clock func() time.Time) Option {
	return func(g *Gate) {
		g.clock = clock
	}
}

const defaultTTL = 30 * time.Second

func New(source ConfigSource, opts ...Option) *Gate {
	g := &Gate{
		source: source,
		logger: slog.Default(),
		clock:  time.Now,
		ttl:    defaultTTL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SafeDefaults is the feature set served when the config store is
// unreachable. Core operations stay up; everything that costs money or
// exposes data beyond the venue floor is off.
func SafeDefaults() configstore.Features {
	return configstore.Features{
		Ticketing: true,
		DoorScan:  true,
	}
}

// Invalidate drops the cached copy of a document. Registered with the config
// service so admin writes take effect before the write call returns.
func (g *Gate) Invalidate(doc configstore.Document) {
	switch doc {
	case configstore.DocFeatures:
		g.features.invalidate()
	case configstore.DocAdminFlags:
		g.adminFlags.invalidate()
	}
}

// IsEnabled reports whether a feature is currently permitted. Unknown feature
// names are never permitted. This is the boolean form of AssertEnabled for
// call sites that only branch.
func (g *Gate) IsEnabled(ctx context.Context, feature string) bool {
	return g.AssertEnabled(ctx, feature) == nil
}

// AssertEnabled returns nil when the feature may be used, or a coded error
// naming the reason. The kill-switch wins over everything: with
// globalReadOnly set every feature denies, including ones individually
// enabled.
func (g *Gate) AssertEnabled(ctx context.Context, feature string) error {
	flags := g.currentAdminFlags(ctx)
	if flags.GlobalReadOnly {
		denials.WithLabelValues("global_read_only").Inc()
		return dErrors.New(dErrors.CodeGlobalReadOnly, "platform is in read-only mode")
	}

	features := g.currentFeatures(ctx)
	enabled, known := features.Enabled(feature)
	if !known {
		denials.WithLabelValues("unknown_feature").Inc()
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown feature %q", feature).
			WithDetail("feature", feature)
	}
	if !enabled {
		denials.WithLabelValues("feature_disabled").Inc()
		return dErrors.Newf(dErrors.CodeFeatureDisabled, "feature %q is disabled", feature).
			WithDetail("feature", feature)
	}
	return nil
}

// AssertEntityActive returns nil for an active entity, or an EntitySuspended
// error. Pure; no store reads.
func (g *Gate) AssertEntityActive(status EntityStatus) error {
	if status.Suspended {
		denials.WithLabelValues("entity_suspended").Inc()
		return dErrors.New(dErrors.CodeSuspended, "entity is suspended")
	}
	return nil
}

// View returns the gate's current answer for one feature, for the ops
// endpoint. Degraded reports whether the answer came from safe defaults.
func (g *Gate) View(ctx context.Context, feature string) (FeatureView, error) {
	if _, known := (configstore.Features{}).Enabled(feature); !known {
		return FeatureView{}, dErrors.Newf(dErrors.CodeNotFound, "unknown feature %q", feature).
			WithDetail("feature", feature)
	}
	flags := g.currentAdminFlags(ctx)
	features, degraded := g.currentFeaturesDegraded(ctx)
	enabled, _ := features.Enabled(feature)
	return FeatureView{
		Feature:        feature,
		Enabled:        enabled && !flags.GlobalReadOnly,
		GlobalReadOnly: flags.GlobalReadOnly,
		Degraded:       degraded,
	}, nil
}

func (g *Gate) currentFeatures(ctx context.Context) configstore.Features {
	f, _ := g.currentFeaturesDegraded(ctx)
	return f
}

func (g *Gate) currentFeaturesDegraded(ctx context.Context) (configstore.Features, bool) {
	now := g.clock()
	if f, ok := g.features.get(now, g.ttl); ok {
		cacheHits.WithLabelValues(string(configstore.DocFeatures)).Inc()
		return f, false
	}
	cacheMisses.WithLabelValues(string(configstore.DocFeatures)).Inc()

	f, err := g.source.Features(ctx)
	if err != nil {
		safeDefaultFallbacks.WithLabelValues(string(configstore.DocFeatures)).Inc()
		g.logger.WarnContext(ctx, "features unavailable, serving safe defaults", "error", err.Error())
		return SafeDefaults(), true
	}
	g.features.set(f, now)
	return f, false
}

func (g *Gate) currentAdminFlags(ctx context.Context) configstore.AdminFlags {
	now := g.clock()
	if a, ok := g.adminFlags.get(now, g.ttl); ok {
		cacheHits.WithLabelValues(string(configstore.DocAdminFlags)).Inc()
		return a
	}
	cacheMisses.WithLabelValues(string(configstore.DocAdminFlags)).Inc()

	a, err := g.source.AdminFlags(ctx)
	if err != nil {
		// Fail open here too: an unreachable store must not flip the
		// kill-switch on.
		safeDefaultFallbacks.WithLabelValues(string(configstore.DocAdminFlags)).Inc()
		g.logger.WarnContext(ctx, "admin flags unavailable, assuming not read-only", "error", err.Error())
		return configstore.AdminFlags{GlobalReadOnly: false}
	}
	g.adminFlags.set(a, now)
	return a
}
