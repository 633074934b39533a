package configstore

import "context"

// Store is the typed adapter over the external document store. It carries no
// policy of its own: validation happens in the service before any Put, and
// interpretation happens in the consumers.
//
// Implementations return sentinel.ErrNotFound when a document has never been
// seeded and wrap transport failures so services can classify them.
type Store interface {
	GetFeatures(ctx context.Context) (Features, error)
	PutFeatures(ctx context.Context, f Features) error

	GetPricing(ctx context.Context) (Pricing, error)
	PutPricing(ctx context.Context, p Pricing) error

	GetLimits(ctx context.Context) (Limits, error)
	PutLimits(ctx context.Context, l Limits) error

	GetAdminFlags(ctx context.Context) (AdminFlags, error)
	PutAdminFlags(ctx context.Context, a AdminFlags) error
}
