package usage

import "context"

// Store persists day-bucketed usage counters keyed by BucketKey. A missing
// bucket reads as zero.
//
// IncrementAtomic must be atomic at the storage layer. Callers never
// read-modify-write; two concurrent increments of the same bucket must both
// land.
type Store interface {
	Get(ctx context.Context, key string) (int, error)
	IncrementAtomic(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}
