package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Keys expire two days after first write, comfortably past the bucket's own
// UTC-midnight rollover, so stale buckets clean themselves up.
const bucketExpiry = 48 * time.Hour

// RedisStore backs usage counters with Redis. INCR gives the atomic
// increment the limiter depends on.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (int, error) {
	n, err := s.client.Get(ctx, s.key(key)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get usage bucket %s: %w", key, err)
	}
	return n, nil
}

func (s *RedisStore) IncrementAtomic(ctx context.Context, key string) (int, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, s.key(key))
	pipe.Expire(ctx, s.key(key), bucketExpiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment usage bucket %s: %w", key, err)
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("reset usage bucket %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) key(bucket string) string {
	return "usage:" + bucket
}
