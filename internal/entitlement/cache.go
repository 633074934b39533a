package entitlement

import (
	"sync"
	"time"
)

// cached holds one configuration document with the instant it was fetched.
// Freshness is decided against an injected clock so tests control expiry
// without sleeping.
type cached[T any] struct {
	mu        sync.RWMutex
	value     T
	fetchedAt time.Time
}

// get returns the cached value if it was fetched within ttl of now.
func (c *cached[T]) get(now time.Time, ttl time.Duration) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() || now.Sub(c.fetchedAt) >= ttl {
		var zero T
		return zero, false
	}
	return c.value, true
}

func (c *cached[T]) set(value T, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.fetchedAt = now
}

// invalidate clears the entry so the next read goes to the store.
func (c *cached[T]) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.fetchedAt = time.Time{}
}
