package services

import (
	"context"
	"sync"
	"time"
)

// HealthCache memoizes the result of an external-service health probe for a
// TTL. It is constructed and injected explicitly rather than living in
// package-level variables, so tests can reset it and swap the clock.
type HealthCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	probe func(ctx context.Context) error

	now       func() time.Time
	checkedAt time.Time
	cached    error
	valid     bool
}

func NewHealthCache(ttl time.Duration, probe func(ctx context.Context) error) *HealthCache {
	return &HealthCache{ttl: ttl, probe: probe, now: time.Now}
}

// Check returns the probe result, re-running the probe only when the cached
// result is older than the TTL. Correctness does not depend on the cache: a
// dropped or duplicated probe is harmless.
func (c *HealthCache) Check(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.checkedAt) < c.ttl {
		return c.cached
	}

	c.cached = c.probe(ctx)
	c.checkedAt = c.now()
	c.valid = true
	return c.cached
}

// Reset drops the cached result so the next Check probes again.
func (c *HealthCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
