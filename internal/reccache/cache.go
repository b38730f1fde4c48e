// Package reccache provides a keyed cache with sliding TTL expiry and
// in-flight request coalescing, used to front unreliable upstream sources.
package reccache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Default cache configuration.
const (
	DefaultTTL           = 30 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

// entry is one cached payload. The cache exclusively owns entries; nothing
// outside this package mutates them.
type entry[T any] struct {
	payload      T
	createdAt    time.Time
	lastAccessed time.Time
}

// Metrics tracks cache behavior counters.
type Metrics struct {
	Hits      int64
	Misses    int64
	Coalesced int64
	Evictions int64
	Failures  int64
}

// Cache is a keyed cache with sliding TTL. Every hit refreshes the
// entry's last-access time, so actively requested keys never expire;
// idle entries are removed lazily on access and proactively by a
// background sweep.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	group   singleflight.Group

	ttl           time.Duration
	sweepInterval time.Duration

	metrics Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a cache and starts its background sweeper.
func New[T any](ttl, sweepInterval time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache[T]{
		entries:       make(map[string]*entry[T]),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		ctx:           ctx,
		cancel:        cancel,
	}

	c.wg.Add(1)
	go c.sweepLoop()

	return c
}

// Close stops the background sweeper.
func (c *Cache[T]) Close() {
	c.cancel()
	c.wg.Wait()
}

// Get returns the cached payload for key, fetching it on a miss. All
// concurrent callers for one uncached key share a single fetch invocation
// and receive the same result, success or failure. Failed fetches cache
// nothing; the next request retries from scratch.
func (c *Cache[T]) Get(ctx context.Context, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if payload, ok := c.lookup(key); ok {
		atomic.AddInt64(&c.metrics.Hits, 1)
		return payload, nil
	}
	atomic.AddInt64(&c.metrics.Misses, 1)

	result, err, shared := c.group.Do(key, func() (any, error) {
		// Another coalesced caller may have just populated the entry.
		if payload, ok := c.lookup(key); ok {
			return payload, nil
		}

		payload, err := fetch(ctx)
		if err != nil {
			atomic.AddInt64(&c.metrics.Failures, 1)
			return nil, err
		}

		now := time.Now()
		c.mu.Lock()
		c.entries[key] = &entry[T]{
			payload:      payload,
			createdAt:    now,
			lastAccessed: now,
		}
		c.mu.Unlock()

		return payload, nil
	})
	if shared {
		atomic.AddInt64(&c.metrics.Coalesced, 1)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// lookup returns a live entry's payload, refreshing its last-access time.
// Expired entries are removed on sight.
func (c *Cache[T]) lookup(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}

	now := time.Now()
	if now.Sub(e.lastAccessed) > c.ttl {
		delete(c.entries, key)
		atomic.AddInt64(&c.metrics.Evictions, 1)
		var zero T
		return zero, false
	}

	e.lastAccessed = now
	return e.payload, true
}

// Invalidate removes a key immediately.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the current number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache counters.
func (c *Cache[T]) Stats() map[string]any {
	c.mu.Lock()
	size := len(c.entries)
	c.mu.Unlock()

	return map[string]any{
		"size":      size,
		"ttl_sec":   c.ttl.Seconds(),
		"hits":      atomic.LoadInt64(&c.metrics.Hits),
		"misses":    atomic.LoadInt64(&c.metrics.Misses),
		"coalesced": atomic.LoadInt64(&c.metrics.Coalesced),
		"evictions": atomic.LoadInt64(&c.metrics.Evictions),
		"failures":  atomic.LoadInt64(&c.metrics.Failures),
	}
}

// sweepLoop periodically removes entries idle for longer than the TTL,
// bounding memory even for keys nobody requests anymore.
func (c *Cache[T]) sweepLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

// sweep removes every entry whose last access is older than the TTL.
func (c *Cache[T]) sweep(now time.Time) {
	c.mu.Lock()
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.lastAccessed) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		atomic.AddInt64(&c.metrics.Evictions, int64(removed))
		log.Debug().Int("removed", removed).Msg("Swept expired recommendation cache entries")
	}
}
