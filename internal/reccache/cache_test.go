package reccache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache[string] {
	t.Helper()
	c := New[string](ttl, time.Hour)
	t.Cleanup(c.Close)
	return c
}

func TestGet_FetchesOnMissThenHits(t *testing.T) {
	c := newTestCache(t, time.Minute)
	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "payload", nil
	}

	v, err := c.Get(context.Background(), "key", fetch)
	require.NoError(t, err)
	assert.Equal(t, "payload", v)

	v, err = c.Get(context.Background(), "key", fetch)
	require.NoError(t, err)
	assert.Equal(t, "payload", v)
	assert.Equal(t, 1, calls)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestGet_ConcurrentCallersShareOneFetch(t *testing.T) {
	c := newTestCache(t, time.Minute)

	var fetches int64
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		atomic.AddInt64(&fetches, 1)
		close(started)
		<-release
		return "payload", nil
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = c.Get(context.Background(), "key", fetch)
	}()
	<-started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Get(context.Background(), "key", fetch)
		}(i)
	}

	// Give the followers time to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&fetches))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "payload", results[i])
	}
}

func TestGet_FailedFetchNotCached(t *testing.T) {
	c := newTestCache(t, time.Minute)

	calls := 0
	boom := errors.New("upstream down")
	fetch := func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "recovered", nil
	}

	_, err := c.Get(context.Background(), "key", fetch)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len(), "failures must not be cached")

	v, err := c.Get(context.Background(), "key", fetch)
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, 2, calls)
}

func TestGet_SlidingTTLEviction(t *testing.T) {
	c := newTestCache(t, 30*time.Millisecond)

	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "payload", nil
	}

	_, err := c.Get(context.Background(), "key", fetch)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	// Idle past TTL: lazily evicted, fetched again.
	_, err = c.Get(context.Background(), "key", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(1), c.Stats()["evictions"])
}

func TestGet_AccessRefreshesTTL(t *testing.T) {
	c := newTestCache(t, 60*time.Millisecond)

	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "payload", nil
	}

	_, err := c.Get(context.Background(), "key", fetch)
	require.NoError(t, err)

	// Keep touching the entry; total elapsed time exceeds the TTL but
	// each access is well inside it.
	for i := 0; i < 4; i++ {
		time.Sleep(25 * time.Millisecond)
		_, err = c.Get(context.Background(), "key", fetch)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, calls, "active entries must not expire")
}

func TestSweep_RemovesIdleEntries(t *testing.T) {
	c := New[string](20*time.Millisecond, time.Hour)
	defer c.Close()

	_, err := c.Get(context.Background(), "stale", func(context.Context) (string, error) {
		return "old", nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	c.sweep(time.Now().Add(time.Minute))

	assert.Zero(t, c.Len())
	assert.Equal(t, int64(1), c.Stats()["evictions"])
}

func TestSweep_KeepsLiveEntries(t *testing.T) {
	c := newTestCache(t, time.Minute)

	_, err := c.Get(context.Background(), "live", func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)

	c.sweep(time.Now())

	assert.Equal(t, 1, c.Len())
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(t, time.Minute)

	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "payload", nil
	}

	_, err := c.Get(context.Background(), "key", fetch)
	require.NoError(t, err)

	c.Invalidate("key")

	_, err = c.Get(context.Background(), "key", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGet_IndependentKeys(t *testing.T) {
	c := newTestCache(t, time.Minute)

	for _, key := range []string{"alpha", "beta", "gamma"} {
		key := key
		v, err := c.Get(context.Background(), key, func(context.Context) (string, error) {
			return "payload-" + key, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "payload-"+key, v)
	}

	assert.Equal(t, 3, c.Len())
}

func TestClose_StopsSweeper(t *testing.T) {
	c := New[string](time.Minute, time.Millisecond)
	c.Close()
	// Close returns only after the sweeper goroutine exits; a second
	// Close must not panic or hang.
	assert.NotPanics(t, func() { c.cancel() })
}
