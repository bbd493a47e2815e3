package enrich

import (
	"context"
	"sync"
)

// cacheEntry holds one in-flight or completed computation.
type cacheEntry[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// dedupCache is a compute-once cache scoped to one pipeline run. The
// first caller for a key performs the computation; concurrent callers for
// the same key block on the in-flight entry instead of issuing their own
// remote call. Errors are cached too, so each key triggers at most one
// remote query per run.
type dedupCache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*cacheEntry[V]
}

func newDedupCache[K comparable, V any]() *dedupCache[K, V] {
	return &dedupCache[K, V]{entries: make(map[K]*cacheEntry[V])}
}

// Do returns the cached value for key, computing it with fn on first use.
// The hit flag reports whether an existing entry served the call. Waiting
// callers respect context cancellation; the computation itself is owned
// by the first caller and runs to completion regardless.
func (c *dedupCache[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (V, error, bool) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		select {
		case <-e.done:
			return e.val, e.err, true
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err(), true
		}
	}

	e := &cacheEntry[V]{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.val, e.err = fn()
	close(e.done)
	return e.val, e.err, false
}
