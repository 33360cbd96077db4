// Package expire provides a standalone cache whose entries evict themselves
// after a configurable idle period. Every read rearms the entry's timer, so
// eviction happens only after the entry has gone unread for the full period,
// measured from the last read or creation. There is no capacity bound and no
// manual invalidation: timer expiry (and Close) are the only removal paths.
//
// Timers are scheduled with time.AfterFunc and do not keep the process alive
// past its natural shutdown.
package expire

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by GetOrLoad after Close.
var ErrClosed = errors.New("expire: cache is closed")

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict()
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()   {}
func (NoopMetrics) Miss()  {}
func (NoopMetrics) Evict() {}

var _ Metrics = NoopMetrics{}

// Options configures the cache. The zero value retains entries indefinitely
// and reports to NoopMetrics.
type Options[K comparable, V any] struct {
	// Unused is the idle period after which an unread entry is evicted.
	// Non-positive disables eviction (unbounded retention).
	Unused time.Duration

	// Metrics receives Hit/Miss/Evict signals. Nil => NoopMetrics.
	Metrics Metrics

	// OnEvict is called after an entry is evicted by its timer.
	// The callback runs on the timer goroutine; keep it lightweight.
	OnEvict func(K, V)
}

// LoadFunc produces the value for a missing key.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// Cache is an inactivity-evicting key/value cache. All methods are safe for
// concurrent use by multiple goroutines.
type Cache[K comparable, V any] struct {
	opt Options[K, V]

	mu      sync.Mutex
	entries map[K]*entry[V]
	flights map[K]*flight[V]
	closed  bool
}

// entry pairs a cached value with its eviction timer. seq identifies the
// currently armed timer: a fire whose seq is stale lost a race with a later
// read and must not evict.
type entry[V any] struct {
	val   V
	timer *time.Timer
	seq   uint64
}

// flight is an in-flight load shared by concurrent callers of the same key.
// (val, err) are published before close(done).
type flight[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// New constructs a cache with the provided Options.
func New[K comparable, V any](opt Options[K, V]) *Cache[K, V] {
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	return &Cache[K, V]{
		opt:     opt,
		entries: make(map[K]*entry[V]),
		flights: make(map[K]*flight[V]),
	}
}

// GetOrLoad returns the value for k, loading it via load on miss. A hit
// rearms the entry's idle timer. Concurrent loads for the same key are
// coalesced; every waiter observes the same outcome. Load errors propagate
// to the callers unchanged and are never cached, so a subsequent call
// retries the load.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, k K, load LoadFunc[V]) (V, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		var zero V
		return zero, ErrClosed
	}
	if e, ok := c.entries[k]; ok {
		c.armLocked(k, e)
		v := e.val
		c.mu.Unlock()
		c.opt.Metrics.Hit()
		return v, nil
	}
	if fl, ok := c.flights[k]; ok {
		c.mu.Unlock()
		c.opt.Metrics.Hit()
		select {
		case <-fl.done:
			return fl.val, fl.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}

	// Leader: load outside the lock.
	fl := &flight[V]{done: make(chan struct{})}
	c.flights[k] = fl
	c.mu.Unlock()
	c.opt.Metrics.Miss()

	v, err := load(ctx)

	c.mu.Lock()
	delete(c.flights, k)
	if err == nil && !c.closed {
		e := &entry[V]{val: v}
		c.entries[k] = e
		c.armLocked(k, e)
	}
	c.mu.Unlock()

	fl.val, fl.err = v, err
	close(fl.done)
	return v, err
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops all eviction timers and drops every entry. Subsequent
// GetOrLoad calls return ErrClosed. In-flight loads finish but their results
// are not stored.
func (c *Cache[K, V]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for _, e := range c.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	c.entries = make(map[K]*entry[V])
	return nil
}

// armLocked (re)schedules eviction after the idle period. Each arm bumps the
// entry's sequence so that a timer fire racing a later read is a no-op.
func (c *Cache[K, V]) armLocked(k K, e *entry[V]) {
	if c.opt.Unused <= 0 {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.seq++
	seq := e.seq
	e.timer = time.AfterFunc(c.opt.Unused, func() { c.expire(k, seq) })
}

func (c *Cache[K, V]) expire(k K, seq uint64) {
	c.mu.Lock()
	e, ok := c.entries[k]
	if !ok || e.seq != seq {
		c.mu.Unlock()
		return
	}
	delete(c.entries, k)
	c.mu.Unlock()

	c.opt.Metrics.Evict()
	if cb := c.opt.OnEvict; cb != nil {
		cb(k, e.val)
	}
}
