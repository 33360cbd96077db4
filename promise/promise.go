// Package promise provides a minimal single-assignment future used to share
// one asynchronous outcome between many waiters.
//
// Concurrency notes:
//   - A Future settles exactly once. Publishing (val, err) happens-before
//     close(done), so reads after <-Done() observe the final values.
//   - Wait respects the caller's context: cancelling ctx unblocks only that
//     waiter; it does not affect the computation or other waiters.
package promise

import (
	"context"
	"sync"
)

// Future is a single-assignment container for the outcome of an asynchronous
// computation. The zero value is not usable; construct with New, Go,
// Resolved, or Failed.
type Future[V any] struct {
	once sync.Once
	done chan struct{} // closed when val/err are published
	val  V
	err  error
}

// SettleFunc publishes the outcome of a Future. The first call wins;
// subsequent calls are no-ops.
type SettleFunc[V any] func(v V, err error)

// New returns an unsettled Future and the function that settles it.
// The settle function is separated from the Future so that the Future can be
// handed to waiters without giving them the ability to settle it.
func New[V any]() (*Future[V], SettleFunc[V]) {
	f := &Future[V]{done: make(chan struct{})}
	return f, f.settle
}

// Go runs fn in a new goroutine and returns a Future for its outcome.
func Go[V any](fn func() (V, error)) *Future[V] {
	f, settle := New[V]()
	go func() {
		settle(fn())
	}()
	return f
}

// Resolved returns a Future already settled with v.
func Resolved[V any](v V) *Future[V] {
	f, settle := New[V]()
	settle(v, nil)
	return f
}

// Failed returns a Future already settled with err.
func Failed[V any](err error) *Future[V] {
	f, settle := New[V]()
	var zero V
	settle(zero, err)
	return f
}

func (f *Future[V]) settle(v V, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

// Wait blocks until the Future settles or ctx is cancelled. On cancellation
// it returns ctx.Err(); the underlying computation keeps running and other
// waiters are unaffected.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Done returns a channel closed once the Future has settled.
func (f *Future[V]) Done() <-chan struct{} { return f.done }

// Poll returns the outcome and true if the Future has settled,
// or zero values and false otherwise. It never blocks.
func (f *Future[V]) Poll() (V, error, bool) {
	select {
	case <-f.done:
		return f.val, f.err, true
	default:
		var zero V
		return zero, nil, false
	}
}
