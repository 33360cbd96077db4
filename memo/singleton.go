package memo

import (
	"fmt"
	"sync"

	"github.com/IvanBrykalov/memoize/promise"
	"github.com/IvanBrykalov/memoize/store/identmap"
)

// singletons associates each owner object with its tag table. Owners are
// held by identity through weak pointers, so a table is reclaimed together
// with its owner and never keeps it alive.
var singletons = identmap.New[*tagTable](nil)

// tagTable maps opaque tags to slot futures of assorted result types.
type tagTable struct {
	mu sync.Mutex
	m  map[string]any // tag -> *promise.Future[V]
}

// Singleton returns the value computed once per (owner, tag) pair: the first
// call runs compute and caches the outcome on the owner; subsequent calls
// (and concurrent callers, which coalesce) observe the cached value. A failed
// compute is not cached: its slot is removed before the error is returned,
// so the next call retries.
//
// Singleton panics if owner is nil or if the same (owner, tag) pair is
// reused with a different result type. Both are configuration errors.
func Singleton[O any, V any](owner *O, tag string, compute func() (V, error)) (V, error) {
	if owner == nil {
		panic("memo: Singleton requires a non-nil owner")
	}
	if compute == nil {
		panic("memo: Singleton requires a non-nil compute")
	}

	tbl, ok := singletons.Load(owner)
	if !ok {
		tbl, _ = singletons.LoadOrStore(owner, &tagTable{})
	}

	tbl.mu.Lock()
	if prev, ok := tbl.m[tag]; ok {
		f, ok := prev.(*promise.Future[V])
		if !ok {
			tbl.mu.Unlock()
			panic(fmt.Sprintf("memo: Singleton tag %q reused with result type %T, previously %T", tag, f, prev))
		}
		tbl.mu.Unlock()
		// Settled or in flight either way; block for the shared outcome.
		<-f.Done()
		v, err, _ := f.Poll()
		return v, err
	}
	f, settle := promise.New[V]()
	if tbl.m == nil {
		tbl.m = make(map[string]any)
	}
	tbl.m[tag] = f
	tbl.mu.Unlock()

	v, err := compute()
	if err != nil {
		// Not cached: remove before delivering, so the next call retries.
		tbl.mu.Lock()
		if cur, ok := tbl.m[tag]; ok && cur == any(f) {
			delete(tbl.m, tag)
		}
		tbl.mu.Unlock()
	}
	settle(v, err)
	return v, err
}
