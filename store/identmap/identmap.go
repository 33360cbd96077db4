// Package identmap implements the identity-keyed slot store. Keys are object
// (pointer) values compared by identity, held through weak pointers: inserting
// a key never extends its lifetime, and once the key object becomes otherwise
// unreachable its entry is pruned by a GC cleanup, with no explicit eviction
// code on the caller's side.
//
// Pruning inherits runtime.AddCleanup's limits: a pointer-free key object
// smaller than 16 bytes may be batch-allocated with others and its entry
// never pruned.
package identmap

import (
	"reflect"
	"runtime"
	"sync"
	"weak"

	"github.com/IvanBrykalov/memoize/store"
)

// Map is an identity-keyed weak slot store. Keys must be non-nil values of
// pointer kind; the classifier upstream guarantees this.
//
// Implementation: the key object's address is reduced to a weak.Pointer[byte]
// used as the map key. Weak pointers created from the same address compare
// equal, which gives identity semantics, and runtime.AddCleanup removes the
// entry after the key is collected, so a recycled address can never alias a
// stale entry.
type Map[S comparable] struct {
	mu sync.Mutex
	m  map[weak.Pointer[byte]]S

	// onCollect, if set, is called once per entry pruned by the GC cleanup.
	onCollect func()
}

// New returns an empty identity store. onCollect may be nil; when set it is
// called each time an entry is pruned because its key was collected.
func New[S comparable](onCollect func()) *Map[S] {
	return &Map[S]{onCollect: onCollect}
}

// weakKey reduces an arbitrary pointer-kind key to a weak pointer to its
// first byte. The returned *byte is only used to register the cleanup and is
// not retained.
func weakKey(key any) (weak.Pointer[byte], *byte) {
	p := (*byte)(reflect.ValueOf(key).UnsafePointer())
	return weak.Make(p), p
}

// Load returns the slot for key, if present.
func (c *Map[S]) Load(key any) (S, bool) {
	wp, _ := weakKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.m[wp]
	return s, ok
}

// LoadOrStore returns the existing slot for key or stores s, registering a
// cleanup that prunes the entry once the key object is collected.
func (c *Map[S]) LoadOrStore(key any, s S) (S, bool) {
	wp, p := weakKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.m[wp]; ok {
		return prev, true
	}
	if c.m == nil {
		c.m = make(map[weak.Pointer[byte]]S)
	}
	c.m[wp] = s
	// The cleanup captures only the weak pointer, never the key itself.
	runtime.AddCleanup(p, func(wp weak.Pointer[byte]) {
		c.mu.Lock()
		_, ok := c.m[wp]
		delete(c.m, wp)
		c.mu.Unlock()
		if ok && c.onCollect != nil {
			c.onCollect()
		}
	}, wp)
	runtime.KeepAlive(key)
	return s, false
}

// CompareAndDelete removes key only if it still maps to s.
func (c *Map[S]) CompareAndDelete(key any, s S) {
	wp, _ := weakKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.m[wp]; ok && prev == s {
		delete(c.m, wp)
	}
}

// Len returns the number of resident slots. Entries whose keys have been
// collected but whose cleanups have not yet run are still counted.
func (c *Map[S]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

var _ store.Store[int] = (*Map[int])(nil)
