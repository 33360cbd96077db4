// Package valmap implements the value-keyed slot store: a plain map whose
// keys are compared by value. Entries live for the lifetime of the store
// (and therefore of the owning receiver) unless removed by an outcome policy.
package valmap

import (
	"sync"

	"github.com/IvanBrykalov/memoize/store"
)

// Map is a value-keyed slot store. The zero value is ready to use.
// Keys must be of a comparable dynamic type; the classifier upstream routes
// non-comparable keys elsewhere.
type Map[S comparable] struct {
	mu sync.Mutex
	m  map[any]S
}

// New returns an empty value-keyed store.
func New[S comparable]() *Map[S] { return &Map[S]{} }

// Load returns the slot for key, if present.
func (c *Map[S]) Load(key any) (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.m[key]
	return s, ok
}

// LoadOrStore returns the existing slot for key or stores s.
func (c *Map[S]) LoadOrStore(key any, s S) (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.m[key]; ok {
		return prev, true
	}
	if c.m == nil {
		c.m = make(map[any]S)
	}
	c.m[key] = s
	return s, false
}

// CompareAndDelete removes key only if it still maps to s.
func (c *Map[S]) CompareAndDelete(key any, s S) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.m[key]; ok && prev == s {
		delete(c.m, key)
	}
}

// Len returns the number of resident slots.
func (c *Map[S]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

var _ store.Store[int] = (*Map[int])(nil)
