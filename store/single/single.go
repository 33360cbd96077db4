// Package single implements the zero-argument slot store: one slot per
// (member, receiver) pair. The key argument is ignored.
package single

import (
	"sync"

	"github.com/IvanBrykalov/memoize/store"
)

// Store holds at most one slot. The zero value is ready to use.
type Store[S comparable] struct {
	mu  sync.Mutex
	s   S
	set bool
}

// New returns an empty singleton store.
func New[S comparable]() *Store[S] { return &Store[S]{} }

// Load returns the slot, if set.
func (c *Store[S]) Load(_ any) (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s, c.set
}

// LoadOrStore returns the existing slot, or stores s if the cell is empty.
func (c *Store[S]) LoadOrStore(_ any, s S) (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set {
		return c.s, true
	}
	c.s, c.set = s, true
	return s, false
}

// CompareAndDelete clears the cell only if it still holds s.
func (c *Store[S]) CompareAndDelete(_ any, s S) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set && c.s == s {
		var zero S
		c.s, c.set = zero, false
	}
}

// Len returns 1 if the cell is occupied, 0 otherwise.
func (c *Store[S]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set {
		return 1
	}
	return 0
}

var _ store.Store[int] = (*Store[int])(nil)
