// Package weakref contains an identity-keyed association that does not keep
// its keys reachable.
package weakref

import (
	"runtime"
	"sync"
	"weak"
)

// Map associates values with pointer keys by identity. Insertion does not
// extend the key object's lifetime: once a key becomes unreachable, its entry
// is pruned by a GC cleanup. All methods are safe for concurrent use.
//
// Pruning inherits runtime.AddCleanup's limits: a pointer-free key object
// smaller than 16 bytes may be batch-allocated with others and its entry
// never pruned.
//
// The zero value is ready to use.
type Map[T any, V any] struct {
	mu sync.Mutex
	m  map[weak.Pointer[T]]V
}

// Load returns the value associated with k, if any.
func (m *Map[T, V]) Load(k *T) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.m[weak.Make(k)]
	return v, ok
}

// LoadOrCreate returns the value associated with k, creating it via mk if
// absent. mk runs under the map lock and must not re-enter the map.
func (m *Map[T, V]) LoadOrCreate(k *T, mk func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	wp := weak.Make(k)
	if m.m == nil {
		m.m = make(map[weak.Pointer[T]]V)
	}
	if v, ok := m.m[wp]; ok {
		return v
	}
	v := mk()
	m.m[wp] = v
	// Prune the entry once the key object is collected. The cleanup closure
	// must not capture k, or the key would never become unreachable.
	runtime.AddCleanup(k, func(wp weak.Pointer[T]) {
		m.mu.Lock()
		delete(m.m, wp)
		m.mu.Unlock()
	}, wp)
	return v
}

// Delete removes the entry for k, if present.
func (m *Map[T, V]) Delete(k *T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, weak.Make(k))
}

// Len returns the number of live entries.
func (m *Map[T, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.m)
}
