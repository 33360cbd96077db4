// Package store defines the slot-store contract shared by the memoization
// layer's storage strategies. A store maps derived cache keys to slots; the
// slot type S is opaque to the store (the memo layer uses futures).
//
// Three strategies are provided as subpackages, selected by the shape of the
// wrapped call and the classification of its key:
//
//   - single:   one slot per store, for zero-argument members.
//   - valmap:   value-keyed map, for primitive (comparable-by-value) keys.
//   - identmap: identity-keyed weak association, for object keys. Entries
//     vanish once the key object becomes otherwise unreachable; the store
//     itself never keeps a key alive.
//
// Concurrency: implementations are safe for concurrent use. LoadOrStore is
// atomic, which is what makes miss-then-insert race free for leader election.
package store

// Store is a container of memoization slots for one (member, receiver) pair.
// Distinct pairs must use physically distinct Store instances.
type Store[S comparable] interface {
	// Load returns the slot for key, if present.
	Load(key any) (S, bool)

	// LoadOrStore returns the existing slot for key if present; otherwise it
	// stores s and returns it. loaded is true if an existing slot was found.
	LoadOrStore(key any, s S) (actual S, loaded bool)

	// CompareAndDelete removes key only if it is still mapped to s, so a
	// stale removal after a concurrent replacement is a no-op.
	CompareAndDelete(key any, s S)

	// Len returns the number of resident slots.
	Len() int
}
