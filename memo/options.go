package memo

// EvictReason explains why a slot was removed.
type EvictReason int

const (
	// EvictFailure means the slot was removed because the computation
	// settled with an error (default policy).
	EvictFailure EvictReason = iota
	// EvictSuccess means the slot was removed because the computation
	// settled successfully and ClearOnSuccess was set.
	EvictSuccess
	// EvictCollected means the slot was pruned because an identity key
	// became unreachable and was collected.
	EvictCollected
)

// Metrics exposes memoization observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
}

// Policy controls when a slot is cleared relative to the settlement of its
// computation. The zero value is the default policy: failed outcomes are
// cleared, successful outcomes are kept.
type Policy struct {
	// CacheErrors keeps a failed outcome cached. When false (the default), a
	// failure removes its slot before the error is delivered, so the next
	// call re-invokes the computation while current waiters of the shared
	// future still observe the original error.
	CacheErrors bool

	// ClearOnSuccess removes the slot once the computation settles
	// successfully. Concurrent calls issued before settlement still coalesce;
	// sequential calls after it recompute. May be combined with CacheErrors.
	ClearOnSuccess bool

	// Metrics receives Hit/Miss/Evict signals. Nil => NoopMetrics.
	Metrics Metrics
}

// Options configures a wrapped one-argument member. The zero value applies
// the default policy and uses the argument itself as the cache key.
type Options[A any] struct {
	Policy

	// Hasher derives the cache key from the argument. Nil => the argument is
	// the key. The returned key is classified by kind: non-nil pointers are
	// identity keys (held weakly), comparable values are value keys.
	Hasher func(A) any
}

// withDefaults fills in nil fields, mirroring how New applies defaults in
// the rest of the module.
func (p Policy) withDefaults() Policy {
	if p.Metrics == nil {
		p.Metrics = NoopMetrics{}
	}
	return p
}
