// Package memo provides per-object memoization for method-shaped
// computations: wrap a computation once, call the wrapper many times, and the
// underlying computation runs at most once per (receiver, key), while
// concurrent in-flight asynchronous calls for the same key coalesce into a
// single shared outcome.
//
// Design
//
//   - Composition, not interception: Wrap takes the original computation as a
//     value and returns a new callable. Call sites invoke the wrapper
//     directly; there is no transparent hook into method dispatch.
//
//   - Receiver scoping: every Wrap call creates one "member". Each member
//     keeps a side-table from receiver identity to that receiver's slot
//     stores. The table holds receivers weakly, so memoized state never keeps
//     a receiver alive and is reclaimed together with it. Distinct members
//     never share storage, even for the same receiver.
//
//   - Keys: a zero-argument member (WrapGetter) uses a singleton slot per
//     receiver. A one-argument member derives its key from the argument, or
//     from Options.Hasher when set (the way to memoize multi-argument calls:
//     pack the arguments into one value and hash them, e.g. with HashArgs).
//     The derived key is classified by kind: non-nil pointers are identity
//     keys, held weakly so a cache entry disappears once its key object is
//     otherwise unreachable; every comparable value is a value key, cached
//     for the lifetime of the receiver. Non-comparable keys (slices, maps,
//     funcs) panic: derive a comparable key with a Hasher instead.
//
//   - Coalescing: a slot holds a promise.Future. Callers that arrive while
//     the future is unsettled share it and observe the same eventual success
//     or failure. For the synchronous Wrap forms the first caller runs the
//     computation and later callers block on the shared future; WrapAsync
//     returns the shared future itself.
//
//   - Outcome policy: by default a failed outcome is removed from its slot
//     before the failure is delivered, so the next call retries while current
//     waiters still see the original error unchanged. Options.CacheErrors
//     keeps failed outcomes cached instead. Options.ClearOnSuccess removes
//     the slot on success as well, which keeps burst coalescing but never
//     remembers a settled result (pure singleflight behavior). Both removals
//     are compare-and-delete, so whichever applies first wins and the other
//     is a no-op.
//
//   - Cancellation: none. A caller's context only abandons its own wait; the
//     in-flight computation keeps running and its outcome still settles the
//     shared future.
//
// Basic usage
//
//	type Repo struct{ db *sql.DB }
//
//	var userByID = memo.Wrap(func(ctx context.Context, r *Repo, id int64) (User, error) {
//	    return r.queryUser(ctx, id)
//	}, memo.Options[int64]{})
//
//	u, err := userByID(ctx, repo, 42) // first call hits the database
//	u, err = userByID(ctx, repo, 42)  // served from the receiver's cache
//
// Multi-argument keys
//
//	type pairArgs struct{ a, b string }
//
//	var join = memo.Wrap(func(ctx context.Context, r *Repo, p pairArgs) (string, error) {
//	    return r.join(ctx, p.a, p.b)
//	}, memo.Options[pairArgs]{
//	    Hasher: func(p pairArgs) any { return memo.HashArgs(p.a, p.b) },
//	})
//
// Coalescing with futures
//
//	var fetch = memo.WrapAsync(func(ctx context.Context, c *Client, url string) *promise.Future[[]byte] {
//	    return promise.Go(func() ([]byte, error) { return c.get(ctx, url) })
//	}, memo.Options[string]{})
//
//	f1 := fetch(ctx, cli, u) // starts the request
//	f2 := fetch(ctx, cli, u) // identical future while in flight
//
// Metrics
//
// Options.Metrics receives Hit/Miss/Evict signals; NoopMetrics is the
// default. A Prometheus adapter is provided under metrics/prom.
package memo
