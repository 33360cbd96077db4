package memo

import (
	"context"

	"github.com/IvanBrykalov/memoize/internal/weakref"
	"github.com/IvanBrykalov/memoize/promise"
	"github.com/IvanBrykalov/memoize/store"
	"github.com/IvanBrykalov/memoize/store/identmap"
	"github.com/IvanBrykalov/memoize/store/single"
	"github.com/IvanBrykalov/memoize/store/valmap"
)

// Wrap memoizes a one-argument, method-shaped computation per (receiver,
// key). The first call for a key runs compute; callers that arrive while the
// computation is in flight block on the shared outcome; later calls are
// served from the receiver's cache, subject to the outcome policy.
//
// Wrap panics if compute is nil (a configuration error, reported at wrap
// time rather than at call time).
func Wrap[R, A, V any](compute func(context.Context, *R, A) (V, error), opt Options[A]) func(context.Context, *R, A) (V, error) {
	if compute == nil {
		panic("memo: Wrap requires a non-nil compute")
	}
	opt.Policy = opt.Policy.withDefaults()
	m := &memoFunc[R, A, V]{compute: compute}
	m.opt = opt
	return m.call
}

// WrapAsync memoizes a computation that produces a future. The stored slot
// is a derived future that settles only after the outcome policy has run, so
// a failure under the default policy removes the slot strictly before any
// waiter of the stored future observes it. All callers that request the same
// key before settlement receive the identical *promise.Future.
func WrapAsync[R, A, V any](compute func(context.Context, *R, A) *promise.Future[V], opt Options[A]) func(context.Context, *R, A) *promise.Future[V] {
	if compute == nil {
		panic("memo: WrapAsync requires a non-nil compute")
	}
	opt.Policy = opt.Policy.withDefaults()
	m := &memoAsync[R, A, V]{compute: compute}
	m.opt = opt
	return m.call
}

// WrapGetter memoizes a zero-argument, getter-shaped computation: one slot
// per (member, receiver), with compute running at most once per receiver
// under the default policy.
func WrapGetter[R, V any](compute func(context.Context, *R) (V, error), pol Policy) func(context.Context, *R) (V, error) {
	if compute == nil {
		panic("memo: WrapGetter requires a non-nil compute")
	}
	m := &memoGetter[R, V]{compute: compute, pol: pol.withDefaults()}
	return m.call
}

// WrapGetterAsync is the future-producing form of WrapGetter.
func WrapGetterAsync[R, V any](compute func(context.Context, *R) *promise.Future[V], pol Policy) func(context.Context, *R) *promise.Future[V] {
	if compute == nil {
		panic("memo: WrapGetterAsync requires a non-nil compute")
	}
	m := &memoGetterAsync[R, V]{compute: compute, pol: pol.withDefaults()}
	return m.call
}

// ---- shared slot flow ----

// join returns the slot future for key, creating it when absent. leader
// reports whether the caller must run the computation and settle the future;
// followers receive a nil settle.
func join[V any](st store.Store[*promise.Future[V]], key any, m Metrics) (f *promise.Future[V], settle promise.SettleFunc[V], leader bool) {
	if f, ok := st.Load(key); ok {
		m.Hit()
		return f, nil, false
	}
	f, settle = promise.New[V]()
	if prev, loaded := st.LoadOrStore(key, f); loaded {
		m.Hit()
		return prev, nil, false
	}
	m.Miss()
	return f, settle, true
}

// finish applies the outcome policy and settles the slot future. Any removal
// is performed strictly before settlement, so a caller that observes the
// delivered outcome always misses on its next call for the same key.
func finish[V any](p Policy, st store.Store[*promise.Future[V]], key any, f *promise.Future[V], settle promise.SettleFunc[V], v V, err error) {
	switch {
	case err != nil && !p.CacheErrors:
		st.CompareAndDelete(key, f)
		p.Metrics.Evict(EvictFailure)
	case err == nil && p.ClearOnSuccess:
		st.CompareAndDelete(key, f)
		p.Metrics.Evict(EvictSuccess)
	}
	settle(v, err)
}

// ---- one-argument members ----

// argStores bundles the two keyed stores owned by one (member, receiver)
// pair. Both are created together; the classifier picks one per call.
type argStores[V any] struct {
	vals   *valmap.Map[*promise.Future[V]]
	idents *identmap.Map[*promise.Future[V]]
}

// argMember is the receiver side-table shared by the sync and async
// one-argument wrappers. Receivers are held weakly: memoized state never
// keeps a receiver alive and is reclaimed together with it.
type argMember[R, A, V any] struct {
	opt   Options[A]
	recvs weakref.Map[R, *argStores[V]]
}

func (m *argMember[R, A, V]) key(arg A) any {
	if m.opt.Hasher != nil {
		return m.opt.Hasher(arg)
	}
	return arg
}

func (m *argMember[R, A, V]) storeFor(recv *R, kind keyKind) store.Store[*promise.Future[V]] {
	if recv == nil {
		panic("memo: nil receiver")
	}
	ss := m.recvs.LoadOrCreate(recv, func() *argStores[V] {
		return &argStores[V]{
			vals:   valmap.New[*promise.Future[V]](),
			idents: identmap.New[*promise.Future[V]](func() { m.opt.Metrics.Evict(EvictCollected) }),
		}
	})
	if kind == keyIdent {
		return ss.idents
	}
	return ss.vals
}

type memoFunc[R, A, V any] struct {
	argMember[R, A, V]
	compute func(context.Context, *R, A) (V, error)
}

func (m *memoFunc[R, A, V]) call(ctx context.Context, recv *R, arg A) (V, error) {
	key := m.key(arg)
	st := m.storeFor(recv, classifyKey(key))

	f, settle, leader := join(st, key, m.opt.Metrics)
	if !leader {
		return f.Wait(ctx)
	}
	v, err := m.compute(ctx, recv, arg)
	finish(m.opt.Policy, st, key, f, settle, v, err)
	return v, err
}

type memoAsync[R, A, V any] struct {
	argMember[R, A, V]
	compute func(context.Context, *R, A) *promise.Future[V]
}

func (m *memoAsync[R, A, V]) call(ctx context.Context, recv *R, arg A) *promise.Future[V] {
	key := m.key(arg)
	st := m.storeFor(recv, classifyKey(key))

	f, settle, leader := join(st, key, m.opt.Metrics)
	if !leader {
		return f
	}
	inner := m.compute(ctx, recv, arg)
	go func() {
		// No cancellation: the stored future settles with the computation's
		// outcome regardless of any caller's context.
		v, err := inner.Wait(context.Background())
		finish(m.opt.Policy, st, key, f, settle, v, err)
	}()
	return f
}

// ---- zero-argument members ----

type memoGetter[R, V any] struct {
	compute func(context.Context, *R) (V, error)
	pol     Policy
	recvs   weakref.Map[R, *single.Store[*promise.Future[V]]]
}

func (m *memoGetter[R, V]) call(ctx context.Context, recv *R) (V, error) {
	if recv == nil {
		panic("memo: nil receiver")
	}
	st := m.recvs.LoadOrCreate(recv, single.New[*promise.Future[V]])

	f, settle, leader := join(st, nil, m.pol.Metrics)
	if !leader {
		return f.Wait(ctx)
	}
	v, err := m.compute(ctx, recv)
	finish(m.pol, st, nil, f, settle, v, err)
	return v, err
}

type memoGetterAsync[R, V any] struct {
	compute func(context.Context, *R) *promise.Future[V]
	pol     Policy
	recvs   weakref.Map[R, *single.Store[*promise.Future[V]]]
}

func (m *memoGetterAsync[R, V]) call(ctx context.Context, recv *R) *promise.Future[V] {
	if recv == nil {
		panic("memo: nil receiver")
	}
	st := m.recvs.LoadOrCreate(recv, single.New[*promise.Future[V]])

	f, settle, leader := join(st, nil, m.pol.Metrics)
	if !leader {
		return f
	}
	inner := m.compute(ctx, recv)
	go func() {
		v, err := inner.Wait(context.Background())
		finish(m.pol, st, nil, f, settle, v, err)
	}()
	return f
}
