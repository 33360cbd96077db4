package expire

import "context"

// Wrap returns a computation whose results are cached per resolved key and
// forgotten after the cache's idle period. resolve derives the cache key from
// the argument; it is required, since the argument type itself may not be a
// usable map key. Wrap panics on a nil compute or resolve (configuration
// errors, reported at wrap time).
func Wrap[A any, K comparable, V any](compute func(context.Context, A) (V, error), resolve func(A) K, opt Options[K, V]) func(context.Context, A) (V, error) {
	if compute == nil {
		panic("expire: Wrap requires a non-nil compute")
	}
	if resolve == nil {
		panic("expire: Wrap requires a non-nil resolve")
	}
	c := New(opt)
	return func(ctx context.Context, a A) (V, error) {
		return c.GetOrLoad(ctx, resolve(a), func(ctx context.Context) (V, error) {
			return compute(ctx, a)
		})
	}
}
