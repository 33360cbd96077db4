package memo

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
)

// BenchmarkWrap_Hits exercises the warm hot path: every call after warmup is
// a slot hit. String keys include strconv/concat costs, which is fine for an
// end-to-end benchmark.
func BenchmarkWrap_Hits(b *testing.B) {
	lookup := Wrap(func(_ context.Context, s *service, k string) (string, error) {
		return s.name + ":" + k, nil
	}, Options[string]{})

	svc := &service{name: "bench"}
	ctx := context.Background()

	// Warm a hot keyspace.
	keyMask := (1 << 12) - 1
	for i := 0; i <= keyMask; i++ {
		if _, err := lookup(ctx, svc, "k:"+strconv.Itoa(i)); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64
	b.RunParallel(func(pb *testing.PB) {
		i := int(atomic.AddInt64(&seed, 1))
		for pb.Next() {
			if _, err := lookup(ctx, svc, "k:"+strconv.Itoa(i&keyMask)); err != nil {
				b.Fatal(err)
			}
			i++
		}
	})
}

// BenchmarkWrapGetter_Hit measures the singleton slot hot path.
func BenchmarkWrapGetter_Hit(b *testing.B) {
	name := WrapGetter(func(_ context.Context, s *service) (string, error) {
		return s.name, nil
	}, Policy{})

	svc := &service{name: "bench"}
	ctx := context.Background()
	if _, err := name(ctx, svc); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := name(ctx, svc); err != nil {
			b.Fatal(err)
		}
	}
}
