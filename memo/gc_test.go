package memo

import (
	"context"
	"runtime"
	"testing"
	"time"
)

// Once an identity key has no outside owner, its cache entry is reclaimed
// without any explicit invalidation.
func TestWrap_IdentityKeyReclaimed(t *testing.T) {
	m := &countMetrics{}
	type blob struct{ pad [64]byte }
	size := Wrap(func(_ context.Context, _ *service, b *blob) (int, error) {
		return len(b.pad), nil
	}, Options[*blob]{Policy: Policy{Metrics: m}})

	svc := &service{}
	ctx := context.Background()

	for i := 0; i < 32; i++ {
		if v, err := size(ctx, svc, &blob{}); err != nil || v != 64 {
			t.Fatalf("size: v=%d err=%v", v, err)
		}
	}

	// The keys are unreachable now; cleanups run some time after GC.
	deadline := time.Now().Add(5 * time.Second)
	for m.collected.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no identity entries reclaimed after GC")
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
}

// A collected receiver releases its whole store bundle: memoized state must
// never keep a receiver alive.
func TestWrapGetter_ReceiverNotRetained(t *testing.T) {
	collected := make(chan struct{})
	id := WrapGetter(func(_ context.Context, s *service) (string, error) {
		return s.name, nil
	}, Policy{})

	func() {
		svc := &service{name: "ephemeral"}
		runtime.AddCleanup(svc, func(ch chan struct{}) { close(ch) }, collected)
		if v, err := id(context.Background(), svc); err != nil || v != "ephemeral" {
			t.Fatalf("id: v=%q err=%v", v, err)
		}
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-collected:
			return
		case <-deadline:
			t.Fatal("receiver still reachable; the member side-table must hold it weakly")
		default:
			runtime.GC()
			time.Sleep(10 * time.Millisecond)
		}
	}
}
