package memo

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"
)

type owner struct{ id int }

func TestSingleton_RunsOncePerOwnerAndTag(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	get := func(o *owner, tag string) (string, error) {
		return Singleton(o, tag, func() (string, error) {
			return fmt.Sprintf("%s#%d", tag, runs.Add(1)), nil
		})
	}

	a, b := &owner{id: 1}, &owner{id: 2}

	v1, _ := get(a, "conn")
	v2, _ := get(a, "conn")
	if v1 != v2 {
		t.Fatalf("same (owner, tag) must share the slot: %q vs %q", v1, v2)
	}

	// A different tag or owner gets its own slot.
	v3, _ := get(a, "pool")
	v4, _ := get(b, "conn")
	if v3 == v1 || v4 == v1 {
		t.Fatalf("slots leaked across tag/owner: %q, %q", v3, v4)
	}
	if got := runs.Load(); got != 3 {
		t.Fatalf("want 3 runs, got %d", got)
	}
}

func TestSingleton_FailureRetried(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	o := &owner{}
	compute := func() (int, error) {
		if runs.Add(1) == 1 {
			return 0, errors.New("transient")
		}
		return 7, nil
	}

	if _, err := Singleton(o, "v", compute); err == nil {
		t.Fatal("first call must fail")
	}
	v, err := Singleton(o, "v", compute)
	if err != nil || v != 7 {
		t.Fatalf("retry: v=%d err=%v", v, err)
	}
	if v, _ := Singleton(o, "v", compute); v != 7 {
		t.Fatalf("success must be cached, got %d", v)
	}
}

func TestSingleton_Coalesces(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	release := make(chan struct{})
	o := &owner{}

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			v, err := Singleton(o, "shared", func() (int64, error) {
				n := runs.Add(1)
				<-release
				return n, nil
			})
			if err != nil {
				return err
			}
			if v != 1 {
				return fmt.Errorf("want shared run 1, got %d", v)
			}
			return nil
		})
	}
	// The leader is parked in compute; followers block on the shared future.
	for runs.Load() == 0 {
		runtime.Gosched()
	}
	close(release)
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := runs.Load(); got != 1 {
		t.Fatalf("compute must run once, got %d", got)
	}
}

func TestSingleton_TypeMismatchPanics(t *testing.T) {
	t.Parallel()

	o := &owner{}
	if _, err := Singleton(o, "t", func() (int, error) { return 1, nil }); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("want panic on result type mismatch for a reused tag")
		}
	}()
	Singleton(o, "t", func() (string, error) { return "", nil })
}
