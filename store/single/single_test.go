package single

import "testing"

func TestStore_SingleSlot(t *testing.T) {
	t.Parallel()

	c := New[int]()
	if _, ok := c.Load(nil); ok {
		t.Fatal("empty cell must miss")
	}
	if s, loaded := c.LoadOrStore(nil, 1); loaded || s != 1 {
		t.Fatalf("first store: s=%d loaded=%v", s, loaded)
	}
	// The key is irrelevant: any key hits the one slot.
	if s, loaded := c.LoadOrStore("whatever", 2); !loaded || s != 1 {
		t.Fatalf("second store must load 1, got %d loaded=%v", s, loaded)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d", c.Len())
	}

	c.CompareAndDelete(nil, 2) // stale slot: no-op
	if _, ok := c.Load(nil); !ok {
		t.Fatal("mismatched CompareAndDelete must not clear")
	}
	c.CompareAndDelete(nil, 1)
	if _, ok := c.Load(nil); ok {
		t.Fatal("matching CompareAndDelete must clear")
	}
	if c.Len() != 0 {
		t.Fatalf("Len after clear = %d", c.Len())
	}
}
