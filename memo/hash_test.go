package memo

import "testing"

func TestHashArgs(t *testing.T) {
	t.Parallel()

	if HashArgs("a", 1) != HashArgs("a", 1) {
		t.Fatal("equal tuples must hash equal")
	}
	if HashArgs("ab") == HashArgs("a", "b") {
		t.Fatal("argument boundaries must be preserved")
	}
	if HashArgs(1) == HashArgs(int64(1)) {
		t.Fatal("types must be mixed into the digest")
	}
	if HashArgs() == HashArgs("x") {
		t.Fatal("empty tuple must not collide with a non-empty one")
	}
}
