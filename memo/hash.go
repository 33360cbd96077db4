package memo

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// HashArgs derives a single value key from several arguments, for memoizing
// multi-argument members through Options.Hasher. Arguments are folded into a
// 64-bit xxhash digest; type names are mixed in so that HashArgs(1) and
// HashArgs(int64(1)) differ, and a separator keeps ("ab") distinct from
// ("a", "b").
//
// The digest is a value key: calls whose argument tuples hash equal share one
// slot, which is the intended contract for hashed keys.
func HashArgs(args ...any) uint64 {
	d := xxhash.New()
	for _, a := range args {
		fmt.Fprintf(d, "%T\x1f%v\x1e", a, a)
	}
	return d.Sum64()
}
