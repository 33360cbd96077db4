package memo

import (
	"fmt"
	"reflect"
)

// keyKind is the classification of a derived cache key.
type keyKind uint8

const (
	// keyValue keys are compared by value in a map store.
	keyValue keyKind = iota
	// keyIdent keys are compared by object identity in a weak store.
	keyIdent
)

// classifyKey decides how a raw key is compared and stored: a non-nil
// pointer is an identity key, everything comparable is a value key.
// unsafe.Pointer values are value keys: they may be interior pointers,
// which a weak reference cannot be formed from.
// Pure function of its input; no error conditions.
//
// Non-comparable keys (slices, maps, funcs, structs containing them) cannot
// key a map and cannot be held weakly, so they panic. Panicking here is
// deliberate: silently stringifying such keys would produce surprising
// collisions. Derive a comparable key with Options.Hasher instead.
func classifyKey(k any) keyKind {
	if k == nil {
		return keyValue
	}
	rv := reflect.ValueOf(k)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return keyValue
		}
		return keyIdent
	}
	if !rv.Comparable() {
		panic(fmt.Sprintf("memo: key type %T is not comparable; derive a key with Options.Hasher (e.g. memo.HashArgs)", k))
	}
	return keyValue
}
