// Package value implements the opaque, type-tagged value box used by
// aicore/blackboard and aicore/behaviortree to carry host payloads without
// the core depending on concrete host types.
package value

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrTypeMismatch is returned by As when the requested type does not match
// the value's stored type. Unlike a contract violation this is an expected,
// recoverable outcome that callers are meant to branch on.
var ErrTypeMismatch = errors.New("value: type mismatch")

// Any is a small, copyable, type-tagged container for an arbitrary host
// value. The zero Any is empty. Equality compares both the stored type and
// the stored value; mismatched types are never equal, without invoking any
// user-defined equality.
type Any struct {
	val any
	typ reflect.Type
}

// New boxes v. Boxing a nil interface produces an empty Any, matching Empty's
// contract below.
func New(v any) Any {
	if v == nil {
		return Any{}
	}
	return Any{val: v, typ: reflect.TypeOf(v)}
}

// Empty reports whether the box holds no value.
func (a Any) Empty() bool {
	return a.typ == nil
}

// Type returns the reference-comparable type identity of the stored value,
// or nil if the box is empty.
func (a Any) Type() reflect.Type {
	return a.typ
}

// As retrieves the stored value as T. It returns ErrTypeMismatch if the box
// is empty or its stored type differs from T; this is the one recoverable
// error kind in the value contract (spec §7), not an assert.
func As[T any](a Any) (T, error) {
	var zero T
	if a.typ == nil {
		return zero, fmt.Errorf("%w: box is empty, want %T", ErrTypeMismatch, zero)
	}
	v, ok := a.val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: box holds %s, want %T", ErrTypeMismatch, a.typ, zero)
	}
	return v, nil
}

// MustAs is As, panicking on mismatch. Use only where the caller has already
// established the stored type (e.g. just after New(T)) and a mismatch would
// itself be a contract violation.
func MustAs[T any](a Any) T {
	v, err := As[T](a)
	if err != nil {
		panic(err)
	}
	return v
}

// Equal reports whether a and other hold the same type and an equal value.
// Mismatched types short-circuit to false without attempting comparison.
// Values whose dynamic type is not comparable (e.g. a slice or map) are
// never equal to anything, including themselves; Go's own == on interface
// values holding such types would panic instead.
func (a Any) Equal(other Any) bool {
	if a.typ != other.typ {
		return false
	}
	if a.typ == nil {
		return true
	}
	if !a.typ.Comparable() {
		return false
	}
	return a.val == other.val
}
