// Package blackboard implements a generic keyed knowledge store: an
// opaque value.Any per key, with listeners notified on every write and a
// stable hash code over the board's keys.
package blackboard

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/go-kratos/aicore/value"
)

// Handle identifies a registered Listener. The zero Handle is never
// issued by AddListener and is reserved to mean "no listener".
type Handle uint32

// InvalidHandle is the reserved, never-issued Handle value.
const InvalidHandle Handle = 0

// Listener is notified whenever a key's value changes on a Blackboard it
// is registered with.
type Listener[K comparable] interface {
	OnValueChanged(key K, val value.Any)
}

// Blackboard is a keyed store of opaque values. Keys must be comparable;
// a KeyHash function is supplied at construction so the board can compute
// an order-independent HashCode without requiring K to implement any
// particular hashing interface.
type Blackboard[K comparable] struct {
	keyHash   func(K) uint32
	values    map[K]value.Any
	listeners map[Handle]Listener[K]
	nextID    uint32
}

// New returns an empty Blackboard. keyHash must return a stable hash for
// any key the board will store; it is used only by HashCode.
func New[K comparable](keyHash func(K) uint32) *Blackboard[K] {
	return &Blackboard[K]{
		keyHash:   keyHash,
		values:    make(map[K]value.Any),
		listeners: make(map[Handle]Listener[K]),
	}
}

// AddListener registers l and returns a Handle for later removal. It
// panics if l is nil.
func (b *Blackboard[K]) AddListener(l Listener[K]) Handle {
	if l == nil {
		panic("blackboard: AddListener called with a nil Listener")
	}
	b.nextID++
	h := Handle(b.nextID)
	b.listeners[h] = l
	return h
}

// RemoveListener unregisters the listener identified by h. It panics if h
// does not identify a currently-registered listener.
func (b *Blackboard[K]) RemoveListener(h Handle) {
	if _, ok := b.listeners[h]; !ok {
		panic(fmt.Sprintf("blackboard: RemoveListener called with unknown handle %d", h))
	}
	delete(b.listeners, h)
}

// Has reports whether key currently has a value.
func (b *Blackboard[K]) Has(key K) bool {
	_, ok := b.values[key]
	return ok
}

// Remove deletes key's value, if any. It does not notify listeners; the
// original only fires OnValueChanged from set.
func (b *Blackboard[K]) Remove(key K) {
	delete(b.values, key)
}

// Size returns the number of keys currently holding a value.
func (b *Blackboard[K]) Size() int {
	return len(b.values)
}

// Set stores v under key on b and notifies every registered listener.
// It is a free function rather than a method because Go methods cannot
// introduce their own type parameters beyond the receiver's.
func Set[K comparable, T any](b *Blackboard[K], key K, v T) {
	boxed := value.New(v)
	b.values[key] = boxed
	for _, l := range b.listeners {
		l.OnValueChanged(key, boxed)
	}
}

// Get retrieves key's value as T. It returns value.ErrTypeMismatch if the
// key is unset or its stored value isn't a T.
func Get[K comparable, T any](b *Blackboard[K], key K) (T, error) {
	var zero T
	boxed, ok := b.values[key]
	if !ok {
		return zero, fmt.Errorf("blackboard: %w: no value for key", value.ErrTypeMismatch)
	}
	return value.As[T](boxed)
}

// HashCode returns an FNV-1a hash over the board's keys, computed with
// hash/fnv's fnv.New32a(); stored values do not contribute, so boards with
// the same keys and different values hash alike. Per-key hashes are XOR-folded into a single
// 4-byte value before being fed to the hasher so the result is
// order-independent and does not depend on Go's unspecified map iteration
// order, unlike the original implementation's index-order-dependent hash.
func (b *Blackboard[K]) HashCode() uint32 {
	var combined uint32
	for k := range b.values {
		combined ^= b.keyHash(k)
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], combined)

	h := fnv.New32a()
	h.Write(buf[:])
	return h.Sum32()
}

// Equal reports whether b and other hold the same set of keys, each
// mapped to an Any that compares Equal.
func (b *Blackboard[K]) Equal(other *Blackboard[K]) bool {
	if b.Size() != other.Size() {
		return false
	}
	for k, v := range b.values {
		ov, ok := other.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
