package store

import "github.com/IvanBrykalov/shardstore/internal/util"

// Key is an immutable key with its hash computed once at construction.
// It is used both inside entries and for lookups, so finding an entry never
// requires building one.
type Key struct {
	hash uint64
	data string
}

// NewKey copies b and hashes it.
func NewKey(b []byte) Key {
	return Key{hash: util.KeyHash(b), data: string(b)}
}

// StringKey builds a Key from s.
func StringKey(s string) Key {
	return Key{hash: util.KeyHashString(s), data: s}
}

// Hash returns the precomputed hash.
func (k Key) Hash() uint64 { return k.hash }

// Data returns a copy of the key bytes.
func (k Key) Data() []byte { return []byte(k.data) }

// Size returns the key length in bytes.
func (k Key) Size() int { return len(k.data) }

// String returns the key as a string.
func (k Key) String() string { return k.data }

// Equal reports whether both keys have the same hash and the same bytes.
func (k Key) Equal(o Key) bool {
	return k.hash == o.hash && k.data == o.data
}
