// Package util contains internal helpers (hashing, power-of-two math, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import "github.com/cespare/xxhash/v2"

// KeyHash hashes a key's bytes with 64-bit xxHash.
// The store computes it once per key and never again, so it must be stable
// for the lifetime of the process.
func KeyHash(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// KeyHashString is KeyHash for string keys without a []byte conversion.
func KeyHashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// BucketIndex maps a hash onto a power-of-two bucket array of size n.
func BucketIndex(hash uint64, n int) int {
	return int(hash & uint64(n-1))
}
