// Package store is the in-memory record store behind one shard of a
// Redis-compatible server: a self-growing hash index of typed entries with
// per-entry deadlines and timer-driven expiration.
//
// Design
//
//   - Storage: entries live in an Allocator (by default an arena.Slab) and
//     are addressed by generational handles. The allocator compacts on free,
//     so pointers into it are transient; handles are stable.
//
//   - Index: a power-of-two bucket array. Each bucket heads a chain threaded
//     through the entries' own next handles. When the entry count passes
//     LoadFactor * buckets the array doubles and entries are rehoused by their
//     stored hash. If the larger array cannot be allocated (see
//     Options.MaxBuckets) the table simply stays at its current size.
//
//   - Values: an Entry carries exactly one of eight payload kinds, chosen at
//     construction (NewFloat, NewInteger, NewBytes, NewList, NewMap, NewSet,
//     NewSortedSet, NewProbabilisticSet). Accessors check the kind and panic
//     with *ContractError on mismatch.
//
//   - Expiration: entries with a deadline sit in a min-heap. Exactly one
//     timer is armed, always for the earliest deadline. When it fires the
//     store drains every due entry, unlinks it, and passes it to the
//     releaser. Expiration is lazy: an entry past its deadline is still
//     visible to Find and Exists until the timer drains it.
//
//   - Concurrency: none. A Store belongs to one execution context; the
//     Scheduler must deliver timer callbacks on that context. The shard
//     package provides such a context.
//
// Basic usage
//
//	s := store.New(store.Options{InitialBuckets: 1024})
//	s.SetExpiredEntryReleaser(func(e *store.Entry) { /* notify */ })
//	k := store.StringKey("counter")
//	s.InsertIf(store.NewInteger(k, 1), 0, true, false) // SET NX
//	store.WithEntry(s, k, func(e *store.Entry) int64 {
//	    if e == nil {
//	        return 0
//	    }
//	    return e.IncrInteger(1)
//	})
//	s.Expire(k, 10*time.Second)
package store
