package store

import (
	"time"

	"github.com/IvanBrykalov/shardstore/arena"
	"github.com/IvanBrykalov/shardstore/logging"
)

const (
	// DefaultInitialBuckets is the bucket count a Store starts with.
	DefaultInitialBuckets = 1 << 20
	// LoadFactor is the entries-per-bucket ratio that triggers doubling.
	LoadFactor = 0.75
)

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop cancels the callback; it reports false if it already ran or was queued.
	Stop() bool
}

// Scheduler runs callbacks after a delay on the execution context that owns
// the Store. The Store never calls into itself from another goroutine, so
// the scheduler must deliver fn on that same context.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Allocator owns entry memory. Entries are addressed by arena handles; a
// pointer returned by Get is valid only until the next Alloc, Free or Reset.
// *arena.Slab[Entry] is the default implementation.
type Allocator interface {
	Alloc(e Entry) arena.Handle
	Get(h arena.Handle) *Entry
	Free(h arena.Handle) (Entry, bool)
	Len() int
	Reset()
}

// Options configures a Store. Zero values are safe; defaults are applied in New():
//   - InitialBuckets <= 0 => DefaultInitialBuckets, rounded up to a power of two
//   - nil Allocator       => arena.New[Entry]
//   - nil Metrics         => NoopMetrics
//   - nil Logger          => logging.Nop()
//   - nil Scheduler       => the deadline is tracked but never fires on its
//     own; the owner calls EraseExpired
type Options struct {
	InitialBuckets int

	// MaxBuckets caps growth (0 = unlimited). Doubling past it is treated as
	// an allocation failure: the table keeps working at its current size.
	MaxBuckets int

	// Releaser receives every entry drained by expiration.
	Releaser func(e *Entry)

	Clock     Clock
	Scheduler Scheduler
	Allocator Allocator
	Metrics   Metrics
	Logger    logging.Logger
}
