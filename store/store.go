package store

import (
	"fmt"
	"math"
	"time"

	"github.com/IvanBrykalov/shardstore/arena"
	"github.com/IvanBrykalov/shardstore/internal/util"
	"github.com/IvanBrykalov/shardstore/logging"
)

// Store is the record index of one shard: a power-of-two bucket array of
// handle chains threaded through the entries themselves, an expiration
// queue of the entries that carry a deadline, and one timer aimed at the
// earliest of those deadlines.
//
// A Store is confined to a single execution context. It has no locks; all
// calls, including the timer callback, must come from that context.
type Store struct {
	buckets   []arena.Handle
	count     int
	threshold int
	capped    bool // growth already refused once; logged only then

	alloc   Allocator
	queue   expiryQueue
	timer   deadlineTimer
	release func(e *Entry)

	opt Options
	log logging.Logger
}

// New constructs a Store with the provided Options.
func New(opt Options) *Store {
	if opt.InitialBuckets <= 0 {
		opt.InitialBuckets = DefaultInitialBuckets
	}
	opt.InitialBuckets = int(util.NextPow2(uint64(opt.InitialBuckets)))
	if opt.Allocator == nil {
		opt.Allocator = arena.New[Entry](0)
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = logging.Nop()
	}

	s := &Store{
		buckets:   make([]arena.Handle, opt.InitialBuckets),
		threshold: util.Threshold(opt.InitialBuckets, LoadFactor),
		alloc:     opt.Allocator,
		release:   opt.Releaser,
		opt:       opt,
		log:       opt.Logger,
	}
	s.queue.alloc = s.alloc
	s.timer = deadlineTimer{sched: opt.Scheduler, now: s.now, fire: s.EraseExpired}
	opt.Metrics.Buckets(len(s.buckets))
	return s
}

// SetExpiredEntryReleaser installs the callback that receives every entry
// drained by expiration.
func (s *Store) SetExpiredEntryReleaser(fn func(e *Entry)) {
	s.release = fn
}

// Len returns the number of resident entries.
func (s *Store) Len() int { return s.count }

// Empty reports whether the store holds no entries.
func (s *Store) Empty() bool { return s.count == 0 }

// ExpiringLen returns how many entries carry a finite deadline.
func (s *Store) ExpiringLen() int { return s.queue.Len() }

// BucketCount returns the current bucket array size.
func (s *Store) BucketCount() int { return len(s.buckets) }

// ResizeThreshold returns the entry count above which the table doubles.
func (s *Store) ResizeThreshold() int { return s.threshold }

// NextDeadline returns the deadline the timer is armed for, if any.
func (s *Store) NextDeadline() (int64, bool) { return s.timer.target() }

// Find returns the entry stored under k. The pointer is valid only until
// the next call that mutates the store.
func (s *Store) Find(k Key) (*Entry, bool) {
	_, e := s.lookup(k)
	s.observe(e != nil)
	return e, e != nil
}

// Exists reports whether k is present. Entries past their deadline stay
// visible until the timer drains them.
func (s *Store) Exists(k Key) bool {
	_, e := s.lookup(k)
	s.observe(e != nil)
	return e != nil
}

// WithEntry looks k up and calls fn with the entry, or with nil when k is
// absent, returning fn's result. The pointer must not escape fn.
func WithEntry[R any](s *Store, k Key, fn func(e *Entry) R) R {
	_, e := s.lookup(k)
	s.observe(e != nil)
	return fn(e)
}

// Range calls fn for every resident entry until fn returns false.
// fn must not mutate the store.
func (s *Store) Range(fn func(e *Entry) bool) {
	for _, h := range s.buckets {
		for !h.IsNil() {
			e := s.alloc.Get(h)
			next := e.next
			if !fn(e) {
				return
			}
			h = next
		}
	}
}

// Insert adds an entry whose key is known to be absent. Inserting a key
// that is already present is a contract violation.
func (s *Store) Insert(e Entry) {
	if _, old := s.lookup(e.key); old != nil {
		violate("Insert", "key %q already present", e.key.data)
	}
	s.link(e)
}

// Erase removes the entry stored under k, dropping its deadline first.
// It reports whether k was present.
func (s *Store) Erase(k Key) bool {
	h, e := s.lookup(k)
	if e == nil {
		return false
	}
	s.remove(h)
	return true
}

// EraseEntry removes an entry previously located with Find or WithEntry.
// A still-registered deadline is dropped as well. It reports false if e is
// no longer resident.
func (s *Store) EraseEntry(e *Entry) bool {
	if e == nil || s.alloc.Get(e.self) != e {
		return false
	}
	s.remove(e.self)
	return true
}

// Replace stores e, removing any entry under the same key. A positive ttl
// gives e a deadline; otherwise e never expires. It reports true for a
// fresh insert and false when an existing entry was replaced.
func (s *Store) Replace(e Entry, ttl time.Duration) bool {
	fresh := true
	if h, old := s.lookup(e.key); old != nil {
		s.remove(h)
		fresh = false
	}
	s.setTTL(&e, ttl)
	s.link(e)
	return fresh
}

// InsertIf is an upsert gated by nx (only if absent) and xx (only if
// present). With neither flag it always stores e. Asking for both is
// contradictory and always fails. On success a positive ttl gives e a
// deadline. It reports whether e was stored.
func (s *Store) InsertIf(e Entry, ttl time.Duration, nx, xx bool) bool {
	if nx && xx {
		return false
	}
	h, old := s.lookup(e.key)
	present := old != nil
	if (nx && present) || (xx && !present) {
		return false
	}
	if present {
		s.remove(h)
	}
	s.setTTL(&e, ttl)
	s.link(e)
	return true
}

// Expire gives the entry under k a deadline ttl from now, moving any
// existing one; ttl <= 0 makes it due immediately. It reports whether k was
// found.
func (s *Store) Expire(k Key, ttl time.Duration) bool {
	h, e := s.lookup(k)
	if e == nil {
		return false
	}
	if ttl < 0 {
		ttl = 0
	}
	e.expiry = s.deadline(ttl)
	if s.queue.register(h) {
		s.syncTimer()
	}
	s.reportSize()
	return true
}

// NeverExpire clears the deadline of the entry under k. It reports whether
// a deadline was actually removed.
func (s *Store) NeverExpire(k Key) bool {
	h, e := s.lookup(k)
	if e == nil || e.expiry == 0 {
		return false
	}
	e.expiry = 0
	s.queue.deregister(h)
	s.syncTimer()
	s.reportSize()
	return true
}

// TimeToLive returns the time left before the entry under k expires. ok is
// false when k is absent or has no deadline.
func (s *Store) TimeToLive(k Key) (ttl time.Duration, ok bool) {
	_, e := s.lookup(k)
	if e == nil || e.expiry == 0 {
		return 0, false
	}
	ttl = time.Duration(e.expiry - s.now())
	if ttl < 0 {
		ttl = 0
	}
	return ttl, true
}

// FlushAll drops every entry and deadline. The bucket array keeps its size.
func (s *Store) FlushAll() {
	n := s.count
	s.queue.reset()
	s.timer.disarm()
	s.alloc.Reset()
	clear(s.buckets)
	s.count = 0
	s.reportSize()
	s.log.Debugf("flushed %d entries", n)
}

// EraseExpired drains every entry whose deadline has passed, unlinks it
// from the store, and hands it to the releaser. The timer is then re-armed
// for the next deadline, or left dormant. The releaser may call back into
// the store. Calling EraseExpired with no releaser installed panics.
func (s *Store) EraseExpired() {
	if s.release == nil {
		violate("EraseExpired", "no expired entry releaser installed")
	}
	due := s.queue.drainDue(s.now())
	released := make([]Entry, 0, len(due))
	for _, h := range due {
		released = append(released, s.unlink(h))
	}
	if len(released) > 0 {
		s.opt.Metrics.Expired(len(released))
		s.reportSize()
		s.log.Debugf("expired %d entries, %d deadlines pending", len(released), s.queue.Len())
	}
	for i := range released {
		s.release(&released[i])
	}
	s.syncTimer()
}

// -------------------- internals --------------------

func (s *Store) now() int64 {
	if s.opt.Clock != nil {
		return s.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// deadline converts a relative TTL into an absolute UnixNano deadline.
// It saturates at math.MaxInt64 instead of wrapping, and is never 0, which
// means "no deadline".
func (s *Store) deadline(ttl time.Duration) int64 {
	now := s.now()
	if ttl > 0 && now > math.MaxInt64-int64(ttl) {
		return math.MaxInt64
	}
	at := now + int64(ttl)
	if at <= 0 {
		at = 1
	}
	return at
}

func (s *Store) setTTL(e *Entry, ttl time.Duration) {
	e.expiry = 0
	if ttl > 0 {
		e.expiry = s.deadline(ttl)
	}
}

func (s *Store) observe(hit bool) {
	if hit {
		s.opt.Metrics.Hit()
	} else {
		s.opt.Metrics.Miss()
	}
}

func (s *Store) reportSize() {
	s.opt.Metrics.Size(s.count, s.queue.Len())
}

// lookup walks k's bucket chain.
func (s *Store) lookup(k Key) (arena.Handle, *Entry) {
	h := s.buckets[util.BucketIndex(k.hash, len(s.buckets))]
	for !h.IsNil() {
		e := s.alloc.Get(h)
		if e.key.hash == k.hash && e.key.data == k.data {
			return h, e
		}
		h = e.next
	}
	return arena.Nil, nil
}

// link moves e into the allocator, chains it into its bucket, queues its
// deadline if it has one, and grows the table if needed.
func (s *Store) link(e Entry) {
	e.detach()
	h := s.alloc.Alloc(e)
	p := s.alloc.Get(h)
	idx := util.BucketIndex(p.key.hash, len(s.buckets))
	p.self = h
	p.next = s.buckets[idx]
	s.buckets[idx] = h
	s.count++

	if p.expiry != 0 && s.queue.register(h) {
		s.syncTimer()
	}
	s.maybeGrow()
	s.reportSize()
}

// remove drops h's deadline, then unlinks and frees it.
func (s *Store) remove(h arena.Handle) {
	if s.queue.deregister(h) {
		s.syncTimer()
	}
	s.unlink(h)
	s.reportSize()
}

// unlink takes h out of its bucket chain and the allocator and returns the
// detached entry. h must not be queued.
func (s *Store) unlink(h arena.Handle) Entry {
	e := s.alloc.Get(h)
	idx := util.BucketIndex(e.key.hash, len(s.buckets))
	if s.buckets[idx] == h {
		s.buckets[idx] = e.next
	} else {
		prev := s.alloc.Get(s.buckets[idx])
		for prev.next != h {
			prev = s.alloc.Get(prev.next)
		}
		prev.next = e.next
	}
	out, _ := s.alloc.Free(h)
	out.detach()
	s.count--
	return out
}

// syncTimer aims the timer at the earliest queued deadline, or disarms it.
func (s *Store) syncTimer() {
	at, ok := s.queue.peekEarliest()
	if !ok {
		s.timer.disarm()
		return
	}
	s.timer.arm(at)
}

// maybeGrow doubles the bucket array once the entry count passes the
// threshold. Entries are rehoused by their stored hash. If the new array
// cannot be allocated the table keeps its current size.
func (s *Store) maybeGrow() {
	if s.count <= s.threshold {
		return
	}
	n := len(s.buckets) * 2
	nb, err := s.allocBuckets(n)
	if err != nil {
		if !s.capped {
			s.log.Warnf("growth to %d buckets skipped: %v", n, err)
			s.capped = true
		}
		s.opt.Metrics.Grow(len(s.buckets), false)
		return
	}
	for _, h := range s.buckets {
		for !h.IsNil() {
			e := s.alloc.Get(h)
			next := e.next
			idx := util.BucketIndex(e.key.hash, n)
			e.next = nb[idx]
			nb[idx] = h
			h = next
		}
	}
	s.buckets = nb
	s.threshold = util.Threshold(n, LoadFactor)
	s.opt.Metrics.Grow(n, true)
	s.opt.Metrics.Buckets(n)
	s.log.Debugf("grew to %d buckets, next resize above %d entries", n, s.threshold)
}

func (s *Store) allocBuckets(n int) (b []arena.Handle, err error) {
	if s.opt.MaxBuckets > 0 && n > s.opt.MaxBuckets {
		return nil, fmt.Errorf("exceeds MaxBuckets %d", s.opt.MaxBuckets)
	}
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("allocate %d buckets: %v", n, r)
		}
	}()
	return make([]arena.Handle, n), nil
}
