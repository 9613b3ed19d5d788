package store

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnixNano() int64  { return f.t }
func (f *fakeClock) add(d time.Duration) { f.t += int64(d) }

// fakeScheduler records callbacks and runs them only when the test says so.
type fakeScheduler struct{ timers []*fakeTimer }

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{d: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) live() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs every outstanding callback once.
func (s *fakeScheduler) fire() {
	for _, t := range s.live() {
		t.fired = true
		t.fn()
	}
}

type recordingMetrics struct {
	hits, misses, expired int
	entries, expiring     int
	grown, skipped        int
	buckets               int
}

func (m *recordingMetrics) Hit()          { m.hits++ }
func (m *recordingMetrics) Miss()         { m.misses++ }
func (m *recordingMetrics) Expired(n int) { m.expired += n }
func (m *recordingMetrics) Size(entries, expiring int) {
	m.entries, m.expiring = entries, expiring
}
func (m *recordingMetrics) Buckets(n int) { m.buckets = n }
func (m *recordingMetrics) Grow(_ int, ok bool) {
	if ok {
		m.grown++
	} else {
		m.skipped++
	}
}

const t0 = int64(1_700_000_000_000_000_000)

type harness struct {
	s        *Store
	clk      *fakeClock
	sched    *fakeScheduler
	released []Entry
}

func newHarness(t *testing.T, opt Options) *harness {
	t.Helper()
	h := &harness{clk: &fakeClock{t: t0}, sched: &fakeScheduler{}}
	if opt.InitialBuckets == 0 {
		opt.InitialBuckets = 16
	}
	opt.Clock = h.clk
	opt.Scheduler = h.sched
	opt.Releaser = func(e *Entry) { h.released = append(h.released, *e) }
	h.s = New(opt)
	return h
}

// mustViolate runs fn and fails unless it panics with a *ContractError.
func mustViolate(t *testing.T, fn func()) *ContractError {
	t.Helper()
	var got *ContractError
	func() {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.As(err, &got) {
				t.Fatalf("want *ContractError panic, got %v", r)
			}
		}()
		fn()
	}()
	return got
}

// checkInvariants verifies that the expiration queue and the entries agree
// and that the armed timer targets the earliest deadline.
func checkInvariants(t *testing.T, s *Store) {
	t.Helper()
	var minAt int64
	finite := 0
	s.Range(func(e *Entry) bool {
		if e.EverExpires() != (e.qpos != 0) {
			t.Fatalf("entry %q: EverExpires=%v but queued=%v", e.key.data, e.EverExpires(), e.qpos != 0)
		}
		if e.EverExpires() {
			finite++
			if minAt == 0 || e.expiry < minAt {
				minAt = e.expiry
			}
		}
		return true
	})
	if finite != s.ExpiringLen() {
		t.Fatalf("ExpiringLen=%d, entries with deadline=%d", s.ExpiringLen(), finite)
	}
	at, armed := s.NextDeadline()
	if finite == 0 {
		if armed {
			t.Fatalf("timer armed at %d with no deadlines", at)
		}
		return
	}
	if !armed || at != minAt {
		t.Fatalf("timer at %d armed=%v, earliest deadline %d", at, armed, minAt)
	}
}
