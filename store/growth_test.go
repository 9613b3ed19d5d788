package store

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/IvanBrykalov/shardstore/logging"
)

// Filling to the threshold keeps the size; the next insert doubles it.
func TestStore_GrowthTrigger(t *testing.T) {
	t.Parallel()

	s := newHarness(t, Options{InitialBuckets: 16}).s
	if s.BucketCount() != 16 || s.ResizeThreshold() != 12 {
		t.Fatalf("buckets=%d threshold=%d", s.BucketCount(), s.ResizeThreshold())
	}
	for i := 0; i < 12; i++ {
		s.Insert(NewInteger(StringKey(strconv.Itoa(i)), int64(i)))
	}
	if s.BucketCount() != 16 {
		t.Fatalf("grew early: %d buckets at %d entries", s.BucketCount(), s.Len())
	}

	s.Insert(NewInteger(StringKey("12"), 12))
	if s.BucketCount() != 32 || s.ResizeThreshold() != 24 {
		t.Fatalf("after growth buckets=%d threshold=%d", s.BucketCount(), s.ResizeThreshold())
	}
	for i := 0; i <= 12; i++ {
		e, ok := s.Find(StringKey(strconv.Itoa(i)))
		if !ok || e.Integer() != int64(i) {
			t.Fatalf("key %d lost after growth", i)
		}
	}
}

func TestStore_InitialBucketsRoundedToPow2(t *testing.T) {
	t.Parallel()

	s := New(Options{InitialBuckets: 100})
	if s.BucketCount() != 128 || s.ResizeThreshold() != 96 {
		t.Fatalf("buckets=%d threshold=%d", s.BucketCount(), s.ResizeThreshold())
	}
}

// A refused bucket allocation leaves the table at its size; inserts still land.
func TestStore_GrowthSkippedWhenAllocationFails(t *testing.T) {
	t.Parallel()

	m := &recordingMetrics{}
	s := newHarness(t, Options{InitialBuckets: 8, MaxBuckets: 8, Metrics: m}).s
	for i := 0; i < 100; i++ {
		s.Insert(NewInteger(StringKey(strconv.Itoa(i)), int64(i)))
	}
	if s.BucketCount() != 8 {
		t.Fatalf("bucket count %d, want 8", s.BucketCount())
	}
	if s.Len() != 100 {
		t.Fatalf("Len = %d", s.Len())
	}
	for i := 0; i < 100; i++ {
		if !s.Exists(StringKey(strconv.Itoa(i))) {
			t.Fatalf("key %d missing", i)
		}
	}
	if m.grown != 0 || m.skipped == 0 {
		t.Fatalf("grown=%d skipped=%d", m.grown, m.skipped)
	}
}

// Default sizing: 2^20 buckets double to 2^21 on the 786,433rd key.
func TestStore_DefaultGrowthScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("inserts ~786k keys")
	}
	t.Parallel()

	s := New(Options{})
	if s.BucketCount() != 1<<20 || s.ResizeThreshold() != 786_432 {
		t.Fatalf("buckets=%d threshold=%d", s.BucketCount(), s.ResizeThreshold())
	}
	for i := 0; i < 786_432; i++ {
		s.Insert(NewInteger(StringKey("k:"+strconv.Itoa(i)), int64(i)))
	}
	if s.BucketCount() != 1<<20 {
		t.Fatalf("grew early to %d", s.BucketCount())
	}
	s.Insert(NewInteger(StringKey("k:786432"), 786_432))
	if s.BucketCount() != 2_097_152 || s.ResizeThreshold() != 1_572_864 {
		t.Fatalf("buckets=%d threshold=%d", s.BucketCount(), s.ResizeThreshold())
	}
	for _, i := range []int{0, 1, 4096, 500_000, 786_432} {
		if !s.Exists(StringKey("k:" + strconv.Itoa(i))) {
			t.Fatalf("key %d lost after growth", i)
		}
	}
}

// Growth keeps deadlines attached to their entries.
func TestStore_GrowthPreservesDeadlines(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{InitialBuckets: 4})
	s := h.s
	for i := 0; i < 64; i++ {
		s.Insert(NewInteger(StringKey(strconv.Itoa(i)), 0))
		if i%3 == 0 {
			s.Expire(StringKey(strconv.Itoa(i)), 0)
		}
	}
	if s.BucketCount() < 64 {
		t.Fatalf("expected several doublings, have %d buckets", s.BucketCount())
	}
	checkInvariants(t, s)

	h.sched.fire()
	if len(h.released) != 22 || s.Len() != 42 {
		t.Fatalf("released=%d len=%d", len(h.released), s.Len())
	}
	checkInvariants(t, s)
}

func TestStore_SkippedGrowthWarnsOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := newHarness(t, Options{
		InitialBuckets: 4,
		MaxBuckets:     4,
		Logger:         logging.NewWithOutput(&buf, "store", false, false),
	}).s
	for i := 0; i < 20; i++ {
		s.Insert(NewInteger(StringKey(strconv.Itoa(i)), 0))
	}
	if n := strings.Count(buf.String(), "growth to 8 buckets skipped"); n != 1 {
		t.Fatalf("warning logged %d times: %q", n, buf.String())
	}
}
