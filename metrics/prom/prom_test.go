package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/IvanBrykalov/shardstore/store"
)

func TestAdapter_StoreEvents(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := New(reg, "kv", "shard", prometheus.Labels{"shard": "0"})

	s := store.New(store.Options{InitialBuckets: 2, Metrics: m})
	for _, k := range []string{"a", "b", "c"} {
		s.Insert(store.NewInteger(store.StringKey(k), 1))
	}
	s.Find(store.StringKey("a"))
	s.Find(store.StringKey("zz"))
	s.Exists(store.StringKey("b"))

	if got := testutil.ToFloat64(m.hits); got != 2 {
		t.Fatalf("hits=%v, want 2", got)
	}
	if got := testutil.ToFloat64(m.misses); got != 1 {
		t.Fatalf("misses=%v, want 1", got)
	}
	if got := testutil.ToFloat64(m.entries); got != 3 {
		t.Fatalf("entries=%v, want 3", got)
	}
	if got := testutil.ToFloat64(m.growth.WithLabelValues("ok")); got < 1 {
		t.Fatalf("growth ok=%v, want >= 1", got)
	}
	if got := testutil.ToFloat64(m.buckets); got != float64(s.BucketCount()) {
		t.Fatalf("buckets gauge=%v, store has %d", got, s.BucketCount())
	}
}

func TestAdapter_Expired(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry(), "", "", nil)
	m.Expired(3)
	m.Expired(2)
	m.Grow(8, false)
	if got := testutil.ToFloat64(m.expired); got != 5 {
		t.Fatalf("expired=%v, want 5", got)
	}
	if got := testutil.ToFloat64(m.growth.WithLabelValues("skipped")); got != 1 {
		t.Fatalf("skipped=%v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.growth); n != 1 {
		t.Fatalf("growth series=%d, want 1", n)
	}
}

func TestAdapter_InitialBuckets(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry(), "kv", "shard", nil)
	store.New(store.Options{InitialBuckets: 64, Metrics: m})
	if got := testutil.ToFloat64(m.buckets); got != 64 {
		t.Fatalf("buckets gauge=%v before any growth, want 64", got)
	}
	if n := testutil.CollectAndCount(m.growth); n != 0 {
		t.Fatalf("growth series=%d, want 0", n)
	}
}
