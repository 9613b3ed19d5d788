package store

import (
	"strings"
	"testing"
	"time"
)

// Fuzz Insert/Find/Erase under arbitrary keys and payloads.
func FuzzStore_InsertFindErase(f *testing.F) {
	f.Add("", "")
	f.Add("a", "1")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		s := New(Options{InitialBuckets: 2, Clock: &fakeClock{t: t0}})
		key := StringKey(k)

		if !s.InsertIf(NewBytes(key, []byte(v)), time.Second, true, false) {
			t.Fatal("NX insert into empty store must succeed")
		}
		e, ok := s.Find(key)
		if !ok || string(e.Bytes()) != v {
			t.Fatalf("Find after insert: ok=%v", ok)
		}
		if s.InsertIf(NewBytes(key, []byte("other")), 0, true, false) {
			t.Fatal("NX insert on present key must fail")
		}
		if e, _ := s.Find(key); string(e.Bytes()) != v {
			t.Fatal("failed NX insert changed the value")
		}
		if !s.Erase(key) || s.Exists(key) {
			t.Fatal("Erase must remove the key")
		}
		if s.ExpiringLen() != 0 {
			t.Fatal("Erase must drop the deadline")
		}
	})
}
