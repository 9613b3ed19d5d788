package value

import (
	"reflect"
	"testing"
)

func strs(bs [][]byte) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return out
}

func TestList_PushPopRange(t *testing.T) {
	t.Parallel()

	l := NewList()
	l.PushBack([]byte("b"))
	l.PushBack([]byte("c"))
	if n := l.PushFront([]byte("a")); n != 3 {
		t.Fatalf("len want 3, got %d", n)
	}

	if got := strs(l.Range(0, -1)); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("Range(0,-1) = %v", got)
	}
	if got := strs(l.Range(-2, 10)); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("Range(-2,10) = %v", got)
	}
	if got := l.Range(5, 6); got != nil {
		t.Fatalf("out of range must be empty, got %v", got)
	}
	if v, ok := l.Index(-1); !ok || string(v) != "c" {
		t.Fatalf("Index(-1) = %q %v", v, ok)
	}

	if v, ok := l.PopFront(); !ok || string(v) != "a" {
		t.Fatalf("PopFront = %q %v", v, ok)
	}
	if v, ok := l.PopBack(); !ok || string(v) != "c" {
		t.Fatalf("PopBack = %q %v", v, ok)
	}
	l.PopBack()
	if _, ok := l.PopBack(); ok {
		t.Fatal("pop on empty list must fail")
	}
}

// Pushed values are copied; later caller mutation must not leak in.
func TestList_CopiesInput(t *testing.T) {
	t.Parallel()

	buf := []byte("x")
	l := NewList()
	l.PushBack(buf)
	buf[0] = 'y'
	if v, _ := l.Index(0); string(v) != "x" {
		t.Fatalf("stored value changed to %q", v)
	}
}

func TestDict_HashAndSetUsage(t *testing.T) {
	t.Parallel()

	d := NewDict()
	if !d.Set("f", []byte("1")) {
		t.Fatal("first Set must report new field")
	}
	if d.Set("f", []byte("2")) {
		t.Fatal("overwrite must not report new field")
	}
	if v, ok := d.Get("f"); !ok || string(v) != "2" {
		t.Fatalf("Get = %q %v", v, ok)
	}

	s := NewDict()
	s.Add("m1")
	s.Add("m2")
	if !s.Has("m1") || s.Len() != 2 {
		t.Fatal("set membership broken")
	}
	if !s.Delete("m1") || s.Delete("m1") {
		t.Fatal("Delete must report presence once")
	}
	count := 0
	s.Range(func(string, []byte) bool { count++; return true })
	if count != 1 {
		t.Fatalf("Range visited %d", count)
	}
}

func TestSortedSet_OrderAndRank(t *testing.T) {
	t.Parallel()

	z := NewSortedSet()
	z.Add("c", 3)
	z.Add("a", 1)
	z.Add("b", 2)
	if z.Add("a", 1) {
		t.Fatal("re-adding same score must not report new")
	}

	got := z.RangeByRank(0, -1)
	want := []Member{{"a", 1}, {"b", 2}, {"c", 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RangeByRank = %v", got)
	}

	// Moving a member re-sorts it.
	z.Add("a", 10)
	if r, ok := z.Rank("a"); !ok || r != 2 {
		t.Fatalf("Rank(a) = %d %v", r, ok)
	}
	if s := z.IncrBy("b", 0.5); s != 2.5 {
		t.Fatalf("IncrBy = %v", s)
	}
	if !z.Remove("c") || z.Len() != 2 {
		t.Fatal("Remove broken")
	}
	if _, ok := z.Score("c"); ok {
		t.Fatal("removed member still scored")
	}
	if got := z.RangeByRank(-1, -1); len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("last member = %v", got)
	}
}

// Equal scores fall back to member name ordering.
func TestSortedSet_TieBreakByName(t *testing.T) {
	t.Parallel()

	z := NewSortedSet()
	z.Add("b", 1)
	z.Add("a", 1)
	got := z.RangeByRank(0, 1)
	if got[0].Name != "a" || got[1].Name != "b" {
		t.Fatalf("tie order = %v", got)
	}
}
