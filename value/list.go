package value

import "container/list"

// List is a double-ended list of byte strings.
type List struct {
	l *list.List
}

// NewList returns an empty List.
func NewList() *List { return &List{l: list.New()} }

// Len returns the number of elements.
func (q *List) Len() int { return q.l.Len() }

// PushFront prepends v and returns the new length.
func (q *List) PushFront(v []byte) int {
	q.l.PushFront(clone(v))
	return q.l.Len()
}

// PushBack appends v and returns the new length.
func (q *List) PushBack(v []byte) int {
	q.l.PushBack(clone(v))
	return q.l.Len()
}

// PopFront removes and returns the first element.
func (q *List) PopFront() ([]byte, bool) {
	e := q.l.Front()
	if e == nil {
		return nil, false
	}
	return q.l.Remove(e).([]byte), true
}

// PopBack removes and returns the last element.
func (q *List) PopBack() ([]byte, bool) {
	e := q.l.Back()
	if e == nil {
		return nil, false
	}
	return q.l.Remove(e).([]byte), true
}

// Index returns the element at i. Negative indexes count from the tail.
func (q *List) Index(i int) ([]byte, bool) {
	e := q.at(i)
	if e == nil {
		return nil, false
	}
	return e.Value.([]byte), true
}

// Range returns the elements between start and stop inclusive, using the
// same negative-index and clamping rules as LRANGE.
func (q *List) Range(start, stop int) [][]byte {
	n := q.l.Len()
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return nil
	}
	out := make([][]byte, 0, stop-start+1)
	e := q.at(start)
	for i := start; i <= stop && e != nil; i++ {
		out = append(out, e.Value.([]byte))
		e = e.Next()
	}
	return out
}

func (q *List) at(i int) *list.Element {
	n := q.l.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil
	}
	if i < n/2 {
		e := q.l.Front()
		for ; i > 0; i-- {
			e = e.Next()
		}
		return e
	}
	e := q.l.Back()
	for j := n - 1; j > i; j-- {
		e = e.Prev()
	}
	return e
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
