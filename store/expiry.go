package store

import (
	"container/heap"

	"github.com/IvanBrykalov/shardstore/arena"
)

// expiryQueue is a min-heap of handles ordered by entry deadline. Each
// queued entry records its own heap position (qpos), so removal and
// re-keying are O(log n) without a search.
type expiryQueue struct {
	alloc Allocator
	items []arena.Handle
}

var _ heap.Interface = (*expiryQueue)(nil)

func (q *expiryQueue) Len() int { return len(q.items) }

func (q *expiryQueue) Less(i, j int) bool {
	return q.alloc.Get(q.items[i]).expiry < q.alloc.Get(q.items[j]).expiry
}

func (q *expiryQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.alloc.Get(q.items[i]).qpos = i + 1
	q.alloc.Get(q.items[j]).qpos = j + 1
}

func (q *expiryQueue) Push(x any) {
	h := x.(arena.Handle)
	q.items = append(q.items, h)
	q.alloc.Get(h).qpos = len(q.items)
}

func (q *expiryQueue) Pop() any {
	n := len(q.items)
	h := q.items[n-1]
	q.items = q.items[:n-1]
	q.alloc.Get(h).qpos = 0
	return h
}

// register queues h, or re-positions it if its deadline moved. It reports
// whether the earliest pending deadline changed.
func (q *expiryQueue) register(h arena.Handle) bool {
	before, had := q.peekEarliest()
	e := q.alloc.Get(h)
	if e.qpos != 0 {
		heap.Fix(q, e.qpos-1)
	} else {
		heap.Push(q, h)
	}
	after, _ := q.peekEarliest()
	return !had || after != before
}

// deregister removes h if queued. It is idempotent.
func (q *expiryQueue) deregister(h arena.Handle) bool {
	e := q.alloc.Get(h)
	if e == nil || e.qpos == 0 {
		return false
	}
	heap.Remove(q, e.qpos-1)
	return true
}

// drainDue removes and returns every handle whose deadline is <= now.
func (q *expiryQueue) drainDue(now int64) []arena.Handle {
	var due []arena.Handle
	for len(q.items) > 0 && q.alloc.Get(q.items[0]).expiry <= now {
		due = append(due, heap.Pop(q).(arena.Handle))
	}
	return due
}

func (q *expiryQueue) peekEarliest() (int64, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	return q.alloc.Get(q.items[0]).expiry, true
}

// reset forgets every queued handle without touching the entries.
func (q *expiryQueue) reset() {
	q.items = q.items[:0]
}
