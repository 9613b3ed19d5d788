// Package arena implements the allocation strategy behind the store: a
// generational slot map whose values live in a dense, compacting slice.
//
// Callers hold Handles, never addresses. Freeing a value moves the last
// dense value into the hole, so a *T obtained from Get is only valid until
// the next Alloc, Free or Reset. Handles survive every relocation.
package arena

// Handle is a stable reference to a value in a Slab.
// The zero Handle never refers to a live value.
type Handle uint64

// Nil is the zero Handle.
const Nil Handle = 0

func makeHandle(slot, gen uint32) Handle { return Handle(uint64(gen)<<32 | uint64(slot)) }

func (h Handle) slot() uint32 { return uint32(h) }
func (h Handle) gen() uint32  { return uint32(h >> 32) }

// IsNil reports whether h is the zero Handle.
func (h Handle) IsNil() bool { return h == Nil }

type slot struct {
	dense uint32 // index into Slab.dense while live
	gen   uint32 // bumped on every free
	live  bool
}

// Slab is a generational slot map. It is not safe for concurrent use.
type Slab[T any] struct {
	slots []slot
	dense []T
	owner []uint32 // dense index -> slot index
	free  []uint32

	relocations uint64
}

// New returns an empty Slab with room for capacity values before it grows.
func New[T any](capacity int) *Slab[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Slab[T]{
		slots: make([]slot, 0, capacity),
		dense: make([]T, 0, capacity),
		owner: make([]uint32, 0, capacity),
	}
}

// Alloc stores v and returns its handle.
func (s *Slab[T]) Alloc(v T) Handle {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot{gen: 1})
	}
	sl := &s.slots[idx]
	sl.dense = uint32(len(s.dense))
	sl.live = true
	s.dense = append(s.dense, v)
	s.owner = append(s.owner, idx)
	return makeHandle(idx, sl.gen)
}

// Get returns a pointer to the value behind h, or nil if h is stale.
// The pointer must not be kept across Alloc, Free or Reset.
func (s *Slab[T]) Get(h Handle) *T {
	i := h.slot()
	if h.IsNil() || int(i) >= len(s.slots) {
		return nil
	}
	sl := s.slots[i]
	if !sl.live || sl.gen != h.gen() {
		return nil
	}
	return &s.dense[sl.dense]
}

// Valid reports whether h refers to a live value.
func (s *Slab[T]) Valid(h Handle) bool { return s.Get(h) != nil }

// Free removes the value behind h and returns it. The last dense value is
// relocated into the freed position; its handle is unaffected.
func (s *Slab[T]) Free(h Handle) (T, bool) {
	var zero T
	if s.Get(h) == nil {
		return zero, false
	}
	sl := &s.slots[h.slot()]
	pos := sl.dense
	v := s.dense[pos]

	last := uint32(len(s.dense) - 1)
	if pos != last {
		s.dense[pos] = s.dense[last]
		moved := s.owner[last]
		s.owner[pos] = moved
		s.slots[moved].dense = pos
		s.relocations++
	}
	s.dense[last] = zero
	s.dense = s.dense[:last]
	s.owner = s.owner[:last]

	sl.live = false
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	s.free = append(s.free, h.slot())
	return v, true
}

// Len returns the number of live values.
func (s *Slab[T]) Len() int { return len(s.dense) }

// Relocations returns how many values were moved by compaction so far.
func (s *Slab[T]) Relocations() uint64 { return s.relocations }

// Range calls fn for each live value in dense order until fn returns false.
// fn must not Alloc or Free.
func (s *Slab[T]) Range(fn func(h Handle, v *T) bool) {
	for i := range s.dense {
		idx := s.owner[i]
		if !fn(makeHandle(idx, s.slots[idx].gen), &s.dense[i]) {
			return
		}
	}
}

// Reset frees every value. Outstanding handles become stale.
func (s *Slab[T]) Reset() {
	var zero T
	for i := range s.dense {
		s.dense[i] = zero
	}
	s.dense = s.dense[:0]
	s.owner = s.owner[:0]
	s.free = s.free[:0]
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.live {
			sl.live = false
			sl.gen++
			if sl.gen == 0 {
				sl.gen = 1
			}
		}
		s.free = append(s.free, uint32(i))
	}
}
