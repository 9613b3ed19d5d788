package value

import (
	"strings"

	"github.com/huandu/skiplist"
)

// Member is a sorted-set element with its score.
type Member struct {
	Name  string
	Score float64
}

type rankKey struct {
	score float64
	name  string
}

// byScore orders by score, then lexicographically by member name.
var byScore = skiplist.GreaterThanFunc(func(lhs, rhs interface{}) int {
	l, r := lhs.(rankKey), rhs.(rankKey)
	switch {
	case l.score < r.score:
		return -1
	case l.score > r.score:
		return 1
	}
	return strings.Compare(l.name, r.name)
})

// SortedSet keeps unique members ordered by score.
type SortedSet struct {
	order  *skiplist.SkipList
	scores map[string]float64
}

// NewSortedSet returns an empty SortedSet.
func NewSortedSet() *SortedSet {
	return &SortedSet{
		order:  skiplist.New(byScore),
		scores: make(map[string]float64),
	}
}

// Len returns the number of members.
func (z *SortedSet) Len() int { return len(z.scores) }

// Add sets member's score and reports whether member was new.
func (z *SortedSet) Add(member string, score float64) bool {
	old, exists := z.scores[member]
	if exists {
		if old == score {
			return false
		}
		z.order.Remove(rankKey{score: old, name: member})
	}
	z.scores[member] = score
	z.order.Set(rankKey{score: score, name: member}, nil)
	return !exists
}

// IncrBy adds delta to member's score (starting from 0) and returns the result.
func (z *SortedSet) IncrBy(member string, delta float64) float64 {
	score := z.scores[member] + delta
	z.Add(member, score)
	return score
}

// Score returns member's score.
func (z *SortedSet) Score(member string) (float64, bool) {
	s, ok := z.scores[member]
	return s, ok
}

// Remove deletes member and reports whether it was present.
func (z *SortedSet) Remove(member string) bool {
	score, ok := z.scores[member]
	if !ok {
		return false
	}
	delete(z.scores, member)
	z.order.Remove(rankKey{score: score, name: member})
	return true
}

// Rank returns member's 0-based position in ascending score order.
func (z *SortedSet) Rank(member string) (int, bool) {
	score, ok := z.scores[member]
	if !ok {
		return 0, false
	}
	target := rankKey{score: score, name: member}
	rank := 0
	for e := z.order.Front(); e != nil; e = e.Next() {
		if e.Key().(rankKey) == target {
			return rank, true
		}
		rank++
	}
	return 0, false
}

// RangeByRank returns members between start and stop inclusive, in
// ascending order, with ZRANGE index rules.
func (z *SortedSet) RangeByRank(start, stop int) []Member {
	n := z.Len()
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
	out := make([]Member, 0, stop-start+1)
	i := 0
	for e := z.order.Front(); e != nil && i <= stop; e = e.Next() {
		if i >= start {
			k := e.Key().(rankKey)
			out = append(out, Member{Name: k.name, Score: k.score})
		}
		i++
	}
	return out
}
