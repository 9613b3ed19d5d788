package store

import (
	"math"

	"github.com/IvanBrykalov/shardstore/arena"
	"github.com/IvanBrykalov/shardstore/value"
)

// Type is the payload kind of an Entry. It is fixed at construction.
type Type uint8

const (
	TypeFloat Type = iota
	TypeInteger
	TypeBytes
	TypeList
	TypeMap
	TypeSet
	TypeSortedSet
	TypeProbabilisticSet
)

// ProbabilisticSetSize is the register buffer size of a probabilistic set
// (16-byte header plus 16384 six-bit registers).
const ProbabilisticSetSize = 16 + 16384*6/8

var typeNames = [...]string{
	TypeFloat:            "float",
	TypeInteger:          "integer",
	TypeBytes:            "bytes",
	TypeList:             "list",
	TypeMap:              "map",
	TypeSet:              "set",
	TypeSortedSet:        "sortedset",
	TypeProbabilisticSet: "probabilisticset",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Entry is one stored record: key, type tag, exactly one payload, an
// optional deadline, and the linkage the Store threads through it.
//
// Only the payload field matching typ is ever set. Accessors check the tag
// and panic with a *ContractError on mismatch.
type Entry struct {
	key Key
	typ Type

	num  uint64 // TypeFloat (IEEE bits) or TypeInteger
	buf  []byte // TypeBytes, TypeProbabilisticSet
	list *value.List
	dict *value.Dict // TypeMap, TypeSet
	sset *value.SortedSet

	// expiry is an absolute UnixNano deadline; 0 means never.
	expiry int64

	self arena.Handle // own handle while resident
	next arena.Handle // bucket chain
	qpos int          // 1-based position in the expiration queue; 0 = not queued
}

// NewFloat returns a TypeFloat entry.
func NewFloat(k Key, v float64) Entry {
	return Entry{key: k, typ: TypeFloat, num: math.Float64bits(v)}
}

// NewInteger returns a TypeInteger entry.
func NewInteger(k Key, v int64) Entry {
	return Entry{key: k, typ: TypeInteger, num: uint64(v)}
}

// NewBytes returns a TypeBytes entry owning a copy of data.
func NewBytes(k Key, data []byte) Entry {
	buf := make([]byte, len(data))
	copy(buf, data)
	return Entry{key: k, typ: TypeBytes, buf: buf}
}

// NewBytesSized returns a TypeBytes entry owning n zero bytes.
func NewBytesSized(k Key, n int) Entry {
	return Entry{key: k, typ: TypeBytes, buf: make([]byte, n)}
}

// NewList returns a TypeList entry with an empty list.
func NewList(k Key) Entry {
	return Entry{key: k, typ: TypeList, list: value.NewList()}
}

// NewMap returns a TypeMap entry with an empty dict.
func NewMap(k Key) Entry {
	return Entry{key: k, typ: TypeMap, dict: value.NewDict()}
}

// NewSet returns a TypeSet entry with an empty dict.
func NewSet(k Key) Entry {
	return Entry{key: k, typ: TypeSet, dict: value.NewDict()}
}

// NewSortedSet returns a TypeSortedSet entry with an empty sorted set.
func NewSortedSet(k Key) Entry {
	return Entry{key: k, typ: TypeSortedSet, sset: value.NewSortedSet()}
}

// NewProbabilisticSet returns a TypeProbabilisticSet entry with zeroed registers.
func NewProbabilisticSet(k Key) Entry {
	return Entry{key: k, typ: TypeProbabilisticSet, buf: make([]byte, ProbabilisticSetSize)}
}

// Key returns the entry key.
func (e *Entry) Key() Key { return e.key }

// KeyHash returns the hash computed when the key was built.
func (e *Entry) KeyHash() uint64 { return e.key.hash }

// Type returns the payload kind.
func (e *Entry) Type() Type { return e.typ }

// Is reports whether the entry holds a payload of kind t.
func (e *Entry) Is(t Type) bool { return e.typ == t }

// TypeName is the reply to a TYPE command for this entry.
func (e *Entry) TypeName() string {
	switch e.typ {
	case TypeList:
		return "list"
	case TypeMap:
		return "hash"
	case TypeSet:
		return "set"
	case TypeSortedSet:
		return "zset"
	default:
		return "string"
	}
}

// EverExpires reports whether the entry has a finite deadline.
func (e *Entry) EverExpires() bool { return e.expiry != 0 }

// Deadline returns the absolute UnixNano deadline, 0 if the entry never expires.
func (e *Entry) Deadline() int64 { return e.expiry }

func (e *Entry) must(t Type, op string) {
	if e.typ != t {
		violate(op, "entry %q holds %s, not %s", e.key.data, e.typ, t)
	}
}

// Float returns the TypeFloat payload.
func (e *Entry) Float() float64 {
	e.must(TypeFloat, "Float")
	return math.Float64frombits(e.num)
}

// IncrFloat adds step to the TypeFloat payload and returns the result.
func (e *Entry) IncrFloat(step float64) float64 {
	e.must(TypeFloat, "IncrFloat")
	v := math.Float64frombits(e.num) + step
	e.num = math.Float64bits(v)
	return v
}

// Integer returns the TypeInteger payload.
func (e *Entry) Integer() int64 {
	e.must(TypeInteger, "Integer")
	return int64(e.num)
}

// IncrInteger adds step to the TypeInteger payload and returns the result.
func (e *Entry) IncrInteger(step int64) int64 {
	e.must(TypeInteger, "IncrInteger")
	v := int64(e.num) + step
	e.num = uint64(v)
	return v
}

// Bytes returns the owned buffer of a TypeBytes or TypeProbabilisticSet
// entry. The slice may be modified in place.
func (e *Entry) Bytes() []byte {
	if e.typ != TypeBytes && e.typ != TypeProbabilisticSet {
		violate("Bytes", "entry %q holds %s, not a byte buffer", e.key.data, e.typ)
	}
	return e.buf
}

// SetBytes replaces the buffer of a TypeBytes entry; the entry takes b.
func (e *Entry) SetBytes(b []byte) {
	e.must(TypeBytes, "SetBytes")
	e.buf = b
}

// List returns the TypeList payload.
func (e *Entry) List() *value.List {
	e.must(TypeList, "List")
	return e.list
}

// Map returns the TypeMap payload.
func (e *Entry) Map() *value.Dict {
	e.must(TypeMap, "Map")
	return e.dict
}

// Set returns the TypeSet payload.
func (e *Entry) Set() *value.Dict {
	e.must(TypeSet, "Set")
	return e.dict
}

// SortedSet returns the TypeSortedSet payload.
func (e *Entry) SortedSet() *value.SortedSet {
	e.must(TypeSortedSet, "SortedSet")
	return e.sset
}

// detach clears linkage so a copy handed out of the store carries none.
func (e *Entry) detach() {
	e.self, e.next, e.qpos = arena.Nil, arena.Nil, 0
}
