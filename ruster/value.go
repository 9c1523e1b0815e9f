package ruster

type ValueKind int

const (
	KindUnit ValueKind = iota
	KindBool
	KindInt
	KindString
	KindSlice
	KindOption
	KindRange
	KindFunction
	KindRef
)

// Value is the tagged runtime representation of every program value.
type Value struct {
	kind ValueKind
	data any
}

// Slice is a view over shared backing storage. Sub-slicing produces a new
// view of the same backing, so writes through one view are visible in all.
type Slice struct {
	backing *[]Value
	start   int
	length  int
	elem    ValueKind
}

func (s Slice) Len() int { return s.length }

// Elements returns a copy of the viewed elements.
func (s Slice) Elements() []Value {
	out := make([]Value, s.length)
	copy(out, (*s.backing)[s.start:s.start+s.length])
	return out
}

func (s Slice) at(i int) Value { return (*s.backing)[s.start+i] }

func (s Slice) set(i int, v Value) { (*s.backing)[s.start+i] = v }

func (s Slice) view(start, end int) Slice {
	return Slice{backing: s.backing, start: s.start + start, length: end - start, elem: s.elem}
}

// Range is start..end or start..=end. Either bound may be absent.
type Range struct {
	Start     int64
	End       int64
	HasStart  bool
	HasEnd    bool
	Inclusive bool
}

// upper returns the exclusive upper bound.
func (r Range) upper() int64 {
	if r.Inclusive {
		return r.End + 1
	}
	return r.End
}

// Ref is a `&mut` borrow of a binding, addressed by arena slot. The id
// detects a slot that was reused after its binding went out of scope.
type Ref struct {
	slot int
	id   uint64
	name string
}
