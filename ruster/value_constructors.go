package ruster

func NewUnit() Value           { return Value{kind: KindUnit} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }
func NewRange(r Range) Value   { return Value{kind: KindRange, data: r} }

// NewSlice builds a slice over a fresh copy of elems.
func NewSlice(elems []Value) Value {
	backing := make([]Value, len(elems))
	copy(backing, elems)
	return newSliceOver(backing)
}

func newSliceOver(backing []Value) Value {
	elem := KindUnit
	if len(backing) > 0 {
		elem = backing[0].kind
	}
	return Value{kind: KindSlice, data: Slice{backing: &backing, length: len(backing), elem: elem}}
}

func newSliceView(s Slice) Value { return Value{kind: KindSlice, data: s} }

func NewSome(v Value) Value {
	inner := v
	return Value{kind: KindOption, data: &inner}
}

func NewNone() Value { return Value{kind: KindOption, data: (*Value)(nil)} }

func newFunctionValue(fn *FunctionDecl) Value { return Value{kind: KindFunction, data: fn} }

func newRef(r Ref) Value { return Value{kind: KindRef, data: r} }
