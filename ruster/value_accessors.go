package ruster

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsUnit() bool { return v.kind == KindUnit }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	if v.kind == KindInt {
		return v.data.(int64)
	}
	return 0
}

func (v Value) Str() string {
	if v.kind == KindString {
		return v.data.(string)
	}
	return ""
}

func (v Value) Slice() Slice {
	if v.kind != KindSlice {
		return Slice{backing: new([]Value)}
	}
	return v.data.(Slice)
}

// Option returns the payload and whether the value is Some.
func (v Value) Option() (Value, bool) {
	if v.kind != KindOption {
		return Value{}, false
	}
	inner := v.data.(*Value)
	if inner == nil {
		return Value{}, false
	}
	return *inner, true
}

func (v Value) Range() Range {
	if v.kind != KindRange {
		return Range{}
	}
	return v.data.(Range)
}

func (v Value) Function() *FunctionDecl {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*FunctionDecl)
}

func (v Value) ref() Ref {
	if v.kind != KindRef {
		return Ref{}
	}
	return v.data.(Ref)
}
