package ruster

type intrinsicFunc func(exec *Execution, pos Position, recv Value, args []Value) (Value, error)

// intrinsic is a method dispatched on the receiver's kind. result gives
// the static result type from the receiver's static type.
type intrinsic struct {
	arity  int
	call   intrinsicFunc
	result func(recv staticType) staticType
}

// intrinsics is the capability table. Every ValueKind has an entry, even
// when it offers no methods.
var intrinsics map[ValueKind]map[string]intrinsic

func init() {
	intrinsics = map[ValueKind]map[string]intrinsic{
		KindUnit:     {},
		KindBool:     {},
		KindInt:      {},
		KindRange:    {},
		KindFunction: {},
		KindRef:      {},
		KindSlice: {
			"len":      {arity: 0, call: sliceLen, result: constResult(intType)},
			"iter":     {arity: 0, call: sliceIter, result: sameResult},
			"is_empty": {arity: 0, call: sliceIsEmpty, result: constResult(boolType)},
			"first":    {arity: 0, call: sliceFirst, result: optionOfElem},
			"last":     {arity: 0, call: sliceLast, result: optionOfElem},
			"contains": {arity: 1, call: sliceContains, result: constResult(boolType)},
		},
		KindString: {
			"len":      {arity: 0, call: stringLen, result: constResult(intType)},
			"as_bytes": {arity: 0, call: stringAsBytes, result: constResult(sliceOf(intType))},
			"is_empty": {arity: 0, call: stringIsEmpty, result: constResult(boolType)},
		},
		KindOption: {
			"is_some":   {arity: 0, call: optionIsSome, result: constResult(boolType)},
			"is_none":   {arity: 0, call: optionIsNone, result: constResult(boolType)},
			"unwrap":    {arity: 0, call: optionUnwrap, result: elemResult},
			"unwrap_or": {arity: 1, call: optionUnwrapOr, result: elemResult},
		},
	}
}

func lookupIntrinsic(kind ValueKind, name string) (intrinsic, bool) {
	methods, ok := intrinsics[kind]
	if !ok {
		return intrinsic{}, false
	}
	m, ok := methods[name]
	return m, ok
}

func constResult(t staticType) func(staticType) staticType {
	return func(staticType) staticType { return t }
}

func sameResult(recv staticType) staticType   { return recv }
func elemResult(recv staticType) staticType   { return recv.element() }
func optionOfElem(recv staticType) staticType { return optionOf(recv.element()) }

func sliceLen(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	return NewInt(int64(recv.Slice().Len())), nil
}

func sliceIter(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	return recv, nil
}

func sliceIsEmpty(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	return NewBool(recv.Slice().Len() == 0), nil
}

func sliceFirst(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	s := recv.Slice()
	if s.Len() == 0 {
		return NewNone(), nil
	}
	return NewSome(s.at(0)), nil
}

func sliceLast(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	s := recv.Slice()
	if s.Len() == 0 {
		return NewNone(), nil
	}
	return NewSome(s.at(s.Len() - 1)), nil
}

func sliceContains(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	s := recv.Slice()
	for i := range s.Len() {
		if s.at(i).Equal(args[0]) {
			return NewBool(true), nil
		}
	}
	return NewBool(false), nil
}

func stringLen(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	return NewInt(int64(len(recv.Str()))), nil
}

func stringAsBytes(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	str := recv.Str()
	if err := exec.reserve(pos, len(str)); err != nil {
		return NewUnit(), err
	}
	bytes := make([]Value, len(str))
	for i := range len(str) {
		bytes[i] = NewInt(int64(str[i]))
	}
	return newSliceOver(bytes), nil
}

func stringIsEmpty(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	return NewBool(recv.Str() == ""), nil
}

func optionIsSome(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	_, ok := recv.Option()
	return NewBool(ok), nil
}

func optionIsNone(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	_, ok := recv.Option()
	return NewBool(!ok), nil
}

func optionUnwrap(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	inner, ok := recv.Option()
	if !ok {
		return NewUnit(), exec.runtimeErrorAt(pos, ErrUnwrapNone, "called `Option::unwrap()` on a `None` value")
	}
	return inner, nil
}

func optionUnwrapOr(exec *Execution, pos Position, recv Value, args []Value) (Value, error) {
	if inner, ok := recv.Option(); ok {
		return inner, nil
	}
	return args[0], nil
}
