package ruster

import (
	"sort"
	"strings"
)

type builtinFunc func(exec *Execution, call *CallExpr, args []Value) (Value, error)

// builtinSpec describes one entry of the closed builtin table: its
// canonical path, per-argument type rule and result type.
type builtinSpec struct {
	name         string
	params       []typeSet
	result       staticType
	sameArgTypes bool
	fn           builtinFunc
}

var (
	builtinsByPath map[string]*builtinSpec
	preludeNames   map[string]string
	knownModules   = map[string]bool{"std": true, "std::mem": true, "ruster": true}
)

func init() {
	builtinsByPath = map[string]*builtinSpec{
		"ruster::writeln": {
			name:   "ruster::writeln",
			params: []typeSet{0},
			result: unitType,
			fn:     builtinWriteln,
		},
		"ruster::writeln_i64": {
			name:   "ruster::writeln_i64",
			params: []typeSet{setOf(tyInt)},
			result: unitType,
			fn:     builtinWritelnI64,
		},
		"std::mem::swap": {
			name:         "std::mem::swap",
			params:       []typeSet{setOf(tyRef), setOf(tyRef)},
			result:       unitType,
			sameArgTypes: true,
			fn:           builtinSwap,
		},
		"len": {
			name:   "len",
			params: []typeSet{setOf(tySlice, tyString)},
			result: intType,
			fn:     builtinLen,
		},
	}
	preludeNames = map[string]string{"len": "len"}
}

// Builtins lists the canonical paths of every builtin.
func Builtins() []string {
	names := make([]string, 0, len(builtinsByPath))
	for name := range builtinsByPath {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func joinPath(segments []string) string {
	return strings.Join(segments, "::")
}

func builtinWriteln(exec *Execution, call *CallExpr, args []Value) (Value, error) {
	val, err := exec.deref(call.Args[0].Pos(), args[0])
	if err != nil {
		return NewUnit(), err
	}
	return NewUnit(), exec.writeLine(call.Pos(), val.String())
}

func builtinWritelnI64(exec *Execution, call *CallExpr, args []Value) (Value, error) {
	val, err := exec.deref(call.Args[0].Pos(), args[0])
	if err != nil {
		return NewUnit(), err
	}
	if val.Kind() != KindInt {
		return NewUnit(), exec.typeErrorAt(call.Args[0].Pos(), "ruster::writeln_i64 expects an integer, found %s", val.Kind())
	}
	return NewUnit(), exec.writeLine(call.Pos(), val.String())
}

// builtinSwap exchanges the values of two bindings by slot. Swapping a
// binding with itself leaves it unchanged.
func builtinSwap(exec *Execution, call *CallExpr, args []Value) (Value, error) {
	refs := make([]Ref, 2)
	for i, arg := range args {
		if arg.Kind() != KindRef {
			return NewUnit(), exec.typeErrorAt(call.Args[i].Pos(), "std::mem::swap expects `&mut` arguments, found %s", arg.Kind())
		}
		refs[i] = arg.ref()
		if !exec.arena.live(refs[i]) {
			return NewUnit(), exec.runtimeErrorAt(call.Args[i].Pos(), nil, "reference to `%s` outlived its binding", refs[i].name)
		}
	}
	a, b := refs[0].slot, refs[1].slot
	if a == b {
		return NewUnit(), nil
	}
	slots := exec.arena.slots
	slots[a].value, slots[b].value = slots[b].value, slots[a].value
	return NewUnit(), nil
}

func builtinLen(exec *Execution, call *CallExpr, args []Value) (Value, error) {
	val, err := exec.deref(call.Args[0].Pos(), args[0])
	if err != nil {
		return NewUnit(), err
	}
	switch val.Kind() {
	case KindSlice:
		return NewInt(int64(val.Slice().Len())), nil
	case KindString:
		return NewInt(int64(len(val.Str()))), nil
	default:
		return NewUnit(), exec.typeErrorAt(call.Args[0].Pos(), "len expects a slice or String, found %s", val.Kind())
	}
}
