package ruster

// typeKind is the resolver's static view of a value. tyUnknown is
// compatible with everything and is used wherever inference gives up.
// tyNever types a block that always returns before producing a value.
type typeKind int

const (
	tyUnknown typeKind = iota
	tyNever
	tyUnit
	tyBool
	tyInt
	tyString
	tySlice
	tyOption
	tyRange
	tyRef
	tyFunction
)

type staticType struct {
	kind typeKind
	elem *staticType
}

var (
	unknownType  = staticType{kind: tyUnknown}
	neverType    = staticType{kind: tyNever}
	unitType     = staticType{kind: tyUnit}
	boolType     = staticType{kind: tyBool}
	intType      = staticType{kind: tyInt}
	stringType   = staticType{kind: tyString}
	rangeType    = staticType{kind: tyRange}
	functionType = staticType{kind: tyFunction}
)

func sliceOf(elem staticType) staticType  { return staticType{kind: tySlice, elem: &elem} }
func optionOf(elem staticType) staticType { return staticType{kind: tyOption, elem: &elem} }
func refOf(elem staticType) staticType    { return staticType{kind: tyRef, elem: &elem} }

func (t staticType) element() staticType {
	if t.elem == nil {
		return unknownType
	}
	return *t.elem
}

// deref strips a `&mut` layer; reads through a reference see the target.
func (t staticType) deref() staticType {
	if t.kind == tyRef {
		return t.element()
	}
	return t
}

// known reports whether t constrains anything. A diverging block never
// yields a value, so it fits wherever a value is expected.
func (t staticType) known() bool { return t.kind != tyUnknown && t.kind != tyNever }

func (t staticType) String() string {
	switch t.kind {
	case tyUnit:
		return "()"
	case tyBool:
		return "bool"
	case tyInt:
		return "integer"
	case tyString:
		return "String"
	case tySlice:
		return "[" + t.element().String() + "]"
	case tyOption:
		return "Option<" + t.element().String() + ">"
	case tyRange:
		return "range"
	case tyRef:
		return "&mut " + t.element().String()
	case tyFunction:
		return "fn"
	case tyNever:
		return "!"
	default:
		return "_"
	}
}

func compatible(a, b staticType) bool {
	if !a.known() || !b.known() {
		return true
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case tySlice, tyOption, tyRef:
		return compatible(a.element(), b.element())
	default:
		return true
	}
}

// typeSet is a bit set of type kinds used by builtin parameter rules. The
// empty set accepts any type.
type typeSet uint16

func setOf(kinds ...typeKind) typeSet {
	var s typeSet
	for _, k := range kinds {
		s |= 1 << uint(k)
	}
	return s
}

func (s typeSet) accepts(t staticType) bool {
	return s == 0 || !t.known() || s&(1<<uint(t.kind)) != 0
}

// typeFromAnnotation converts a written type. `&T` is transparent; only
// `&mut T` produces a reference type.
func typeFromAnnotation(te *TypeExpr) (staticType, string) {
	if te == nil {
		return unitType, ""
	}
	switch te.Kind {
	case TypeNamed:
		switch {
		case isIntegerTypeName(te.Name):
			return intType, ""
		case te.Name == "bool":
			return boolType, ""
		case te.Name == "String" || te.Name == "str":
			return stringType, ""
		default:
			return unknownType, "cannot find type `" + te.Name + "` in this scope"
		}
	case TypeRef:
		elem, msg := typeFromAnnotation(te.Elem)
		if msg != "" {
			return unknownType, msg
		}
		if te.Mutable {
			return refOf(elem), ""
		}
		return elem, ""
	case TypeSlice, TypeArray:
		elem, msg := typeFromAnnotation(te.Elem)
		if msg != "" {
			return unknownType, msg
		}
		return sliceOf(elem), ""
	case TypeUnit:
		return unitType, ""
	case TypeOption:
		if te.Elem == nil {
			return optionOf(unknownType), ""
		}
		elem, msg := typeFromAnnotation(te.Elem)
		if msg != "" {
			return unknownType, msg
		}
		return optionOf(elem), ""
	default:
		return unknownType, "unsupported type"
	}
}

// valueKindFor maps a static type onto the runtime kind used by the
// intrinsic capability table.
func valueKindFor(t staticType) (ValueKind, bool) {
	switch t.kind {
	case tyUnit:
		return KindUnit, true
	case tyBool:
		return KindBool, true
	case tyInt:
		return KindInt, true
	case tyString:
		return KindString, true
	case tySlice:
		return KindSlice, true
	case tyOption:
		return KindOption, true
	case tyRange:
		return KindRange, true
	case tyFunction:
		return KindFunction, true
	default:
		return 0, false
	}
}
