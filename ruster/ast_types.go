package ruster

import "fmt"

type TypeKind int

const (
	TypeNamed TypeKind = iota
	TypeRef
	TypeSlice
	TypeArray
	TypeUnit
	TypeOption
)

// TypeExpr is a written type annotation. Option covers the return-position
// pseudo-types Some(T) and None as well as Option<T>; a None annotation
// has a nil Elem.
type TypeExpr struct {
	Kind     TypeKind
	Name     string
	Elem     *TypeExpr
	Len      int64
	Mutable  bool
	position Position
}

func (t *TypeExpr) Pos() Position { return t.position }

func (t *TypeExpr) String() string {
	if t == nil {
		return "()"
	}
	switch t.Kind {
	case TypeNamed:
		return t.Name
	case TypeRef:
		if t.Mutable {
			return "&mut " + t.Elem.String()
		}
		return "&" + t.Elem.String()
	case TypeSlice:
		return "[" + t.Elem.String() + "]"
	case TypeArray:
		return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Len)
	case TypeUnit:
		return "()"
	case TypeOption:
		if t.Elem == nil {
			return "None"
		}
		return "Some(" + t.Elem.String() + ")"
	default:
		return "<type>"
	}
}

var integerTypeNames = map[string]struct{}{
	"i8": {}, "i16": {}, "i32": {}, "i64": {}, "isize": {},
	"u8": {}, "u16": {}, "u32": {}, "u64": {}, "usize": {},
}

func isIntegerTypeName(name string) bool {
	_, ok := integerTypeNames[name]
	return ok
}

func isKnownTypeName(name string) bool {
	if isIntegerTypeName(name) {
		return true
	}
	switch name {
	case "bool", "String", "str":
		return true
	}
	return false
}
