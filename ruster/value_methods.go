package ruster

import (
	"fmt"
	"strconv"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindInt:
		return "integer"
	case KindString:
		return "String"
	case KindSlice:
		return "slice"
	case KindOption:
		return "Option"
	case KindRange:
		return "range"
	case KindFunction:
		return "function"
	case KindRef:
		return "&mut reference"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// String renders the textual form writeln prints.
func (v Value) String() string {
	switch v.kind {
	case KindUnit:
		return "()"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindString:
		return v.data.(string)
	case KindSlice:
		s := v.data.(Slice)
		parts := make([]string, s.length)
		for i := range s.length {
			parts[i] = s.at(i).String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindOption:
		if inner, ok := v.Option(); ok {
			return "Some(" + inner.String() + ")"
		}
		return "None"
	case KindRange:
		r := v.data.(Range)
		var b strings.Builder
		if r.HasStart {
			b.WriteString(strconv.FormatInt(r.Start, 10))
		}
		if r.Inclusive {
			b.WriteString("..=")
		} else {
			b.WriteString("..")
		}
		if r.HasEnd {
			b.WriteString(strconv.FormatInt(r.End, 10))
		}
		return b.String()
	case KindFunction:
		return "fn " + v.data.(*FunctionDecl).Name
	case KindRef:
		return "&mut " + v.data.(Ref).name
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

// Equal compares structurally: slices element-wise, options by payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindUnit:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindInt:
		return v.Int() == other.Int()
	case KindString:
		return v.Str() == other.Str()
	case KindSlice:
		a, b := v.Slice(), other.Slice()
		if a.length != b.length {
			return false
		}
		for i := range a.length {
			if !a.at(i).Equal(b.at(i)) {
				return false
			}
		}
		return true
	case KindOption:
		a, aok := v.Option()
		b, bok := other.Option()
		if aok != bok {
			return false
		}
		return !aok || a.Equal(b)
	case KindRange:
		return v.Range() == other.Range()
	case KindFunction:
		return v.Function() == other.Function()
	case KindRef:
		return v.ref().slot == other.ref().slot && v.ref().id == other.ref().id
	default:
		return false
	}
}
