package ruster

import "math"

func (exec *Execution) evalIndex(expr *IndexExpr, env *Env) (Value, error) {
	obj, err := exec.evalValue(expr.Object, env)
	if err != nil {
		return NewUnit(), err
	}

	if rngExpr, ok := expr.Index.(*RangeExpr); ok {
		rngVal, err := exec.evalRange(rngExpr, env)
		if err != nil {
			return NewUnit(), err
		}
		return exec.subSlice(obj, rngVal.Range(), expr.Pos())
	}

	idx, err := exec.evalInt(expr.Index, env, "index")
	if err != nil {
		return NewUnit(), err
	}
	switch obj.Kind() {
	case KindSlice:
		s := obj.Slice()
		if idx < 0 || idx >= int64(s.Len()) {
			return NewUnit(), exec.indexOutOfBounds(expr.Pos(), s.Len(), idx)
		}
		return s.at(int(idx)), nil
	case KindString:
		return NewUnit(), exec.typeErrorAt(expr.Pos(), "strings cannot be indexed by integer; use `.as_bytes()`")
	default:
		return NewUnit(), exec.typeErrorAt(expr.Object.Pos(), "cannot index into a value of type %s", obj.Kind())
	}
}

func (exec *Execution) indexOutOfBounds(pos Position, length int, idx int64) error {
	return exec.runtimeErrorAt(pos, ErrIndexOutOfBounds, "index out of bounds: the len is %d but the index is %d", length, idx)
}

// subSlice returns a view of obj selected by r, sharing storage with obj.
// Bounds must satisfy 0 <= start <= end <= len.
func (exec *Execution) subSlice(obj Value, r Range, pos Position) (Value, error) {
	var length int
	switch obj.Kind() {
	case KindSlice:
		length = obj.Slice().Len()
	case KindString:
		length = len(obj.Str())
	default:
		return NewUnit(), exec.typeErrorAt(pos, "cannot slice a value of type %s", obj.Kind())
	}

	start, end := int64(0), int64(length)
	if r.HasStart {
		start = r.Start
	}
	if r.HasEnd {
		if r.Inclusive && r.End == math.MaxInt64 {
			return NewUnit(), exec.runtimeErrorAt(pos, ErrIndexOutOfBounds, "range end index overflows")
		}
		end = r.upper()
	}
	switch {
	case start < 0:
		return NewUnit(), exec.runtimeErrorAt(pos, ErrIndexOutOfBounds, "range start index %d out of range for length %d", start, length)
	case start > end:
		return NewUnit(), exec.runtimeErrorAt(pos, ErrIndexOutOfBounds, "slice index starts at %d but ends at %d", start, end)
	case end > int64(length):
		return NewUnit(), exec.runtimeErrorAt(pos, ErrIndexOutOfBounds, "range end index %d out of range for length %d", end, length)
	}

	if obj.Kind() == KindString {
		return NewString(obj.Str()[start:end]), nil
	}
	return newSliceView(obj.Slice().view(int(start), int(end))), nil
}

// place is an assignment target whose object and index have already been
// evaluated, so compound operators read and write it exactly once.
type place struct {
	load  func() (Value, error)
	store func(Value) error
}

func (exec *Execution) assign(stmt *AssignStmt, env *Env) error {
	val, err := exec.evalValue(stmt.Value, env)
	if err != nil {
		return err
	}
	target, err := exec.resolvePlace(stmt.Target, env)
	if err != nil {
		return err
	}
	if stmt.Operator == tokenAssign {
		if val, err = exec.ownArray(stmt.Value, val); err != nil {
			return err
		}
	} else {
		current, err := target.load()
		if err != nil {
			return err
		}
		op := TokenType(string(stmt.Operator)[:1])
		val, err = exec.applyBinary(op, current, val, stmt.Pos())
		if err != nil {
			return err
		}
	}
	return target.store(val)
}

func (exec *Execution) resolvePlace(expr Expression, env *Env) (place, error) {
	switch target := expr.(type) {
	case *Identifier:
		slot, ok := env.lookup(target.Name)
		if !ok {
			return place{}, exec.runtimeErrorAt(target.Pos(), nil, "unbound identifier `%s`", target.Name)
		}
		return place{
			load: func() (Value, error) { return exec.deref(target.Pos(), exec.arena.slots[slot].value) },
			store: func(v Value) error {
				exec.arena.slots[slot].value = v
				return nil
			},
		}, nil
	case *UnaryExpr:
		if target.Operator != tokenAsterisk {
			break
		}
		ref, err := exec.evalExpression(target.Right, env)
		if err != nil {
			return place{}, err
		}
		if ref.Kind() != KindRef {
			return place{}, exec.typeErrorAt(target.Pos(), "cannot assign through `*` on %s, which is not a `&mut` reference", ref.Kind())
		}
		return place{
			load:  func() (Value, error) { return exec.deref(target.Pos(), ref) },
			store: func(v Value) error { return exec.store(target.Pos(), ref.ref(), v) },
		}, nil
	case *IndexExpr:
		obj, err := exec.evalValue(target.Object, env)
		if err != nil {
			return place{}, err
		}
		idx, err := exec.evalInt(target.Index, env, "index")
		if err != nil {
			return place{}, err
		}
		if obj.Kind() != KindSlice {
			return place{}, exec.typeErrorAt(target.Object.Pos(), "cannot assign into a value of type %s", obj.Kind())
		}
		s := obj.Slice()
		if idx < 0 || idx >= int64(s.Len()) {
			return place{}, exec.indexOutOfBounds(target.Pos(), s.Len(), idx)
		}
		return place{
			load: func() (Value, error) { return s.at(int(idx)), nil },
			store: func(v Value) error {
				s.set(int(idx), v)
				return nil
			},
		}, nil
	}
	return place{}, exec.typeErrorAt(expr.Pos(), "invalid left-hand side of assignment")
}
