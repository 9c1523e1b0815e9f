package ruster

func (exec *Execution) evalCondition(cond Expression, env *Env) (bool, error) {
	val, err := exec.evalValue(cond, env)
	if err != nil {
		return false, err
	}
	if val.Kind() != KindBool {
		return false, exec.typeErrorAt(cond.Pos(), "mismatched types: expected `bool` condition, found %s", val.Kind())
	}
	return val.Bool(), nil
}

func (exec *Execution) evalIf(stmt *IfStmt, env *Env) (Value, flow, error) {
	ok, err := exec.evalCondition(stmt.Condition, env)
	if err != nil {
		return NewUnit(), flowNext, err
	}
	switch {
	case ok:
		return exec.evalBlock(stmt.Consequent, env)
	case stmt.ElseIf != nil:
		return exec.evalIf(stmt.ElseIf, env)
	case stmt.Alternate != nil:
		return exec.evalBlock(stmt.Alternate, env)
	default:
		return NewUnit(), flowNext, nil
	}
}

func (exec *Execution) evalWhile(stmt *WhileStmt, env *Env) (Value, flow, error) {
	for {
		ok, err := exec.evalCondition(stmt.Condition, env)
		if err != nil {
			return NewUnit(), flowNext, err
		}
		if !ok {
			return NewUnit(), flowNext, nil
		}
		val, fl, err := exec.evalBlock(stmt.Body, env)
		if err != nil {
			return NewUnit(), flowNext, err
		}
		if fl == flowReturn {
			return val, flowReturn, nil
		}
	}
}

// evalFor evaluates the iterable once, then runs the body with a fresh
// immutable binding of the iterator for each element.
func (exec *Execution) evalFor(stmt *ForStmt, env *Env) (Value, flow, error) {
	iterable, err := exec.evalValue(stmt.Iterable, env)
	if err != nil {
		return NewUnit(), flowNext, err
	}

	body := func(item Value) (Value, flow, error) {
		scope := exec.arena.openScope(env)
		defer exec.arena.closeScope(scope)
		exec.arena.define(scope, stmt.Iterator, item)
		return exec.evalBlock(stmt.Body, scope)
	}

	switch iterable.Kind() {
	case KindRange:
		r := iterable.Range()
		if !r.HasStart {
			return NewUnit(), flowNext, exec.typeErrorAt(stmt.Iterable.Pos(), "cannot iterate a range without a start")
		}
		for i := r.Start; ; i++ {
			if r.HasEnd && (i > r.End || (!r.Inclusive && i == r.End)) {
				break
			}
			val, fl, err := body(NewInt(i))
			if err != nil || fl == flowReturn {
				return val, fl, err
			}
			if r.HasEnd && r.Inclusive && i == r.End {
				break
			}
		}
	case KindSlice:
		s := iterable.Slice()
		for i := range s.Len() {
			val, fl, err := body(s.at(i))
			if err != nil || fl == flowReturn {
				return val, fl, err
			}
		}
	case KindString:
		str := iterable.Str()
		for i := range len(str) {
			val, fl, err := body(NewInt(int64(str[i])))
			if err != nil || fl == flowReturn {
				return val, fl, err
			}
		}
	default:
		return NewUnit(), flowNext, exec.typeErrorAt(stmt.Iterable.Pos(), "%s is not iterable", iterable.Kind())
	}
	return NewUnit(), flowNext, nil
}

func (exec *Execution) evalRange(expr *RangeExpr, env *Env) (Value, error) {
	r := Range{Inclusive: expr.Inclusive}
	if expr.Start != nil {
		start, err := exec.evalInt(expr.Start, env, "range start")
		if err != nil {
			return NewUnit(), err
		}
		r.Start, r.HasStart = start, true
	}
	if expr.End != nil {
		end, err := exec.evalInt(expr.End, env, "range end")
		if err != nil {
			return NewUnit(), err
		}
		r.End, r.HasEnd = end, true
	}
	return NewRange(r), nil
}

func (exec *Execution) evalInt(expr Expression, env *Env, what string) (int64, error) {
	val, err := exec.evalValue(expr, env)
	if err != nil {
		return 0, err
	}
	if val.Kind() != KindInt {
		return 0, exec.typeErrorAt(expr.Pos(), "%s must be an integer, found %s", what, val.Kind())
	}
	return val.Int(), nil
}
