package ruster

func (exec *Execution) evalUnary(expr *UnaryExpr, env *Env) (Value, error) {
	right, err := exec.evalValue(expr.Right, env)
	if err != nil {
		return NewUnit(), err
	}
	switch expr.Operator {
	case tokenAsterisk:
		return right, nil
	case tokenMinus:
		if right.Kind() == KindInt {
			return NewInt(-right.Int()), nil
		}
	case tokenBang:
		switch right.Kind() {
		case KindBool:
			return NewBool(!right.Bool()), nil
		case KindInt:
			return NewInt(^right.Int()), nil
		}
	}
	return NewUnit(), exec.typeErrorAt(expr.Pos(), "cannot apply unary `%s` to %s", expr.Operator, right.Kind())
}

func (exec *Execution) evalBinary(expr *BinaryExpr, env *Env) (Value, error) {
	left, err := exec.evalValue(expr.Left, env)
	if err != nil {
		return NewUnit(), err
	}

	if expr.Operator == tokenAnd || expr.Operator == tokenOr {
		if left.Kind() != KindBool {
			return NewUnit(), exec.typeErrorAt(expr.Left.Pos(), "`%s` expects bool operands, found %s", expr.Operator, left.Kind())
		}
		if (expr.Operator == tokenAnd) != left.Bool() {
			return left, nil
		}
		right, err := exec.evalValue(expr.Right, env)
		if err != nil {
			return NewUnit(), err
		}
		if right.Kind() != KindBool {
			return NewUnit(), exec.typeErrorAt(expr.Right.Pos(), "`%s` expects bool operands, found %s", expr.Operator, right.Kind())
		}
		return right, nil
	}

	right, err := exec.evalValue(expr.Right, env)
	if err != nil {
		return NewUnit(), err
	}
	return exec.applyBinary(expr.Operator, left, right, expr.Pos())
}

// applyBinary implements the non-short-circuit operators. Integer
// arithmetic wraps on overflow.
func (exec *Execution) applyBinary(op TokenType, left, right Value, pos Position) (Value, error) {
	switch op {
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	}

	if left.Kind() == KindInt && right.Kind() == KindInt {
		a, b := left.Int(), right.Int()
		switch op {
		case tokenPlus:
			return NewInt(a + b), nil
		case tokenMinus:
			return NewInt(a - b), nil
		case tokenAsterisk:
			return NewInt(a * b), nil
		case tokenSlash:
			if b == 0 {
				return NewUnit(), exec.runtimeErrorAt(pos, ErrDivisionByZero, "attempt to divide by zero")
			}
			return NewInt(a / b), nil
		case tokenPercent:
			if b == 0 {
				return NewUnit(), exec.runtimeErrorAt(pos, ErrDivisionByZero, "attempt to calculate the remainder with a divisor of zero")
			}
			return NewInt(a % b), nil
		case tokenLT:
			return NewBool(a < b), nil
		case tokenLTE:
			return NewBool(a <= b), nil
		case tokenGT:
			return NewBool(a > b), nil
		case tokenGTE:
			return NewBool(a >= b), nil
		}
	}

	if left.Kind() == KindString && right.Kind() == KindString {
		a, b := left.Str(), right.Str()
		switch op {
		case tokenPlus:
			return NewString(a + b), nil
		case tokenLT:
			return NewBool(a < b), nil
		case tokenLTE:
			return NewBool(a <= b), nil
		case tokenGT:
			return NewBool(a > b), nil
		case tokenGTE:
			return NewBool(a >= b), nil
		}
	}

	return NewUnit(), exec.typeErrorAt(pos, "cannot apply `%s` to %s and %s", op, left.Kind(), right.Kind())
}
