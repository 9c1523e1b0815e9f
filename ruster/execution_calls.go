package ruster

func (exec *Execution) evalCall(call *CallExpr, env *Env) (Value, error) {
	args, err := exec.evalCallArgs(call, env)
	if err != nil {
		return NewUnit(), err
	}

	switch {
	case call.target.function != nil:
		if err := exec.passArrays(call.target.function, call, args); err != nil {
			return NewUnit(), err
		}
		return exec.callFunction(call.target.function, args, call.Pos())
	case call.target.builtin != nil:
		return exec.callBuiltin(call.target.builtin, call, args)
	}

	callee, err := exec.evalValue(call.Callee, env)
	if err != nil {
		return NewUnit(), err
	}
	switch callee.Kind() {
	case KindFunction:
		fn := callee.Function()
		if len(args) != len(fn.Params) {
			return NewUnit(), exec.typeErrorAt(call.Pos(), "function `%s` takes %d argument(s) but %d were supplied", fn.Name, len(fn.Params), len(args))
		}
		if err := exec.passArrays(fn, call, args); err != nil {
			return NewUnit(), err
		}
		return exec.callFunction(fn, args, call.Pos())
	default:
		return NewUnit(), exec.typeErrorAt(call.Callee.Pos(), "call expression requires a function, found %s", callee.Kind())
	}
}

// evalCallArgs evaluates arguments left to right. A `&mut` argument stays
// a reference so the callee can write through it.
func (exec *Execution) evalCallArgs(call *CallExpr, env *Env) ([]Value, error) {
	args := make([]Value, len(call.Args))
	for i, arg := range call.Args {
		val, err := exec.evalExpression(arg, env)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	return args, nil
}

// passArrays copies arrays bound to by-value parameters in place. Reference
// parameters keep the caller's storage.
func (exec *Execution) passArrays(fn *FunctionDecl, call *CallExpr, args []Value) error {
	for i, param := range fn.Params {
		if param.Type != nil && param.Type.Kind == TypeRef {
			continue
		}
		val, err := exec.ownArray(call.Args[i], args[i])
		if err != nil {
			return err
		}
		args[i] = val
	}
	return nil
}

func (exec *Execution) callBuiltin(spec *builtinSpec, call *CallExpr, args []Value) (Value, error) {
	if len(args) != len(spec.params) {
		return NewUnit(), exec.typeErrorAt(call.Pos(), "`%s` takes %d argument(s) but %d were supplied", spec.name, len(spec.params), len(args))
	}
	return spec.fn(exec, call, args)
}

// callFunction runs fn in a new activation whose scope has no parent:
// functions see only their parameters and locals.
func (exec *Execution) callFunction(fn *FunctionDecl, args []Value, pos Position) (Value, error) {
	if err := exec.pushFrame(fn.Name, pos); err != nil {
		return NewUnit(), err
	}
	defer exec.popFrame()

	env := exec.arena.openScope(nil)
	defer exec.arena.closeScope(env)
	for i, param := range fn.Params {
		exec.arena.define(env, param.Name, args[i])
	}

	val, _, err := exec.evalBlock(fn.Body, env)
	if err != nil {
		return NewUnit(), err
	}
	if !matchesType(val, fn.ReturnTy) {
		return NewUnit(), exec.typeErrorAt(fn.Pos(), "function `%s` must return %s, found %s", fn.Name, fn.ReturnTy, val.Kind())
	}
	return val, nil
}

// matchesType reports whether val has the shape of the annotation. A nil
// annotation is unit.
func matchesType(val Value, te *TypeExpr) bool {
	if te == nil {
		return val.Kind() == KindUnit
	}
	switch te.Kind {
	case TypeNamed:
		switch {
		case isIntegerTypeName(te.Name):
			return val.Kind() == KindInt
		case te.Name == "bool":
			return val.Kind() == KindBool
		default:
			return val.Kind() == KindString
		}
	case TypeRef:
		if te.Mutable {
			return val.Kind() == KindRef
		}
		return matchesType(val, te.Elem)
	case TypeSlice, TypeArray:
		return val.Kind() == KindSlice
	case TypeUnit:
		return val.Kind() == KindUnit
	case TypeOption:
		return val.Kind() == KindOption
	default:
		return false
	}
}

func (exec *Execution) evalMethodCall(call *MethodCallExpr, env *Env) (Value, error) {
	recv, err := exec.evalValue(call.Receiver, env)
	if err != nil {
		return NewUnit(), err
	}
	args := make([]Value, len(call.Args))
	for i, arg := range call.Args {
		val, err := exec.evalValue(arg, env)
		if err != nil {
			return NewUnit(), err
		}
		args[i] = val
	}
	m, ok := lookupIntrinsic(recv.Kind(), call.Method)
	if !ok {
		return NewUnit(), exec.typeErrorAt(call.Pos(), "no method named `%s` found for %s", call.Method, recv.Kind())
	}
	if len(args) != m.arity {
		return NewUnit(), exec.typeErrorAt(call.Pos(), "method `%s` takes %d argument(s) but %d were supplied", call.Method, m.arity, len(args))
	}
	return m.call(exec, call.Pos(), recv, args)
}
