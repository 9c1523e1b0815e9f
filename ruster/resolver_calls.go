package ruster

// expandPath replaces a leading `use` alias with its full path.
func (r *resolver) expandPath(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}
	full, ok := r.aliases[segments[0]]
	if !ok {
		return segments
	}
	out := make([]string, 0, len(full)+len(segments)-1)
	out = append(out, full...)
	return append(out, segments[1:]...)
}

// pathFunction resolves crate::f and self::f to a user function.
func (r *resolver) pathFunction(segments []string) *FunctionDecl {
	if len(segments) != 2 || (segments[0] != "crate" && segments[0] != "self") {
		return nil
	}
	return r.functions[segments[1]]
}

// identifierBuiltin resolves a bare name imported with `use` or provided
// by the prelude.
func (r *resolver) identifierBuiltin(name string) *builtinSpec {
	if full, ok := r.aliases[name]; ok {
		return builtinsByPath[joinPath(full)]
	}
	if path, ok := preludeNames[name]; ok {
		return builtinsByPath[path]
	}
	return nil
}

func (r *resolver) resolveCall(call *CallExpr) staticType {
	switch callee := call.Callee.(type) {
	case *Identifier:
		if b, ok := r.scope.lookup(callee.Name); ok {
			if b.ty.known() && b.ty.kind != tyFunction {
				r.fail(ErrorType, callee.Pos(), "`%s` is not a function, it has type %s", callee.Name, b.ty)
				return unknownType
			}
			return r.resolveValueCall(call)
		}
		if fn, ok := r.functions[callee.Name]; ok {
			call.target.function = fn
			return r.resolveFunctionCall(call, fn)
		}
		if spec := r.identifierBuiltin(callee.Name); spec != nil {
			call.target.builtin = spec
			return r.resolveBuiltinCall(call, spec)
		}
		if full, ok := r.aliases[callee.Name]; ok {
			r.fail(ErrorType, callee.Pos(), "expected function, found module `%s`", joinPath(full))
			return unknownType
		}
		r.fail(ErrorBinding, callee.Pos(), "cannot find function `%s` in this scope", callee.Name)
		return unknownType
	case *PathExpr:
		if fn := r.pathFunction(callee.Segments); fn != nil {
			call.target.function = fn
			return r.resolveFunctionCall(call, fn)
		}
		full := joinPath(r.expandPath(callee.Segments))
		if spec := builtinsByPath[full]; spec != nil {
			call.target.builtin = spec
			return r.resolveBuiltinCall(call, spec)
		}
		if knownModules[full] {
			r.fail(ErrorType, callee.Pos(), "expected function, found module `%s`", full)
			return unknownType
		}
		r.fail(ErrorBinding, callee.Pos(), "failed to resolve path `%s`", joinPath(callee.Segments))
		return unknownType
	default:
		ty := r.resolveExpr(callee).deref()
		if r.failed() {
			return unknownType
		}
		if ty.known() && ty.kind != tyFunction {
			r.fail(ErrorType, callee.Pos(), "call expression requires a function, found %s", ty)
			return unknownType
		}
		return r.resolveValueCall(call)
	}
}

func (r *resolver) resolveFunctionCall(call *CallExpr, fn *FunctionDecl) staticType {
	sig := r.signatures[fn]
	if len(call.Args) != len(sig.params) {
		r.fail(ErrorType, call.Pos(), "function `%s` takes %d argument(s) but %d were supplied", fn.Name, len(sig.params), len(call.Args))
		return unknownType
	}
	for i, arg := range call.Args {
		ty := r.resolveArg(arg)
		if r.failed() {
			return unknownType
		}
		if !compatible(sig.params[i], ty) {
			r.fail(ErrorType, arg.Pos(), "mismatched types: argument %d of `%s` expects %s, found %s", i+1, fn.Name, sig.params[i], ty)
			return unknownType
		}
	}
	return sig.result
}

func (r *resolver) resolveBuiltinCall(call *CallExpr, spec *builtinSpec) staticType {
	if len(call.Args) != len(spec.params) {
		r.fail(ErrorType, call.Pos(), "`%s` takes %d argument(s) but %d were supplied", spec.name, len(spec.params), len(call.Args))
		return unknownType
	}
	types := make([]staticType, len(call.Args))
	for i, arg := range call.Args {
		ty := r.resolveArg(arg)
		if r.failed() {
			return unknownType
		}
		check := ty
		if spec.params[i] != setOf(tyRef) {
			check = ty.deref()
		}
		if !spec.params[i].accepts(check) {
			r.fail(ErrorType, arg.Pos(), "`%s` cannot take %s as argument %d", spec.name, check, i+1)
			return unknownType
		}
		types[i] = ty
	}
	if spec.sameArgTypes && len(types) == 2 && !compatible(types[0], types[1]) {
		r.fail(ErrorType, call.Pos(), "`%s` arguments must have the same type, found %s and %s", spec.name, types[0], types[1])
		return unknownType
	}
	return spec.result
}

func (r *resolver) resolveValueCall(call *CallExpr) staticType {
	if _, ok := call.Callee.(*Identifier); ok {
		r.resolveExpr(call.Callee)
	}
	for _, arg := range call.Args {
		r.resolveArg(arg)
	}
	return unknownType
}

// resolveArg resolves a call argument. This is the only place a `&mut`
// borrow is accepted.
func (r *resolver) resolveArg(arg Expression) staticType {
	borrow, ok := arg.(*BorrowExpr)
	if !ok || !borrow.Mutable {
		return r.resolveExpr(arg)
	}
	id, ok := borrow.Value.(*Identifier)
	if !ok {
		r.fail(ErrorType, borrow.Pos(), "`&mut` can only borrow a named binding")
		return unknownType
	}
	b, ok := r.scope.lookup(id.Name)
	if !ok {
		if _, isFn := r.functions[id.Name]; isFn {
			r.fail(ErrorType, id.Pos(), "cannot mutably borrow function `%s`", id.Name)
			return unknownType
		}
		r.fail(ErrorBinding, id.Pos(), "cannot find value `%s` in this scope", id.Name)
		return unknownType
	}
	if b.ty.kind == tyRef {
		return b.ty
	}
	if !b.mutable {
		r.fail(ErrorBinding, borrow.Pos(), "cannot borrow `%s` as mutable, as it is not declared as mutable", b.name)
		return unknownType
	}
	return refOf(b.ty)
}
