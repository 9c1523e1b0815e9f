package ruster

import (
	"fmt"
)

// Warning is a non-fatal diagnostic produced while compiling.
type Warning struct {
	Message string
	Pos     Position
}

func (w Warning) String() string {
	return fmt.Sprintf("warning at %d:%d: %s", w.Pos.Line, w.Pos.Column, w.Message)
}

type signature struct {
	params []staticType
	result staticType
}

// resolver binds names, enforces mutability and arity, and checks types
// where they are statically known. It annotates call sites with their
// targets so the evaluator never looks names up globally.
type resolver struct {
	source     string
	functions  map[string]*FunctionDecl
	signatures map[*FunctionDecl]signature
	aliases    map[string][]string
	scope      *scope
	fn         *FunctionDecl
	returnTy   staticType
	err        *Error
	warnings   []Warning
}

func resolveProgram(program *Program, source string) ([]Warning, error) {
	r := &resolver{
		source:     source,
		functions:  make(map[string]*FunctionDecl),
		signatures: make(map[*FunctionDecl]signature),
		aliases:    make(map[string][]string),
	}
	r.hoist(program)
	for _, item := range program.Items {
		if r.err != nil {
			break
		}
		if fn, ok := item.(*FunctionDecl); ok {
			r.resolveFunction(fn)
		}
	}
	if r.err != nil {
		return r.warnings, r.err
	}
	return r.warnings, nil
}

func (r *resolver) fail(kind ErrorKind, pos Position, format string, args ...any) {
	if r.err != nil {
		return
	}
	r.err = newSourceError(kind, fmt.Sprintf(format, args...), pos, r.source)
}

func (r *resolver) warn(pos Position, format string, args ...any) {
	r.warnings = append(r.warnings, Warning{Message: fmt.Sprintf(format, args...), Pos: pos})
}

func (r *resolver) failed() bool { return r.err != nil }

// hoist registers every item before any body is resolved, so functions may
// be called before their definition.
func (r *resolver) hoist(program *Program) {
	for _, item := range program.Items {
		switch it := item.(type) {
		case *UseDecl:
			path := joinPath(it.Path)
			if !knownModules[path] && builtinsByPath[path] == nil {
				r.fail(ErrorBinding, it.Pos(), "unresolved import `%s`", path)
				return
			}
			r.aliases[it.Path[len(it.Path)-1]] = it.Path
		case *FunctionDecl:
			if _, exists := r.functions[it.Name]; exists {
				r.fail(ErrorBinding, it.Pos(), "the name `%s` is defined multiple times", it.Name)
				return
			}
			if _, ok := preludeNames[it.Name]; ok {
				r.warn(it.Pos(), "function `%s` shadows the builtin of the same name", it.Name)
			}
			r.functions[it.Name] = it
		}
	}

	for _, item := range program.Items {
		fn, ok := item.(*FunctionDecl)
		if !ok {
			continue
		}
		if alias, ok := r.aliases[fn.Name]; ok && len(alias) > 1 {
			r.fail(ErrorBinding, fn.Pos(), "the name `%s` is defined multiple times (also imported as `%s`)", fn.Name, joinPath(alias))
			return
		}
		sig := signature{}
		seen := make(map[string]bool, len(fn.Params))
		for _, param := range fn.Params {
			if seen[param.Name] {
				r.fail(ErrorBinding, param.Pos(), "identifier `%s` is bound more than once in this parameter list", param.Name)
				return
			}
			seen[param.Name] = true
			ty, msg := typeFromAnnotation(param.Type)
			if msg != "" {
				r.fail(ErrorType, param.Type.Pos(), "%s", msg)
				return
			}
			sig.params = append(sig.params, ty)
		}
		result, msg := typeFromAnnotation(fn.ReturnTy)
		if msg != "" {
			r.fail(ErrorType, fn.ReturnTy.Pos(), "%s", msg)
			return
		}
		sig.result = result
		r.signatures[fn] = sig
	}
}

func (r *resolver) resolveFunction(fn *FunctionDecl) {
	sig := r.signatures[fn]
	r.fn = fn
	r.returnTy = sig.result
	r.scope = newScope(nil)
	defer func() { r.scope = nil }()

	for i, param := range fn.Params {
		r.declare(&localBinding{name: param.Name, ty: sig.params[i], mutable: param.Mutable, param: true, shared: isSharedRef(param.Type), pos: param.Pos()})
	}

	bodyTy := r.resolveBlock(fn.Body)
	if r.failed() {
		return
	}
	if fn.Body.Tail != nil || fn.Body.valueIf() != nil {
		pos := fn.Body.Pos()
		if fn.Body.Tail != nil {
			pos = fn.Body.Tail.Pos()
		}
		if !compatible(r.returnTy, bodyTy) {
			r.fail(ErrorType, pos, "mismatched types: `%s` returns %s, found %s", fn.Name, r.returnTy, bodyTy)
		}
	}
}

func (r *resolver) resolveBlock(block *Block) staticType {
	r.pushScope()
	defer r.popScope()

	last := unitType
	diverges := false
	for _, stmt := range block.Statements {
		last = r.resolveStatement(stmt)
		if r.failed() {
			return unknownType
		}
		if last.kind == tyNever {
			diverges = true
		}
	}
	if block.Tail != nil {
		ty := r.resolveExpr(block.Tail)
		if diverges {
			return neverType
		}
		return ty
	}
	switch {
	case diverges:
		return neverType
	case block.valueIf() != nil:
		return last
	}
	return unitType
}

func (r *resolver) resolveStatement(stmt Statement) staticType {
	switch s := stmt.(type) {
	case *LetStmt:
		r.resolveLet(s)
	case *AssignStmt:
		r.resolveAssign(s)
	case *ExprStmt:
		r.resolveExpr(s.Expr)
	case *ReturnStmt:
		r.resolveReturn(s)
		return neverType
	case *IfStmt:
		return r.resolveIf(s)
	case *WhileStmt:
		r.checkCondition(s.Condition)
		r.resolveBlock(s.Body)
	case *ForStmt:
		r.resolveFor(s)
	case *BlockStmt:
		return r.resolveBlock(s.Body)
	default:
		r.fail(ErrorParse, stmt.Pos(), "unsupported statement")
	}
	return unitType
}

func (r *resolver) resolveLet(s *LetStmt) {
	valueTy := r.resolveExpr(s.Value)
	if r.failed() {
		return
	}
	ty := valueTy
	if s.Type != nil {
		declared, msg := typeFromAnnotation(s.Type)
		if msg != "" {
			r.fail(ErrorType, s.Type.Pos(), "%s", msg)
			return
		}
		if !compatible(declared, valueTy) {
			r.fail(ErrorType, s.Value.Pos(), "mismatched types: `%s` is declared as %s but initialised with %s", s.Name, declared, valueTy)
			return
		}
		ty = declared
	}
	shared := isSharedRef(s.Type)
	if borrow, ok := s.Value.(*BorrowExpr); ok && !borrow.Mutable {
		shared = true
	}
	r.declare(&localBinding{name: s.Name, ty: ty, mutable: s.Mutable, shared: shared, pos: s.Pos()})
}

func isSharedRef(te *TypeExpr) bool {
	return te != nil && te.Kind == TypeRef && !te.Mutable
}

func (r *resolver) resolveReturn(s *ReturnStmt) {
	if s.Value == nil {
		if r.returnTy.known() && r.returnTy.kind != tyUnit {
			r.fail(ErrorType, s.Pos(), "`return;` in `%s`, which returns %s", r.fn.Name, r.returnTy)
		}
		return
	}
	ty := r.resolveExpr(s.Value)
	if r.failed() {
		return
	}
	if !compatible(r.returnTy, ty) {
		r.fail(ErrorType, s.Value.Pos(), "mismatched types: `%s` returns %s, found %s", r.fn.Name, r.returnTy, ty)
	}
}

func (r *resolver) resolveIf(s *IfStmt) staticType {
	r.checkCondition(s.Condition)
	thenTy := r.resolveBlock(s.Consequent)
	var elseTy staticType
	switch {
	case s.ElseIf != nil:
		elseTy = r.resolveIf(s.ElseIf)
	case s.Alternate != nil:
		elseTy = r.resolveBlock(s.Alternate)
	default:
		return unitType
	}
	switch {
	case thenTy.kind == tyNever:
		return elseTy
	case elseTy.kind == tyNever:
		return thenTy
	case !compatible(thenTy, elseTy):
		return unknownType
	case thenTy.known():
		return thenTy
	}
	return elseTy
}

func (r *resolver) checkCondition(cond Expression) {
	ty := r.resolveExpr(cond).deref()
	if r.failed() {
		return
	}
	if ty.known() && ty.kind != tyBool {
		r.fail(ErrorType, cond.Pos(), "mismatched types: expected `bool` condition, found %s", ty)
	}
}

func (r *resolver) resolveFor(s *ForStmt) {
	iterTy := r.resolveExpr(s.Iterable).deref()
	if r.failed() {
		return
	}
	var elemTy staticType
	switch iterTy.kind {
	case tyRange, tyString:
		elemTy = intType
	case tySlice:
		elemTy = iterTy.element()
	case tyUnknown:
		elemTy = unknownType
	default:
		r.fail(ErrorType, s.Iterable.Pos(), "%s is not iterable", iterTy)
		return
	}
	r.pushScope()
	defer r.popScope()
	r.declare(&localBinding{name: s.Iterator, ty: elemTy, pos: s.Pos()})
	r.resolveBlock(s.Body)
}

func (r *resolver) resolveAssign(s *AssignStmt) {
	valueTy := r.resolveExpr(s.Value).deref()
	if r.failed() {
		return
	}
	targetTy := r.resolveTarget(s.Target)
	if r.failed() {
		return
	}
	if s.Operator == tokenAssign {
		if !compatible(targetTy, valueTy) {
			r.fail(ErrorType, s.Value.Pos(), "mismatched types: cannot assign %s to a binding of type %s", valueTy, targetTy)
		}
		return
	}
	op := TokenType(string(s.Operator)[:1])
	r.binaryResult(op, targetTy.deref(), valueTy, s.Pos())
}

// resolveTarget checks that an assignment target may be written and
// returns its type.
func (r *resolver) resolveTarget(target Expression) staticType {
	switch t := target.(type) {
	case *Identifier:
		b := r.lookupWritable(t)
		if b == nil {
			return unknownType
		}
		if !b.mutable {
			r.failImmutable(t.Pos(), b)
			return unknownType
		}
		return b.ty
	case *IndexExpr:
		if _, ok := t.Index.(*RangeExpr); ok {
			r.fail(ErrorType, t.Pos(), "cannot assign to a sub-slice")
			return unknownType
		}
		if !r.requireMutableRoot(t.Object) {
			return unknownType
		}
		return r.resolveIndex(t)
	case *UnaryExpr:
		if t.Operator != tokenAsterisk {
			break
		}
		ty := r.resolveExpr(t.Right)
		if ty.known() && ty.kind != tyRef {
			r.fail(ErrorType, t.Pos(), "cannot assign through `*` on %s, which is not a `&mut` reference", ty)
			return unknownType
		}
		return ty.element()
	}
	r.fail(ErrorType, target.Pos(), "invalid left-hand side of assignment")
	return unknownType
}

func (r *resolver) lookupWritable(id *Identifier) *localBinding {
	b, ok := r.scope.lookup(id.Name)
	if ok {
		return b
	}
	if _, isFn := r.functions[id.Name]; isFn {
		r.fail(ErrorBinding, id.Pos(), "cannot assign to function `%s`", id.Name)
		return nil
	}
	r.fail(ErrorBinding, id.Pos(), "cannot find value `%s` in this scope", id.Name)
	return nil
}

func (r *resolver) failImmutable(pos Position, b *localBinding) {
	if b.param {
		r.fail(ErrorBinding, pos, "cannot assign to immutable parameter `%s` (declare it as `mut %s`)", b.name, b.name)
		return
	}
	r.fail(ErrorBinding, pos, "cannot assign twice to immutable variable `%s` (declare it with `let mut %s`)", b.name, b.name)
}

// requireMutableRoot walks an index chain to the binding it writes into.
// The binding must be `mut` unless it holds a `&mut` reference, and it
// must not be a `&` borrow.
func (r *resolver) requireMutableRoot(expr Expression) bool {
	switch e := expr.(type) {
	case *Identifier:
		b := r.lookupWritable(e)
		if b == nil {
			return false
		}
		if b.shared {
			r.fail(ErrorBinding, e.Pos(), "cannot assign to elements of `%s`, which is behind a `&` reference", b.name)
			return false
		}
		if !b.mutable && b.ty.kind != tyRef {
			r.fail(ErrorBinding, e.Pos(), "cannot assign to elements of `%s`, as it is not declared as mutable", b.name)
			return false
		}
		return true
	case *IndexExpr:
		return r.requireMutableRoot(e.Object)
	case *UnaryExpr:
		if e.Operator == tokenAsterisk {
			return true
		}
	}
	r.fail(ErrorType, expr.Pos(), "invalid left-hand side of assignment")
	return false
}

func (r *resolver) resolveExpr(expr Expression) staticType {
	if r.failed() {
		return unknownType
	}
	switch e := expr.(type) {
	case *Identifier:
		return r.resolveIdentifier(e)
	case *PathExpr:
		full := r.expandPath(e.Segments)
		if builtinsByPath[joinPath(full)] != nil || r.pathFunction(e.Segments) != nil {
			r.fail(ErrorType, e.Pos(), "`%s` can only be used in a call", joinPath(e.Segments))
			return unknownType
		}
		r.fail(ErrorBinding, e.Pos(), "failed to resolve path `%s`", joinPath(e.Segments))
		return unknownType
	case *IntegerLiteral:
		return intType
	case *StringLiteral:
		return stringType
	case *BoolLiteral:
		return boolType
	case *ArrayLiteral:
		elem := unknownType
		for _, el := range e.Elements {
			ty := r.resolveExpr(el)
			if r.failed() {
				return unknownType
			}
			if !compatible(elem, ty) {
				r.fail(ErrorType, el.Pos(), "mismatched types in array literal: expected %s, found %s", elem, ty)
				return unknownType
			}
			if !elem.known() {
				elem = ty
			}
		}
		return sliceOf(elem)
	case *ArrayRepeat:
		elem := r.resolveExpr(e.Value)
		count := r.resolveExpr(e.Count).deref()
		if count.known() && count.kind != tyInt {
			r.fail(ErrorType, e.Count.Pos(), "array repeat count must be an integer, found %s", count)
		}
		return sliceOf(elem)
	case *SomeExpr:
		return optionOf(r.resolveExpr(e.Value))
	case *NoneExpr:
		return optionOf(unknownType)
	case *UnaryExpr:
		return r.resolveUnary(e)
	case *BorrowExpr:
		if e.Mutable {
			r.fail(ErrorType, e.Pos(), "`&mut` borrows are only supported as call arguments")
			return unknownType
		}
		return r.resolveExpr(e.Value)
	case *BinaryExpr:
		left := r.resolveExpr(e.Left).deref()
		right := r.resolveExpr(e.Right).deref()
		if r.failed() {
			return unknownType
		}
		return r.binaryResult(e.Operator, left, right, e.Pos())
	case *RangeExpr:
		for _, bound := range []Expression{e.Start, e.End} {
			if bound == nil {
				continue
			}
			ty := r.resolveExpr(bound).deref()
			if ty.known() && ty.kind != tyInt {
				r.fail(ErrorType, bound.Pos(), "range bounds must be integers, found %s", ty)
			}
		}
		return rangeType
	case *CallExpr:
		return r.resolveCall(e)
	case *MethodCallExpr:
		return r.resolveMethodCall(e)
	case *IndexExpr:
		return r.resolveIndex(e)
	default:
		r.fail(ErrorParse, expr.Pos(), "unsupported expression")
		return unknownType
	}
}

func (r *resolver) resolveIdentifier(e *Identifier) staticType {
	if b, ok := r.scope.lookup(e.Name); ok {
		return b.ty
	}
	if fn, ok := r.functions[e.Name]; ok {
		e.function = fn
		return functionType
	}
	if r.identifierBuiltin(e.Name) != nil {
		r.fail(ErrorType, e.Pos(), "builtin `%s` can only be used in a call", e.Name)
		return unknownType
	}
	r.fail(ErrorBinding, e.Pos(), "cannot find value `%s` in this scope", e.Name)
	return unknownType
}

func (r *resolver) resolveUnary(e *UnaryExpr) staticType {
	ty := r.resolveExpr(e.Right)
	if r.failed() {
		return unknownType
	}
	switch e.Operator {
	case tokenAsterisk:
		return ty.deref()
	case tokenMinus:
		ty = ty.deref()
		if ty.known() && ty.kind != tyInt {
			r.fail(ErrorType, e.Pos(), "cannot apply unary `-` to %s", ty)
			return unknownType
		}
		return intType
	case tokenBang:
		ty = ty.deref()
		if ty.known() && ty.kind != tyBool && ty.kind != tyInt {
			r.fail(ErrorType, e.Pos(), "cannot apply unary `!` to %s", ty)
			return unknownType
		}
		return ty
	default:
		return unknownType
	}
}

// binaryResult checks operand types for op and returns the result type.
func (r *resolver) binaryResult(op TokenType, left, right staticType, pos Position) staticType {
	mismatch := func() staticType {
		r.fail(ErrorType, pos, "cannot apply `%s` to %s and %s", op, left, right)
		return unknownType
	}
	isKind := func(t staticType, kinds ...typeKind) bool {
		return setOf(kinds...).accepts(t)
	}

	switch op {
	case tokenPlus:
		if left.kind == tyString || right.kind == tyString {
			if !isKind(left, tyString) || !isKind(right, tyString) {
				return mismatch()
			}
			return stringType
		}
		fallthrough
	case tokenMinus, tokenAsterisk, tokenSlash, tokenPercent:
		if !isKind(left, tyInt) || !isKind(right, tyInt) {
			return mismatch()
		}
		return intType
	case tokenLT, tokenLTE, tokenGT, tokenGTE:
		if !compatible(left, right) || !isKind(left, tyInt, tyString) || !isKind(right, tyInt, tyString) {
			return mismatch()
		}
		return boolType
	case tokenEQ, tokenNotEQ:
		if !compatible(left, right) {
			r.fail(ErrorType, pos, "cannot compare %s with %s", left, right)
			return unknownType
		}
		return boolType
	case tokenAnd, tokenOr:
		if !isKind(left, tyBool) || !isKind(right, tyBool) {
			return mismatch()
		}
		return boolType
	default:
		return unknownType
	}
}

func (r *resolver) resolveIndex(e *IndexExpr) staticType {
	objTy := r.resolveExpr(e.Object).deref()
	if r.failed() {
		return unknownType
	}
	if rng, ok := e.Index.(*RangeExpr); ok {
		r.resolveExpr(rng)
		switch objTy.kind {
		case tySlice, tyString, tyUnknown:
			return objTy
		default:
			r.fail(ErrorType, e.Pos(), "cannot slice a value of type %s", objTy)
			return unknownType
		}
	}
	idxTy := r.resolveExpr(e.Index).deref()
	if r.failed() {
		return unknownType
	}
	if idxTy.known() && idxTy.kind != tyInt {
		r.fail(ErrorType, e.Index.Pos(), "slice indices must be integers, found %s", idxTy)
		return unknownType
	}
	switch objTy.kind {
	case tySlice:
		return objTy.element()
	case tyUnknown:
		return unknownType
	case tyString:
		r.fail(ErrorType, e.Pos(), "strings cannot be indexed by integer; use `.as_bytes()`")
		return unknownType
	default:
		r.fail(ErrorType, e.Pos(), "cannot index into a value of type %s", objTy)
		return unknownType
	}
}

func (r *resolver) resolveMethodCall(e *MethodCallExpr) staticType {
	recvTy := r.resolveExpr(e.Receiver).deref()
	argTys := make([]staticType, len(e.Args))
	for i, arg := range e.Args {
		argTys[i] = r.resolveExpr(arg).deref()
	}
	if r.failed() {
		return unknownType
	}
	kind, ok := valueKindFor(recvTy)
	if !ok {
		return unknownType
	}
	m, ok := lookupIntrinsic(kind, e.Method)
	if !ok {
		r.fail(ErrorType, e.Pos(), "no method named `%s` found for %s", e.Method, recvTy)
		return unknownType
	}
	if len(e.Args) != m.arity {
		r.fail(ErrorType, e.Pos(), "method `%s` takes %d argument(s) but %d were supplied", e.Method, m.arity, len(e.Args))
		return unknownType
	}
	if m.arity == 1 && !compatible(recvTy.element(), argTys[0]) {
		r.fail(ErrorType, e.Args[0].Pos(), "mismatched types: expected %s, found %s", recvTy.element(), argTys[0])
		return unknownType
	}
	return m.result(recvTy)
}
