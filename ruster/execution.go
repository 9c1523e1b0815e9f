package ruster

import (
	"context"
	"fmt"
	"io"
)

// Execution is the private state of one Script.Call: its arena of
// bindings, call stack, quotas and output sink. It is never shared.
type Execution struct {
	engine       *Engine
	script       *Script
	ctx          context.Context
	quota        int
	memoryQuota  int
	recursionCap int
	steps        int
	callStack    []callFrame
	arena        arena
	output       io.Writer
}

type callFrame struct {
	Function string
	Pos      Position
}

// flow is the control signal threaded through statement execution.
type flow int

const (
	flowNext flow = iota
	flowReturn
)

func (exec *Execution) step(pos Position) error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return exec.runtimeErrorAt(pos, ErrStepQuotaExceeded, "step quota exceeded (%d)", exec.quota)
	}
	if exec.memoryQuota > 0 && (exec.steps&15) == 0 {
		if err := exec.checkMemory(pos); err != nil {
			return err
		}
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.runtimeErrorAt(pos, exec.ctx.Err(), "execution interrupted: %v", exec.ctx.Err())
		default:
		}
	}
	return nil
}

func (exec *Execution) runtimeErrorAt(pos Position, cause error, format string, args ...any) error {
	return exec.newError(ErrorRuntime, cause, fmt.Sprintf(format, args...), pos)
}

func (exec *Execution) typeErrorAt(pos Position, format string, args ...any) error {
	return exec.newError(ErrorType, nil, fmt.Sprintf(format, args...), pos)
}

func (exec *Execution) newError(kind ErrorKind, cause error, message string, pos Position) *Error {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	if len(exec.callStack) > 0 {
		// where the fault happened, then each caller from the innermost out
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			frames = append(frames, StackFrame(exec.callStack[i]))
		}
	}
	codeFrame := ""
	if exec.script != nil {
		codeFrame = formatCodeFrame(exec.script.source, pos)
	}
	return &Error{Kind: kind, Message: message, Pos: pos, CodeFrame: codeFrame, Frames: frames, cause: cause}
}

// evalBlock runs a block in a fresh scope. The block's value is its tail
// expression, or the value of a trailing if/else when it has no tail.
func (exec *Execution) evalBlock(block *Block, parent *Env) (Value, flow, error) {
	env := exec.arena.openScope(parent)
	defer exec.arena.closeScope(env)

	result := NewUnit()
	for _, stmt := range block.Statements {
		if err := exec.step(stmt.Pos()); err != nil {
			return NewUnit(), flowNext, err
		}
		val, fl, err := exec.evalStatement(stmt, env)
		if err != nil {
			return NewUnit(), flowNext, err
		}
		if fl == flowReturn {
			return val, flowReturn, nil
		}
		result = val
	}
	if block.Tail != nil {
		val, err := exec.evalExpression(block.Tail, env)
		if err != nil {
			return NewUnit(), flowNext, err
		}
		return val, flowNext, nil
	}
	if block.valueIf() == nil {
		return NewUnit(), flowNext, nil
	}
	return result, flowNext, nil
}

func (exec *Execution) evalStatement(stmt Statement, env *Env) (Value, flow, error) {
	switch s := stmt.(type) {
	case *LetStmt:
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return NewUnit(), flowNext, err
		}
		if val, err = exec.ownArray(s.Value, val); err != nil {
			return NewUnit(), flowNext, err
		}
		exec.arena.define(env, s.Name, val)
		return NewUnit(), flowNext, nil
	case *AssignStmt:
		return NewUnit(), flowNext, exec.assign(s, env)
	case *ExprStmt:
		_, err := exec.evalExpression(s.Expr, env)
		return NewUnit(), flowNext, err
	case *ReturnStmt:
		if s.Value == nil {
			return NewUnit(), flowReturn, nil
		}
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return NewUnit(), flowNext, err
		}
		return val, flowReturn, nil
	case *IfStmt:
		return exec.evalIf(s, env)
	case *WhileStmt:
		return exec.evalWhile(s, env)
	case *ForStmt:
		return exec.evalFor(s, env)
	case *BlockStmt:
		val, fl, err := exec.evalBlock(s.Body, env)
		if fl == flowReturn || err != nil {
			return val, fl, err
		}
		return NewUnit(), flowNext, nil
	default:
		return NewUnit(), flowNext, exec.typeErrorAt(stmt.Pos(), "unsupported statement")
	}
}

func (exec *Execution) evalExpression(expr Expression, env *Env) (Value, error) {
	if err := exec.step(expr.Pos()); err != nil {
		return NewUnit(), err
	}
	switch e := expr.(type) {
	case *Identifier:
		if e.function != nil {
			return newFunctionValue(e.function), nil
		}
		slot, ok := env.lookup(e.Name)
		if !ok {
			return NewUnit(), exec.runtimeErrorAt(e.Pos(), nil, "unbound identifier `%s`", e.Name)
		}
		return exec.arena.slots[slot].value, nil
	case *IntegerLiteral:
		return NewInt(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *ArrayLiteral:
		if err := exec.reserve(e.Pos(), len(e.Elements)); err != nil {
			return NewUnit(), err
		}
		elems := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			val, err := exec.evalValue(el, env)
			if err != nil {
				return NewUnit(), err
			}
			elems[i] = val
		}
		return newSliceOver(elems), nil
	case *ArrayRepeat:
		return exec.evalArrayRepeat(e, env)
	case *SomeExpr:
		val, err := exec.evalValue(e.Value, env)
		if err != nil {
			return NewUnit(), err
		}
		return NewSome(val), nil
	case *NoneExpr:
		return NewNone(), nil
	case *UnaryExpr:
		return exec.evalUnary(e, env)
	case *BorrowExpr:
		if e.Mutable {
			return exec.evalMutableBorrow(e, env)
		}
		return exec.evalExpression(e.Value, env)
	case *BinaryExpr:
		return exec.evalBinary(e, env)
	case *RangeExpr:
		return exec.evalRange(e, env)
	case *CallExpr:
		return exec.evalCall(e, env)
	case *MethodCallExpr:
		return exec.evalMethodCall(e, env)
	case *IndexExpr:
		return exec.evalIndex(e, env)
	case *PathExpr:
		return NewUnit(), exec.typeErrorAt(e.Pos(), "`%s` can only be used in a call", joinPath(e.Segments))
	default:
		return NewUnit(), exec.typeErrorAt(expr.Pos(), "unsupported expression")
	}
}

// evalValue evaluates expr and reads through any `&mut` reference.
func (exec *Execution) evalValue(expr Expression, env *Env) (Value, error) {
	val, err := exec.evalExpression(expr, env)
	if err != nil {
		return NewUnit(), err
	}
	return exec.deref(expr.Pos(), val)
}

func (exec *Execution) evalArrayRepeat(e *ArrayRepeat, env *Env) (Value, error) {
	val, err := exec.evalValue(e.Value, env)
	if err != nil {
		return NewUnit(), err
	}
	countVal, err := exec.evalValue(e.Count, env)
	if err != nil {
		return NewUnit(), err
	}
	if countVal.Kind() != KindInt {
		return NewUnit(), exec.typeErrorAt(e.Count.Pos(), "array repeat count must be an integer, found %s", countVal.Kind())
	}
	count := countVal.Int()
	if count < 0 {
		return NewUnit(), exec.runtimeErrorAt(e.Count.Pos(), nil, "array repeat count must be non-negative, found %d", count)
	}
	if count > int64(maxSliceLen) {
		return NewUnit(), exec.runtimeErrorAt(e.Count.Pos(), ErrMemoryQuotaExceeded, "array of %d elements is too large", count)
	}
	if err := exec.reserve(e.Pos(), int(count)); err != nil {
		return NewUnit(), err
	}
	elems := make([]Value, count)
	for i := range elems {
		if val.Kind() != KindSlice {
			elems[i] = val
			continue
		}
		// each row of a nested repeat is its own array
		row, err := exec.copyArray(e.Value.Pos(), val)
		if err != nil {
			return NewUnit(), err
		}
		elems[i] = row
	}
	return newSliceOver(elems), nil
}
