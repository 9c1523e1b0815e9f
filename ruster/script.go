package ruster

import (
	"context"
	"fmt"
	"io"
	"sort"
)

// Script is a compiled, resolved program. It is immutable and safe for
// concurrent Calls.
type Script struct {
	engine    *Engine
	program   *Program
	functions map[string]*FunctionDecl
	source    string
	warnings  []Warning
}

// CallOptions configures one call. Output receives writeln text; a nil
// Output discards it.
type CallOptions struct {
	Output io.Writer
}

// Compile lexes, parses and resolves source. Evaluation never starts on a
// program that fails any of these stages.
func (e *Engine) Compile(source string) (*Script, error) {
	program, err := parseSource(source)
	if err != nil {
		e.log.Debug("compile failed", "kind", KindOf(err), "error", err)
		return nil, err
	}
	warnings, err := resolveProgram(program, source)
	if err != nil {
		e.log.Debug("compile failed", "kind", KindOf(err), "error", err)
		return nil, err
	}
	if e.config.WarningsAsErrors && len(warnings) > 0 {
		w := warnings[0]
		return nil, newSourceError(ErrorBinding, w.Message, w.Pos, source)
	}

	functions := make(map[string]*FunctionDecl)
	for _, item := range program.Items {
		if fn, ok := item.(*FunctionDecl); ok {
			functions[fn.Name] = fn
		}
	}
	e.log.Debug("compiled", "functions", len(functions), "warnings", len(warnings))
	return &Script{engine: e, program: program, functions: functions, source: source, warnings: warnings}, nil
}

// Call runs the named function with a private execution. Every failure,
// including an unexpected internal fault, is returned as an *Error.
func (s *Script) Call(ctx context.Context, name string, args []Value, opts CallOptions) (result Value, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	fn, ok := s.functions[name]
	if !ok {
		return NewUnit(), &Error{Kind: ErrorBinding, Message: fmt.Sprintf("function `%s` not found", name)}
	}
	if len(args) != len(fn.Params) {
		return NewUnit(), &Error{Kind: ErrorType, Pos: fn.Pos(), Message: fmt.Sprintf("function `%s` takes %d argument(s) but %d were supplied", name, len(fn.Params), len(args))}
	}
	for i, param := range fn.Params {
		if !matchesType(args[i], param.Type) {
			return NewUnit(), &Error{Kind: ErrorType, Pos: param.Pos(), Message: fmt.Sprintf("argument %d of `%s` expects %s, found %s", i+1, name, param.Type, args[i].Kind())}
		}
	}

	exec := &Execution{
		engine:       s.engine,
		script:       s,
		ctx:          ctx,
		quota:        s.engine.config.StepQuota,
		memoryQuota:  s.engine.config.MemoryQuotaBytes,
		recursionCap: s.engine.config.RecursionLimit,
		callStack:    make([]callFrame, 0, 8),
		arena:        arena{slots: make([]binding, 0, 32)},
		output:       opts.Output,
	}

	defer func() {
		if r := recover(); r != nil {
			result = NewUnit()
			err = exec.newError(ErrorRuntime, nil, fmt.Sprintf("internal error: %v", r), fn.Pos())
		}
	}()

	s.engine.log.Debug("call started", "function", name)
	result, err = exec.callFunction(fn, args, fn.Pos())
	if err != nil {
		s.engine.log.Debug("call failed", "function", name, "steps", exec.steps, "kind", KindOf(err))
		return NewUnit(), err
	}
	s.engine.log.Debug("call finished", "function", name, "steps", exec.steps)
	return result, nil
}

// Warnings returns the non-fatal diagnostics found while compiling.
func (s *Script) Warnings() []Warning {
	return append([]Warning(nil), s.warnings...)
}

// Program returns the resolved syntax tree.
func (s *Script) Program() *Program {
	return s.program
}

// Function looks up a compiled function by name.
func (s *Script) Function(name string) (*FunctionDecl, bool) {
	fn, ok := s.functions[name]
	return fn, ok
}

// Functions returns the names of compiled functions in sorted order.
func (s *Script) Functions() []string {
	names := make([]string, 0, len(s.functions))
	for name := range s.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
