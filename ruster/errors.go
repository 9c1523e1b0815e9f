package ruster

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure by the engine stage that raised it.
type ErrorKind string

const (
	ErrorLex     ErrorKind = "LexError"
	ErrorParse   ErrorKind = "ParseError"
	ErrorBinding ErrorKind = "BindingError"
	ErrorType    ErrorKind = "TypeError"
	ErrorRuntime ErrorKind = "RuntimeError"
)

var (
	ErrStackOverflow       = errors.New("stack overflow")
	ErrIndexOutOfBounds    = errors.New("index out of bounds")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrStepQuotaExceeded   = errors.New("step quota exceeded")
	ErrMemoryQuotaExceeded = errors.New("memory quota exceeded")
	ErrUnwrapNone          = errors.New("called unwrap on a None value")
)

const (
	errorFrameHead = 8
	errorFrameTail = 8
)

// StackFrame names a function activation and the position executing in it.
type StackFrame struct {
	Function string
	Pos      Position
}

// Error is the single structured failure returned by every engine stage.
type Error struct {
	Kind      ErrorKind
	Message   string
	Pos       Position
	CodeFrame string
	Frames    []StackFrame
	cause     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Pos.Line > 0 {
		fmt.Fprintf(&b, " at %d:%d", e.Pos.Line, e.Pos.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(e.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 && frame.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (line %d)", frame.Function, frame.Pos.Line)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(e.Frames) <= errorFrameHead+errorFrameTail {
		for _, frame := range e.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range e.Frames[:errorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(e.Frames) - (errorFrameHead + errorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range e.Frames[len(e.Frames)-errorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// Unwrap exposes the sentinel (ErrStackOverflow, ErrDivisionByZero, ...)
// or host error behind a runtime failure.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports kind equality so callers can match with errors.Is(err, &Error{Kind: ErrorBinding}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

func newSourceError(kind ErrorKind, msg string, pos Position, source string) *Error {
	return &Error{Kind: kind, Message: msg, Pos: pos, CodeFrame: formatCodeFrame(source, pos)}
}

// KindOf returns the kind of err, or "" when err is not an engine error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
