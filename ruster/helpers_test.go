package ruster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
)

func compileScript(t testing.TB, source string) *Script {
	t.Helper()
	return compileScriptWithConfig(t, Config{}, source)
}

func compileScriptWithConfig(t testing.TB, cfg Config, source string) *Script {
	t.Helper()
	engine := MustNewEngine(cfg)
	script, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return script
}

func callFunc(t testing.TB, script *Script, name string, args ...Value) Value {
	t.Helper()
	result, err := script.Call(context.Background(), name, args, CallOptions{})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	return result
}

// runMain compiles and runs source with a default engine and returns the
// captured output.
func runMain(t testing.TB, source string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := MustNewEngine(Config{}).Run(context.Background(), source, &out)
	return out.String(), err
}

func requireErrorKind(t testing.TB, err error, kind ErrorKind, fragment string) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s containing %q, got nil", kind, fragment)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if e.Kind != kind {
		t.Fatalf("expected %s, got %s: %v", kind, e.Kind, err)
	}
	if !strings.Contains(e.Message, fragment) {
		t.Fatalf("expected message containing %q, got %q", fragment, e.Message)
	}
	return e
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

// exprString renders an expression with explicit grouping so tests can
// assert on the parsed shape.
func exprString(expr Expression) string {
	switch e := expr.(type) {
	case nil:
		return ""
	case *Identifier:
		return e.Name
	case *PathExpr:
		return joinPath(e.Segments)
	case *IntegerLiteral:
		return strconv.FormatInt(e.Value, 10)
	case *StringLiteral:
		return strconv.Quote(e.Value)
	case *BoolLiteral:
		return strconv.FormatBool(e.Value)
	case *SomeExpr:
		return "Some(" + exprString(e.Value) + ")"
	case *NoneExpr:
		return "None"
	case *UnaryExpr:
		return "(" + string(e.Operator) + exprString(e.Right) + ")"
	case *BorrowExpr:
		if e.Mutable {
			return "&mut " + exprString(e.Value)
		}
		return "&" + exprString(e.Value)
	case *BinaryExpr:
		return "(" + exprString(e.Left) + " " + string(e.Operator) + " " + exprString(e.Right) + ")"
	case *RangeExpr:
		op := ".."
		if e.Inclusive {
			op = "..="
		}
		return "(" + exprString(e.Start) + " " + op + " " + exprString(e.End) + ")"
	case *CallExpr:
		return exprString(e.Callee) + "(" + joinExprs(e.Args) + ")"
	case *MethodCallExpr:
		return exprString(e.Receiver) + "." + e.Method + "(" + joinExprs(e.Args) + ")"
	case *IndexExpr:
		return exprString(e.Object) + "[" + exprString(e.Index) + "]"
	case *ArrayLiteral:
		return "[" + joinExprs(e.Elements) + "]"
	case *ArrayRepeat:
		return "[" + exprString(e.Value) + "; " + exprString(e.Count) + "]"
	default:
		return fmt.Sprintf("<%T>", expr)
	}
}

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}
