package ruster

import (
	"errors"
	"strings"
	"testing"
)

func parseProgram(t *testing.T, source string) *Program {
	t.Helper()
	program, err := parseSource(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return program
}

func parseFunctionBody(t *testing.T, body string) *Block {
	t.Helper()
	program := parseProgram(t, "fn main() {\n"+body+"\n}")
	fn, ok := program.Items[0].(*FunctionDecl)
	if !ok {
		t.Fatalf("expected function, got %T", program.Items[0])
	}
	return fn.Body
}

func tailExpr(t *testing.T, expr string) Expression {
	t.Helper()
	body := parseFunctionBody(t, expr)
	if body.Tail == nil {
		t.Fatalf("expected tail expression for %q", expr)
	}
	return body.Tail
}

func TestParseItems(t *testing.T) {
	program := parseProgram(t, `use std::mem;
use ruster::writeln;

fn find(s: &String, mut n: usize, buf: &mut [u8; 4]) -> Some(usize) {
    return None;
}

fn unit() {}
`)
	if len(program.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(program.Items))
	}

	use, ok := program.Items[0].(*UseDecl)
	if !ok || joinPath(use.Path) != "std::mem" {
		t.Fatalf("unexpected first item %#v", program.Items[0])
	}

	fn := program.Items[2].(*FunctionDecl)
	if fn.Name != "find" || len(fn.Params) != 3 {
		t.Fatalf("unexpected function %s with %d params", fn.Name, len(fn.Params))
	}
	wantParams := []struct {
		name    string
		mutable bool
		ty      string
	}{
		{"s", false, "&String"},
		{"n", true, "usize"},
		{"buf", false, "&mut [u8; 4]"},
	}
	for i, want := range wantParams {
		got := fn.Params[i]
		if got.Name != want.name || got.Mutable != want.mutable || got.Type.String() != want.ty {
			t.Fatalf("param %d: expected %+v, got %s mut=%v %s", i, want, got.Name, got.Mutable, got.Type)
		}
	}
	if fn.ReturnTy.String() != "Some(usize)" {
		t.Fatalf("unexpected return type %s", fn.ReturnTy)
	}

	unit := program.Items[3].(*FunctionDecl)
	if unit.ReturnTy != nil || len(unit.Body.Statements) != 0 || unit.Body.Tail != nil {
		t.Fatalf("expected empty unit function")
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"a || b && c", "(a || (b && c))"},
		{"-a * b", "((-a) * b)"},
		{"!x == y", "((!x) == y)"},
		{"0..=len(a) - len(b)", "(0 ..= (len(a) - len(b)))"},
		{"a[i..i + n] == b", "(a[(i .. (i + n))] == b)"},
		{"s.as_bytes().len()", "s.as_bytes().len()"},
		{"std::mem::swap(&mut a, &mut b)", "std::mem::swap(&mut a, &mut b)"},
		{"Some(x + 1)", "Some((x + 1))"},
		{"*r + 1", "((*r) + 1)"},
		{"[0; n + 1]", "[0; (n + 1)]"},
		{"f(1, 2,)[0]", "f(1, 2)[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := exprString(tailExpr(t, tt.input))
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	body := parseFunctionBody(t, `let mut x: i64 = 1;
let y = x;
x += 2;
a[0] = 3;
*r = 4;
while x > 0 { x -= 1; }
for i in 0..10 { writeln(i); }
if x == 1 { return; } else if x == 2 { return; } else { x = 0; }
{ let z = 1; }
x`)

	kinds := []string{"*ruster.LetStmt", "*ruster.LetStmt", "*ruster.AssignStmt", "*ruster.AssignStmt", "*ruster.AssignStmt", "*ruster.WhileStmt", "*ruster.ForStmt", "*ruster.IfStmt", "*ruster.BlockStmt"}
	if len(body.Statements) != len(kinds) {
		t.Fatalf("expected %d statements, got %d", len(kinds), len(body.Statements))
	}
	for i, kind := range kinds {
		if got := typeName(body.Statements[i]); got != kind {
			t.Fatalf("statement %d: expected %s, got %s", i, kind, got)
		}
	}

	let := body.Statements[0].(*LetStmt)
	if !let.Mutable || let.Name != "x" || let.Type.String() != "i64" {
		t.Fatalf("unexpected let %+v", let)
	}
	if op := body.Statements[2].(*AssignStmt).Operator; op != tokenPlusAssign {
		t.Fatalf("expected += operator, got %s", op)
	}
	ifStmt := body.Statements[7].(*IfStmt)
	if ifStmt.ElseIf == nil || ifStmt.ElseIf.Alternate == nil {
		t.Fatalf("expected else-if chain with final else")
	}
	if id, ok := body.Tail.(*Identifier); !ok || id.Name != "x" {
		t.Fatalf("expected tail identifier x, got %#v", body.Tail)
	}
}

func TestParseReturnWithoutSemicolon(t *testing.T) {
	body := parseFunctionBody(t, `if n <= 2 {
    return 1
}
return n - 1`)
	if len(body.Statements) != 2 || body.Tail != nil {
		t.Fatalf("expected two statements and no tail, got %d and %v", len(body.Statements), body.Tail)
	}
	ret := body.Statements[1].(*ReturnStmt)
	if exprString(ret.Value) != "(n - 1)" {
		t.Fatalf("unexpected return value %s", exprString(ret.Value))
	}
}

func TestParseBlockValueIf(t *testing.T) {
	body := parseFunctionBody(t, `if a { 1 } else { 2 }`)
	if body.valueIf() == nil {
		t.Fatalf("expected trailing if/else to provide the block value")
	}

	body = parseFunctionBody(t, `if a { 1 } else { 2 };`)
	if body.valueIf() != nil {
		t.Fatalf("terminated if must not provide the block value")
	}

	body = parseFunctionBody(t, `if a { f(); }`)
	if body.valueIf() != nil {
		t.Fatalf("if without else must not provide the block value")
	}
}

func TestParseOpenRanges(t *testing.T) {
	tests := []struct {
		input    string
		hasStart bool
		hasEnd   bool
	}{
		{"a[1..]", true, false},
		{"a[..2]", false, true},
		{"a[..]", false, false},
		{"a[..=2]", false, true},
	}
	for _, tt := range tests {
		idx, ok := tailExpr(t, tt.input).(*IndexExpr)
		if !ok {
			t.Fatalf("%s: expected index expression", tt.input)
		}
		rng, ok := idx.Index.(*RangeExpr)
		if !ok {
			t.Fatalf("%s: expected range index", tt.input)
		}
		if (rng.Start != nil) != tt.hasStart || (rng.End != nil) != tt.hasEnd {
			t.Fatalf("%s: unexpected bounds start=%v end=%v", tt.input, rng.Start, rng.End)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		msg    string
	}{
		{"missing semicolon", "fn main() { let x = 1 let y = 2; }", "expected ';', found 'let'"},
		{"mut after colon", "fn f(a: mut i64) {}", "`mut` must precede the binding name"},
		{"let mut after colon", "fn f() { let a: mut i64 = 1; }", "`mut` must precede the binding name"},
		{"top level statement", "let x = 1;", "expected item ('fn' or 'use'), found 'let'"},
		{"unclosed block", "fn main() { let x = 1;", "expected '}', found end of input"},
		{"field access", "fn main() { a.b }", "field access is not supported"},
		{"chained range", "fn main() { 1..2..3 }", "range operators cannot be chained"},
		{"open inclusive", "fn main() { a[1..=] }", "upper bound of inclusive range"},
		{"literal too large", "fn main() { 99999999999999999999 }", "integer literal is too large"},
		{"i64 min without minus", "fn main() { ruster::writeln_i64(9223372036854775808); }", "integer literal is too large"},
		{"i64 min in parens", "fn main() { -(9223372036854775808) }", "integer literal is too large"},
		{"i64 min after binary minus", "fn main() { 0 - 9223372036854775808 }", "integer literal is too large"},
		{"bad assignment target", "fn main() { f() = 1; }", "invalid left-hand side of assignment"},
		{"else without block", "fn main() { if a { } else 1 }", "expected '{' or 'if' after 'else'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSource(tt.source)
			if err == nil {
				t.Fatalf("expected parse error")
			}
			var perr *Error
			if !errors.As(err, &perr) || perr.Kind != ErrorParse {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if !strings.Contains(perr.Message, tt.msg) {
				t.Fatalf("expected message containing %q, got %q", tt.msg, perr.Message)
			}
			if perr.Pos.Line == 0 {
				t.Fatalf("expected a source position")
			}
			if perr.CodeFrame == "" {
				t.Fatalf("expected a code frame")
			}
		})
	}
}

func TestParseIntegerBoundary(t *testing.T) {
	neg, ok := tailExpr(t, "-9223372036854775808").(*UnaryExpr)
	if !ok {
		t.Fatalf("expected unary minus")
	}
	lit := neg.Right.(*IntegerLiteral)
	if lit.Value != -9223372036854775808 {
		t.Fatalf("unexpected literal value %d", lit.Value)
	}

	top, ok := tailExpr(t, "9223372036854775807").(*IntegerLiteral)
	if !ok || top.Value != 9223372036854775807 {
		t.Fatalf("expected i64 max literal, got %#v", top)
	}
}
