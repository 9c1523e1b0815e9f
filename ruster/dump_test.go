package ruster

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDumpTokens(t *testing.T) {
	var out bytes.Buffer
	if err := DumpTokens("fn main() {\n    ruster::writeln(\"hi\\n\");\n}", &out); err != nil {
		t.Fatalf("dump tokens: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	want := []string{
		"Loc=<1:1>\tKW_FN 'fn'",
		"Loc=<1:4>\tIDENTIFIER 'main'",
		"Loc=<1:8>\tLPAREN '('",
		"Loc=<1:9>\tRPAREN ')'",
		"Loc=<1:11>\tLCURLYBRACE '{'",
		"Loc=<2:5>\tIDENTIFIER 'ruster'",
		"Loc=<2:11>\tPATHSEP '::'",
		"Loc=<2:13>\tIDENTIFIER 'writeln'",
		"Loc=<2:20>\tLPAREN '('",
		"Loc=<2:21>\tSTRING_LITERAL '\"hi\\n\"'",
		"Loc=<2:27>\tRPAREN ')'",
		"Loc=<2:28>\tSEMI ';'",
		"Loc=<3:1>\tRCURLYBRACE '}'",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestDumpTokensStopsAtLexError(t *testing.T) {
	var out bytes.Buffer
	err := DumpTokens("let x @", &out)
	requireErrorKind(t, err, ErrorLex, "")
	if out.String() != "Loc=<1:1>\tKW_LET 'let'\nLoc=<1:5>\tIDENTIFIER 'x'\n" {
		t.Fatalf("unexpected partial dump %q", out.String())
	}
}

func TestDumpAST(t *testing.T) {
	program := parseProgram(t, `use std::mem;

fn add(mut a: i64, b: i64) -> i64 {
    a += b;
    a
}`)
	var out bytes.Buffer
	if err := DumpAST(program, &out); err != nil {
		t.Fatalf("dump ast: %v", err)
	}

	var doc struct {
		Items []struct {
			Kind    string `yaml:"kind"`
			Path    string `yaml:"path"`
			Name    string `yaml:"name"`
			Returns string `yaml:"returns"`
			Params  []struct {
				Name    string `yaml:"name"`
				Mutable bool   `yaml:"mutable"`
				Type    string `yaml:"type"`
			} `yaml:"params"`
			Body struct {
				Statements []map[string]any `yaml:"statements"`
				Tail       map[string]any   `yaml:"tail"`
			} `yaml:"body"`
		} `yaml:"items"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("dump is not valid YAML: %v\n%s", err, out.String())
	}

	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(doc.Items))
	}
	if doc.Items[0].Kind != "use" || doc.Items[0].Path != "std::mem" {
		t.Fatalf("unexpected use item %+v", doc.Items[0])
	}
	fn := doc.Items[1]
	if fn.Kind != "fn" || fn.Name != "add" || fn.Returns != "i64" {
		t.Fatalf("unexpected fn item %+v", fn)
	}
	if len(fn.Params) != 2 || !fn.Params[0].Mutable || fn.Params[1].Mutable || fn.Params[1].Type != "i64" {
		t.Fatalf("unexpected params %+v", fn.Params)
	}
	if len(fn.Body.Statements) != 1 || fn.Body.Statements[0]["kind"] != "assign" || fn.Body.Statements[0]["op"] != "+=" {
		t.Fatalf("unexpected statements %v", fn.Body.Statements)
	}
	if fn.Body.Tail["kind"] != "ident" || fn.Body.Tail["name"] != "a" {
		t.Fatalf("unexpected tail %v", fn.Body.Tail)
	}
}

func TestDumpASTExpressions(t *testing.T) {
	program := parseProgram(t, `fn main() {
    let s = &a[1..=2];
    std::mem::swap(&mut x, &mut y);
    [0; 3]
}`)
	var out bytes.Buffer
	if err := DumpAST(program, &out); err != nil {
		t.Fatalf("dump ast: %v", err)
	}
	text := out.String()
	for _, fragment := range []string{"kind: borrow", "kind: index", "kind: range", "inclusive: true", "kind: call", "path: std::mem::swap", "kind: array_repeat"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in dump:\n%s", fragment, text)
		}
	}
}
