package ruster

import (
	"errors"
	"strings"
	"testing"
)

func TestLexerTokens(t *testing.T) {
	input := `use std::mem;
fn gcd(mut a: i64, b: i64) -> Some(usize) {
    a %= b; // trailing comment
    /* block
       comment */
    for i in 0..=10 { x[i..j] }
    "a\n\"b\"" != 1_000i64 && !true || -y
}`

	tests := []struct {
		typ TokenType
		lit string
	}{
		{tokenUse, "use"},
		{tokenIdent, "std"},
		{tokenPathSep, "::"},
		{tokenIdent, "mem"},
		{tokenSemicolon, ";"},
		{tokenFn, "fn"},
		{tokenIdent, "gcd"},
		{tokenLParen, "("},
		{tokenMut, "mut"},
		{tokenIdent, "a"},
		{tokenColon, ":"},
		{tokenIdent, "i64"},
		{tokenComma, ","},
		{tokenIdent, "b"},
		{tokenColon, ":"},
		{tokenIdent, "i64"},
		{tokenRParen, ")"},
		{tokenArrow, "->"},
		{tokenIdent, "Some"},
		{tokenLParen, "("},
		{tokenIdent, "usize"},
		{tokenRParen, ")"},
		{tokenLBrace, "{"},
		{tokenIdent, "a"},
		{tokenPercentAssign, "%="},
		{tokenIdent, "b"},
		{tokenSemicolon, ";"},
		{tokenFor, "for"},
		{tokenIdent, "i"},
		{tokenIn, "in"},
		{tokenInt, "0"},
		{tokenRangeInclusive, "..="},
		{tokenInt, "10"},
		{tokenLBrace, "{"},
		{tokenIdent, "x"},
		{tokenLBracket, "["},
		{tokenIdent, "i"},
		{tokenRange, ".."},
		{tokenIdent, "j"},
		{tokenRBracket, "]"},
		{tokenRBrace, "}"},
		{tokenString, "a\n\"b\""},
		{tokenNotEQ, "!="},
		{tokenInt, "1000"},
		{tokenAnd, "&&"},
		{tokenBang, "!"},
		{tokenTrue, "true"},
		{tokenOr, "||"},
		{tokenMinus, "-"},
		{tokenIdent, "y"},
		{tokenRBrace, "}"},
		{tokenEOF, ""},
	}

	tokens, err := tokenize(input)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d", len(tests), len(tokens))
	}
	for i, tt := range tests {
		tok := tokens[i]
		if tok.Type != tt.typ {
			t.Fatalf("token %d: expected type %q, got %q (literal %q)", i, tt.typ, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.lit {
			t.Fatalf("token %d: expected literal %q, got %q", i, tt.lit, tok.Literal)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	tokens, err := tokenize("fn main() {\n  let x = 1;\n}")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	checks := map[int]Position{
		0: {Line: 1, Column: 1},
		1: {Line: 1, Column: 4},
		5: {Line: 2, Column: 3},
		6: {Line: 2, Column: 7},
		9: {Line: 2, Column: 12},
	}
	for idx, want := range checks {
		if got := tokens[idx].Pos; got != want {
			t.Fatalf("token %d (%q): expected %v, got %v", idx, tokens[idx].Literal, want, got)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
		pos   Position
	}{
		{"invalid character", "let x = 1 @ 2;", "invalid character '@'", Position{Line: 1, Column: 11}},
		{"single pipe", "a | b", "invalid character '|'", Position{Line: 1, Column: 3}},
		{"unterminated string", "let s = \"abc", "unterminated string literal", Position{Line: 1, Column: 9}},
		{"unterminated comment", "fn /* open", "unterminated block comment", Position{Line: 1, Column: 4}},
		{"bad escape", `"\q"`, "unknown character escape 'q'", Position{Line: 1, Column: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokenize(tt.input)
			if err == nil {
				t.Fatalf("expected lex error")
			}
			var lexErr *Error
			if !errors.As(err, &lexErr) || lexErr.Kind != ErrorLex {
				t.Fatalf("expected LexError, got %T %v", err, err)
			}
			if !strings.Contains(lexErr.Message, tt.msg) {
				t.Fatalf("expected message %q, got %q", tt.msg, lexErr.Message)
			}
			if lexErr.Pos != tt.pos {
				t.Fatalf("expected position %v, got %v", tt.pos, lexErr.Pos)
			}
		})
	}
}

func TestLexerIntegerSuffixes(t *testing.T) {
	tokens, err := tokenize("10i64 3usize 7u8 5x")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []string{"10", "3", "7", "5", "x"}
	for i, lit := range want {
		if tokens[i].Literal != lit {
			t.Fatalf("token %d: expected %q, got %q", i, lit, tokens[i].Literal)
		}
	}
}
