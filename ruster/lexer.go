package ruster

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch  rune
	eof bool

	err *Error
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

// tokenize lexes the whole input. Lexing stops at the first error.
func tokenize(input string) ([]Token, error) {
	l := newLexer(input)
	tokens := make([]Token, 0, len(input)/3+1)
	for {
		tok := l.NextToken()
		if l.err != nil {
			return tokens, l.err
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		if !l.eof {
			l.advancePosition()
			l.eof = true
		}
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.advancePosition()
	l.ch = r
}

func (l *lexer) advancePosition() {
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) peekRuneN(n int) rune {
	idx := l.offset
	for i := 0; ; i++ {
		if idx >= len(l.input) {
			return 0
		}
		r, w := utf8.DecodeRuneInString(l.input[idx:])
		if i == n {
			return r
		}
		idx += w
	}
}

func (l *lexer) atEOF() bool {
	return l.eof
}

func (l *lexer) NextToken() Token {
	l.skipWhitespaceAndComments()
	if l.err != nil {
		return Token{Type: tokenIllegal, Pos: l.pos()}
	}

	tok := Token{Pos: l.pos()}

	if l.atEOF() {
		tok.Type = tokenEOF
		return tok
	}

	switch l.ch {
	case '+':
		tok = l.withAssign(tokenPlus, tokenPlusAssign)
	case '-':
		if l.peekRune() == '>' {
			tok = l.twoRune(tokenArrow)
		} else {
			tok = l.withAssign(tokenMinus, tokenMinusAssign)
		}
	case '*':
		tok = l.withAssign(tokenAsterisk, tokenAsteriskAssign)
	case '/':
		tok = l.withAssign(tokenSlash, tokenSlashAssign)
	case '%':
		tok = l.withAssign(tokenPercent, tokenPercentAssign)
	case '=':
		tok = l.withAssign(tokenAssign, tokenEQ)
	case '!':
		tok = l.withAssign(tokenBang, tokenNotEQ)
	case '<':
		tok = l.withAssign(tokenLT, tokenLTE)
	case '>':
		tok = l.withAssign(tokenGT, tokenGTE)
	case '&':
		if l.peekRune() == '&' {
			tok = l.twoRune(tokenAnd)
		} else {
			tok = l.oneRune(tokenAmpersand)
		}
	case '|':
		if l.peekRune() != '|' {
			return l.fail(tok.Pos, "invalid character '|'")
		}
		tok = l.twoRune(tokenOr)
	case ':':
		if l.peekRune() == ':' {
			tok = l.twoRune(tokenPathSep)
		} else {
			tok = l.oneRune(tokenColon)
		}
	case '.':
		switch {
		case l.peekRune() == '.' && l.peekRuneN(1) == '=':
			tok = l.makeToken(tokenRangeInclusive, "..=")
			l.readRune()
			l.readRune()
			l.readRune()
		case l.peekRune() == '.':
			tok = l.twoRune(tokenRange)
		default:
			tok = l.oneRune(tokenDot)
		}
	case ',':
		tok = l.oneRune(tokenComma)
	case ';':
		tok = l.oneRune(tokenSemicolon)
	case '(':
		tok = l.oneRune(tokenLParen)
	case ')':
		tok = l.oneRune(tokenRParen)
	case '{':
		tok = l.oneRune(tokenLBrace)
	case '}':
		tok = l.oneRune(tokenRBrace)
	case '[':
		tok = l.oneRune(tokenLBracket)
	case ']':
		tok = l.oneRune(tokenRBracket)
	case '"':
		literal, ok := l.readString(tok.Pos)
		if !ok {
			return Token{Type: tokenIllegal, Pos: tok.Pos}
		}
		tok.Type = tokenString
		tok.Literal = literal
	default:
		switch {
		case isIdentifierStart(l.ch):
			literal := l.readIdentifier()
			tok.Type = lookupIdent(literal)
			tok.Literal = literal
		case isDigit(l.ch):
			tok.Type = tokenInt
			tok.Literal = l.readNumber()
		default:
			return l.fail(tok.Pos, fmt.Sprintf("invalid character %q", l.ch))
		}
	}

	return tok
}

func (l *lexer) pos() Position {
	return Position{Line: l.line, Column: l.column}
}

func (l *lexer) makeToken(tt TokenType, literal string) Token {
	return Token{Type: tt, Literal: literal, Pos: l.pos()}
}

func (l *lexer) oneRune(tt TokenType) Token {
	tok := l.makeToken(tt, string(l.ch))
	l.readRune()
	return tok
}

func (l *lexer) twoRune(tt TokenType) Token {
	tok := l.makeToken(tt, string(tt))
	l.readRune()
	l.readRune()
	return tok
}

// withAssign lexes a single-rune operator, or its two-rune form when the
// next rune is '='.
func (l *lexer) withAssign(single, withEq TokenType) Token {
	if l.peekRune() == '=' {
		return l.twoRune(withEq)
	}
	return l.oneRune(single)
}

func (l *lexer) fail(pos Position, msg string) Token {
	if l.err == nil {
		l.err = newSourceError(ErrorLex, msg, pos, l.input)
	}
	return Token{Type: tokenIllegal, Pos: pos}
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readRune()
		case l.ch == '/' && l.peekRune() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readRune()
			}
		case l.ch == '/' && l.peekRune() == '*':
			start := l.pos()
			l.readRune()
			l.readRune()
			for !(l.ch == '*' && l.peekRune() == '/') {
				if l.atEOF() {
					l.fail(start, "unterminated block comment")
					return
				}
				l.readRune()
			}
			l.readRune()
			l.readRune()
		default:
			return
		}
	}
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

// readNumber reads a decimal literal. Underscore separators and a trailing
// integer type suffix (10i64, 3usize) are accepted and dropped.
func (l *lexer) readNumber() string {
	var sb strings.Builder
	sb.WriteRune(l.ch)
	for {
		r := l.peekRune()
		switch {
		case isDigit(r):
			l.readRune()
			sb.WriteRune(r)
		case r == '_' && isDigit(l.ch) && isDigit(l.peekRuneN(1)):
			l.readRune()
		default:
			l.readRune()
			if suffix := l.integerSuffix(); suffix > 0 {
				for range suffix {
					l.readRune()
				}
			}
			return sb.String()
		}
	}
}

func (l *lexer) integerSuffix() int {
	if !isIdentifierStart(l.ch) {
		return 0
	}
	start := l.currentOffset()
	end := start
	for end < len(l.input) {
		r, w := utf8.DecodeRuneInString(l.input[end:])
		if !isIdentifierRune(r) {
			break
		}
		end += w
	}
	switch l.input[start:end] {
	case "i8", "i16", "i32", "i64", "isize", "u8", "u16", "u32", "u64", "usize":
		return end - start
	}
	return 0
}

func (l *lexer) readString(start Position) (string, bool) {
	var sb strings.Builder

	for {
		l.readRune()
		if l.atEOF() {
			l.fail(start, "unterminated string literal")
			return "", false
		}
		switch l.ch {
		case '"':
			l.readRune()
			return sb.String(), true
		case '\\':
			l.readRune()
			switch l.ch {
			case '"', '\\', '\'':
				sb.WriteRune(l.ch)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			default:
				if l.atEOF() {
					l.fail(start, "unterminated string literal")
					return "", false
				}
				l.fail(l.pos(), fmt.Sprintf("unknown character escape %q", l.ch))
				return "", false
			}
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
