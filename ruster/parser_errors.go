package ruster

import "fmt"

func (p *parser) errorExpected(tok Token, expected string) {
	p.addParseError(tok.Pos, fmt.Sprintf("expected %s, found %s", expected, describeToken(tok)))
}

func (p *parser) errorUnexpected(tok Token) {
	p.addParseError(tok.Pos, fmt.Sprintf("unexpected token %s", describeToken(tok)))
}

func (p *parser) addParseError(pos Position, msg string) {
	if p.err != nil {
		return
	}
	p.err = newSourceError(ErrorParse, msg, pos, p.source)
}

func describeToken(tok Token) string {
	switch tok.Type {
	case tokenIdent:
		return fmt.Sprintf("identifier `%s`", tok.Literal)
	case tokenInt:
		return fmt.Sprintf("integer `%s`", tok.Literal)
	case tokenString:
		return fmt.Sprintf("string %q", tok.Literal)
	default:
		return tokenLabel(tok.Type)
	}
}

func tokenLabel(tt TokenType) string {
	switch tt {
	case tokenIllegal:
		return "invalid token"
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenInt:
		return "integer"
	case tokenString:
		return "string"
	}
	for word, kw := range keywords {
		if kw == tt {
			return "'" + word + "'"
		}
	}
	return "'" + string(tt) + "'"
}
