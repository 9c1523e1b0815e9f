package ruster

import "strconv"

// parseReturnType parses a type after `->`, where Some(T) and None are
// accepted as Option pseudo-types.
func (p *parser) parseReturnType() *TypeExpr {
	if p.curToken.Type == tokenIdent {
		switch p.curToken.Literal {
		case "Some":
			pos := p.curToken.Pos
			if !p.expectPeek(tokenLParen) {
				return nil
			}
			p.nextToken()
			elem := p.parseType()
			if p.failed() || !p.expectPeek(tokenRParen) {
				return nil
			}
			return &TypeExpr{Kind: TypeOption, Elem: elem, position: pos}
		case "None":
			return &TypeExpr{Kind: TypeOption, position: p.curToken.Pos}
		}
	}
	return p.parseType()
}

func (p *parser) parseType() *TypeExpr {
	pos := p.curToken.Pos
	switch p.curToken.Type {
	case tokenAmpersand:
		ty := &TypeExpr{Kind: TypeRef, position: pos}
		if p.peekToken.Type == tokenMut {
			p.nextToken()
			ty.Mutable = true
		}
		p.nextToken()
		ty.Elem = p.parseType()
		if p.failed() {
			return nil
		}
		return ty
	case tokenLBracket:
		p.nextToken()
		elem := p.parseType()
		if p.failed() {
			return nil
		}
		if p.peekToken.Type == tokenSemicolon {
			p.nextToken()
			if !p.expectPeek(tokenInt) {
				return nil
			}
			n, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
			if err != nil {
				p.addParseError(p.curToken.Pos, "invalid array length")
				return nil
			}
			if !p.expectPeek(tokenRBracket) {
				return nil
			}
			return &TypeExpr{Kind: TypeArray, Elem: elem, Len: n, position: pos}
		}
		if !p.expectPeek(tokenRBracket) {
			return nil
		}
		return &TypeExpr{Kind: TypeSlice, Elem: elem, position: pos}
	case tokenLParen:
		if !p.expectPeek(tokenRParen) {
			return nil
		}
		return &TypeExpr{Kind: TypeUnit, position: pos}
	case tokenIdent:
		name := p.curToken.Literal
		if name == "Option" && p.peekToken.Type == tokenLT {
			p.nextToken()
			p.nextToken()
			elem := p.parseType()
			if p.failed() || !p.expectPeek(tokenGT) {
				return nil
			}
			return &TypeExpr{Kind: TypeOption, Elem: elem, position: pos}
		}
		return &TypeExpr{Kind: TypeNamed, Name: name, position: pos}
	case tokenMut:
		p.addParseError(pos, "`mut` must precede the binding name")
		return nil
	default:
		p.errorExpected(p.curToken, "type")
		return nil
	}
}
