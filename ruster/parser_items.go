package ruster

func (p *parser) parseItem() Item {
	switch p.curToken.Type {
	case tokenFn:
		return p.parseFunction()
	case tokenUse:
		return p.parseUse()
	default:
		p.errorExpected(p.curToken, "item ('fn' or 'use')")
		return nil
	}
}

func (p *parser) parseUse() Item {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	path := []string{p.curToken.Literal}
	for p.peekToken.Type == tokenPathSep {
		p.nextToken()
		if !p.expectPeek(tokenIdent) {
			return nil
		}
		path = append(path, p.curToken.Literal)
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &UseDecl{Path: path, position: pos}
}

func (p *parser) parseFunction() Item {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(tokenLParen) {
		return nil
	}
	params := p.parseParams()
	if p.failed() {
		return nil
	}

	var returnTy *TypeExpr
	if p.peekToken.Type == tokenArrow {
		p.nextToken()
		p.nextToken()
		returnTy = p.parseReturnType()
		if p.failed() {
			return nil
		}
	}

	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	body := p.parseBlock()
	if p.failed() {
		return nil
	}

	return &FunctionDecl{Name: name, Params: params, ReturnTy: returnTy, Body: body, position: pos}
}

// parseParams parses a parenthesised parameter list. The canonical
// mutability form is `mut name: T`; `name: mut T` is rejected.
func (p *parser) parseParams() []Param {
	params := []Param{}
	if p.peekToken.Type == tokenRParen {
		p.nextToken()
		return params
	}

	for {
		p.nextToken()
		param := Param{position: p.curToken.Pos}
		if p.curToken.Type == tokenMut {
			param.Mutable = true
			p.nextToken()
		}
		if !p.expectCur(tokenIdent) {
			return nil
		}
		param.Name = p.curToken.Literal
		if !p.expectPeek(tokenColon) {
			return nil
		}
		p.nextToken()
		if p.curToken.Type == tokenMut {
			p.addParseError(p.curToken.Pos, "`mut` must precede the binding name (write `mut "+param.Name+": T`)")
			return nil
		}
		param.Type = p.parseType()
		if p.failed() {
			return nil
		}
		params = append(params, param)

		if p.peekToken.Type == tokenComma {
			p.nextToken()
			if p.peekToken.Type == tokenRParen {
				p.nextToken()
				return params
			}
			continue
		}
		if !p.expectPeek(tokenRParen) {
			return nil
		}
		return params
	}
}
