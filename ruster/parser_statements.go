package ruster

// parseBlock parses `{ ... }` with curToken on the opening brace and leaves
// curToken on the closing brace.
func (p *parser) parseBlock() *Block {
	block := &Block{position: p.curToken.Pos}
	p.nextToken()

	for p.curToken.Type != tokenRBrace {
		if p.curToken.Type == tokenEOF {
			p.errorExpected(p.curToken, "'}'")
			return nil
		}
		if p.curToken.Type == tokenSemicolon {
			p.nextToken()
			continue
		}
		stmt, tail := p.parseStatement()
		if p.failed() {
			return nil
		}
		if tail != nil {
			block.Tail = tail
			p.nextToken()
			if !p.expectCur(tokenRBrace) {
				return nil
			}
			return block
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	return block
}

// parseStatement parses one statement. An expression that ends the block
// without a semicolon is returned as tail instead.
func (p *parser) parseStatement() (Statement, Expression) {
	switch p.curToken.Type {
	case tokenLet:
		return p.parseLetStatement(), nil
	case tokenReturn:
		return p.parseReturnStatement(), nil
	case tokenIf:
		return p.parseIfStatement(), nil
	case tokenWhile:
		return p.parseWhileStatement(), nil
	case tokenFor:
		return p.parseForStatement(), nil
	case tokenLBrace:
		pos := p.curToken.Pos
		body := p.parseBlock()
		if body == nil {
			return nil, nil
		}
		p.skipOptionalSemicolon()
		return &BlockStmt{Body: body, position: pos}, nil
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

func (p *parser) skipOptionalSemicolon() bool {
	if p.peekToken.Type == tokenSemicolon {
		p.nextToken()
		return true
	}
	return false
}

func (p *parser) parseLetStatement() Statement {
	pos := p.curToken.Pos
	stmt := &LetStmt{position: pos}

	p.nextToken()
	if p.curToken.Type == tokenMut {
		stmt.Mutable = true
		p.nextToken()
	}
	if !p.expectCur(tokenIdent) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if p.peekToken.Type == tokenColon {
		p.nextToken()
		p.nextToken()
		stmt.Type = p.parseType()
		if p.failed() {
			return nil
		}
	}

	if !p.expectPeek(tokenAssign) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(lowestPrec)
	if p.failed() {
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return stmt
}

func (p *parser) parseReturnStatement() Statement {
	stmt := &ReturnStmt{position: p.curToken.Pos}
	if p.peekToken.Type == tokenSemicolon || p.peekToken.Type == tokenRBrace {
		p.skipOptionalSemicolon()
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(lowestPrec)
	if p.failed() {
		return nil
	}
	if !p.skipOptionalSemicolon() && p.peekToken.Type != tokenRBrace {
		p.errorExpected(p.peekToken, "';'")
		return nil
	}
	return stmt
}

func (p *parser) parseIfStatement() Statement {
	stmt := p.parseIfChain()
	if stmt == nil {
		return nil
	}
	stmt.terminated = p.skipOptionalSemicolon()
	return stmt
}

func (p *parser) parseIfChain() *IfStmt {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)
	if p.failed() || !p.expectPeek(tokenLBrace) {
		return nil
	}
	consequent := p.parseBlock()
	if p.failed() {
		return nil
	}
	stmt := &IfStmt{Condition: condition, Consequent: consequent, position: pos}

	if p.peekToken.Type != tokenElse {
		return stmt
	}
	p.nextToken()
	switch p.peekToken.Type {
	case tokenIf:
		p.nextToken()
		stmt.ElseIf = p.parseIfChain()
	case tokenLBrace:
		p.nextToken()
		stmt.Alternate = p.parseBlock()
	default:
		p.errorExpected(p.peekToken, "'{' or 'if' after 'else'")
	}
	if p.failed() {
		return nil
	}
	return stmt
}

func (p *parser) parseWhileStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)
	if p.failed() || !p.expectPeek(tokenLBrace) {
		return nil
	}
	body := p.parseBlock()
	if p.failed() {
		return nil
	}
	p.skipOptionalSemicolon()
	return &WhileStmt{Condition: condition, Body: body, position: pos}
}

func (p *parser) parseForStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	iterator := p.curToken.Literal
	if !p.expectPeek(tokenIn) {
		return nil
	}
	p.nextToken()
	iterable := p.parseExpression(lowestPrec)
	if p.failed() || !p.expectPeek(tokenLBrace) {
		return nil
	}
	body := p.parseBlock()
	if p.failed() {
		return nil
	}
	p.skipOptionalSemicolon()
	return &ForStmt{Iterator: iterator, Iterable: iterable, Body: body, position: pos}
}

var assignOperators = map[TokenType]bool{
	tokenAssign:         true,
	tokenPlusAssign:     true,
	tokenMinusAssign:    true,
	tokenAsteriskAssign: true,
	tokenSlashAssign:    true,
	tokenPercentAssign:  true,
}

func (p *parser) parseExpressionOrAssignStatement() (Statement, Expression) {
	pos := p.curToken.Pos
	expr := p.parseExpression(lowestPrec)
	if p.failed() {
		return nil, nil
	}

	if assignOperators[p.peekToken.Type] {
		if !isAssignable(expr) {
			p.addParseError(p.peekToken.Pos, "invalid left-hand side of assignment")
			return nil, nil
		}
		p.nextToken()
		operator := p.curToken.Type
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if p.failed() {
			return nil, nil
		}
		if !p.skipOptionalSemicolon() && p.peekToken.Type != tokenRBrace {
			p.errorExpected(p.peekToken, "';'")
			return nil, nil
		}
		return &AssignStmt{Target: expr, Operator: operator, Value: value, position: pos}, nil
	}

	switch {
	case p.skipOptionalSemicolon():
		return &ExprStmt{Expr: expr, position: pos}, nil
	case p.peekToken.Type == tokenRBrace:
		return nil, expr
	default:
		p.errorExpected(p.peekToken, "';'")
		return nil, nil
	}
}

func isAssignable(expr Expression) bool {
	switch e := expr.(type) {
	case *Identifier, *IndexExpr:
		return true
	case *UnaryExpr:
		return e.Operator == tokenAsterisk
	default:
		return false
	}
}
