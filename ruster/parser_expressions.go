package ruster

import (
	"math"
	"strconv"
)

const (
	lowestPrec = iota
	precRange
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
	precPrefix
	precCall
)

var precedences = map[TokenType]int{
	tokenRange:          precRange,
	tokenRangeInclusive: precRange,
	tokenOr:             precOr,
	tokenAnd:            precAnd,
	tokenEQ:             precEquality,
	tokenNotEQ:          precEquality,
	tokenLT:             precComparison,
	tokenLTE:            precComparison,
	tokenGT:             precComparison,
	tokenGTE:            precComparison,
	tokenPlus:           precSum,
	tokenMinus:          precSum,
	tokenSlash:          precProduct,
	tokenAsterisk:       precProduct,
	tokenPercent:        precProduct,
	tokenLParen:         precCall,
	tokenDot:            precCall,
	tokenLBracket:       precCall,
}

func (p *parser) parseExpression(precedence int) Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}

	left := prefix()
	if p.failed() {
		return nil
	}

	for p.peekToken.Type != tokenEOF && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if p.failed() {
			return nil
		}
	}

	return left
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

// parseIdentifierOrPath handles plain names, a::b::c paths and the
// Some(e)/None constructors.
func (p *parser) parseIdentifierOrPath() Expression {
	pos := p.curToken.Pos
	name := p.curToken.Literal

	if p.peekToken.Type == tokenPathSep {
		segments := []string{name}
		for p.peekToken.Type == tokenPathSep {
			p.nextToken()
			if !p.expectPeek(tokenIdent) {
				return nil
			}
			segments = append(segments, p.curToken.Literal)
		}
		return &PathExpr{Segments: segments, position: pos}
	}

	switch name {
	case "Some":
		if !p.expectPeek(tokenLParen) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if p.failed() || !p.expectPeek(tokenRParen) {
			return nil
		}
		return &SomeExpr{Value: value, position: pos}
	case "None":
		return &NoneExpr{position: pos}
	}
	return &Identifier{Name: name, position: pos}
}

func (p *parser) parseIntegerLiteral() Expression {
	negated := p.negatedLiteral
	p.negatedLiteral = false
	limit := uint64(math.MaxInt64)
	if negated {
		limit = 1 << 63
	}
	value, err := strconv.ParseUint(p.curToken.Literal, 10, 64)
	if err != nil || value > limit {
		p.addParseError(p.curToken.Pos, "integer literal is too large")
		return nil
	}
	return &IntegerLiteral{Value: int64(value), position: p.curToken.Pos}
}

func (p *parser) parseStringLiteral() Expression {
	return &StringLiteral{Value: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseBooleanLiteral() Expression {
	return &BoolLiteral{Value: p.curToken.Type == tokenTrue, position: p.curToken.Pos}
}

func (p *parser) parseGroupedExpression() Expression {
	p.nextToken()
	expr := p.parseExpression(lowestPrec)
	if p.failed() || !p.expectPeek(tokenRParen) {
		return nil
	}
	return expr
}

// parseArrayLiteral handles [a, b, c], [] and [value; count].
func (p *parser) parseArrayLiteral() Expression {
	pos := p.curToken.Pos
	elements := []Expression{}

	if p.peekToken.Type == tokenRBracket {
		p.nextToken()
		return &ArrayLiteral{Elements: elements, position: pos}
	}

	p.nextToken()
	first := p.parseExpression(lowestPrec)
	if p.failed() {
		return nil
	}
	if p.peekToken.Type == tokenSemicolon {
		p.nextToken()
		p.nextToken()
		count := p.parseExpression(lowestPrec)
		if p.failed() || !p.expectPeek(tokenRBracket) {
			return nil
		}
		return &ArrayRepeat{Value: first, Count: count, position: pos}
	}
	elements = append(elements, first)

	for p.peekToken.Type == tokenComma {
		p.nextToken()
		if p.peekToken.Type == tokenRBracket {
			break
		}
		p.nextToken()
		elements = append(elements, p.parseExpression(lowestPrec))
		if p.failed() {
			return nil
		}
	}

	if !p.expectPeek(tokenRBracket) {
		return nil
	}
	return &ArrayLiteral{Elements: elements, position: pos}
}

func (p *parser) parsePrefixExpression() Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	p.nextToken()
	// -9223372036854775808 is the only spelling of i64::MIN as a literal.
	p.negatedLiteral = operator == tokenMinus && p.curToken.Type == tokenInt
	right := p.parseExpression(precPrefix)
	if p.failed() {
		return nil
	}
	return &UnaryExpr{Operator: operator, Right: right, position: pos}
}

func (p *parser) parseBorrowExpression() Expression {
	pos := p.curToken.Pos
	mutable := false
	if p.peekToken.Type == tokenMut {
		p.nextToken()
		mutable = true
	}
	p.nextToken()
	value := p.parseExpression(precPrefix)
	if p.failed() {
		return nil
	}
	return &BorrowExpr{Mutable: mutable, Value: value, position: pos}
}

func (p *parser) parseInfixExpression(left Expression) Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if p.failed() {
		return nil
	}
	return &BinaryExpr{Left: left, Operator: operator, Right: right, position: pos}
}

// startsExpression reports whether tt can begin an operand, which decides
// whether a range has an upper bound (a..b) or is open (a..).
func (p *parser) startsExpression(tt TokenType) bool {
	_, ok := p.prefixFns[tt]
	return ok
}

func (p *parser) parseRangeExpression(left Expression) Expression {
	pos := p.curToken.Pos
	expr := &RangeExpr{Start: left, Inclusive: p.curToken.Type == tokenRangeInclusive, position: pos}
	if !p.startsExpression(p.peekToken.Type) || p.peekToken.Type == tokenLBrace {
		if expr.Inclusive {
			p.errorExpected(p.peekToken, "upper bound of inclusive range")
			return nil
		}
		return expr
	}
	p.nextToken()
	expr.End = p.parseExpression(precRange)
	if p.failed() {
		return nil
	}
	if p.peekToken.Type == tokenRange || p.peekToken.Type == tokenRangeInclusive {
		p.addParseError(p.peekToken.Pos, "range operators cannot be chained")
		return nil
	}
	return expr
}

func (p *parser) parsePrefixRange() Expression {
	pos := p.curToken.Pos
	expr := &RangeExpr{Inclusive: p.curToken.Type == tokenRangeInclusive, position: pos}
	if !p.startsExpression(p.peekToken.Type) {
		if expr.Inclusive {
			p.errorExpected(p.peekToken, "upper bound of inclusive range")
			return nil
		}
		return expr
	}
	p.nextToken()
	expr.End = p.parseExpression(precRange)
	if p.failed() {
		return nil
	}
	return expr
}

func (p *parser) parseCallArguments() []Expression {
	args := []Expression{}
	if p.peekToken.Type == tokenRParen {
		p.nextToken()
		return args
	}

	p.nextToken()
	args = append(args, p.parseExpression(lowestPrec))
	for !p.failed() && p.peekToken.Type == tokenComma {
		p.nextToken()
		if p.peekToken.Type == tokenRParen {
			break
		}
		p.nextToken()
		args = append(args, p.parseExpression(lowestPrec))
	}
	if p.failed() || !p.expectPeek(tokenRParen) {
		return nil
	}
	return args
}

func (p *parser) parseCallExpression(callee Expression) Expression {
	pos := callee.Pos()
	args := p.parseCallArguments()
	if p.failed() {
		return nil
	}
	return &CallExpr{Callee: callee, Args: args, position: pos}
}

func (p *parser) parseMethodCallExpression(receiver Expression) Expression {
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	pos := p.curToken.Pos
	method := p.curToken.Literal
	if p.peekToken.Type != tokenLParen {
		p.addParseError(pos, "field access is not supported; expected a method call `"+method+"(...)`")
		return nil
	}
	p.nextToken()
	args := p.parseCallArguments()
	if p.failed() {
		return nil
	}
	return &MethodCallExpr{Receiver: receiver, Method: method, Args: args, position: pos}
}

func (p *parser) parseIndexExpression(object Expression) Expression {
	pos := p.curToken.Pos
	p.nextToken()
	index := p.parseExpression(lowestPrec)
	if p.failed() || !p.expectPeek(tokenRBracket) {
		return nil
	}
	return &IndexExpr{Object: object, Index: index, position: pos}
}
