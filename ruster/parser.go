package ruster

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

type parser struct {
	source string
	tokens []Token
	index  int

	curToken  Token
	peekToken Token

	err *Error

	// set while parsing the operand of a unary minus
	negatedLiteral bool

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

func newParser(tokens []Token, source string) *parser {
	p := &parser{tokens: tokens, source: source}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseIdentifierOrPath)
	p.registerPrefix(tokenInt, p.parseIntegerLiteral)
	p.registerPrefix(tokenString, p.parseStringLiteral)
	p.registerPrefix(tokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(tokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(tokenLParen, p.parseGroupedExpression)
	p.registerPrefix(tokenLBracket, p.parseArrayLiteral)
	p.registerPrefix(tokenBang, p.parsePrefixExpression)
	p.registerPrefix(tokenMinus, p.parsePrefixExpression)
	p.registerPrefix(tokenAsterisk, p.parsePrefixExpression)
	p.registerPrefix(tokenAmpersand, p.parseBorrowExpression)
	p.registerPrefix(tokenRange, p.parsePrefixRange)
	p.registerPrefix(tokenRangeInclusive, p.parsePrefixRange)

	for _, tt := range []TokenType{
		tokenPlus, tokenMinus, tokenAsterisk, tokenSlash, tokenPercent,
		tokenEQ, tokenNotEQ, tokenLT, tokenLTE, tokenGT, tokenGTE,
		tokenAnd, tokenOr,
	} {
		p.infixFns[tt] = p.parseInfixExpression
	}
	p.infixFns[tokenRange] = p.parseRangeExpression
	p.infixFns[tokenRangeInclusive] = p.parseRangeExpression
	p.infixFns[tokenLParen] = p.parseCallExpression
	p.infixFns[tokenDot] = p.parseMethodCallExpression
	p.infixFns[tokenLBracket] = p.parseIndexExpression

	p.nextToken()
	p.nextToken()

	return p
}

// Parse lexes and parses source without resolving it.
func Parse(source string) (*Program, error) {
	return parseSource(source)
}

// parseSource lexes and parses source, returning the first error found.
func parseSource(source string) (*Program, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	return newParser(tokens, source).ParseProgram()
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	if p.index < len(p.tokens) {
		p.peekToken = p.tokens[p.index]
		p.index++
		return
	}
	p.peekToken = Token{Type: tokenEOF, Pos: p.curToken.Pos}
}

func (p *parser) failed() bool {
	return p.err != nil
}

func (p *parser) ParseProgram() (*Program, error) {
	program := &Program{}

	for p.curToken.Type != tokenEOF && !p.failed() {
		item := p.parseItem()
		if item != nil {
			program.Items = append(program.Items, item)
		}
		p.nextToken()
	}

	if p.failed() {
		return nil, p.err
	}
	return program, nil
}

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, tokenLabel(tt))
	return false
}

func (p *parser) expectCur(tt TokenType) bool {
	if p.curToken.Type == tt {
		return true
	}
	p.errorExpected(p.curToken, tokenLabel(tt))
	return false
}
