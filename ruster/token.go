package ruster

import "strings"

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenIdent  TokenType = "IDENT"
	tokenInt    TokenType = "INT"
	tokenString TokenType = "STRING"

	tokenAssign         TokenType = "="
	tokenPlusAssign     TokenType = "+="
	tokenMinusAssign    TokenType = "-="
	tokenAsteriskAssign TokenType = "*="
	tokenSlashAssign    TokenType = "/="
	tokenPercentAssign  TokenType = "%="

	tokenPlus      TokenType = "+"
	tokenMinus     TokenType = "-"
	tokenBang      TokenType = "!"
	tokenAsterisk  TokenType = "*"
	tokenSlash     TokenType = "/"
	tokenPercent   TokenType = "%"
	tokenLT        TokenType = "<"
	tokenGT        TokenType = ">"
	tokenLTE       TokenType = "<="
	tokenGTE       TokenType = ">="
	tokenEQ        TokenType = "=="
	tokenNotEQ     TokenType = "!="
	tokenAnd       TokenType = "&&"
	tokenOr        TokenType = "||"
	tokenAmpersand TokenType = "&"

	tokenComma          TokenType = ","
	tokenColon          TokenType = ":"
	tokenPathSep        TokenType = "::"
	tokenSemicolon      TokenType = ";"
	tokenDot            TokenType = "."
	tokenRange          TokenType = ".."
	tokenRangeInclusive TokenType = "..="
	tokenArrow          TokenType = "->"
	tokenLParen         TokenType = "("
	tokenRParen         TokenType = ")"
	tokenLBrace         TokenType = "{"
	tokenRBrace         TokenType = "}"
	tokenLBracket       TokenType = "["
	tokenRBracket       TokenType = "]"

	tokenFn     TokenType = "FN"
	tokenLet    TokenType = "LET"
	tokenMut    TokenType = "MUT"
	tokenIf     TokenType = "IF"
	tokenElse   TokenType = "ELSE"
	tokenWhile  TokenType = "WHILE"
	tokenFor    TokenType = "FOR"
	tokenIn     TokenType = "IN"
	tokenReturn TokenType = "RETURN"
	tokenUse    TokenType = "USE"
	tokenTrue   TokenType = "TRUE"
	tokenFalse  TokenType = "FALSE"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a line and column in the source text, both 1-based.
type Position struct {
	Line   int
	Column int
}

var keywords = map[string]TokenType{
	"fn":     tokenFn,
	"let":    tokenLet,
	"mut":    tokenMut,
	"if":     tokenIf,
	"else":   tokenElse,
	"while":  tokenWhile,
	"for":    tokenFor,
	"in":     tokenIn,
	"return": tokenReturn,
	"use":    tokenUse,
	"true":   tokenTrue,
	"false":  tokenFalse,
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return tokenIdent
}

// tokenKindName is the symbolic name used by token dumps.
func tokenKindName(tt TokenType) string {
	switch tt {
	case tokenIdent:
		return "IDENTIFIER"
	case tokenInt:
		return "INTEGER_LITERAL"
	case tokenString:
		return "STRING_LITERAL"
	case tokenEOF:
		return "EOF"
	case tokenIllegal:
		return "ILLEGAL"
	}
	for word, kw := range keywords {
		if kw == tt {
			return "KW_" + strings.ToUpper(word)
		}
	}
	if name, ok := punctuationNames[tt]; ok {
		return name
	}
	return string(tt)
}

var punctuationNames = map[TokenType]string{
	tokenAssign:         "EQ",
	tokenPlusAssign:     "PLUSEQ",
	tokenMinusAssign:    "MINUSEQ",
	tokenAsteriskAssign: "STAREQ",
	tokenSlashAssign:    "SLASHEQ",
	tokenPercentAssign:  "PERCENTEQ",
	tokenPlus:           "PLUS",
	tokenMinus:          "MINUS",
	tokenBang:           "NOT",
	tokenAsterisk:       "STAR",
	tokenSlash:          "SLASH",
	tokenPercent:        "PERCENT",
	tokenLT:             "LT",
	tokenGT:             "GT",
	tokenLTE:            "LE",
	tokenGTE:            "GE",
	tokenEQ:             "EQEQ",
	tokenNotEQ:          "NE",
	tokenAnd:            "ANDAND",
	tokenOr:             "OROR",
	tokenAmpersand:      "AND",
	tokenComma:          "COMMA",
	tokenColon:          "COLON",
	tokenPathSep:        "PATHSEP",
	tokenSemicolon:      "SEMI",
	tokenDot:            "DOT",
	tokenRange:          "DOTDOT",
	tokenRangeInclusive: "DOTDOTEQ",
	tokenArrow:          "RARROW",
	tokenLParen:         "LPAREN",
	tokenRParen:         "RPAREN",
	tokenLBrace:         "LCURLYBRACE",
	tokenRBrace:         "RCURLYBRACE",
	tokenLBracket:       "LSQUAREBRACKET",
	tokenRBracket:       "RSQUAREBRACKET",
}
