package ruster

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DumpTokens writes one line per token of source in the form
//
//	Loc=<line:col>	KIND 'text'
//
// When lexing fails the tokens read so far are written before the error is
// returned.
func DumpTokens(source string, w io.Writer) error {
	tokens, lexErr := tokenize(source)
	for _, tok := range tokens {
		if tok.Type == tokenEOF {
			break
		}
		if _, err := io.WriteString(w, formatToken(tok)); err != nil {
			return err
		}
	}
	return lexErr
}

func formatToken(tok Token) string {
	text := tok.Literal
	if tok.Type == tokenString {
		text = strconv.Quote(text)
	}
	return fmt.Sprintf("Loc=<%d:%d>\t%s '%s'\n", tok.Pos.Line, tok.Pos.Column, tokenKindName(tok.Type), text)
}

// DumpAST writes program as a YAML document.
func DumpAST(program *Program, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(astNode(program)); err != nil {
		return fmt.Errorf("ruster: dump ast: %w", err)
	}
	return enc.Close()
}

// yamlMap builds a mapping node from alternating key/value pairs. Nil
// values are skipped.
func yamlMap(pairs ...any) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(pairs); i += 2 {
		key := pairs[i].(string)
		val := yamlValue(pairs[i+1])
		if val == nil {
			continue
		}
		node.Content = append(node.Content, yamlScalar(key), val)
	}
	return node
}

func yamlValue(v any) *yaml.Node {
	switch v := v.(type) {
	case nil:
		return nil
	case *yaml.Node:
		return v
	case string:
		return yamlScalar(v)
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
	case []*yaml.Node:
		return &yaml.Node{Kind: yaml.SequenceNode, Content: v}
	default:
		return yamlScalar(fmt.Sprint(v))
	}
}

func yamlScalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func yamlPos(pos Position) string {
	return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
}

func astNode(program *Program) *yaml.Node {
	items := make([]*yaml.Node, 0, len(program.Items))
	for _, item := range program.Items {
		items = append(items, itemNode(item))
	}
	return yamlMap("items", items)
}

func itemNode(item Item) *yaml.Node {
	switch it := item.(type) {
	case *UseDecl:
		return yamlMap("kind", "use", "pos", yamlPos(it.Pos()), "path", joinPath(it.Path))
	case *FunctionDecl:
		params := make([]*yaml.Node, 0, len(it.Params))
		for _, p := range it.Params {
			var mutable any
			if p.Mutable {
				mutable = true
			}
			params = append(params, yamlMap("name", p.Name, "mutable", mutable, "type", p.Type.String()))
		}
		var ret any
		if it.ReturnTy != nil {
			ret = it.ReturnTy.String()
		}
		return yamlMap(
			"kind", "fn",
			"pos", yamlPos(it.Pos()),
			"name", it.Name,
			"params", params,
			"returns", ret,
			"body", blockNode(it.Body),
		)
	default:
		return yamlMap("kind", fmt.Sprintf("%T", item))
	}
}

func blockNode(b *Block) *yaml.Node {
	if b == nil {
		return nil
	}
	stmts := make([]*yaml.Node, 0, len(b.Statements))
	for _, s := range b.Statements {
		stmts = append(stmts, stmtNode(s))
	}
	var tail any
	if b.Tail != nil {
		tail = exprNode(b.Tail)
	}
	return yamlMap("statements", stmts, "tail", tail)
}

func stmtNode(stmt Statement) *yaml.Node {
	switch s := stmt.(type) {
	case *LetStmt:
		var mutable, ty, value any
		if s.Mutable {
			mutable = true
		}
		if s.Type != nil {
			ty = s.Type.String()
		}
		if s.Value != nil {
			value = exprNode(s.Value)
		}
		return yamlMap("kind", "let", "pos", yamlPos(s.Pos()), "name", s.Name, "mutable", mutable, "type", ty, "value", value)
	case *AssignStmt:
		return yamlMap("kind", "assign", "pos", yamlPos(s.Pos()), "op", string(s.Operator), "target", exprNode(s.Target), "value", exprNode(s.Value))
	case *ExprStmt:
		return yamlMap("kind", "expr", "pos", yamlPos(s.Pos()), "expr", exprNode(s.Expr))
	case *ReturnStmt:
		var value any
		if s.Value != nil {
			value = exprNode(s.Value)
		}
		return yamlMap("kind", "return", "pos", yamlPos(s.Pos()), "value", value)
	case *IfStmt:
		return ifNode(s)
	case *WhileStmt:
		return yamlMap("kind", "while", "pos", yamlPos(s.Pos()), "condition", exprNode(s.Condition), "body", blockNode(s.Body))
	case *ForStmt:
		return yamlMap("kind", "for", "pos", yamlPos(s.Pos()), "iterator", s.Iterator, "iterable", exprNode(s.Iterable), "body", blockNode(s.Body))
	case *BlockStmt:
		return yamlMap("kind", "block", "pos", yamlPos(s.Pos()), "body", blockNode(s.Body))
	default:
		return yamlMap("kind", fmt.Sprintf("%T", stmt))
	}
}

func ifNode(s *IfStmt) *yaml.Node {
	var elseNode any
	switch {
	case s.ElseIf != nil:
		elseNode = ifNode(s.ElseIf)
	case s.Alternate != nil:
		elseNode = blockNode(s.Alternate)
	}
	return yamlMap("kind", "if", "pos", yamlPos(s.Pos()), "condition", exprNode(s.Condition), "then", blockNode(s.Consequent), "else", elseNode)
}

func exprList(exprs []Expression) []*yaml.Node {
	out := make([]*yaml.Node, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, exprNode(e))
	}
	return out
}

func exprNode(expr Expression) *yaml.Node {
	switch e := expr.(type) {
	case *Identifier:
		return yamlMap("kind", "ident", "name", e.Name)
	case *PathExpr:
		return yamlMap("kind", "path", "path", joinPath(e.Segments))
	case *IntegerLiteral:
		return yamlMap("kind", "int", "value", e.Value)
	case *StringLiteral:
		return yamlMap("kind", "string", "value", e.Value)
	case *BoolLiteral:
		return yamlMap("kind", "bool", "value", e.Value)
	case *ArrayLiteral:
		return yamlMap("kind", "array", "elements", exprList(e.Elements))
	case *ArrayRepeat:
		return yamlMap("kind", "array_repeat", "value", exprNode(e.Value), "count", exprNode(e.Count))
	case *SomeExpr:
		return yamlMap("kind", "some", "value", exprNode(e.Value))
	case *NoneExpr:
		return yamlMap("kind", "none")
	case *UnaryExpr:
		return yamlMap("kind", "unary", "op", string(e.Operator), "operand", exprNode(e.Right))
	case *BorrowExpr:
		var mutable any
		if e.Mutable {
			mutable = true
		}
		return yamlMap("kind", "borrow", "mutable", mutable, "value", exprNode(e.Value))
	case *BinaryExpr:
		return yamlMap("kind", "binary", "op", string(e.Operator), "left", exprNode(e.Left), "right", exprNode(e.Right))
	case *RangeExpr:
		var start, end, inclusive any
		if e.Start != nil {
			start = exprNode(e.Start)
		}
		if e.End != nil {
			end = exprNode(e.End)
		}
		if e.Inclusive {
			inclusive = true
		}
		return yamlMap("kind", "range", "start", start, "end", end, "inclusive", inclusive)
	case *CallExpr:
		return yamlMap("kind", "call", "pos", yamlPos(e.Pos()), "callee", exprNode(e.Callee), "args", exprList(e.Args))
	case *MethodCallExpr:
		return yamlMap("kind", "method_call", "pos", yamlPos(e.Pos()), "receiver", exprNode(e.Receiver), "method", e.Method, "args", exprList(e.Args))
	case *IndexExpr:
		return yamlMap("kind", "index", "object", exprNode(e.Object), "index", exprNode(e.Index))
	case nil:
		return yamlMap("kind", "unit")
	default:
		return yamlMap("kind", fmt.Sprintf("%T", expr))
	}
}
