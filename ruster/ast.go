package ruster

type Node interface {
	Pos() Position
}

type Item interface {
	Node
	itemNode()
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Program is one parsed source file: its top-level items in order.
type Program struct {
	Items []Item
}

func (p *Program) Pos() Position {
	if len(p.Items) == 0 {
		return Position{}
	}
	return p.Items[0].Pos()
}

// UseDecl imports a path so its last segment can be used as a prefix
// (use std::mem;) or as a bare name (use ruster::writeln;).
type UseDecl struct {
	Path     []string
	position Position
}

func (d *UseDecl) itemNode()     {}
func (d *UseDecl) Pos() Position { return d.position }

type FunctionDecl struct {
	Name     string
	Params   []Param
	ReturnTy *TypeExpr
	Body     *Block
	position Position
}

func (d *FunctionDecl) itemNode()     {}
func (d *FunctionDecl) Pos() Position { return d.position }

type Param struct {
	Name     string
	Mutable  bool
	Type     *TypeExpr
	position Position
}

func (p Param) Pos() Position { return p.position }

// Block is a braced statement list. Tail holds a final expression written
// without a terminating semicolon; it becomes the block's value.
type Block struct {
	Statements []Statement
	Tail       Expression
	position   Position
}

func (b *Block) Pos() Position { return b.position }

// valueIf returns the trailing if statement whose value a tail-less block
// yields, or nil.
func (b *Block) valueIf() *IfStmt {
	if b == nil || b.Tail != nil || len(b.Statements) == 0 {
		return nil
	}
	stmt, ok := b.Statements[len(b.Statements)-1].(*IfStmt)
	if !ok || stmt.terminated || !stmt.hasElse() {
		return nil
	}
	return stmt
}

type Identifier struct {
	Name     string
	position Position

	// set by the resolver when the name denotes a function item
	function *FunctionDecl
}

func (e *Identifier) exprNode()     {}
func (e *Identifier) Pos() Position { return e.position }

// PathExpr is a qualified name such as std::mem::swap or ruster::writeln.
type PathExpr struct {
	Segments []string
	position Position
}

func (e *PathExpr) exprNode()     {}
func (e *PathExpr) Pos() Position { return e.position }

type IntegerLiteral struct {
	Value    int64
	position Position
}

func (e *IntegerLiteral) exprNode()     {}
func (e *IntegerLiteral) Pos() Position { return e.position }

type StringLiteral struct {
	Value    string
	position Position
}

func (e *StringLiteral) exprNode()     {}
func (e *StringLiteral) Pos() Position { return e.position }

type BoolLiteral struct {
	Value    bool
	position Position
}

func (e *BoolLiteral) exprNode()     {}
func (e *BoolLiteral) Pos() Position { return e.position }

type ArrayLiteral struct {
	Elements []Expression
	position Position
}

func (e *ArrayLiteral) exprNode()     {}
func (e *ArrayLiteral) Pos() Position { return e.position }

// ArrayRepeat is [value; count].
type ArrayRepeat struct {
	Value    Expression
	Count    Expression
	position Position
}

func (e *ArrayRepeat) exprNode()     {}
func (e *ArrayRepeat) Pos() Position { return e.position }

type SomeExpr struct {
	Value    Expression
	position Position
}

func (e *SomeExpr) exprNode()     {}
func (e *SomeExpr) Pos() Position { return e.position }

type NoneExpr struct {
	position Position
}

func (e *NoneExpr) exprNode()     {}
func (e *NoneExpr) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator TokenType
	Right    Expression
	position Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.position }

// BorrowExpr is &value or &mut value.
type BorrowExpr struct {
	Mutable  bool
	Value    Expression
	position Position
}

func (e *BorrowExpr) exprNode()     {}
func (e *BorrowExpr) Pos() Position { return e.position }

type BinaryExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }

// RangeExpr is start..end, or start..=end when Inclusive is set.
type RangeExpr struct {
	Start     Expression
	End       Expression
	Inclusive bool
	position  Position
}

func (e *RangeExpr) exprNode()     {}
func (e *RangeExpr) Pos() Position { return e.position }

type CallExpr struct {
	Callee   Expression
	Args     []Expression
	position Position

	// set by the resolver
	target callTarget
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }

// callTarget is what a call's callee resolved to: exactly one of
// function or builtin is set.
type callTarget struct {
	function *FunctionDecl
	builtin  *builtinSpec
}

type MethodCallExpr struct {
	Receiver Expression
	Method   string
	Args     []Expression
	position Position
}

func (e *MethodCallExpr) exprNode()     {}
func (e *MethodCallExpr) Pos() Position { return e.position }

// IndexExpr is object[index]; a *RangeExpr index selects a sub-slice.
type IndexExpr struct {
	Object   Expression
	Index    Expression
	position Position
}

func (e *IndexExpr) exprNode()     {}
func (e *IndexExpr) Pos() Position { return e.position }
