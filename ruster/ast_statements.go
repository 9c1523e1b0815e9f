package ruster

type LetStmt struct {
	Name     string
	Mutable  bool
	Type     *TypeExpr
	Value    Expression
	position Position
}

func (s *LetStmt) stmtNode()     {}
func (s *LetStmt) Pos() Position { return s.position }

// AssignStmt covers = and the compound forms; Operator is the assignment
// token (tokenAssign, tokenPlusAssign, ...).
type AssignStmt struct {
	Target   Expression
	Operator TokenType
	Value    Expression
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

type ReturnStmt struct {
	Value    Expression
	position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.position }

// IfStmt is if/else; "else if" chains through ElseIf.
type IfStmt struct {
	Condition  Expression
	Consequent *Block
	ElseIf     *IfStmt
	Alternate  *Block
	position   Position

	terminated bool
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

func (s *IfStmt) hasElse() bool {
	if s.ElseIf != nil {
		return s.ElseIf.hasElse()
	}
	return s.Alternate != nil
}

type WhileStmt struct {
	Condition Expression
	Body      *Block
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

type ForStmt struct {
	Iterator string
	Iterable Expression
	Body     *Block
	position Position
}

func (s *ForStmt) stmtNode()     {}
func (s *ForStmt) Pos() Position { return s.position }

// BlockStmt is a bare nested { ... } block.
type BlockStmt struct {
	Body     *Block
	position Position
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) Pos() Position { return s.position }
