package descent

import (
	verr "github.com/recipelang/ladle/error"
)

type Node interface {
	Pos() verr.Position
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

type Program struct {
	Stmts []Stmt
}

func (p *Program) Pos() verr.Position {
	if len(p.Stmts) == 0 {
		return verr.Position{}
	}
	return p.Stmts[0].Pos()
}

type FuncDecl struct {
	Name     string
	Params   []string
	Body     *Block
	position verr.Position
}

func (s *FuncDecl) stmtNode()          {}
func (s *FuncDecl) Pos() verr.Position { return s.position }

type VarDecl struct {
	Name     string
	Value    Expr
	position verr.Position
}

func (s *VarDecl) stmtNode()          {}
func (s *VarDecl) Pos() verr.Position { return s.position }

// IfStmt has an Else of type *Block or *IfStmt, or nil.
type IfStmt struct {
	Cond     Expr
	Then     *Block
	Else     Stmt
	position verr.Position
}

func (s *IfStmt) stmtNode()          {}
func (s *IfStmt) Pos() verr.Position { return s.position }

type WhileStmt struct {
	Cond     Expr
	Body     *Block
	position verr.Position
}

func (s *WhileStmt) stmtNode()          {}
func (s *WhileStmt) Pos() verr.Position { return s.position }

// ReturnStmt has a nil Value for a bare return.
type ReturnStmt struct {
	Value    Expr
	position verr.Position
}

func (s *ReturnStmt) stmtNode()          {}
func (s *ReturnStmt) Pos() verr.Position { return s.position }

type Block struct {
	Stmts    []Stmt
	position verr.Position
}

func (s *Block) stmtNode()          {}
func (s *Block) Pos() verr.Position { return s.position }

type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) stmtNode()          {}
func (s *ExprStmt) Pos() verr.Position { return s.X.Pos() }

// AssignExpr is right-associative. Target may be any expression.
type AssignExpr struct {
	Target Expr
	Value  Expr
}

func (e *AssignExpr) exprNode()          {}
func (e *AssignExpr) Pos() verr.Position { return e.Target.Pos() }

type BinaryExpr struct {
	Op       string
	Left     Expr
	Right    Expr
	position verr.Position
}

func (e *BinaryExpr) exprNode()          {}
func (e *BinaryExpr) Pos() verr.Position { return e.position }

type UnaryExpr struct {
	Op       string
	X        Expr
	position verr.Position
}

func (e *UnaryExpr) exprNode()          {}
func (e *UnaryExpr) Pos() verr.Position { return e.position }

type CallExpr struct {
	Callee   Expr
	Args     []Expr
	position verr.Position
}

func (e *CallExpr) exprNode()          {}
func (e *CallExpr) Pos() verr.Position { return e.position }

type Ident struct {
	Name     string
	position verr.Position
}

func (e *Ident) exprNode()          {}
func (e *Ident) Pos() verr.Position { return e.position }

// NumberLit keeps the literal as written.
type NumberLit struct {
	Text     string
	position verr.Position
}

func (e *NumberLit) exprNode()          {}
func (e *NumberLit) Pos() verr.Position { return e.position }

// StringLit holds the unquoted value.
type StringLit struct {
	Value    string
	position verr.Position
}

func (e *StringLit) exprNode()          {}
func (e *StringLit) Pos() verr.Position { return e.position }

type BoolLit struct {
	Value    bool
	position verr.Position
}

func (e *BoolLit) exprNode()          {}
func (e *BoolLit) Pos() verr.Position { return e.position }

// ParenExpr keeps explicit grouping so that a printed tree shows it.
type ParenExpr struct {
	X        Expr
	position verr.Position
}

func (e *ParenExpr) exprNode()          {}
func (e *ParenExpr) Pos() verr.Position { return e.position }
