package parser

import "github.com/echo-lang/echo/compiler/lexer"

// SourceLocation represents a location in source code
type SourceLocation struct {
	Line   int
	Column int
}

// TokenToLocation converts a token to a SourceLocation
func TokenToLocation(token lexer.Token) SourceLocation {
	return SourceLocation{
		Line:   token.Line,
		Column: token.Column,
	}
}

// StmtNode is the interface for all statement AST nodes
type StmtNode interface {
	stmtNode()
	GetLocation() SourceLocation
}

// ExprNode is the interface for all expression AST nodes
type ExprNode interface {
	exprNode()
	GetLocation() SourceLocation
}

// Program is the root node of the AST
type Program struct {
	Statements []StmtNode
	Location   SourceLocation
}

// GetLocation returns the program's anchor position
func (p *Program) GetLocation() SourceLocation { return p.Location }

// DeclStmt represents a variable declaration: one data type keyword followed
// by one or more declaration items
type DeclStmt struct {
	DataType ValueType
	Items    []*DeclItem
	Location SourceLocation
}

func (s *DeclStmt) stmtNode()                   {}
func (s *DeclStmt) GetLocation() SourceLocation { return s.Location }

// DeclItem is one declared name with an optional initializer or array-size
// clause. ArraySize, when present, holds a numeric literal.
type DeclItem struct {
	Name      string
	Value     ExprNode
	ArraySize ExprNode
	Location  SourceLocation
}

// AssignStmt represents an assignment, optionally through an index:
// ident op expr, or ident[index] op expr
type AssignStmt struct {
	Name     string
	Index    ExprNode
	Operator lexer.TokenType
	Value    ExprNode
	Location SourceLocation
}

func (s *AssignStmt) stmtNode()                   {}
func (s *AssignStmt) GetLocation() SourceLocation { return s.Location }

// InputStmt represents ident = input(data_type [, prompt])
type InputStmt struct {
	Name     string
	DataType ValueType
	Prompt   ExprNode
	Location SourceLocation
}

func (s *InputStmt) stmtNode()                   {}
func (s *InputStmt) GetLocation() SourceLocation { return s.Location }

// OutputStmt represents echo expr
type OutputStmt struct {
	Value    ExprNode
	Location SourceLocation
}

func (s *OutputStmt) stmtNode()                   {}
func (s *OutputStmt) GetLocation() SourceLocation { return s.Location }

// ElseIfClause is one "else if" arm of a conditional
type ElseIfClause struct {
	Condition ExprNode
	Body      []StmtNode
	Location  SourceLocation
}

// IfStmt represents if ... {else if ...} [else ...] end if
type IfStmt struct {
	Condition ExprNode
	ThenBody  []StmtNode
	ElseIfs   []*ElseIfClause
	ElseBody  []StmtNode
	Location  SourceLocation
}

func (s *IfStmt) stmtNode()                   {}
func (s *IfStmt) GetLocation() SourceLocation { return s.Location }

// CaseClause is one case arm of a switch; Value is parsed at the primary
// level (a literal, identifier, composite string, list, or parenthesized
// expression), never a full operator expression
type CaseClause struct {
	Value    ExprNode
	Body     []StmtNode
	Location SourceLocation
}

// SwitchStmt represents switch expr {case ...} [default ...] end switch
type SwitchStmt struct {
	Value       ExprNode
	Cases       []*CaseClause
	DefaultBody []StmtNode
	Location    SourceLocation
}

func (s *SwitchStmt) stmtNode()                   {}
func (s *SwitchStmt) GetLocation() SourceLocation { return s.Location }

// ForStmt represents for ident = start to end [by step] ... end for.
// The iterator is declared as an initialized number for the body.
type ForStmt struct {
	Iterator string
	Start    ExprNode
	End      ExprNode
	Step     ExprNode
	Body     []StmtNode
	Location SourceLocation
}

func (s *ForStmt) stmtNode()                   {}
func (s *ForStmt) GetLocation() SourceLocation { return s.Location }

// WhileStmt represents while expr ... end while
type WhileStmt struct {
	Condition ExprNode
	Body      []StmtNode
	Location  SourceLocation
}

func (s *WhileStmt) stmtNode()                   {}
func (s *WhileStmt) GetLocation() SourceLocation { return s.Location }

// DoWhileStmt represents do ... while expr end do
type DoWhileStmt struct {
	Body      []StmtNode
	Condition ExprNode
	Location  SourceLocation
}

func (s *DoWhileStmt) stmtNode()                   {}
func (s *DoWhileStmt) GetLocation() SourceLocation { return s.Location }

// Param is one function parameter: a data type and a name
type Param struct {
	DataType ValueType
	Name     string
	Location SourceLocation
}

// FunctionDef represents a function definition
type FunctionDef struct {
	Name          string
	ReturnType    ValueType
	HasReturnType bool
	Parameters    []*Param
	Body          []StmtNode
	Location      SourceLocation
}

func (s *FunctionDef) stmtNode()                   {}
func (s *FunctionDef) GetLocation() SourceLocation { return s.Location }

// FieldDef is one field of a data struct: either "type ident [= expr]" or a
// schema binding "ident : type [(bound_ident)]"
type FieldDef struct {
	Name          string
	DataType      ValueType
	Default       ExprNode
	SchemaBinding bool
	BoundFunction string
	Location      SourceLocation
}

// DataStructDef represents data struct ident { fields }
type DataStructDef struct {
	Name     string
	Fields   []*FieldDef
	Location SourceLocation
}

func (s *DataStructDef) stmtNode()                   {}
func (s *DataStructDef) GetLocation() SourceLocation { return s.Location }

// ReturnStmt represents return [expr]
type ReturnStmt struct {
	Value    ExprNode
	Location SourceLocation
}

func (s *ReturnStmt) stmtNode()                   {}
func (s *ReturnStmt) GetLocation() SourceLocation { return s.Location }

// BreakStmt represents break
type BreakStmt struct {
	Location SourceLocation
}

func (s *BreakStmt) stmtNode()                   {}
func (s *BreakStmt) GetLocation() SourceLocation { return s.Location }

// ContinueStmt represents continue
type ContinueStmt struct {
	Location SourceLocation
}

func (s *ContinueStmt) stmtNode()                   {}
func (s *ContinueStmt) GetLocation() SourceLocation { return s.Location }

// ExprStmt represents an expression in statement position (a call or
// built-in call)
type ExprStmt struct {
	Expr     ExprNode
	Location SourceLocation
}

func (s *ExprStmt) stmtNode()                   {}
func (s *ExprStmt) GetLocation() SourceLocation { return s.Location }
