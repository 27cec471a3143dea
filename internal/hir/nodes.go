package hir

import (
	"github.com/paiml/bashrs-sub005/internal/source"
)

// Node is the base interface for all HIR nodes.
type Node interface {
	hirNode()
	Loc() *source.Location
}

// Expr represents a HIR expression node.
type Expr interface {
	Node
	hirExpr()
}

// Stmt represents a HIR statement node.
type Stmt interface {
	Node
	hirStmt()
}

// Pattern represents the left-hand side of a match arm.
type Pattern interface {
	Node
	hirPattern()
}

// Program is the root HIR node: a list of functions.
type Program struct {
	Functions []*Function
	Location  source.Location
}

func (p *Program) hirNode()              {}
func (p *Program) Loc() *source.Location { return &p.Location }

// Function is a top-level function. When Returns is set, the trailing
// expression of Body is the function's result.
type Function struct {
	Name     string
	Params   []string
	Body     *Block
	Returns  bool
	Location source.Location
}

func (f *Function) hirNode()              {}
func (f *Function) Loc() *source.Location { return &f.Location }

// Ident represents a variable reference.
type Ident struct {
	Name     string
	Location source.Location
}

func (i *Ident) hirNode()              {}
func (i *Ident) hirExpr()              {}
func (i *Ident) Loc() *source.Location { return &i.Location }

// LiteralKind defines the kinds of literal values in HIR.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralString
	LiteralBool
)

// Literal represents a basic literal. Value holds the source text
// ("42", "hello", "true").
type Literal struct {
	Kind     LiteralKind
	Value    string
	Location source.Location
}

func (l *Literal) hirNode()              {}
func (l *Literal) hirExpr()              {}
func (l *Literal) Loc() *source.Location { return &l.Location }

// BinaryOp is a binary operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var binaryOpText = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "&&", OpOr: "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// IsArithmetic reports whether op produces a number
func (op BinaryOp) IsArithmetic() bool { return op <= OpMod }

// IsComparison reports whether op compares two values
func (op BinaryOp) IsComparison() bool { return op >= OpEq && op <= OpGe }

// IsLogical reports whether op combines two booleans
func (op BinaryOp) IsLogical() bool { return op == OpAnd || op == OpOr }

// BinaryExpr represents `X op Y`.
type BinaryExpr struct {
	Op       BinaryOp
	X        Expr
	Y        Expr
	Location source.Location
}

func (b *BinaryExpr) hirNode()              {}
func (b *BinaryExpr) hirExpr()              {}
func (b *BinaryExpr) Loc() *source.Location { return &b.Location }

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	OpNot UnaryOp = iota // !
	OpNeg                // -
)

// UnaryExpr represents `op X`.
type UnaryExpr struct {
	Op       UnaryOp
	X        Expr
	Location source.Location
}

func (u *UnaryExpr) hirNode()              {}
func (u *UnaryExpr) hirExpr()              {}
func (u *UnaryExpr) Loc() *source.Location { return &u.Location }

// CallExpr represents a call of a named function or command.
type CallExpr struct {
	Func     string
	Args     []Expr
	Location source.Location
}

func (c *CallExpr) hirNode()              {}
func (c *CallExpr) hirExpr()              {}
func (c *CallExpr) Loc() *source.Location { return &c.Location }

// MatchArm is one `pattern [if guard] => body` clause.
type MatchArm struct {
	Pattern  Pattern
	Guard    Expr // nil when unguarded
	Body     Expr
	Location source.Location
}

// MatchExpr dispatches on Scrutinee; the first matching arm wins.
type MatchExpr struct {
	Scrutinee Expr
	Arms      []*MatchArm
	Location  source.Location
}

func (m *MatchExpr) hirNode()              {}
func (m *MatchExpr) hirExpr()              {}
func (m *MatchExpr) Loc() *source.Location { return &m.Location }

// IfExpr is a value-producing conditional. Else is nil, a *Block or an
// *IfExpr (else-if chain).
type IfExpr struct {
	Cond     Expr
	Then     *Block
	Else     Expr
	Location source.Location
}

func (i *IfExpr) hirNode()              {}
func (i *IfExpr) hirExpr()              {}
func (i *IfExpr) Loc() *source.Location { return &i.Location }

// Block is a sequence of statements; its value is that of the trailing
// expression statement.
type Block struct {
	Stmts    []Stmt
	Location source.Location
}

func (b *Block) hirNode()              {}
func (b *Block) hirExpr()              {}
func (b *Block) Loc() *source.Location { return &b.Location }

// Return leaves the enclosing function. It may appear as a statement or as
// a match arm body.
type Return struct {
	Value    Expr // nil for a bare return
	Location source.Location
}

func (r *Return) hirNode()              {}
func (r *Return) hirExpr()              {}
func (r *Return) hirStmt()              {}
func (r *Return) Loc() *source.Location { return &r.Location }

// LetStmt binds Name to Value.
type LetStmt struct {
	Name     string
	Value    Expr
	Location source.Location
}

func (l *LetStmt) hirNode()              {}
func (l *LetStmt) hirStmt()              {}
func (l *LetStmt) Loc() *source.Location { return &l.Location }

// AssignStmt rebinds an existing name.
type AssignStmt struct {
	Name     string
	Value    Expr
	Location source.Location
}

func (a *AssignStmt) hirNode()              {}
func (a *AssignStmt) hirStmt()              {}
func (a *AssignStmt) Loc() *source.Location { return &a.Location }

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	X        Expr
	Location source.Location
}

func (e *ExprStmt) hirNode()              {}
func (e *ExprStmt) hirStmt()              {}
func (e *ExprStmt) Loc() *source.Location { return &e.Location }

// LiteralPattern matches one literal value.
type LiteralPattern struct {
	Value    *Literal
	Location source.Location
}

func (p *LiteralPattern) hirNode()              {}
func (p *LiteralPattern) hirPattern()           {}
func (p *LiteralPattern) Loc() *source.Location { return &p.Location }

// RangePattern matches integers in Lo..Hi (Lo..=Hi when Inclusive).
type RangePattern struct {
	Lo        *Literal
	Hi        *Literal
	Inclusive bool
	Location  source.Location
}

func (p *RangePattern) hirNode()              {}
func (p *RangePattern) hirPattern()           {}
func (p *RangePattern) Loc() *source.Location { return &p.Location }

// WildcardPattern is `_`.
type WildcardPattern struct {
	Location source.Location
}

func (p *WildcardPattern) hirNode()              {}
func (p *WildcardPattern) hirPattern()           {}
func (p *WildcardPattern) Loc() *source.Location { return &p.Location }

// BindingPattern matches anything and names the scrutinee.
type BindingPattern struct {
	Name     string
	Location source.Location
}

func (p *BindingPattern) hirNode()              {}
func (p *BindingPattern) hirPattern()           {}
func (p *BindingPattern) Loc() *source.Location { return &p.Location }

// OrPattern matches when any alternative matches.
type OrPattern struct {
	Alternatives []Pattern
	Location     source.Location
}

func (p *OrPattern) hirNode()              {}
func (p *OrPattern) hirPattern()           {}
func (p *OrPattern) Loc() *source.Location { return &p.Location }
