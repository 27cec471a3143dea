package hir

// Small constructors used by front-ends and tests.

// Int returns an integer literal.
func Int(value string) *Literal { return &Literal{Kind: LiteralInt, Value: value} }

// Str returns a string literal.
func Str(value string) *Literal { return &Literal{Kind: LiteralString, Value: value} }

// Bool returns a boolean literal.
func Bool(value bool) *Literal {
	if value {
		return &Literal{Kind: LiteralBool, Value: "true"}
	}
	return &Literal{Kind: LiteralBool, Value: "false"}
}

// Name returns an identifier reference.
func Name(name string) *Ident { return &Ident{Name: name} }

// Arm returns an unguarded match arm.
func Arm(pattern Pattern, body Expr) *MatchArm {
	return &MatchArm{Pattern: pattern, Body: body}
}

// Lit returns a pattern matching literal.
func Lit(literal *Literal) *LiteralPattern { return &LiteralPattern{Value: literal} }

// Range returns an inclusive range pattern over integer bounds.
func Range(lo, hi string) *RangePattern {
	return &RangePattern{Lo: Int(lo), Hi: Int(hi), Inclusive: true}
}

// Wildcard returns `_`.
func Wildcard() *WildcardPattern { return &WildcardPattern{} }

// Body returns a block of statements.
func Body(stmts ...Stmt) *Block { return &Block{Stmts: stmts} }

// Eval wraps an expression as a statement.
func Eval(x Expr) *ExprStmt { return &ExprStmt{X: x} }
