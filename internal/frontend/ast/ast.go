package ast

import (
	"github.com/paiml/bashrs-sub005/internal/source"
)

// Node is the base interface for all AST nodes
type Node interface {
	INode()
	Loc() *source.Location
}

// Expression represents any node that produces a word or a value
type Expression interface {
	Node
	Expr()
}

// Statement represents any node that performs an action
type Statement interface {
	Node
	Stmt()
}

// TestExpression is the inside of a `[ ... ]` test.
type TestExpression interface {
	TestExpr()
}

// ArithExpression is the inside of a `$(( ... ))` expansion.
type ArithExpression interface {
	ArithExpr()
}

// Metadata carries facts about where a script came from.
// The purifier ignores Shebang: its output is always POSIX sh.
type Metadata struct {
	SourceFile string
	Shebang    string
}

// Script is a parsed shell script (pure syntax tree).
// It is built once by a front-end and only ever read afterwards.
type Script struct {
	Statements []Statement
	Metadata   Metadata

	source.Location
}

func (s *Script) INode()                {} // Implements Node interface
func (s *Script) Loc() *source.Location { return &s.Location }
