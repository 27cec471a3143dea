package ast

import (
	"github.com/paiml/bashrs-sub005/internal/source"
)

// Literal represents a plain word or string
type Literal struct {
	Value string
	source.Location
}

func (l *Literal) INode()                {} // Implements Node interface
func (l *Literal) Expr()                 {} // Expr is a marker interface for all expressions
func (l *Literal) Loc() *source.Location { return &l.Location }

// Variable represents `$name`
type Variable struct {
	Name string
	source.Location
}

func (v *Variable) INode()                {} // Implements Node interface
func (v *Variable) Expr()                 {} // Expr is a marker interface for all expressions
func (v *Variable) Loc() *source.Location { return &v.Location }

// Array represents a list of words, e.g. the items of a for loop
type Array struct {
	Items []Expression
	source.Location
}

func (a *Array) INode()                {} // Implements Node interface
func (a *Array) Expr()                 {} // Expr is a marker interface for all expressions
func (a *Array) Loc() *source.Location { return &a.Location }

// Arithmetic represents `$(( expr ))`
type Arithmetic struct {
	Arith ArithExpression
	source.Location
}

func (a *Arithmetic) INode()                {} // Implements Node interface
func (a *Arithmetic) Expr()                 {} // Expr is a marker interface for all expressions
func (a *Arithmetic) Loc() *source.Location { return &a.Location }

// Test represents `[ expr ]`
type Test struct {
	Cond TestExpression
	source.Location
}

func (t *Test) INode()                {} // Implements Node interface
func (t *Test) Expr()                 {} // Expr is a marker interface for all expressions
func (t *Test) Loc() *source.Location { return &t.Location }

// CommandSubst represents `$( command )`
type CommandSubst struct {
	Command Statement
	source.Location
}

func (c *CommandSubst) INode()                {} // Implements Node interface
func (c *CommandSubst) Expr()                 {} // Expr is a marker interface for all expressions
func (c *CommandSubst) Loc() *source.Location { return &c.Location }

// Concat represents adjacent word parts joined without separator
type Concat struct {
	Parts []Expression
	source.Location
}

func (c *Concat) INode()                {} // Implements Node interface
func (c *Concat) Expr()                 {} // Expr is a marker interface for all expressions
func (c *Concat) Loc() *source.Location { return &c.Location }

// Glob represents an unquoted pattern such as `*.txt`
type Glob struct {
	Pattern string
	source.Location
}

func (g *Glob) INode()                {} // Implements Node interface
func (g *Glob) Expr()                 {} // Expr is a marker interface for all expressions
func (g *Glob) Loc() *source.Location { return &g.Location }

// CommandCondition represents a command used as a condition (`if grep -q x f; then`)
type CommandCondition struct {
	Command Statement
	source.Location
}

func (c *CommandCondition) INode()                {} // Implements Node interface
func (c *CommandCondition) Expr()                 {} // Expr is a marker interface for all expressions
func (c *CommandCondition) Loc() *source.Location { return &c.Location }

// DefaultValue represents `${var:-default}`
type DefaultValue struct {
	Variable string
	Default  Expression
	source.Location
}

func (d *DefaultValue) INode()                {} // Implements Node interface
func (d *DefaultValue) Expr()                 {} // Expr is a marker interface for all expressions
func (d *DefaultValue) Loc() *source.Location { return &d.Location }

// AssignDefault represents `${var:=default}`
type AssignDefault struct {
	Variable string
	Default  Expression
	source.Location
}

func (a *AssignDefault) INode()                {} // Implements Node interface
func (a *AssignDefault) Expr()                 {} // Expr is a marker interface for all expressions
func (a *AssignDefault) Loc() *source.Location { return &a.Location }

// ErrorIfUnset represents `${var:?message}`
type ErrorIfUnset struct {
	Variable string
	Message  Expression
	source.Location
}

func (e *ErrorIfUnset) INode()                {} // Implements Node interface
func (e *ErrorIfUnset) Expr()                 {} // Expr is a marker interface for all expressions
func (e *ErrorIfUnset) Loc() *source.Location { return &e.Location }

// AlternativeValue represents `${var:+alternative}`
type AlternativeValue struct {
	Variable    string
	Alternative Expression
	source.Location
}

func (a *AlternativeValue) INode()                {} // Implements Node interface
func (a *AlternativeValue) Expr()                 {} // Expr is a marker interface for all expressions
func (a *AlternativeValue) Loc() *source.Location { return &a.Location }

// StringLength represents `${#var}`
type StringLength struct {
	Variable string
	source.Location
}

func (s *StringLength) INode()                {} // Implements Node interface
func (s *StringLength) Expr()                 {} // Expr is a marker interface for all expressions
func (s *StringLength) Loc() *source.Location { return &s.Location }

// RemoveSuffix represents `${var%pattern}`
type RemoveSuffix struct {
	Variable string
	Pattern  Expression
	source.Location
}

func (r *RemoveSuffix) INode()                {} // Implements Node interface
func (r *RemoveSuffix) Expr()                 {} // Expr is a marker interface for all expressions
func (r *RemoveSuffix) Loc() *source.Location { return &r.Location }

// RemovePrefix represents `${var#pattern}`
type RemovePrefix struct {
	Variable string
	Pattern  Expression
	source.Location
}

func (r *RemovePrefix) INode()                {} // Implements Node interface
func (r *RemovePrefix) Expr()                 {} // Expr is a marker interface for all expressions
func (r *RemovePrefix) Loc() *source.Location { return &r.Location }

// RemoveLongestPrefix represents `${var##pattern}`
type RemoveLongestPrefix struct {
	Variable string
	Pattern  Expression
	source.Location
}

func (r *RemoveLongestPrefix) INode()                {} // Implements Node interface
func (r *RemoveLongestPrefix) Expr()                 {} // Expr is a marker interface for all expressions
func (r *RemoveLongestPrefix) Loc() *source.Location { return &r.Location }

// RemoveLongestSuffix represents `${var%%pattern}`
type RemoveLongestSuffix struct {
	Variable string
	Pattern  Expression
	source.Location
}

func (r *RemoveLongestSuffix) INode()                {} // Implements Node interface
func (r *RemoveLongestSuffix) Expr()                 {} // Expr is a marker interface for all expressions
func (r *RemoveLongestSuffix) Loc() *source.Location { return &r.Location }
