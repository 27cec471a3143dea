package ast

import (
	"github.com/paiml/bashrs-sub005/internal/source"
)

// Command represents a simple command: name, arguments and redirections
type Command struct {
	Name      string
	Args      []Expression
	Redirects []Redirect
	source.Location
}

func (c *Command) INode()                {} // Implements Node interface
func (c *Command) Stmt()                 {} // Stmt is a marker interface for all statements
func (c *Command) Loc() *source.Location { return &c.Location }

// RedirectKind selects the redirection operator
type RedirectKind int

const (
	RedirectOut    RedirectKind = iota // >
	RedirectAppend                     // >>
	RedirectIn                         // <
	RedirectDup                        // >&
)

// Redirect is a single redirection attached to a command.
// FD is the explicit file descriptor on the left, or -1 when omitted.
type Redirect struct {
	Kind   RedirectKind
	FD     int
	Target Expression
}

// Assignment represents `name=value`, optionally exported
type Assignment struct {
	Name     string
	Value    Expression
	Exported bool
	source.Location
}

func (a *Assignment) INode()                {} // Implements Node interface
func (a *Assignment) Stmt()                 {} // Stmt is a marker interface for all statements
func (a *Assignment) Loc() *source.Location { return &a.Location }

// Comment represents a `#` comment line. Text excludes the leading `#`.
type Comment struct {
	Text string
	source.Location
}

func (c *Comment) INode()                {} // Implements Node interface
func (c *Comment) Stmt()                 {} // Stmt is a marker interface for all statements
func (c *Comment) Loc() *source.Location { return &c.Location }

// Function represents a function definition
type Function struct {
	Name string
	Body []Statement
	source.Location
}

func (f *Function) INode()                {} // Implements Node interface
func (f *Function) Stmt()                 {} // Stmt is a marker interface for all statements
func (f *Function) Loc() *source.Location { return &f.Location }

// ElifBranch is one `elif cond; then body` part of an If
type ElifBranch struct {
	Condition Expression
	Body      []Statement
}

// If represents if/elif/else
type If struct {
	Condition Expression
	Then      []Statement
	Elifs     []ElifBranch
	Else      []Statement // nil when there is no else branch
	source.Location
}

func (i *If) INode()                {} // Implements Node interface
func (i *If) Stmt()                 {} // Stmt is a marker interface for all statements
func (i *If) Loc() *source.Location { return &i.Location }

// For represents `for v in items; do body; done`
type For struct {
	Variable string
	Items    Expression
	Body     []Statement
	source.Location
}

func (f *For) INode()                {} // Implements Node interface
func (f *For) Stmt()                 {} // Stmt is a marker interface for all statements
func (f *For) Loc() *source.Location { return &f.Location }

// While represents `while cond; do body; done`
type While struct {
	Condition Expression
	Body      []Statement
	source.Location
}

func (w *While) INode()                {} // Implements Node interface
func (w *While) Stmt()                 {} // Stmt is a marker interface for all statements
func (w *While) Loc() *source.Location { return &w.Location }

// Until represents `until cond; do body; done`
type Until struct {
	Condition Expression
	Body      []Statement
	source.Location
}

func (u *Until) INode()                {} // Implements Node interface
func (u *Until) Stmt()                 {} // Stmt is a marker interface for all statements
func (u *Until) Loc() *source.Location { return &u.Location }

// Return represents `return [code]`. Code is nil for a bare return.
type Return struct {
	Code Expression
	source.Location
}

func (r *Return) INode()                {} // Implements Node interface
func (r *Return) Stmt()                 {} // Stmt is a marker interface for all statements
func (r *Return) Loc() *source.Location { return &r.Location }

// CaseArm is one `pat1|pat2) body ;;` clause
type CaseArm struct {
	Patterns []string
	Body     []Statement
}

// Case represents `case word in ... esac`
type Case struct {
	Word Expression
	Arms []CaseArm
	source.Location
}

func (c *Case) INode()                {} // Implements Node interface
func (c *Case) Stmt()                 {} // Stmt is a marker interface for all statements
func (c *Case) Loc() *source.Location { return &c.Location }

// Pipeline represents `a | b | c`
type Pipeline struct {
	Commands []Statement
	source.Location
}

func (p *Pipeline) INode()                {} // Implements Node interface
func (p *Pipeline) Stmt()                 {} // Stmt is a marker interface for all statements
func (p *Pipeline) Loc() *source.Location { return &p.Location }

// AndList represents `left && right`
type AndList struct {
	Left  Statement
	Right Statement
	source.Location
}

func (a *AndList) INode()                {} // Implements Node interface
func (a *AndList) Stmt()                 {} // Stmt is a marker interface for all statements
func (a *AndList) Loc() *source.Location { return &a.Location }

// OrList represents `left || right`
type OrList struct {
	Left  Statement
	Right Statement
	source.Location
}

func (o *OrList) INode()                {} // Implements Node interface
func (o *OrList) Stmt()                 {} // Stmt is a marker interface for all statements
func (o *OrList) Loc() *source.Location { return &o.Location }

// BraceGroup represents `{ body; }`, or `( body )` when Subshell is set
type BraceGroup struct {
	Body     []Statement
	Subshell bool
	source.Location
}

func (b *BraceGroup) INode()                {} // Implements Node interface
func (b *BraceGroup) Stmt()                 {} // Stmt is a marker interface for all statements
func (b *BraceGroup) Loc() *source.Location { return &b.Location }

// Coproc represents bash `coproc [NAME] { body; }`
type Coproc struct {
	Name string // empty when unnamed
	Body []Statement
	source.Location
}

func (c *Coproc) INode()                {} // Implements Node interface
func (c *Coproc) Stmt()                 {} // Stmt is a marker interface for all statements
func (c *Coproc) Loc() *source.Location { return &c.Location }

// Select represents bash `select v in items; do body; done`
type Select struct {
	Variable string
	Items    Expression
	Body     []Statement
	source.Location
}

func (s *Select) INode()                {} // Implements Node interface
func (s *Select) Stmt()                 {} // Stmt is a marker interface for all statements
func (s *Select) Loc() *source.Location { return &s.Location }

// Negated represents `! command`
type Negated struct {
	Command Statement
	source.Location
}

func (n *Negated) INode()                {} // Implements Node interface
func (n *Negated) Stmt()                 {} // Stmt is a marker interface for all statements
func (n *Negated) Loc() *source.Location { return &n.Location }

// ForCStyle represents bash `for ((init; cond; incr)); do body; done`.
// The three header parts are raw arithmetic text.
type ForCStyle struct {
	Init      string
	Condition string
	Increment string
	Body      []Statement
	source.Location
}

func (f *ForCStyle) INode()                {} // Implements Node interface
func (f *ForCStyle) Stmt()                 {} // Stmt is a marker interface for all statements
func (f *ForCStyle) Loc() *source.Location { return &f.Location }
