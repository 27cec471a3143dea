package typechecker

import (
	"fmt"
	"strings"

	"github.com/paiml/bashrs-sub005/internal/diagnostics"
	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/source"
	"github.com/paiml/bashrs-sub005/internal/types"
)

// Options tune which diagnostics the checker produces
type Options struct {
	// Strict enables undeclared-variable, implicit-coercion, string-in-arithmetic
	// and call-site argument checks.
	Strict bool
	// WarningsAsErrors promotes every Warning to Error.
	WarningsAsErrors bool
}

// Checker runs gradual type checking over one script at a time.
// A Checker is not safe for concurrent use; create one per goroutine.
type Checker struct {
	opts    Options
	ctx     *TypeContext
	pending []*TypeAnnotation
	diags   []TypeDiagnostic

	reportedUndeclared map[string]bool
}

// New creates a checker with the given options
func New(opts Options) *Checker {
	return &Checker{opts: opts, ctx: NewTypeContext()}
}

// CheckAST checks a script with default options
func CheckAST(script *ast.Script) []TypeDiagnostic {
	return New(Options{}).CheckAST(script)
}

// CheckAST traverses the script top to bottom and returns every diagnostic found.
// It never fails; a fresh TypeContext is used for each call.
func (c *Checker) CheckAST(script *ast.Script) []TypeDiagnostic {
	c.ctx = NewTypeContext()
	c.pending = nil
	c.diags = nil
	c.reportedUndeclared = make(map[string]bool)

	if script != nil {
		c.checkBlock(script.Statements)
	}
	return c.diags
}

// Context exposes the type context left by the last CheckAST call
func (c *Checker) Context() *TypeContext {
	return c.ctx
}

// Pending returns the annotations nothing has claimed yet
func (c *Checker) Pending() []*TypeAnnotation {
	return c.pending
}

func (c *Checker) report(d TypeDiagnostic) {
	if d.Severity == diagnostics.Warning && c.opts.WarningsAsErrors {
		d.Severity = diagnostics.Error
	}
	c.diags = append(c.diags, d)
}

func (c *Checker) checkBlock(stmts []ast.Statement) {
	for _, stmt := range stmts {
		c.checkStmt(stmt)
	}
}

// checkStmt type checks a single statement
func (c *Checker) checkStmt(stmt ast.Statement) {
	if stmt == nil {
		return
	}

	switch s := stmt.(type) {
	case *ast.Comment:
		if ann := ParseTypeAnnotation(s.Text); ann != nil {
			c.pending = append(c.pending, ann)
		}
	case *ast.Assignment:
		c.checkAssignment(s)
	case *ast.Command:
		c.checkCommand(s)
	case *ast.Function:
		c.checkFunction(s)
	case *ast.If:
		c.visitExpr(s.Condition)
		c.checkBlock(s.Then)
		for _, elif := range s.Elifs {
			c.visitExpr(elif.Condition)
			c.checkBlock(elif.Body)
		}
		c.checkBlock(s.Else)
	case *ast.While:
		c.visitExpr(s.Condition)
		c.checkBlock(s.Body)
	case *ast.Until:
		c.visitExpr(s.Condition)
		c.checkBlock(s.Body)
	case *ast.For:
		c.visitExpr(s.Items)
		c.ctx.Declare(s.Variable)
		c.checkBlock(s.Body)
	case *ast.Select:
		c.visitExpr(s.Items)
		c.ctx.Declare(s.Variable)
		c.checkBlock(s.Body)
	case *ast.Case:
		c.visitExpr(s.Word)
		for _, arm := range s.Arms {
			c.checkBlock(arm.Body)
		}
	case *ast.Pipeline:
		for _, cmd := range s.Commands {
			c.checkStmt(cmd)
		}
	case *ast.AndList:
		c.checkStmt(s.Left)
		c.checkStmt(s.Right)
	case *ast.OrList:
		c.checkStmt(s.Left)
		c.checkStmt(s.Right)
	case *ast.BraceGroup:
		c.checkBlock(s.Body)
	case *ast.Coproc:
		c.checkBlock(s.Body)
	case *ast.Negated:
		c.checkStmt(s.Command)
	case *ast.Return:
		c.visitExpr(s.Code)
	case *ast.ForCStyle:
		c.checkBlock(s.Body)
	}
}

// takeAnnotation removes and returns the first pending plain annotation for name
func (c *Checker) takeAnnotation(name string) *TypeAnnotation {
	for i, ann := range c.pending {
		if ann.isPlain() && ann.Name == name {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return ann
		}
	}
	return nil
}

func (c *Checker) checkAssignment(a *ast.Assignment) {
	ann := c.takeAnnotation(a.Name)
	inferred := c.visitExpr(a.Value)

	if ann != nil && inferred != nil {
		if !types.IsCompatible(ann.Type, inferred) && !types.IsGradualCompatible(ann.Type, inferred) {
			c.report(TypeDiagnostic{
				Kind:     TypeMismatch,
				Severity: diagnostics.Warning,
				Message:  fmt.Sprintf("type mismatch for '%s': expected %s, found %s", a.Name, ann.Type, inferred),
				Location: a.Loc(),
				Name:     a.Name,
				Expected: ann.Type,
				Actual:   inferred,
			})
		} else if c.opts.Strict && types.IsString(ann.Type) && types.IsInteger(inferred) {
			c.report(TypeDiagnostic{
				Kind:     ImplicitCoercion,
				Severity: diagnostics.Info,
				Message:  fmt.Sprintf("integer value implicitly stored in string variable '%s'", a.Name),
				Location: a.Loc(),
				Name:     a.Name,
				Expected: ann.Type,
				Actual:   inferred,
			})
		}
	}

	switch {
	case ann != nil:
		c.ctx.SetType(a.Name, ann.Type)
	default:
		c.ctx.SetType(a.Name, inferred)
	}
}

// declarationBuiltins accept -i/-a/-A type flags
var declarationBuiltins = map[string]bool{
	"declare": true,
	"typeset": true,
	"local":   true,
}

// bindingBuiltins assign the names they are given without typing them
var bindingBuiltins = map[string]bool{
	"export":   true,
	"readonly": true,
	"read":     true,
}

func (c *Checker) checkCommand(cmd *ast.Command) {
	if declarationBuiltins[cmd.Name] {
		c.checkDeclaration(cmd)
		return
	}

	if bindingBuiltins[cmd.Name] {
		for _, arg := range cmd.Args {
			if text, ok := wordText(arg); ok && !strings.HasPrefix(text, "-") {
				name, _, _ := strings.Cut(text, "=")
				if isIdentifier(name) {
					c.ctx.Declare(name)
					continue
				}
			}
			c.visitExpr(arg)
		}
		return
	}

	argTypes := make([]types.ShellType, len(cmd.Args))
	for i, arg := range cmd.Args {
		argTypes[i] = c.visitExpr(arg)
	}
	for _, r := range cmd.Redirects {
		c.visitExpr(r.Target)
	}

	if c.opts.Strict {
		c.checkCallSite(cmd, argTypes)
	}
}

// checkDeclaration handles declare/typeset/local. Flags set a single current
// type that applies to every following name.
func (c *Checker) checkDeclaration(cmd *ast.Command) {
	var current types.ShellType

	for _, arg := range cmd.Args {
		text, ok := wordText(arg)
		if !ok {
			c.visitExpr(arg)
			continue
		}

		if strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+") {
			for _, flag := range text[1:] {
				switch flag {
				case 'i':
					current = types.TypeInteger
				case 'a':
					current = types.NewArray(types.TypeString)
				case 'A':
					current = types.NewAssocArray(types.TypeString, types.TypeString)
				}
			}
			continue
		}

		name, _, _ := strings.Cut(text, "=")
		if !isIdentifier(name) {
			continue
		}
		c.ctx.SetType(name, current)
	}
}

func (c *Checker) checkCallSite(cmd *ast.Command, argTypes []types.ShellType) {
	sig := c.ctx.LookupFunction(cmd.Name)
	if sig == nil {
		return
	}
	for i, param := range sig.Params {
		if i >= len(argTypes) {
			break
		}
		actual := argTypes[i]
		if param.Type == nil || actual == nil {
			continue
		}
		if types.IsCompatible(param.Type, actual) || types.IsGradualCompatible(param.Type, actual) {
			continue
		}
		c.report(TypeDiagnostic{
			Kind:     TypeMismatch,
			Severity: diagnostics.Warning,
			Message: fmt.Sprintf("argument %d of '%s' (%s): expected %s, found %s",
				i+1, cmd.Name, param.Name, param.Type, actual),
			Location: cmd.Args[i].Loc(),
			Name:     param.Name,
			Function: cmd.Name,
			Expected: param.Type,
			Actual:   actual,
		})
	}
}

func (c *Checker) checkFunction(fn *ast.Function) {
	var params []Param
	var returns types.ShellType
	hasReturn := false

	remaining := c.pending[:0:0]
	for _, ann := range c.pending {
		switch {
		case ann.IsParam:
			params = append(params, Param{Name: ann.Name, Type: ann.Type})
		case ann.IsReturn && !hasReturn:
			returns = ann.Type
			hasReturn = true
		default:
			remaining = append(remaining, ann)
		}
	}

	if len(params) > 0 || hasReturn {
		c.pending = remaining
		c.ctx.SetFunction(fn.Name, &FunctionSignature{Params: params, Returns: returns})
	}

	c.ctx.PushScope()
	defer c.ctx.PopScope()

	for _, p := range params {
		c.ctx.SetType(p.Name, p.Type)
	}
	c.checkBlock(fn.Body)
}

// visitExpr walks expr and then infers it. The walk checks nested commands
// in every mode; strict mode only adds the reference diagnostics.
func (c *Checker) visitExpr(expr ast.Expression) types.ShellType {
	if expr == nil {
		return nil
	}
	c.walkExpr(expr)
	return c.InferExpr(expr)
}

// specialParameters are always set by the shell
var specialParameters = map[string]bool{
	"@": true, "*": true, "#": true, "?": true, "-": true, "$": true, "!": true,
}

// wellKnownEnv are variables the environment normally provides
var wellKnownEnv = map[string]bool{
	"HOME": true, "PATH": true, "PWD": true, "OLDPWD": true, "USER": true,
	"LOGNAME": true, "SHELL": true, "IFS": true, "TERM": true, "LANG": true,
	"TMPDIR": true, "HOSTNAME": true, "UID": true, "EUID": true, "PPID": true,
	"RANDOM": true, "SECONDS": true, "LINENO": true, "BASHPID": true,
	"OPTARG": true, "OPTIND": true, "PS1": true, "PS2": true, "PS4": true,
	"REPLY": true,
}

func isAlwaysSet(name string) bool {
	if specialParameters[name] || wellKnownEnv[name] {
		return true
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return name != ""
}

func (c *Checker) checkUndeclared(name string, loc *source.Location) {
	if !c.opts.Strict || isAlwaysSet(name) || c.ctx.IsDeclared(name) || c.reportedUndeclared[name] {
		return
	}
	c.reportedUndeclared[name] = true
	c.report(TypeDiagnostic{
		Kind:     UndeclaredVariable,
		Severity: diagnostics.Info,
		Message:  fmt.Sprintf("variable '%s' is never assigned", name),
		Location: loc,
		Name:     name,
	})
}

// walkExpr walks expr for variable references and substituted commands.
// Expansions that supply their own fallback (:-, :=, :?) do not count as
// unsafe references.
func (c *Checker) walkExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Variable:
		c.checkUndeclared(e.Name, e.Loc())
	case *ast.Array:
		for _, item := range e.Items {
			c.walkExpr(item)
		}
	case *ast.Concat:
		for _, part := range e.Parts {
			c.walkExpr(part)
		}
	case *ast.Arithmetic:
		if c.opts.Strict {
			c.checkArith(e.Arith, e.Loc())
		}
	case *ast.Test:
		c.checkTestReferences(e.Cond)
	case *ast.CommandSubst:
		c.checkStmt(e.Command)
	case *ast.CommandCondition:
		c.checkStmt(e.Command)
	case *ast.DefaultValue:
		c.walkExpr(e.Default)
	case *ast.AssignDefault:
		c.walkExpr(e.Default)
		c.ctx.Declare(e.Variable)
	case *ast.ErrorIfUnset:
		c.walkExpr(e.Message)
	case *ast.AlternativeValue:
		c.walkExpr(e.Alternative)
	case *ast.StringLength:
		c.checkUndeclared(e.Variable, e.Loc())
	case *ast.RemoveSuffix:
		c.checkUndeclared(e.Variable, e.Loc())
		c.walkExpr(e.Pattern)
	case *ast.RemovePrefix:
		c.checkUndeclared(e.Variable, e.Loc())
		c.walkExpr(e.Pattern)
	case *ast.RemoveLongestPrefix:
		c.checkUndeclared(e.Variable, e.Loc())
		c.walkExpr(e.Pattern)
	case *ast.RemoveLongestSuffix:
		c.checkUndeclared(e.Variable, e.Loc())
		c.walkExpr(e.Pattern)
	}
}

func (c *Checker) checkTestReferences(test ast.TestExpression) {
	switch t := test.(type) {
	case *ast.Comparison:
		c.walkExpr(t.Left)
		c.walkExpr(t.Right)
	case *ast.FileTest:
		c.walkExpr(t.Path)
	case *ast.StringTest:
		// -z/-n exist to probe possibly-unset values
	case *ast.TestAnd:
		c.checkTestReferences(t.Left)
		c.checkTestReferences(t.Right)
	case *ast.TestOr:
		c.checkTestReferences(t.Left)
		c.checkTestReferences(t.Right)
	case *ast.TestNot:
		c.checkTestReferences(t.Inner)
	}
}

func (c *Checker) checkArith(expr ast.ArithExpression, loc *source.Location) {
	switch e := expr.(type) {
	case *ast.ArithVariable:
		if t := c.ctx.LookupType(e.Name); types.IsString(t) {
			c.report(TypeDiagnostic{
				Kind:     StringInArithmetic,
				Severity: diagnostics.Warning,
				Message:  fmt.Sprintf("string variable '%s' used in arithmetic", e.Name),
				Location: loc,
				Name:     e.Name,
				Actual:   t,
			})
		}
	case *ast.ArithBinary:
		c.checkArith(e.Left, loc)
		c.checkArith(e.Right, loc)
	}
}

// wordText returns the literal text of a word when it is statically known.
// For `name=$value` style words only the leading literal part is returned.
func wordText(expr ast.Expression) (string, bool) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, true
	case *ast.Concat:
		if len(e.Parts) > 0 {
			if lit, ok := e.Parts[0].(*ast.Literal); ok {
				return lit.Value, true
			}
		}
	}
	return "", false
}
