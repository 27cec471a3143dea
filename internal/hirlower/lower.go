package hirlower

import (
	"strconv"

	"github.com/paiml/bashrs-sub005/internal/codegen/purify"
	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/hir"
)

// contextKind is the syntactic position a match or if occupies.
type contextKind int

const (
	stmtContext   contextKind = iota // executed for effect
	letContext                       // every leaf assigns to target
	returnContext                    // every leaf returns
)

type lowerContext struct {
	kind   contextKind
	target string
}

// bodyKind classifies a match arm or branch body.
type bodyKind int

const (
	bodyEmpty bodyKind = iota
	bodySingleExpr
	bodyReturn
	bodyNestedMatch
	bodyNestedIf
	bodyMultiStatement
)

// Lowerer compiles value-producing match/if constructs into shell control
// flow. Statements are built as shell AST and rendered by the purifier, so
// lowered code and purified scripts share one set of renderers.
type Lowerer struct {
	gen        *purify.Generator
	tmpCounter int
	aliases    map[string]string // binding pattern name -> scrutinee variable
}

// New creates a new lowerer.
func New(opts purify.Options) *Lowerer {
	return &Lowerer{
		gen:     purify.New(opts),
		aliases: make(map[string]string),
	}
}

// LowerLet lowers `let name = value`.
func (l *Lowerer) LowerLet(stmt *hir.LetStmt) (string, error) {
	return l.render(l.lowerStmt(stmt))
}

// LowerReturn lowers `return expr`; every leaf becomes a `return`.
func (l *Lowerer) LowerReturn(expr hir.Expr) (string, error) {
	return l.render(l.lowerBody(expr, lowerContext{kind: returnContext}))
}

// LowerStmt lowers any statement.
func (l *Lowerer) LowerStmt(stmt hir.Stmt) (string, error) {
	return l.render(l.lowerStmt(stmt))
}

// LowerFunction lowers a function definition.
func (l *Lowerer) LowerFunction(fn *hir.Function) (string, error) {
	def, err := l.lowerFunction(fn)
	if err != nil {
		return "", err
	}
	return l.gen.RenderStatements([]ast.Statement{def}, 0), nil
}

// LowerProgram lowers every function into one POSIX script and calls
// `main "$@"` when a main function exists.
func (l *Lowerer) LowerProgram(prog *hir.Program) (string, error) {
	script := &ast.Script{}
	hasMain := false
	for _, fn := range prog.Functions {
		def, err := l.lowerFunction(fn)
		if err != nil {
			return "", err
		}
		script.Statements = append(script.Statements, def)
		if fn.Name == "main" {
			hasMain = true
		}
	}
	if hasMain {
		script.Statements = append(script.Statements, &ast.Command{
			Name: "main",
			Args: []ast.Expression{&ast.Variable{Name: "@"}},
		})
	}
	return l.gen.Generate(script), nil
}

func (l *Lowerer) render(stmts []ast.Statement, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return l.gen.RenderStatements(stmts, 0), nil
}

func (l *Lowerer) lowerFunction(fn *hir.Function) (*ast.Function, error) {
	def := &ast.Function{Name: fn.Name}
	for i, param := range fn.Params {
		def.Body = append(def.Body, &ast.Assignment{
			Name:  param,
			Value: &ast.Variable{Name: positional(i + 1)},
		})
	}

	ctx := lowerContext{kind: stmtContext}
	if fn.Returns {
		ctx.kind = returnContext
	}
	var body hir.Expr
	if fn.Body != nil {
		body = fn.Body
	}
	stmts, err := l.lowerBody(body, ctx)
	if err != nil {
		return nil, err
	}
	def.Body = append(def.Body, stmts...)
	return def, nil
}

// positional returns the parameter name for argument n; ${10} needs braces
func positional(n int) string {
	if n < 10 {
		return strconv.Itoa(n)
	}
	return "{" + strconv.Itoa(n) + "}"
}

func (l *Lowerer) lowerStmt(stmt hir.Stmt) ([]ast.Statement, error) {
	switch s := stmt.(type) {
	case *hir.LetStmt:
		return l.lowerBody(s.Value, lowerContext{kind: letContext, target: s.Name})
	case *hir.AssignStmt:
		return l.lowerBody(s.Value, lowerContext{kind: letContext, target: s.Name})
	case *hir.ExprStmt:
		return l.lowerBody(s.X, lowerContext{kind: stmtContext})
	case *hir.Return:
		if s.Value == nil {
			return []ast.Statement{&ast.Return{}}, nil
		}
		return l.lowerBody(s.Value, lowerContext{kind: returnContext})
	case nil:
		return nil, nil
	}
	return nil, newError(UnsupportedExpr, stmt.Loc(), "unsupported statement %T", stmt)
}

// classify decides how a body is lowered
func classify(body hir.Expr) bodyKind {
	switch b := body.(type) {
	case nil:
		return bodyEmpty
	case *hir.Block:
		switch len(b.Stmts) {
		case 0:
			return bodyEmpty
		case 1:
			if _, ok := b.Stmts[0].(*hir.Return); ok {
				return bodyReturn
			}
		}
		return bodyMultiStatement
	case *hir.Return:
		return bodyReturn
	case *hir.MatchExpr:
		return bodyNestedMatch
	case *hir.IfExpr:
		return bodyNestedIf
	}
	return bodySingleExpr
}

// lowerBody lowers a body under ctx with the six-way classification
func (l *Lowerer) lowerBody(body hir.Expr, ctx lowerContext) ([]ast.Statement, error) {
	body = unwrap(body)
	switch classify(body) {
	case bodyEmpty:
		return nil, nil
	case bodyReturn:
		ret := returnOf(body)
		if ret.Value == nil {
			return []ast.Statement{&ast.Return{}}, nil
		}
		return l.lowerBody(ret.Value, lowerContext{kind: returnContext})
	case bodyNestedMatch:
		return l.lowerMatch(body.(*hir.MatchExpr), ctx)
	case bodyNestedIf:
		return l.lowerIf(body.(*hir.IfExpr), ctx)
	case bodyMultiStatement:
		block := body.(*hir.Block)
		var out []ast.Statement
		for _, stmt := range block.Stmts[:len(block.Stmts)-1] {
			stmts, err := l.lowerStmt(stmt)
			if err != nil {
				return nil, err
			}
			out = append(out, stmts...)
		}
		tail, err := l.lowerTail(block.Stmts[len(block.Stmts)-1], ctx)
		if err != nil {
			return nil, err
		}
		return append(out, tail...), nil
	default:
		return l.lowerLeaf(body, ctx)
	}
}

// unwrap strips blocks holding a single expression statement
func unwrap(body hir.Expr) hir.Expr {
	for {
		block, ok := body.(*hir.Block)
		if !ok || len(block.Stmts) != 1 {
			return body
		}
		es, ok := block.Stmts[0].(*hir.ExprStmt)
		if !ok {
			return body
		}
		body = es.X
	}
}

// lowerTail lowers the last statement of a block, which carries its value
func (l *Lowerer) lowerTail(stmt hir.Stmt, ctx lowerContext) ([]ast.Statement, error) {
	switch s := stmt.(type) {
	case *hir.ExprStmt:
		return l.lowerBody(s.X, ctx)
	case *hir.Return:
		return l.lowerBody(s, ctx)
	}
	return l.lowerStmt(stmt)
}

func returnOf(body hir.Expr) *hir.Return {
	if block, ok := body.(*hir.Block); ok {
		return block.Stmts[0].(*hir.Return)
	}
	return body.(*hir.Return)
}

// lowerLeaf lowers a single value under ctx
func (l *Lowerer) lowerLeaf(expr hir.Expr, ctx lowerContext) ([]ast.Statement, error) {
	if isBoolean(expr) {
		return l.lowerBooleanLeaf(expr, ctx)
	}

	if ctx.kind == stmtContext {
		call, ok := expr.(*hir.CallExpr)
		if !ok {
			// a bare value has no effect; still validate it
			_, err := l.value(expr)
			return nil, err
		}
		cmd, err := l.command(call)
		if err != nil {
			return nil, err
		}
		return []ast.Statement{cmd}, nil
	}

	v, err := l.value(expr)
	if err != nil {
		return nil, err
	}
	if ctx.kind == returnContext {
		return []ast.Statement{&ast.Return{Code: v}}, nil
	}
	return []ast.Statement{&ast.Assignment{Name: ctx.target, Value: v}}, nil
}

// lowerBooleanLeaf turns a truth value into true/false or 0/1
func (l *Lowerer) lowerBooleanLeaf(expr hir.Expr, ctx lowerContext) ([]ast.Statement, error) {
	cond, err := l.condition(expr)
	if err != nil {
		return nil, err
	}

	var then, els ast.Statement
	switch ctx.kind {
	case letContext:
		then = &ast.Assignment{Name: ctx.target, Value: &ast.Literal{Value: "true"}}
		els = &ast.Assignment{Name: ctx.target, Value: &ast.Literal{Value: "false"}}
	case returnContext:
		then = &ast.Return{Code: &ast.Literal{Value: "0"}}
		els = &ast.Return{Code: &ast.Literal{Value: "1"}}
	default:
		return nil, nil
	}
	return []ast.Statement{&ast.If{
		Condition: cond,
		Then:      []ast.Statement{then},
		Else:      []ast.Statement{els},
	}}, nil
}

// lowerIf lowers an if/else-if chain
func (l *Lowerer) lowerIf(expr *hir.IfExpr, ctx lowerContext) ([]ast.Statement, error) {
	cond, err := l.condition(expr.Cond)
	if err != nil {
		return nil, err
	}
	then, err := l.lowerBody(blockOrNil(expr.Then), ctx)
	if err != nil {
		return nil, err
	}
	out := &ast.If{Condition: cond, Then: then}

	rest := expr.Else
	for {
		elif, ok := rest.(*hir.IfExpr)
		if !ok {
			break
		}
		c, err := l.condition(elif.Cond)
		if err != nil {
			return nil, err
		}
		body, err := l.lowerBody(blockOrNil(elif.Then), ctx)
		if err != nil {
			return nil, err
		}
		out.Elifs = append(out.Elifs, ast.ElifBranch{Condition: c, Body: body})
		rest = elif.Else
	}

	if rest != nil {
		els, err := l.lowerBody(rest, ctx)
		if err != nil {
			return nil, err
		}
		out.Else = nonNil(els)
	} else if ctx.kind == letContext {
		out.Else = []ast.Statement{}
	}
	return []ast.Statement{out}, nil
}

func blockOrNil(b *hir.Block) hir.Expr {
	if b == nil {
		return nil
	}
	return b
}

// nonNil keeps an explicitly empty branch distinguishable from a missing one
func nonNil(stmts []ast.Statement) []ast.Statement {
	if stmts == nil {
		return []ast.Statement{}
	}
	return stmts
}
