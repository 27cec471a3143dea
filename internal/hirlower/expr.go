package hirlower

import (
	"strconv"

	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/hir"
)

// isBoolean reports whether expr yields a truth value rather than a word
func isBoolean(expr hir.Expr) bool {
	switch e := expr.(type) {
	case *hir.BinaryExpr:
		return e.Op.IsComparison() || e.Op.IsLogical()
	case *hir.UnaryExpr:
		return e.Op == hir.OpNot
	}
	return false
}

// name resolves an identifier through the active binding aliases
func (l *Lowerer) name(id string) string {
	if alias, ok := l.aliases[id]; ok {
		return alias
	}
	return id
}

// value converts a word-valued expression into a shell AST expression
func (l *Lowerer) value(expr hir.Expr) (ast.Expression, error) {
	switch e := expr.(type) {
	case *hir.Literal:
		return &ast.Literal{Value: e.Value}, nil
	case *hir.Ident:
		return &ast.Variable{Name: l.name(e.Name)}, nil
	case *hir.CallExpr:
		cmd, err := l.command(e)
		if err != nil {
			return nil, err
		}
		return &ast.CommandSubst{Command: cmd}, nil
	case *hir.BinaryExpr:
		if !e.Op.IsArithmetic() {
			return nil, newError(UnsupportedExpr, e.Loc(), "'%s' does not produce a word", e.Op)
		}
		arith, err := l.arith(e)
		if err != nil {
			return nil, err
		}
		return &ast.Arithmetic{Arith: arith}, nil
	case *hir.UnaryExpr:
		if e.Op != hir.OpNeg {
			return nil, newError(UnsupportedExpr, e.Loc(), "'!' does not produce a word")
		}
		arith, err := l.arith(e)
		if err != nil {
			return nil, err
		}
		return &ast.Arithmetic{Arith: arith}, nil
	case nil:
		return nil, newError(UnsupportedExpr, nil, "missing expression")
	default:
		return nil, newError(UnsupportedExpr, expr.Loc(), "%T cannot be nested inside an expression", expr)
	}
}

func (l *Lowerer) arith(expr hir.Expr) (ast.ArithExpression, error) {
	switch e := expr.(type) {
	case *hir.Literal:
		if e.Kind != hir.LiteralInt {
			return nil, newError(UnsupportedExpr, e.Loc(), "non-integer literal %q in arithmetic", e.Value)
		}
		n, err := strconv.ParseInt(e.Value, 10, 64)
		if err != nil {
			return nil, newError(UnsupportedExpr, e.Loc(), "integer literal %q out of range", e.Value)
		}
		return &ast.Number{Value: n}, nil
	case *hir.Ident:
		return &ast.ArithVariable{Name: l.name(e.Name)}, nil
	case *hir.UnaryExpr:
		if e.Op != hir.OpNeg {
			break
		}
		inner, err := l.arith(e.X)
		if err != nil {
			return nil, err
		}
		return &ast.ArithBinary{Op: ast.Sub, Left: &ast.Number{Value: 0}, Right: inner}, nil
	case *hir.BinaryExpr:
		if !e.Op.IsArithmetic() {
			break
		}
		left, err := l.arith(e.X)
		if err != nil {
			return nil, err
		}
		right, err := l.arith(e.Y)
		if err != nil {
			return nil, err
		}
		ops := map[hir.BinaryOp]ast.ArithOp{
			hir.OpAdd: ast.Add, hir.OpSub: ast.Sub, hir.OpMul: ast.Mul, hir.OpDiv: ast.Div, hir.OpMod: ast.Mod,
		}
		return &ast.ArithBinary{Op: ops[e.Op], Left: left, Right: right}, nil
	case nil:
		return nil, newError(UnsupportedExpr, nil, "missing operand")
	}
	return nil, newError(UnsupportedExpr, expr.Loc(), "%T is not arithmetic", expr)
}

func (l *Lowerer) command(call *hir.CallExpr) (*ast.Command, error) {
	args := make([]ast.Expression, 0, len(call.Args))
	for _, arg := range call.Args {
		v, err := l.value(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return &ast.Command{Name: call.Func, Args: args}, nil
}

// isNumeric reports whether expr is known to hold an integer
func isNumeric(expr hir.Expr) bool {
	switch e := expr.(type) {
	case *hir.Literal:
		return e.Kind == hir.LiteralInt
	case *hir.BinaryExpr:
		return e.Op.IsArithmetic()
	case *hir.UnaryExpr:
		return e.Op == hir.OpNeg
	}
	return false
}

var comparisonOps = map[hir.BinaryOp]ast.ComparisonOp{
	hir.OpEq: ast.IntEq, hir.OpNe: ast.IntNe,
	hir.OpLt: ast.IntLt, hir.OpLe: ast.IntLe,
	hir.OpGt: ast.IntGt, hir.OpGe: ast.IntGe,
}

// test converts a boolean expression into a `[ ]` test tree
func (l *Lowerer) test(expr hir.Expr) (ast.TestExpression, error) {
	switch e := expr.(type) {
	case *hir.BinaryExpr:
		switch {
		case e.Op.IsLogical():
			left, err := l.test(e.X)
			if err != nil {
				return nil, err
			}
			right, err := l.test(e.Y)
			if err != nil {
				return nil, err
			}
			if e.Op == hir.OpAnd {
				return &ast.TestAnd{Left: left, Right: right}, nil
			}
			return &ast.TestOr{Left: left, Right: right}, nil
		case e.Op.IsComparison():
			left, err := l.value(e.X)
			if err != nil {
				return nil, err
			}
			right, err := l.value(e.Y)
			if err != nil {
				return nil, err
			}
			op := comparisonOps[e.Op]
			if !isNumeric(e.X) && !isNumeric(e.Y) {
				switch e.Op {
				case hir.OpEq:
					op = ast.StrEq
				case hir.OpNe:
					op = ast.StrNe
				}
			}
			return &ast.Comparison{Op: op, Left: left, Right: right}, nil
		}
	case *hir.UnaryExpr:
		if e.Op == hir.OpNot {
			inner, err := l.test(e.X)
			if err != nil {
				return nil, err
			}
			return &ast.TestNot{Inner: inner}, nil
		}
	case *hir.Ident, *hir.Literal:
		v, err := l.value(expr)
		if err != nil {
			return nil, err
		}
		return &ast.Comparison{Op: ast.StrEq, Left: v, Right: &ast.Literal{Value: "true"}}, nil
	case nil:
		return nil, newError(UnsupportedExpr, nil, "missing condition")
	}
	return nil, newError(UnsupportedExpr, expr.Loc(), "%T cannot be used as a test", expr)
}

// condition converts an expression in if/elif position
func (l *Lowerer) condition(expr hir.Expr) (ast.Expression, error) {
	switch e := expr.(type) {
	case *hir.Literal:
		if e.Kind == hir.LiteralBool {
			return &ast.Literal{Value: e.Value}, nil
		}
	case *hir.CallExpr:
		cmd, err := l.command(e)
		if err != nil {
			return nil, err
		}
		return &ast.CommandCondition{Command: cmd}, nil
	case *hir.UnaryExpr:
		if call, ok := e.X.(*hir.CallExpr); ok && e.Op == hir.OpNot {
			cmd, err := l.command(call)
			if err != nil {
				return nil, err
			}
			return &ast.CommandCondition{Command: &ast.Negated{Command: cmd}}, nil
		}
	}

	t, err := l.test(expr)
	if err != nil {
		return nil, err
	}
	return &ast.Test{Cond: t}, nil
}
