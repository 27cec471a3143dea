package typechecker

import (
	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/types"
)

// InferExpr returns the type of expr, or nil when nothing is known.
// It never produces diagnostics.
func (c *Checker) InferExpr(expr ast.Expression) types.ShellType {
	if expr == nil {
		return nil
	}

	switch e := expr.(type) {
	case *ast.Literal:
		if isIntegerLiteral(e.Value) {
			return types.TypeInteger
		}
		return types.TypeString
	case *ast.Variable:
		return c.ctx.LookupType(e.Name)
	case *ast.CommandSubst:
		return types.TypeString
	case *ast.Arithmetic:
		// Operand types are deliberately ignored.
		return types.TypeInteger
	case *ast.Array:
		for _, item := range e.Items {
			c.InferExpr(item)
		}
		return types.NewArray(types.TypeString)
	case *ast.Concat:
		for _, part := range e.Parts {
			c.InferExpr(part)
		}
		return types.TypeString
	case *ast.Test:
		return types.TypeBoolean
	case *ast.Glob:
		return types.TypeString
	case *ast.CommandCondition:
		return types.TypeExitCode

	// The fallback never decides the type: it is whatever the variable holds.
	case *ast.DefaultValue:
		c.InferExpr(e.Default)
		return c.ctx.LookupType(e.Variable)
	case *ast.AssignDefault:
		c.InferExpr(e.Default)
		return c.ctx.LookupType(e.Variable)
	case *ast.ErrorIfUnset:
		c.InferExpr(e.Message)
		return c.ctx.LookupType(e.Variable)
	case *ast.AlternativeValue:
		c.InferExpr(e.Alternative)
		return c.ctx.LookupType(e.Variable)

	case *ast.StringLength:
		return types.TypeInteger
	case *ast.RemoveSuffix:
		c.InferExpr(e.Pattern)
		return types.TypeString
	case *ast.RemovePrefix:
		c.InferExpr(e.Pattern)
		return types.TypeString
	case *ast.RemoveLongestPrefix:
		c.InferExpr(e.Pattern)
		return types.TypeString
	case *ast.RemoveLongestSuffix:
		c.InferExpr(e.Pattern)
		return types.TypeString
	}
	return nil
}

// isIntegerLiteral accepts an optional leading '-' followed by at least one digit
func isIntegerLiteral(s string) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
