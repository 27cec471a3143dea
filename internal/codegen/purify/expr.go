package purify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/source"
)

// RenderExpr renders an expression as a shell word
func (g *Generator) RenderExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case nil:
		return "''"
	case *ast.Literal:
		return QuoteLiteral(e.Value)
	case *ast.Variable:
		g.checkDeterminism(e.Name, e.Loc())
		return `"$` + e.Name + `"`
	case *ast.Array:
		// one word; only for/select lists spread the items
		if len(e.Items) == 0 {
			return "''"
		}
		joined := &ast.Concat{Location: e.Location}
		for i, item := range e.Items {
			if i > 0 {
				joined.Parts = append(joined.Parts, &ast.Literal{Value: " "})
			}
			joined.Parts = append(joined.Parts, item)
		}
		return g.RenderExpr(joined)
	case *ast.Arithmetic:
		return "$((" + g.renderArith(e.Arith, e.Loc()) + "))"
	case *ast.Test:
		return g.RenderTest(e.Cond)
	case *ast.CommandSubst:
		return "$(" + g.inline(e.Command) + ")"
	case *ast.Concat:
		var sb strings.Builder
		for _, part := range e.Parts {
			sb.WriteString(g.RenderExpr(part))
		}
		return sb.String()
	case *ast.Glob:
		return e.Pattern
	case *ast.CommandCondition:
		return g.inline(e.Command)
	case *ast.DefaultValue:
		return g.expansion(e.Variable, ":-", e.Default, e.Loc())
	case *ast.AssignDefault:
		return g.expansion(e.Variable, ":=", e.Default, e.Loc())
	case *ast.ErrorIfUnset:
		return g.expansion(e.Variable, ":?", e.Message, e.Loc())
	case *ast.AlternativeValue:
		return g.expansion(e.Variable, ":+", e.Alternative, e.Loc())
	case *ast.StringLength:
		g.checkDeterminism(e.Variable, e.Loc())
		return `"${#` + e.Variable + `}"`
	case *ast.RemoveSuffix:
		return g.expansion(e.Variable, "%", e.Pattern, e.Loc())
	case *ast.RemovePrefix:
		return g.expansion(e.Variable, "#", e.Pattern, e.Loc())
	case *ast.RemoveLongestPrefix:
		return g.expansion(e.Variable, "##", e.Pattern, e.Loc())
	case *ast.RemoveLongestSuffix:
		return g.expansion(e.Variable, "%%", e.Pattern, e.Loc())
	default:
		return fmt.Sprintf("'<unsupported %T>'", expr)
	}
}

func (g *Generator) expansion(name, op string, operand ast.Expression, loc *source.Location) string {
	g.checkDeterminism(name, loc)
	word := ""
	if operand != nil {
		word = stripQuotes(g.RenderExpr(operand))
	}
	return `"${` + name + op + word + `}"`
}

// stripQuotes removes one surrounding layer of matching quotes
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// unsafeChars trigger single quoting of a literal word
const unsafeChars = " \t\n$`\"'\\;&|<>()*?[]{}"

// QuoteLiteral renders a literal word. Words containing whitespace, `$` or
// other shell metacharacters are single-quoted; others are emitted verbatim.
// The empty word is still quoted so it counts as an argument.
func QuoteLiteral(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, unsafeChars) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// RenderCondition renders an expression in condition position (if/while/elif)
func (g *Generator) RenderCondition(expr ast.Expression) string {
	switch e := expr.(type) {
	case nil:
		return ":"
	case *ast.Test:
		return g.RenderTest(e.Cond)
	case *ast.CommandCondition:
		return g.inline(e.Command)
	case *ast.Literal:
		// `true`, `false` and friends are commands here, not words
		return e.Value
	default:
		return g.RenderExpr(expr)
	}
}

// negateCondition produces the condition for `while` from an `until` condition
func (g *Generator) negateCondition(expr ast.Expression) string {
	if t, ok := expr.(*ast.Test); ok {
		if inner, primitive := g.primitiveTest(t.Cond); primitive {
			return "[ ! " + inner + " ]"
		}
		return "! { " + g.RenderTest(t.Cond) + "; }"
	}
	return "! " + g.RenderCondition(expr)
}

// RenderTest renders a test expression using `[ ]`, `&&`, `||` and `!`
func (g *Generator) RenderTest(test ast.TestExpression) string {
	if inner, ok := g.primitiveTest(test); ok {
		return "[ " + inner + " ]"
	}

	switch t := test.(type) {
	case *ast.TestAnd:
		return g.RenderTest(t.Left) + " && " + g.testOperand(t.Right, false)
	case *ast.TestOr:
		return g.RenderTest(t.Left) + " || " + g.testOperand(t.Right, true)
	case *ast.TestNot:
		if inner, ok := g.primitiveTest(t.Inner); ok {
			return "! [ " + inner + " ]"
		}
		return "! { " + g.RenderTest(t.Inner) + "; }"
	}
	return "false"
}

func (g *Generator) testOperand(test ast.TestExpression, parentIsOr bool) string {
	_, isAnd := test.(*ast.TestAnd)
	_, isOr := test.(*ast.TestOr)
	if (parentIsOr && isAnd) || (!parentIsOr && isOr) {
		return "{ " + g.RenderTest(test) + "; }"
	}
	return g.RenderTest(test)
}

// primitiveTest returns the text between the brackets of a single `[ ]` test
func (g *Generator) primitiveTest(test ast.TestExpression) (string, bool) {
	switch t := test.(type) {
	case *ast.Comparison:
		return g.RenderExpr(t.Left) + " " + t.Op.Flag() + " " + g.RenderExpr(t.Right), true
	case *ast.FileTest:
		return t.Op.Flag() + " " + g.RenderExpr(t.Path), true
	case *ast.StringTest:
		return t.Op.Flag() + " " + g.RenderExpr(t.Value), true
	}
	return "", false
}

func (g *Generator) renderArith(expr ast.ArithExpression, loc *source.Location) string {
	switch e := expr.(type) {
	case *ast.Number:
		return strconv.FormatInt(e.Value, 10)
	case *ast.ArithVariable:
		g.checkDeterminism(e.Name, loc)
		return e.Name
	case *ast.ArithBinary:
		left := g.renderArith(e.Left, loc)
		if needsParens(e.Op, e.Left, false) {
			left = "(" + left + ")"
		}
		right := g.renderArith(e.Right, loc)
		if needsParens(e.Op, e.Right, true) {
			right = "(" + right + ")"
		}
		return left + " " + e.Op.String() + " " + right
	}
	return "0"
}

// needsParens reports whether child must be parenthesized under an operator.
// Operators are left-associative, so a right child of equal precedence only
// goes without parentheses when both are the same associative operator.
func needsParens(parent ast.ArithOp, child ast.ArithExpression, isRight bool) bool {
	bin, ok := child.(*ast.ArithBinary)
	if !ok {
		return false
	}
	if bin.Op.Precedence() < parent.Precedence() {
		return true
	}
	if isRight && bin.Op.Precedence() == parent.Precedence() {
		return !(bin.Op == parent && (parent == ast.Add || parent == ast.Mul))
	}
	return false
}
