package typechecker

import (
	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
)

func lit(s string) *ast.Literal        { return &ast.Literal{Value: s} }
func ref(name string) *ast.Variable    { return &ast.Variable{Name: name} }
func comment(text string) *ast.Comment { return &ast.Comment{Text: text} }

func assign(name string, value ast.Expression) *ast.Assignment {
	return &ast.Assignment{Name: name, Value: value}
}

func command(name string, args ...ast.Expression) *ast.Command {
	return &ast.Command{Name: name, Args: args}
}

func words(ws ...string) []ast.Expression {
	out := make([]ast.Expression, len(ws))
	for i, w := range ws {
		out[i] = lit(w)
	}
	return out
}

func script(stmts ...ast.Statement) *ast.Script {
	return &ast.Script{Statements: stmts}
}

type summary struct {
	Kind     DiagnosticKind
	Severity string
	Name     string
}

func summarize(diags []TypeDiagnostic) []summary {
	out := make([]summary, 0, len(diags))
	for _, d := range diags {
		out = append(out, summary{Kind: d.Kind, Severity: d.Severity.String(), Name: d.Name})
	}
	return out
}
