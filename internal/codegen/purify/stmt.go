package purify

import (
	"fmt"
	"strings"

	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
)

func (g *Generator) generateBlock(stmts []ast.Statement) {
	for _, stmt := range stmts {
		g.generateStmt(stmt)
	}
}

// generateBody writes an indented body; empty bodies get `:` so the output parses
func (g *Generator) generateBody(stmts []ast.Statement) {
	g.indent++
	if len(stmts) == 0 {
		g.writeLine(":")
	} else {
		g.generateBlock(stmts)
	}
	g.indent--
}

func (g *Generator) generateStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Comment:
		if strings.HasPrefix(s.Text, "!") {
			return // source shebang
		}
		g.writeLine("#%s", s.Text)
	case *ast.Function:
		g.writeLine("%s() {", s.Name)
		g.generateBody(s.Body)
		g.writeLine("}")
	case *ast.If:
		g.generateIf(s)
	case *ast.For:
		g.writeLine("for %s in %s; do", s.Variable, g.renderItems(s.Items))
		g.generateBody(s.Body)
		g.writeLine("done")
	case *ast.While:
		g.writeLine("while %s; do", g.RenderCondition(s.Condition))
		g.generateBody(s.Body)
		g.writeLine("done")
	case *ast.Until:
		g.writeLine("while %s; do", g.negateCondition(s.Condition))
		g.generateBody(s.Body)
		g.writeLine("done")
	case *ast.Case:
		g.generateCase(s)
	case *ast.BraceGroup:
		open, closing := "{", "}"
		if s.Subshell {
			open, closing = "(", ")"
		}
		g.writeLine("%s", open)
		g.generateBody(s.Body)
		g.writeLine("%s", closing)
	case *ast.Coproc:
		g.generateCoproc(s)
	case *ast.Select:
		g.generateSelect(s)
	case *ast.ForCStyle:
		g.generateForCStyle(s)
	default:
		g.writeIndent()
		g.buf.WriteString(g.inline(stmt))
		g.buf.WriteByte('\n')
	}
}

func (g *Generator) generateIf(s *ast.If) {
	g.writeLine("if %s; then", g.RenderCondition(s.Condition))
	g.generateBody(s.Then)
	for _, elif := range s.Elifs {
		g.writeLine("elif %s; then", g.RenderCondition(elif.Condition))
		g.generateBody(elif.Body)
	}
	if s.Else != nil {
		g.writeLine("else")
		g.generateBody(s.Else)
	}
	g.writeLine("fi")
}

func (g *Generator) generateCase(s *ast.Case) {
	g.writeLine("case %s in", g.RenderExpr(s.Word))
	g.indent++
	for _, arm := range s.Arms {
		g.writeLine("%s)", strings.Join(arm.Patterns, "|"))
		g.indent++
		g.generateBlock(arm.Body)
		g.writeLine(";;")
		g.indent--
	}
	g.indent--
	g.writeLine("esac")
}

// inline renders a statement that starts mid-line (pipeline stages, list
// operands, command substitutions). Compound statements keep their line
// structure; only the leading indentation and final newline are dropped.
func (g *Generator) inline(stmt ast.Statement) string {
	switch s := stmt.(type) {
	case nil:
		return ":"
	case *ast.Command:
		return g.renderCommand(s)
	case *ast.Assignment:
		return g.renderAssignment(s)
	case *ast.Return:
		if s.Code == nil {
			return "return"
		}
		return "return " + g.RenderExpr(s.Code)
	case *ast.Pipeline:
		parts := make([]string, len(s.Commands))
		for i, cmd := range s.Commands {
			parts[i] = g.inline(cmd)
		}
		return strings.Join(parts, " | ")
	case *ast.AndList:
		return g.inline(s.Left) + " && " + g.listOperand(s.Right, false)
	case *ast.OrList:
		return g.inline(s.Left) + " || " + g.listOperand(s.Right, true)
	case *ast.Negated:
		return "! " + g.inline(s.Command)
	case *ast.If, *ast.For, *ast.While, *ast.Until, *ast.Case, *ast.BraceGroup,
		*ast.Coproc, *ast.Select, *ast.ForCStyle, *ast.Function, *ast.Comment:
		sub := g.sub(g.indent)
		sub.generateStmt(stmt)
		return strings.TrimSuffix(strings.TrimLeft(sub.buf.String(), " \t"), "\n")
	}
	return fmt.Sprintf(": unsupported %T", stmt)
}

// listOperand renders the right side of && / ||. A list of the other
// operator is grouped so the result keeps the tree's meaning.
func (g *Generator) listOperand(stmt ast.Statement, parentIsOr bool) string {
	_, isAnd := stmt.(*ast.AndList)
	_, isOr := stmt.(*ast.OrList)
	if (parentIsOr && isAnd) || (!parentIsOr && isOr) {
		return "{ " + g.inline(stmt) + "; }"
	}
	return g.inline(stmt)
}

func (g *Generator) renderAssignment(a *ast.Assignment) string {
	value := ""
	if a.Value != nil {
		value = g.RenderExpr(a.Value)
	}
	if a.Exported {
		return fmt.Sprintf("export %s=%s", a.Name, value)
	}
	return fmt.Sprintf("%s=%s", a.Name, value)
}

func (g *Generator) renderCommand(cmd *ast.Command) string {
	args := cmd.Args
	if g.opts.IdempotentCommands {
		args = g.makeIdempotent(cmd)
	}

	var sb strings.Builder
	sb.WriteString(cmd.Name)
	for _, arg := range args {
		sb.WriteByte(' ')
		sb.WriteString(g.RenderExpr(arg))
	}
	for _, r := range cmd.Redirects {
		sb.WriteByte(' ')
		sb.WriteString(g.renderRedirect(r))
	}
	return sb.String()
}

func (g *Generator) renderRedirect(r ast.Redirect) string {
	fd := ""
	if r.FD >= 0 {
		fd = fmt.Sprintf("%d", r.FD)
	}
	target := g.RenderExpr(r.Target)
	switch r.Kind {
	case ast.RedirectAppend:
		return fd + ">> " + target
	case ast.RedirectIn:
		return fd + "< " + target
	case ast.RedirectDup:
		return fd + ">&" + target
	default:
		return fd + "> " + target
	}
}

// renderItems renders a word list for `for`/`select`. Arrays expand to
// their items, separated by spaces.
func (g *Generator) renderItems(items ast.Expression) string {
	if items == nil {
		return `"$@"`
	}
	if list, ok := items.(*ast.Array); ok {
		parts := make([]string, len(list.Items))
		for i, item := range list.Items {
			parts[i] = g.RenderExpr(item)
		}
		return strings.Join(parts, " ")
	}
	return g.RenderExpr(items)
}
