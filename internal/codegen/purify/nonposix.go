package purify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
)

// generateCoproc runs the body as a background brace group
func (g *Generator) generateCoproc(s *ast.Coproc) {
	if s.Name != "" {
		g.writeLine("# coproc %s", s.Name)
	}
	g.writeLine("{")
	g.generateBody(s.Body)
	g.writeLine("} &")
}

// generateSelect renders `select` as a numbered menu read from stdin
func (g *Generator) generateSelect(s *ast.Select) {
	g.writeLine("set -- %s", g.renderItems(s.Items))
	g.writeLine("while :; do")
	g.indent++
	g.writeLine("_select_i=1")
	g.writeLine(`for _select_opt in "$@"; do`)
	g.indent++
	g.writeLine(`printf '%%s) %%s\n' "$_select_i" "$_select_opt" >&2`)
	g.writeLine("_select_i=$((_select_i + 1))")
	g.indent--
	g.writeLine("done")
	g.writeLine("printf '#? ' >&2")
	g.writeLine("IFS= read -r REPLY || break")
	g.writeLine("%s=''", s.Variable)
	g.writeLine("_select_i=1")
	g.writeLine(`for _select_opt in "$@"; do`)
	g.indent++
	g.writeLine(`if [ "$_select_i" = "$REPLY" ]; then`)
	g.indent++
	g.writeLine(`%s="$_select_opt"`, s.Variable)
	g.indent--
	g.writeLine("fi")
	g.writeLine("_select_i=$((_select_i + 1))")
	g.indent--
	g.writeLine("done")
	g.generateBlock(s.Body)
	g.indent--
	g.writeLine("done")
}

var (
	postIncrement = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*(\+\+|--)`)
	preIncrement  = regexp.MustCompile(`(\+\+|--)\s*([A-Za-z_][A-Za-z0-9_]*)`)
	plainAssign   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=-?[0-9]+$`)
)

// posixArith rewrites `++`/`--` into the assignment operators POSIX defines
func posixArith(expr string) string {
	expr = postIncrement.ReplaceAllStringFunc(expr, func(m string) string {
		parts := postIncrement.FindStringSubmatch(m)
		return parts[1] + string(parts[2][0]) + "=1"
	})
	return preIncrement.ReplaceAllStringFunc(expr, func(m string) string {
		parts := preIncrement.FindStringSubmatch(m)
		return parts[2] + string(parts[1][0]) + "=1"
	})
}

func splitArith(expr string) []string {
	var out []string
	for _, part := range strings.Split(expr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, posixArith(part))
		}
	}
	return out
}

// generateForCStyle renders `for ((init; cond; update))` as init and a
// while loop. The update runs in the loop condition before every test but
// the first, so `continue` in the body still reaches it.
func (g *Generator) generateForCStyle(s *ast.ForCStyle) {
	for _, init := range splitArith(s.Init) {
		if plainAssign.MatchString(strings.ReplaceAll(init, " ", "")) {
			g.writeLine("%s", strings.ReplaceAll(init, " ", ""))
		} else {
			g.writeLine(": $((%s))", init)
		}
	}

	cond := ":"
	if c := strings.TrimSpace(s.Condition); c != "" {
		cond = `[ "$((` + posixArith(c) + `))" -ne 0 ]`
	}

	updates := splitArith(s.Increment)
	if len(updates) == 0 {
		g.writeLine("while %s; do", cond)
	} else {
		// nested loops need their own flag
		flag := "_for_step"
		if g.forDepth > 0 {
			flag += strconv.Itoa(g.forDepth)
		}
		g.writeLine("%s=0", flag)
		g.writeLine("while")
		g.indent++
		g.writeLine(`if [ "$%s" -eq 1 ]; then`, flag)
		g.indent++
		for _, update := range updates {
			g.writeLine(": $((%s))", update)
		}
		g.indent--
		g.writeLine("fi")
		g.writeLine("%s=1", flag)
		g.writeLine("%s", cond)
		g.indent--
		g.writeLine("do")
	}

	g.forDepth++
	g.generateBody(s.Body)
	g.forDepth--
	g.writeLine("done")
}
