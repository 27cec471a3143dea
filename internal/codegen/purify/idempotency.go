package purify

import (
	"fmt"
	"strings"

	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/source"
)

// nonDeterministic lists variables whose value changes between runs
var nonDeterministic = map[string]string{
	"RANDOM":  "$RANDOM yields a different value on every run",
	"$":       "$$ is the process id and differs between runs",
	"SECONDS": "$SECONDS depends on wall-clock time",
	"BASHPID": "$BASHPID is a process id and differs between runs",
	"PPID":    "$PPID is a process id and differs between runs",
}

func (g *Generator) checkDeterminism(name string, loc *source.Location) {
	if msg, ok := nonDeterministic[name]; ok {
		g.report.add(NonDeterministic, name, msg, loc)
	}
}

// flagArgs returns the literal option words of a command (stopping at `--`)
func flagArgs(args []ast.Expression) []string {
	var flags []string
	for _, arg := range args {
		lit, ok := arg.(*ast.Literal)
		if !ok || !strings.HasPrefix(lit.Value, "-") || lit.Value == "-" {
			continue
		}
		if lit.Value == "--" {
			break
		}
		flags = append(flags, lit.Value)
	}
	return flags
}

// hasFlag reports whether a short flag letter or its long form is present
func hasFlag(flags []string, short byte, long string) bool {
	for _, f := range flags {
		if strings.HasPrefix(f, "--") {
			if f == long {
				return true
			}
			continue
		}
		if strings.IndexByte(f[1:], short) >= 0 {
			return true
		}
	}
	return false
}

func prepend(flag string, args []ast.Expression) []ast.Expression {
	out := make([]ast.Expression, 0, len(args)+1)
	out = append(out, &ast.Literal{Value: flag})
	return append(out, args...)
}

// makeIdempotent returns the argument list with the flags that make the
// command safe to re-run. The AST itself is never modified.
func (g *Generator) makeIdempotent(cmd *ast.Command) []ast.Expression {
	flags := flagArgs(cmd.Args)

	switch cmd.Name {
	case "mkdir":
		if !hasFlag(flags, 'p', "--parents") {
			g.report.add(IdempotencyFix, "mkdir", "added -p to mkdir", cmd.Loc())
			return prepend("-p", cmd.Args)
		}
	case "rm":
		if !hasFlag(flags, 'f', "--force") {
			g.report.add(IdempotencyFix, "rm", "added -f to rm", cmd.Loc())
			return prepend("-f", cmd.Args)
		}
	case "ln":
		if hasFlag(flags, 's', "--symbolic") && !hasFlag(flags, 'f', "--force") {
			g.report.add(IdempotencyFix, "ln", "added -f to ln -s", cmd.Loc())
			return mergeShortFlag(cmd.Args, 's', "-f")
		}
	}
	return cmd.Args
}

// mergeShortFlag appends the letter of flag to the first short option group
// containing letter (`-s` becomes `-sf`), or prepends flag when none does.
func mergeShortFlag(args []ast.Expression, letter byte, flag string) []ast.Expression {
	for i, arg := range args {
		lit, ok := arg.(*ast.Literal)
		if !ok || strings.HasPrefix(lit.Value, "--") || !strings.HasPrefix(lit.Value, "-") {
			continue
		}
		if strings.IndexByte(lit.Value[1:], letter) >= 0 {
			out := make([]ast.Expression, len(args))
			copy(out, args)
			out[i] = &ast.Literal{Value: fmt.Sprintf("%s%s", lit.Value, flag[1:]), Location: lit.Location}
			return out
		}
	}
	return prepend(flag, args)
}
