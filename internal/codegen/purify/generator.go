package purify

import (
	"fmt"
	"strings"

	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
)

const shebang = "#!/bin/sh"

// Options control the text the generator produces
type Options struct {
	Indent             string // one indentation level, four spaces by default
	IdempotentCommands bool   // add -p/-f flags to mkdir, rm and ln -s
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{Indent: "    ", IdempotentCommands: true}
}

// Generator renders a shell AST as POSIX sh
type Generator struct {
	opts      Options
	buf       strings.Builder
	indent    int
	indentStr string
	report    *Report
	forDepth  int // enclosing arithmetic for loops
}

// New creates a new purifying generator
func New(opts Options) *Generator {
	if opts.Indent == "" {
		opts.Indent = "    "
	}
	return &Generator{
		opts:      opts,
		indentStr: opts.Indent,
		report:    &Report{},
	}
}

// Generate renders a complete script with default options
func Generate(script *ast.Script) string {
	return New(DefaultOptions()).Generate(script)
}

// Generate renders a complete script. The output always starts with
// `#!/bin/sh`, whatever shebang the source carried.
func (g *Generator) Generate(script *ast.Script) string {
	g.buf.Reset()
	g.indent = 0
	g.forDepth = 0
	g.report = &Report{}

	g.write("%s\n", shebang)
	if script != nil {
		g.generateBlock(script.Statements)
	}
	return g.buf.String()
}

// Report returns what the last Generate call changed or flagged
func (g *Generator) Report() *Report {
	return g.report
}

// RenderStatements renders stmts at the given indentation depth without a shebang
func (g *Generator) RenderStatements(stmts []ast.Statement, depth int) string {
	sub := g.sub(depth)
	sub.generateBlock(stmts)
	return sub.buf.String()
}

// sub creates a generator sharing options and report, starting at depth
func (g *Generator) sub(depth int) *Generator {
	return &Generator{
		opts:      g.opts,
		indent:    depth,
		indentStr: g.indentStr,
		report:    g.report,
		forDepth:  g.forDepth,
	}
}

func (g *Generator) write(format string, args ...interface{}) {
	g.buf.WriteString(fmt.Sprintf(format, args...))
}

func (g *Generator) writeIndent() {
	for i := 0; i < g.indent; i++ {
		g.buf.WriteString(g.indentStr)
	}
}

// writeLine writes one indented line
func (g *Generator) writeLine(format string, args ...interface{}) {
	g.writeIndent()
	g.write(format, args...)
	g.buf.WriteByte('\n')
}
