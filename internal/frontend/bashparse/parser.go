// Package bashparse reads bash and POSIX sh source into an ast.Script using
// the tree-sitter bash grammar.
package bashparse

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"

	"github.com/paiml/bashrs-sub005/internal/diagnostics"
	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/source"
)

// SyntaxError reports source that is malformed or that has no AST form.
type SyntaxError struct {
	Message     string
	Location    *source.Location
	Unsupported bool // valid shell the AST cannot represent
	Incomplete  bool // input ends inside an unfinished construct
}

func (e *SyntaxError) Error() string {
	if !e.Location.IsKnown() {
		return e.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Location.File(), e.Location.Start.Line, e.Location.Start.Column, e.Message)
}

// ToDiagnostic converts the error for terminal rendering
func (e *SyntaxError) ToDiagnostic() *diagnostics.Diagnostic {
	code := diagnostics.ErrParseFailed
	label := "syntax error"
	if e.Unsupported {
		code = diagnostics.ErrUnsupportedSyntax
		label = "not supported"
	}
	return diagnostics.NewError(e.Message).
		WithCode(code).
		WithFile(e.Location.File()).
		WithPrimaryLabel(e.Location, label)
}

// Parser is the tree-sitter backed front-end. It is safe for concurrent use;
// every call gets its own tree-sitter parser.
type Parser struct{}

// New creates a new bash front-end
func New() *Parser {
	return &Parser{}
}

// Parse builds the syntax tree of one script. name is used for locations.
func (p *Parser) Parse(ctx context.Context, name string, src []byte) (*ast.Script, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(bash.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	defer tree.Close()

	c := &converter{src: src, file: &name}
	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		return nil, &SyntaxError{
			Message:    fmt.Sprintf("syntax error near %q", firstLine(c.text(bad))),
			Location:   c.loc(bad),
			Incomplete: incomplete(bad, src),
		}
	}

	stmts, err := c.block(children(root))
	if err != nil {
		return nil, err
	}

	script := &ast.Script{
		Statements: stmts,
		Metadata:   ast.Metadata{SourceFile: name},
		Location:   *c.loc(root),
	}
	if first := root.NamedChild(0); first != nil && first.Type() == "comment" {
		if text := c.text(first); strings.HasPrefix(text, "#!") {
			script.Metadata.Shebang = text
		}
	}
	return script, nil
}

// converter turns one tree into AST nodes
type converter struct {
	src  []byte
	file *string
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func (c *converter) loc(n *sitter.Node) *source.Location {
	start, end := n.StartPoint(), n.EndPoint()
	return source.NewLocation(c.file,
		source.NewPosition(int(start.Row)+1, int(start.Column)+1, int(n.StartByte())),
		source.NewPosition(int(end.Row)+1, int(end.Column)+1, int(n.EndByte())),
	)
}

func (c *converter) unsupported(n *sitter.Node, format string, args ...any) error {
	return &SyntaxError{
		Message:     fmt.Sprintf(format, args...),
		Location:    c.loc(n),
		Unsupported: true,
	}
}

func children(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil && child.Type() != "comment" {
			out = append(out, child)
		}
	}
	return out
}

// indexOf returns the position of the first child of the given type, or -1
func indexOf(nodes []*sitter.Node, typ string) int {
	for i, n := range nodes {
		if n.Type() == typ {
			return i
		}
	}
	return -1
}

// firstError finds the innermost node tree-sitter could not parse
func firstError(n *sitter.Node) *sitter.Node {
	for _, child := range children(n) {
		if child.Type() == "ERROR" || child.IsMissing() {
			return child
		}
		if child.HasError() {
			return firstError(child)
		}
	}
	return n
}

// incomplete reports whether more input could still complete the script
func incomplete(bad *sitter.Node, src []byte) bool {
	if bad.IsMissing() {
		return true
	}
	return int(bad.EndByte()) >= len(bytes.TrimRight(src, " \t\r\n"))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
