package bashparse

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
)

// block converts a run of sibling nodes. Keywords and terminators are skipped.
func (c *converter) block(nodes []*sitter.Node) ([]ast.Statement, error) {
	var out []ast.Statement
	for _, n := range nodes {
		if !n.IsNamed() {
			if n.Type() == "&" {
				return nil, c.unsupported(n, "background jobs are not supported")
			}
			continue
		}
		if n.Type() == "variable_assignments" {
			for _, child := range namedChildren(n) {
				a, err := c.assignment(child, false)
				if err != nil {
					return nil, err
				}
				out = append(out, a)
			}
			continue
		}
		s, err := c.stmt(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *converter) stmt(n *sitter.Node) (ast.Statement, error) {
	switch n.Type() {
	case "comment":
		return &ast.Comment{Text: strings.TrimPrefix(c.text(n), "#"), Location: *c.loc(n)}, nil
	case "command":
		return c.command(n)
	case "variable_assignment":
		return c.assignment(n, false)
	case "declaration_command":
		return c.declaration(n)
	case "unset_command":
		return c.builtin(n, "unset")
	case "function_definition":
		return c.function(n)
	case "compound_statement":
		body, err := c.block(children(n))
		if err != nil {
			return nil, err
		}
		return &ast.BraceGroup{Body: body, Location: *c.loc(n)}, nil
	case "subshell":
		body, err := c.block(children(n))
		if err != nil {
			return nil, err
		}
		return &ast.BraceGroup{Body: body, Subshell: true, Location: *c.loc(n)}, nil
	case "if_statement":
		return c.ifStmt(n)
	case "for_statement":
		return c.forStmt(n)
	case "c_style_for_statement":
		return c.forCStyle(n)
	case "while_statement":
		return c.whileStmt(n)
	case "case_statement":
		return c.caseStmt(n)
	case "pipeline":
		return c.pipeline(n)
	case "list":
		return c.list(n)
	case "negated_command":
		return c.negated(n)
	case "redirected_statement":
		return c.redirected(n)
	case "test_command":
		t, err := c.testCommand(n)
		if err != nil {
			return nil, err
		}
		return testStatement(t, *c.loc(n)), nil
	}
	return nil, c.unsupported(n, "unsupported syntax: %s", strings.ReplaceAll(n.Type(), "_", " "))
}

func (c *converter) command(n *sitter.Node) (ast.Statement, error) {
	cmd := &ast.Command{Location: *c.loc(n)}
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "command_name":
			name := child.NamedChild(0)
			if name == nil || name.Type() != "word" {
				return nil, c.unsupported(child, "command names must be plain words")
			}
			cmd.Name = c.text(name)
		case "variable_assignment":
			return nil, c.unsupported(child, "per-command environment assignments are not supported")
		case "file_redirect":
			r, err := c.redirect(child)
			if err != nil {
				return nil, err
			}
			cmd.Redirects = append(cmd.Redirects, r)
		case "heredoc_redirect", "herestring_redirect":
			return nil, c.unsupported(child, "here-documents are not supported")
		default:
			arg, err := c.word(child)
			if err != nil {
				return nil, err
			}
			cmd.Args = append(cmd.Args, arg)
		}
	}

	if cmd.Name == "return" && len(cmd.Redirects) == 0 {
		switch len(cmd.Args) {
		case 0:
			return &ast.Return{Location: cmd.Location}, nil
		case 1:
			return &ast.Return{Code: cmd.Args[0], Location: cmd.Location}, nil
		}
	}
	return cmd, nil
}

// builtin converts special builtins the grammar gives their own node
func (c *converter) builtin(n *sitter.Node, name string) (ast.Statement, error) {
	cmd := &ast.Command{Name: name, Location: *c.loc(n)}
	for _, child := range namedChildren(n) {
		arg, err := c.word(child)
		if err != nil {
			return nil, err
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func (c *converter) assignment(n *sitter.Node, exported bool) (*ast.Assignment, error) {
	name := n.ChildByFieldName("name")
	if name == nil || name.Type() != "variable_name" {
		return nil, c.unsupported(n, "only plain variables can be assigned")
	}
	if indexOf(children(n), "+=") >= 0 {
		return nil, c.unsupported(n, "'+=' assignments are not supported")
	}

	a := &ast.Assignment{Name: c.text(name), Exported: exported, Location: *c.loc(n)}
	value := n.ChildByFieldName("value")
	if value == nil {
		a.Value = &ast.Literal{Location: *c.loc(n)}
		return a, nil
	}
	v, err := c.word(value)
	if err != nil {
		return nil, err
	}
	a.Value = v
	return a, nil
}

// declaration handles export/local/declare/readonly/typeset. A single
// `export NAME=value` becomes an exported assignment; everything else stays
// a command so its flags survive.
func (c *converter) declaration(n *sitter.Node) (ast.Statement, error) {
	keyword := c.text(n.Child(0))
	named := namedChildren(n)
	if keyword == "export" && len(named) == 1 && named[0].Type() == "variable_assignment" {
		return c.assignment(named[0], true)
	}

	cmd := &ast.Command{Name: keyword, Location: *c.loc(n)}
	for _, child := range named {
		var arg ast.Expression
		var err error
		if child.Type() == "variable_assignment" {
			arg, err = c.declaredWord(child)
		} else {
			arg, err = c.word(child)
		}
		if err != nil {
			return nil, err
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

// declaredWord renders `name=value` as one argument word
func (c *converter) declaredWord(n *sitter.Node) (ast.Expression, error) {
	a, err := c.assignment(n, false)
	if err != nil {
		return nil, err
	}
	prefix := a.Name + "="
	switch v := a.Value.(type) {
	case *ast.Literal:
		return &ast.Literal{Value: prefix + v.Value, Location: a.Location}, nil
	case *ast.Concat:
		parts := append([]ast.Expression{&ast.Literal{Value: prefix}}, v.Parts...)
		return &ast.Concat{Parts: parts, Location: a.Location}, nil
	}
	return &ast.Concat{Parts: []ast.Expression{&ast.Literal{Value: prefix}, a.Value}, Location: a.Location}, nil
}

func (c *converter) function(n *sitter.Node) (ast.Statement, error) {
	name := n.ChildByFieldName("name")
	body := n.ChildByFieldName("body")
	if name == nil || body == nil {
		return nil, c.unsupported(n, "malformed function definition")
	}

	fn := &ast.Function{Name: c.text(name), Location: *c.loc(n)}
	switch body.Type() {
	case "compound_statement":
		stmts, err := c.block(children(body))
		if err != nil {
			return nil, err
		}
		fn.Body = stmts
	case "subshell":
		group, err := c.stmt(body)
		if err != nil {
			return nil, err
		}
		fn.Body = []ast.Statement{group}
	default:
		return nil, c.unsupported(body, "function bodies must be brace groups or subshells")
	}
	return fn, nil
}

// condition converts the statements between `if`/`while` and `then`/`do`
func (c *converter) condition(parent *sitter.Node, nodes []*sitter.Node) (ast.Expression, error) {
	var stmts []*sitter.Node
	for _, n := range nodes {
		if n.IsNamed() && n.Type() != "comment" {
			stmts = append(stmts, n)
		}
	}
	if len(stmts) != 1 {
		return nil, c.unsupported(parent, "conditions must be a single command or test")
	}

	n := stmts[0]
	if n.Type() == "test_command" {
		t, err := c.testCommand(n)
		if err != nil {
			return nil, err
		}
		return &ast.Test{Cond: t, Location: *c.loc(n)}, nil
	}

	s, err := c.stmt(n)
	if err != nil {
		return nil, err
	}
	if cmd, ok := s.(*ast.Command); ok && len(cmd.Args) == 0 && len(cmd.Redirects) == 0 &&
		(cmd.Name == "true" || cmd.Name == "false" || cmd.Name == ":") {
		return &ast.Literal{Value: cmd.Name, Location: cmd.Location}, nil
	}
	return &ast.CommandCondition{Command: s, Location: *c.loc(n)}, nil
}

func (c *converter) ifStmt(n *sitter.Node) (ast.Statement, error) {
	kids := children(n)
	then := indexOf(kids, "then")
	if then < 0 {
		return nil, c.unsupported(n, "if without then")
	}
	cond, err := c.condition(n, kids[1:then])
	if err != nil {
		return nil, err
	}

	out := &ast.If{Condition: cond, Location: *c.loc(n)}
	var body []*sitter.Node
	for _, kid := range kids[then+1:] {
		switch kid.Type() {
		case "elif_clause":
			branch, err := c.elif(kid)
			if err != nil {
				return nil, err
			}
			out.Elifs = append(out.Elifs, branch)
		case "else_clause":
			els, err := c.block(children(kid))
			if err != nil {
				return nil, err
			}
			if els == nil {
				els = []ast.Statement{}
			}
			out.Else = els
		default:
			body = append(body, kid)
		}
	}

	if out.Then, err = c.block(body); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *converter) elif(n *sitter.Node) (ast.ElifBranch, error) {
	kids := children(n)
	then := indexOf(kids, "then")
	if then < 0 {
		return ast.ElifBranch{}, c.unsupported(n, "elif without then")
	}
	cond, err := c.condition(n, kids[1:then])
	if err != nil {
		return ast.ElifBranch{}, err
	}
	body, err := c.block(kids[then+1:])
	if err != nil {
		return ast.ElifBranch{}, err
	}
	return ast.ElifBranch{Condition: cond, Body: body}, nil
}

// loopBody finds and converts the do-group of a loop
func (c *converter) loopBody(n *sitter.Node) ([]ast.Statement, int, error) {
	kids := children(n)
	at := indexOf(kids, "do_group")
	if at < 0 {
		at = indexOf(kids, "compound_statement")
	}
	if at < 0 {
		return nil, -1, c.unsupported(n, "loop without a body")
	}
	body, err := c.block(children(kids[at]))
	return body, at, err
}

// forStmt handles both `for` and `select`
func (c *converter) forStmt(n *sitter.Node) (ast.Statement, error) {
	kids := children(n)
	variable := n.ChildByFieldName("variable")
	if variable == nil {
		return nil, c.unsupported(n, "loop without a variable")
	}
	body, at, err := c.loopBody(n)
	if err != nil {
		return nil, err
	}

	var items ast.Expression
	if in := indexOf(kids, "in"); in >= 0 {
		list := &ast.Array{Location: *c.loc(n)}
		for _, kid := range kids[in+1 : at] {
			if !kid.IsNamed() || kid.Type() == "comment" {
				continue
			}
			item, err := c.word(kid)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
		items = list
	}

	if kids[0].Type() == "select" {
		return &ast.Select{Variable: c.text(variable), Items: items, Body: body, Location: *c.loc(n)}, nil
	}
	return &ast.For{Variable: c.text(variable), Items: items, Body: body, Location: *c.loc(n)}, nil
}

// forCStyle keeps the three header clauses as arithmetic text
func (c *converter) forCStyle(n *sitter.Node) (ast.Statement, error) {
	text := c.text(n)
	open := strings.Index(text, "((")
	closing := strings.Index(text, "))")
	if open < 0 || closing < open {
		return nil, c.unsupported(n, "malformed arithmetic for loop")
	}
	clauses := strings.Split(text[open+2:closing], ";")
	if len(clauses) != 3 {
		return nil, c.unsupported(n, "arithmetic for loops need three clauses")
	}

	body, _, err := c.loopBody(n)
	if err != nil {
		return nil, err
	}
	return &ast.ForCStyle{
		Init:      strings.TrimSpace(clauses[0]),
		Condition: strings.TrimSpace(clauses[1]),
		Increment: strings.TrimSpace(clauses[2]),
		Body:      body,
		Location:  *c.loc(n),
	}, nil
}

// whileStmt handles both `while` and `until`
func (c *converter) whileStmt(n *sitter.Node) (ast.Statement, error) {
	kids := children(n)
	body, at, err := c.loopBody(n)
	if err != nil {
		return nil, err
	}
	cond, err := c.condition(n, kids[1:at])
	if err != nil {
		return nil, err
	}
	if kids[0].Type() == "until" {
		return &ast.Until{Condition: cond, Body: body, Location: *c.loc(n)}, nil
	}
	return &ast.While{Condition: cond, Body: body, Location: *c.loc(n)}, nil
}

func (c *converter) caseStmt(n *sitter.Node) (ast.Statement, error) {
	value := n.ChildByFieldName("value")
	if value == nil {
		return nil, c.unsupported(n, "case without a word")
	}
	word, err := c.word(value)
	if err != nil {
		return nil, err
	}

	out := &ast.Case{Word: word, Location: *c.loc(n)}
	for _, item := range namedChildren(n) {
		if item.Type() != "case_item" {
			continue
		}
		arm, err := c.caseItem(item)
		if err != nil {
			return nil, err
		}
		out.Arms = append(out.Arms, arm)
	}
	return out, nil
}

// caseItem keeps patterns as written; they are glob syntax, not words
func (c *converter) caseItem(n *sitter.Node) (ast.CaseArm, error) {
	kids := children(n)
	paren := indexOf(kids, ")")
	if paren < 0 {
		return ast.CaseArm{}, c.unsupported(n, "malformed case clause")
	}
	if indexOf(kids, ";&") >= 0 || indexOf(kids, ";;&") >= 0 {
		return ast.CaseArm{}, c.unsupported(n, "case fallthrough is not supported")
	}

	var arm ast.CaseArm
	for _, kid := range kids[:paren] {
		if kid.IsNamed() && kid.Type() != "comment" {
			arm.Patterns = append(arm.Patterns, c.text(kid))
		}
	}
	body, err := c.block(kids[paren+1:])
	if err != nil {
		return ast.CaseArm{}, err
	}
	arm.Body = body
	return arm, nil
}

func (c *converter) pipeline(n *sitter.Node) (ast.Statement, error) {
	if indexOf(children(n), "|&") >= 0 {
		return nil, c.unsupported(n, "'|&' is not supported")
	}
	out := &ast.Pipeline{Location: *c.loc(n)}
	for _, child := range namedChildren(n) {
		s, err := c.stmt(child)
		if err != nil {
			return nil, err
		}
		out.Commands = append(out.Commands, s)
	}
	return out, nil
}

func (c *converter) list(n *sitter.Node) (ast.Statement, error) {
	named := namedChildren(n)
	if len(named) != 2 {
		return nil, c.unsupported(n, "malformed command list")
	}
	left, err := c.stmt(named[0])
	if err != nil {
		return nil, err
	}
	right, err := c.stmt(named[1])
	if err != nil {
		return nil, err
	}
	if indexOf(children(n), "||") >= 0 {
		return &ast.OrList{Left: left, Right: right, Location: *c.loc(n)}, nil
	}
	return &ast.AndList{Left: left, Right: right, Location: *c.loc(n)}, nil
}

func (c *converter) negated(n *sitter.Node) (ast.Statement, error) {
	named := namedChildren(n)
	if len(named) != 1 {
		return nil, c.unsupported(n, "malformed negation")
	}
	inner, err := c.stmt(named[0])
	if err != nil {
		return nil, err
	}
	return &ast.Negated{Command: inner, Location: *c.loc(n)}, nil
}

// redirected attaches redirections to the command they follow
func (c *converter) redirected(n *sitter.Node) (ast.Statement, error) {
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil, c.unsupported(n, "redirections without a command")
	}
	s, err := c.stmt(body)
	if err != nil {
		return nil, err
	}
	cmd, ok := s.(*ast.Command)
	if !ok {
		return nil, c.unsupported(n, "redirections on compound commands are not supported")
	}

	for _, child := range namedChildren(n) {
		if sameNode(child, body) {
			continue
		}
		if child.Type() != "file_redirect" {
			return nil, c.unsupported(child, "here-documents are not supported")
		}
		r, err := c.redirect(child)
		if err != nil {
			return nil, err
		}
		cmd.Redirects = append(cmd.Redirects, r)
	}
	return cmd, nil
}

var redirectKinds = map[string]ast.RedirectKind{
	">":  ast.RedirectOut,
	">>": ast.RedirectAppend,
	"<":  ast.RedirectIn,
	">&": ast.RedirectDup,
}

func (c *converter) redirect(n *sitter.Node) (ast.Redirect, error) {
	r := ast.Redirect{FD: -1}
	seenOp := false
	for _, kid := range children(n) {
		switch {
		case kid.Type() == "file_descriptor":
			fd, err := strconv.Atoi(c.text(kid))
			if err != nil {
				return r, c.unsupported(kid, "invalid file descriptor")
			}
			r.FD = fd
		case !kid.IsNamed():
			kind, ok := redirectKinds[kid.Type()]
			if !ok {
				return r, c.unsupported(kid, "redirection %q is not supported", kid.Type())
			}
			r.Kind, seenOp = kind, true
		default:
			target, err := c.word(kid)
			if err != nil {
				return r, err
			}
			r.Target = target
		}
	}
	if !seenOp || r.Target == nil {
		return r, c.unsupported(n, "malformed redirection")
	}
	return r, nil
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
