package bashparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
)

// word converts a node in argument position
func (c *converter) word(n *sitter.Node) (ast.Expression, error) {
	loc := *c.loc(n)
	switch n.Type() {
	case "word":
		text := c.text(n)
		if strings.ContainsAny(text, "*?[{~") {
			return &ast.Glob{Pattern: text, Location: loc}, nil
		}
		return &ast.Literal{Value: unescapeWord(text), Location: loc}, nil
	case "number", "variable_name", "special_variable_name", "file_descriptor", "test_operator":
		return &ast.Literal{Value: c.text(n), Location: loc}, nil
	case "raw_string":
		text := c.text(n)
		return &ast.Literal{Value: text[1 : len(text)-1], Location: loc}, nil
	case "string":
		return c.doubleQuoted(n)
	case "simple_expansion":
		return &ast.Variable{Name: strings.TrimPrefix(c.text(n), "$"), Location: loc}, nil
	case "expansion":
		return c.expansion(n)
	case "command_substitution":
		return c.commandSubst(n)
	case "arithmetic_expansion":
		inner := namedChildren(n)
		if len(inner) != 1 {
			return nil, c.unsupported(n, "arithmetic expansions must hold one expression")
		}
		arith, err := c.arith(inner[0])
		if err != nil {
			return nil, err
		}
		return &ast.Arithmetic{Arith: arith, Location: loc}, nil
	case "concatenation":
		out := &ast.Concat{Location: loc}
		for _, part := range children(n) {
			if !part.IsNamed() {
				out.Parts = append(out.Parts, &ast.Literal{Value: c.text(part), Location: *c.loc(part)})
				continue
			}
			e, err := c.word(part)
			if err != nil {
				return nil, err
			}
			out.Parts = append(out.Parts, e)
		}
		return out, nil
	case "array":
		return nil, c.unsupported(n, "arrays are not POSIX; use set -- or a space-separated string")
	case "ansi_c_string":
		return nil, c.unsupported(n, "$'...' strings are not POSIX")
	case "process_substitution":
		return nil, c.unsupported(n, "process substitution is not POSIX")
	}
	return nil, c.unsupported(n, "unsupported word: %s", strings.ReplaceAll(n.Type(), "_", " "))
}

// doubleQuoted splits "..." into literal text and the expansions inside it
func (c *converter) doubleQuoted(n *sitter.Node) (ast.Expression, error) {
	start, end := n.StartByte()+1, n.EndByte()-1
	var parts []ast.Expression
	text := func(from, to uint32) {
		if to > from {
			parts = append(parts, &ast.Literal{Value: unescapeQuoted(string(c.src[from:to])), Location: *c.loc(n)})
		}
	}

	pos := start
	for _, child := range namedChildren(n) {
		if child.Type() == "string_content" {
			continue
		}
		text(pos, child.StartByte())
		e, err := c.word(child)
		if err != nil {
			return nil, err
		}
		parts = append(parts, e)
		pos = child.EndByte()
	}
	text(pos, end)

	switch len(parts) {
	case 0:
		return &ast.Literal{Location: *c.loc(n)}, nil
	case 1:
		return parts[0], nil
	}
	return &ast.Concat{Parts: parts, Location: *c.loc(n)}, nil
}

// expansion converts ${...}. Only the POSIX operators have AST forms.
func (c *converter) expansion(n *sitter.Node) (ast.Expression, error) {
	loc := *c.loc(n)
	text := c.text(n)
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "${"), "}")

	if rest, ok := strings.CutPrefix(inner, "#"); ok && rest != "" && isName(rest) {
		return &ast.StringLength{Variable: rest, Location: loc}, nil
	}

	name := paramName(inner)
	if name == "" {
		return nil, c.unsupported(n, "unsupported expansion %s", text)
	}
	rest := inner[len(name):]
	if rest == "" {
		return &ast.Variable{Name: name, Location: loc}, nil
	}

	for _, op := range []string{":-", ":=", ":?", ":+", "##", "#", "%%", "%"} {
		operandText, ok := strings.CutPrefix(rest, op)
		if !ok {
			continue
		}
		operand, err := c.operand(n, operandText)
		if err != nil {
			return nil, err
		}
		switch op {
		case ":-":
			return &ast.DefaultValue{Variable: name, Default: operand, Location: loc}, nil
		case ":=":
			return &ast.AssignDefault{Variable: name, Default: operand, Location: loc}, nil
		case ":?":
			return &ast.ErrorIfUnset{Variable: name, Message: operand, Location: loc}, nil
		case ":+":
			return &ast.AlternativeValue{Variable: name, Alternative: operand, Location: loc}, nil
		case "##":
			return &ast.RemoveLongestPrefix{Variable: name, Pattern: operand, Location: loc}, nil
		case "#":
			return &ast.RemovePrefix{Variable: name, Pattern: operand, Location: loc}, nil
		case "%%":
			return &ast.RemoveLongestSuffix{Variable: name, Pattern: operand, Location: loc}, nil
		default:
			return &ast.RemoveSuffix{Variable: name, Pattern: operand, Location: loc}, nil
		}
	}
	return nil, c.unsupported(n, "unsupported expansion %s", text)
}

// operand converts the word after an expansion operator. Plain text and a
// single variable reference are supported.
func (c *converter) operand(n *sitter.Node, text string) (ast.Expression, error) {
	loc := *c.loc(n)
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		quoted := text[1 : len(text)-1]
		if text[0] == '\'' || !strings.ContainsAny(quoted, "$`") {
			return &ast.Literal{Value: quoted, Location: loc}, nil
		}
		text = quoted
	}
	if !strings.ContainsAny(text, "$`") {
		return &ast.Literal{Value: text, Location: loc}, nil
	}

	ref := strings.TrimPrefix(text, "$")
	ref = strings.TrimSuffix(strings.TrimPrefix(ref, "{"), "}")
	if paramName(ref) == ref && ref != "" {
		return &ast.Variable{Name: ref, Location: loc}, nil
	}
	return nil, c.unsupported(n, "nested expansions in %q are not supported", text)
}

func (c *converter) commandSubst(n *sitter.Node) (ast.Expression, error) {
	body, err := c.block(children(n))
	if err != nil {
		return nil, err
	}
	loc := *c.loc(n)
	switch len(body) {
	case 0:
		return nil, c.unsupported(n, "empty command substitution")
	case 1:
		return &ast.CommandSubst{Command: body[0], Location: loc}, nil
	}
	return &ast.CommandSubst{Command: &ast.BraceGroup{Body: body, Location: loc}, Location: loc}, nil
}

// paramName returns the parameter name a ${...} body starts with
func paramName(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsRune("@*#?$!-", rune(s[0])) {
		return s[:1]
	}
	if s[0] >= '0' && s[0] <= '9' {
		i := 1
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return s[:i]
	}
	i := 0
	for i < len(s) && isNameByte(s[i], i == 0) {
		i++
	}
	return s[:i]
}

func isName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i], i == 0) {
			return false
		}
	}
	return s != ""
}

func isNameByte(b byte, first bool) bool {
	switch {
	case b == '_', b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return !first
	}
	return false
}

// unescapeWord removes backslash escapes from an unquoted word
func unescapeWord(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// unescapeQuoted removes the escapes that are special inside double quotes
func unescapeQuoted(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte("$`\"\\", s[i+1]) >= 0 {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
