package bashparse

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/source"
)

var comparisonOps = map[string]ast.ComparisonOp{
	"=": ast.StrEq, "==": ast.StrEq, "!=": ast.StrNe,
	"-eq": ast.IntEq, "-ne": ast.IntNe,
	"-lt": ast.IntLt, "-le": ast.IntLe,
	"-gt": ast.IntGt, "-ge": ast.IntGe,
}

var fileTestOps = map[string]ast.FileTestOp{
	"-e": ast.FileExists, "-r": ast.FileReadable, "-w": ast.FileWritable,
	"-x": ast.FileExecutable, "-d": ast.FileDirectory, "-f": ast.FileRegular,
}

var stringTestOps = map[string]ast.StringTestOp{
	"-z": ast.StringEmpty, "-n": ast.StringNonEmpty,
}

// testCommand converts `[ ... ]` and `[[ ... ]]`
func (c *converter) testCommand(n *sitter.Node) (ast.TestExpression, error) {
	if strings.HasPrefix(c.text(n), "((") {
		return nil, c.unsupported(n, "arithmetic commands are not supported; use [ ... -eq ... ]")
	}
	inner := namedChildren(n)
	if len(inner) != 1 {
		return nil, c.unsupported(n, "malformed test")
	}
	return c.testExpr(inner[0])
}

func (c *converter) testExpr(n *sitter.Node) (ast.TestExpression, error) {
	switch n.Type() {
	case "binary_expression":
		return c.testBinary(n)
	case "unary_expression", "negated_expression":
		return c.testUnary(n)
	case "parenthesized_expression":
		inner := namedChildren(n)
		if len(inner) != 1 {
			return nil, c.unsupported(n, "malformed test group")
		}
		return c.testExpr(inner[0])
	}

	// a lone word tests for non-emptiness
	w, err := c.word(n)
	if err != nil {
		return nil, err
	}
	return &ast.StringTest{Op: ast.StringNonEmpty, Value: w}, nil
}

func (c *converter) testBinary(n *sitter.Node) (ast.TestExpression, error) {
	left, right, op := c.binaryParts(n)
	if left == nil || right == nil || op == "" {
		return nil, c.unsupported(n, "malformed test")
	}

	switch op {
	case "&&", "-a", "||", "-o":
		l, err := c.testExpr(left)
		if err != nil {
			return nil, err
		}
		r, err := c.testExpr(right)
		if err != nil {
			return nil, err
		}
		if op == "&&" || op == "-a" {
			return &ast.TestAnd{Left: l, Right: r}, nil
		}
		return &ast.TestOr{Left: l, Right: r}, nil
	}

	cmp, ok := comparisonOps[op]
	if !ok {
		return nil, c.unsupported(n, "test operator %q is not supported", op)
	}
	l, err := c.word(left)
	if err != nil {
		return nil, err
	}
	r, err := c.word(right)
	if err != nil {
		return nil, err
	}
	return &ast.Comparison{Op: cmp, Left: l, Right: r}, nil
}

// binaryParts returns operands and operator text of a binary expression
func (c *converter) binaryParts(n *sitter.Node) (*sitter.Node, *sitter.Node, string) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	var op string
	if o := n.ChildByFieldName("operator"); o != nil {
		op = c.text(o)
	}

	kids := children(n)
	if (left == nil || right == nil || op == "") && len(kids) == 3 {
		left, right, op = kids[0], kids[2], c.text(kids[1])
	}
	return left, right, strings.TrimSpace(op)
}

func (c *converter) testUnary(n *sitter.Node) (ast.TestExpression, error) {
	kids := children(n)
	if len(kids) != 2 {
		return nil, c.unsupported(n, "malformed test")
	}
	op, operand := c.text(kids[0]), kids[1]

	if op == "!" {
		inner, err := c.testExpr(operand)
		if err != nil {
			return nil, err
		}
		return &ast.TestNot{Inner: inner}, nil
	}

	w, err := c.word(operand)
	if err != nil {
		return nil, err
	}
	if fop, ok := fileTestOps[op]; ok {
		return &ast.FileTest{Op: fop, Path: w}, nil
	}
	if sop, ok := stringTestOps[op]; ok {
		return &ast.StringTest{Op: sop, Value: w}, nil
	}
	return nil, c.unsupported(n, "test operator %q is not supported", op)
}

// testStatement turns a test used as a command back into `[` invocations
func testStatement(t ast.TestExpression, loc source.Location) ast.Statement {
	switch e := t.(type) {
	case *ast.TestAnd:
		return &ast.AndList{Left: testStatement(e.Left, loc), Right: testStatement(e.Right, loc), Location: loc}
	case *ast.TestOr:
		return &ast.OrList{Left: testStatement(e.Left, loc), Right: testStatement(e.Right, loc), Location: loc}
	case *ast.TestNot:
		if words := testWords(e.Inner); words != nil {
			return bracket(append([]ast.Expression{&ast.Literal{Value: "!"}}, words...), loc)
		}
		group := &ast.BraceGroup{Body: []ast.Statement{testStatement(e.Inner, loc)}, Location: loc}
		return &ast.Negated{Command: group, Location: loc}
	}
	return bracket(testWords(t), loc)
}

func bracket(words []ast.Expression, loc source.Location) *ast.Command {
	args := append(words, &ast.Glob{Pattern: "]"})
	return &ast.Command{Name: "[", Args: args, Location: loc}
}

// testWords returns the words of a primitive test, or nil for compound ones
func testWords(t ast.TestExpression) []ast.Expression {
	switch e := t.(type) {
	case *ast.Comparison:
		return []ast.Expression{e.Left, &ast.Literal{Value: e.Op.Flag()}, e.Right}
	case *ast.FileTest:
		return []ast.Expression{&ast.Literal{Value: e.Op.Flag()}, e.Path}
	case *ast.StringTest:
		return []ast.Expression{&ast.Literal{Value: e.Op.Flag()}, e.Value}
	}
	return nil
}

var arithOps = map[string]ast.ArithOp{
	"+": ast.Add, "-": ast.Sub, "*": ast.Mul, "/": ast.Div, "%": ast.Mod,
}

// arith converts the inside of $(( ... ))
func (c *converter) arith(n *sitter.Node) (ast.ArithExpression, error) {
	text := strings.TrimSpace(c.text(n))
	switch n.Type() {
	case "number":
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, c.unsupported(n, "invalid number %q", text)
		}
		return &ast.Number{Value: v}, nil
	case "variable_name", "word":
		if v, err := strconv.ParseInt(text, 0, 64); err == nil {
			return &ast.Number{Value: v}, nil
		}
		if !isName(text) {
			return nil, c.unsupported(n, "invalid arithmetic operand %q", text)
		}
		return &ast.ArithVariable{Name: text}, nil
	case "simple_expansion", "expansion":
		name := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(text, "$"), "{"), "}")
		if !isName(name) && paramName(name) != name {
			return nil, c.unsupported(n, "invalid arithmetic operand %q", text)
		}
		return &ast.ArithVariable{Name: name}, nil
	case "parenthesized_expression":
		inner := namedChildren(n)
		if len(inner) != 1 {
			return nil, c.unsupported(n, "malformed arithmetic group")
		}
		return c.arith(inner[0])
	case "unary_expression":
		kids := children(n)
		if len(kids) == 2 && c.text(kids[0]) == "-" {
			x, err := c.arith(kids[1])
			if err != nil {
				return nil, err
			}
			return &ast.ArithBinary{Op: ast.Sub, Left: &ast.Number{Value: 0}, Right: x}, nil
		}
	case "binary_expression":
		left, right, op := c.binaryParts(n)
		aop, ok := arithOps[op]
		if !ok || left == nil || right == nil {
			return nil, c.unsupported(n, "arithmetic operator %q is not supported", op)
		}
		l, err := c.arith(left)
		if err != nil {
			return nil, err
		}
		r, err := c.arith(right)
		if err != nil {
			return nil, err
		}
		return &ast.ArithBinary{Op: aop, Left: l, Right: r}, nil
	}
	return nil, c.unsupported(n, "unsupported arithmetic %q", text)
}
