package typechecker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiml/bashrs-sub005/internal/diagnostics"
	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/types"
)

func TestCheckAST_AnnotatedAssignment(t *testing.T) {
	c := New(Options{})
	diags := c.CheckAST(script(
		comment(" @type port: int"),
		assign("port", lit("8080")),
	))

	assert.Empty(t, diags)
	assert.Equal(t, types.TypeInteger, c.Context().LookupType("port"))
	assert.Empty(t, c.Pending())
}

func TestCheckAST_AnnotationMismatch(t *testing.T) {
	diags := CheckAST(script(
		comment(" @type name: int"),
		assign("name", lit("hello")),
	))

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, TypeMismatch, d.Kind)
	assert.Equal(t, diagnostics.Warning, d.Severity)
	assert.True(t, d.Expected.Equals(types.TypeInteger))
	assert.True(t, d.Actual.Equals(types.TypeString))
}

func TestCheckAST_GradualCompatibility(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		value string
		want  []summary
	}{
		{"string accepts integer", "str", "42", []summary{}},
		{"integer rejects string", "int", "abc", []summary{{TypeMismatch, "warning", "v"}}},
		{"fd accepts integer", "fd", "3", []summary{}},
		{"bool rejects integer", "bool", "1", []summary{{TypeMismatch, "warning", "v"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := CheckAST(script(
				comment("@type v: "+tt.typ),
				assign("v", lit(tt.value)),
			))
			if diff := cmp.Diff(tt.want, summarize(diags)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckAST_UntypedCodeIsSilent(t *testing.T) {
	diags := CheckAST(script(
		assign("a", lit("1")),
		assign("a", lit("text")),
		command("echo", ref("a"), ref("undefined")),
		assign("b", &ast.Arithmetic{Arith: &ast.ArithVariable{Name: "a"}}),
	))
	assert.Empty(t, diags)
}

func TestCheckAST_AnnotationTakesPriority(t *testing.T) {
	c := New(Options{})
	c.CheckAST(script(
		comment("@type label: str"),
		assign("label", lit("7")),
		assign("count", lit("7")),
	))

	assert.Equal(t, types.TypeString, c.Context().LookupType("label"))
	assert.Equal(t, types.TypeInteger, c.Context().LookupType("count"))
}

func TestCheckAST_AnnotationWaitsForMatchingName(t *testing.T) {
	c := New(Options{})
	diags := c.CheckAST(script(
		comment("@type late: int"),
		assign("other", lit("x")),
		assign("late", lit("word")),
	))

	require.Len(t, diags, 1)
	assert.Equal(t, "late", diags[0].Name)
}

func TestCheckAST_DeclarationFlags(t *testing.T) {
	c := New(Options{})
	c.CheckAST(script(
		command("declare", words("-i", "n", "m=3")...),
		command("local", words("-a", "list")...),
		command("typeset", words("-iA", "table")...),
		command("declare", words("plain")...),
	))

	ctx := c.Context()
	assert.Equal(t, types.TypeInteger, ctx.LookupType("n"))
	assert.Equal(t, types.TypeInteger, ctx.LookupType("m"))
	assert.True(t, ctx.LookupType("list").Equals(types.NewArray(types.TypeString)))
	assert.True(t, ctx.LookupType("table").Equals(types.NewAssocArray(types.TypeString, types.TypeString)))
	assert.Nil(t, ctx.LookupType("plain"))
	assert.True(t, ctx.IsDeclared("plain"))
}

func TestCheckAST_FunctionSignature(t *testing.T) {
	c := New(Options{})
	diags := c.CheckAST(script(
		comment("@param count: int"),
		comment("@param label: str"),
		comment("@returns: exit_code"),
		&ast.Function{Name: "deploy", Body: []ast.Statement{
			comment("@type copy: int"),
			assign("copy", ref("label")),
		}},
	))

	sig := c.Context().LookupFunction("deploy")
	require.NotNil(t, sig)
	require.Len(t, sig.Params, 2)
	assert.Equal(t, "count", sig.Params[0].Name)
	assert.Equal(t, "label", sig.Params[1].Name)
	assert.Equal(t, types.TypeExitCode, sig.Returns)
	assert.Empty(t, c.Pending())

	// label is bound as String inside the body
	require.Len(t, diags, 1)
	assert.Equal(t, "copy", diags[0].Name)

	// parameters do not leak out of the function scope
	assert.Nil(t, c.Context().LookupType("label"))
	assert.Equal(t, 1, c.Context().Depth())
}

func TestCheckAST_FunctionWithoutAnnotations(t *testing.T) {
	c := New(Options{})
	diags := c.CheckAST(script(
		comment("@type later: int"),
		&ast.Function{Name: "helper", Body: []ast.Statement{
			comment("@type inner: int"),
			assign("inner", lit("oops")),
		}},
	))

	assert.Nil(t, c.Context().LookupFunction("helper"))
	require.Len(t, c.Pending(), 1, "plain annotation stays queued")
	assert.Equal(t, "later", c.Pending()[0].Name)
	require.Len(t, diags, 1, "body is still checked")
	assert.Equal(t, "inner", diags[0].Name)
}

func TestCheckAST_NestedBodies(t *testing.T) {
	mismatch := func(name string) []ast.Statement {
		return []ast.Statement{comment("@type " + name + ": int"), assign(name, lit("x"))}
	}

	diags := CheckAST(script(
		&ast.If{
			Condition: &ast.Test{Cond: &ast.StringTest{Op: ast.StringNonEmpty, Value: ref("a")}},
			Then:      mismatch("a1"),
			Elifs:     []ast.ElifBranch{{Condition: lit("true"), Body: mismatch("a2")}},
			Else:      mismatch("a3"),
		},
		&ast.While{Condition: lit("true"), Body: mismatch("b")},
		&ast.Until{Condition: lit("true"), Body: mismatch("c")},
		&ast.For{Variable: "i", Items: lit("1"), Body: mismatch("d")},
		&ast.Case{Word: ref("i"), Arms: []ast.CaseArm{{Patterns: []string{"*"}, Body: mismatch("e")}}},
		&ast.BraceGroup{Body: mismatch("f")},
		&ast.ForCStyle{Init: "i=0", Condition: "i<3", Increment: "i++", Body: mismatch("g")},
		&ast.AndList{Left: command("true"), Right: &ast.BraceGroup{Body: mismatch("h")}},
		&ast.Select{Variable: "s", Items: lit("x"), Body: mismatch("k")},
	))

	var names []string
	for _, d := range diags {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"a1", "a2", "a3", "b", "c", "d", "e", "f", "g", "h", "k"}, names)
}

func TestInferExpr(t *testing.T) {
	c := New(Options{})
	c.CheckAST(script(assign("n", lit("5"))))

	tests := []struct {
		name string
		expr ast.Expression
		want types.ShellType
	}{
		{"digits", lit("42"), types.TypeInteger},
		{"negative", lit("-7"), types.TypeInteger},
		{"bare dash", lit("-"), types.TypeString},
		{"empty", lit(""), types.TypeString},
		{"word", lit("abc"), types.TypeString},
		{"known variable", ref("n"), types.TypeInteger},
		{"unknown variable", ref("zzz"), nil},
		{"command subst", &ast.CommandSubst{Command: command("date")}, types.TypeString},
		{"arithmetic", &ast.Arithmetic{Arith: &ast.Number{Value: 1}}, types.TypeInteger},
		{"array", &ast.Array{Items: words("a", "b")}, types.NewArray(types.TypeString)},
		{"concat", &ast.Concat{Parts: words("a", "1")}, types.TypeString},
		{"test", &ast.Test{Cond: &ast.StringTest{Value: lit("")}}, types.TypeBoolean},
		{"glob", &ast.Glob{Pattern: "*.sh"}, types.TypeString},
		{"command condition", &ast.CommandCondition{Command: command("true")}, types.TypeExitCode},
		{"default uses variable type", &ast.DefaultValue{Variable: "n", Default: lit("word")}, types.TypeInteger},
		{"default of unknown", &ast.DefaultValue{Variable: "zzz", Default: lit("1")}, nil},
		{"assign default", &ast.AssignDefault{Variable: "n", Default: lit("x")}, types.TypeInteger},
		{"error if unset", &ast.ErrorIfUnset{Variable: "n", Message: lit("x")}, types.TypeInteger},
		{"alternative", &ast.AlternativeValue{Variable: "n", Alternative: lit("x")}, types.TypeInteger},
		{"length", &ast.StringLength{Variable: "zzz"}, types.TypeInteger},
		{"remove suffix", &ast.RemoveSuffix{Variable: "n", Pattern: lit("1")}, types.TypeString},
		{"remove prefix", &ast.RemovePrefix{Variable: "n", Pattern: lit("1")}, types.TypeString},
		{"remove longest prefix", &ast.RemoveLongestPrefix{Variable: "n", Pattern: lit("1")}, types.TypeString},
		{"remove longest suffix", &ast.RemoveLongestSuffix{Variable: "n", Pattern: lit("1")}, types.TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.InferExpr(tt.expr)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equals(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCheckAST_WarningsAsErrors(t *testing.T) {
	diags := New(Options{WarningsAsErrors: true}).CheckAST(script(
		comment("@type n: int"),
		assign("n", lit("text")),
	))

	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.Error, diags[0].Severity)
}

func TestCheckAST_StrictMode(t *testing.T) {
	tests := []struct {
		name  string
		stmts []ast.Statement
		want  []summary
	}{
		{
			name:  "undeclared reported once",
			stmts: []ast.Statement{command("echo", ref("missing"), ref("missing"))},
			want:  []summary{{UndeclaredVariable, "info", "missing"}},
		},
		{
			name: "special and environment parameters",
			stmts: []ast.Statement{
				command("echo", ref("1"), ref("@"), ref("?"), ref("HOME"), ref("PATH")),
			},
			want: []summary{},
		},
		{
			name: "defaults are safe references",
			stmts: []ast.Statement{
				command("echo", &ast.DefaultValue{Variable: "opt", Default: lit("x")}),
				command("test", &ast.Test{Cond: &ast.StringTest{Op: ast.StringEmpty, Value: ref("maybe")}}),
			},
			want: []summary{},
		},
		{
			name: "loop and read variables are declared",
			stmts: []ast.Statement{
				&ast.For{Variable: "f", Items: &ast.Glob{Pattern: "*"}, Body: []ast.Statement{command("echo", ref("f"))}},
				command("read", words("-r", "line")...),
				command("echo", ref("line")),
			},
			want: []summary{},
		},
		{
			name: "implicit coercion",
			stmts: []ast.Statement{
				comment("@type label: str"),
				assign("label", lit("12")),
			},
			want: []summary{{ImplicitCoercion, "info", "label"}},
		},
		{
			name: "string in arithmetic",
			stmts: []ast.Statement{
				assign("s", lit("abc")),
				assign("r", &ast.Arithmetic{Arith: &ast.ArithBinary{
					Op: ast.Add, Left: &ast.ArithVariable{Name: "s"}, Right: &ast.Number{Value: 1},
				}}),
			},
			want: []summary{{StringInArithmetic, "warning", "s"}},
		},
		{
			name: "call site argument",
			stmts: []ast.Statement{
				comment("@param n: int"),
				&ast.Function{Name: "retry", Body: []ast.Statement{command("echo", ref("n"))}},
				command("retry", lit("three")),
				command("retry", lit("3")),
			},
			want: []summary{{TypeMismatch, "warning", "n"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := New(Options{Strict: true}).CheckAST(script(tt.stmts...))
			if diff := cmp.Diff(tt.want, summarize(diags)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckAST_SubstitutedCommandsCheckedInEveryMode(t *testing.T) {
	s := script(
		comment("@type count: int"),
		command("echo", &ast.CommandSubst{Command: assign("count", lit("many"))}),
		&ast.If{
			Condition: &ast.CommandCondition{Command: assign("ready", lit("yes"))},
			Then:      []ast.Statement{command("echo", ref("ready"))},
		},
	)

	for _, strict := range []bool{false, true} {
		c := New(Options{Strict: strict})
		diags := c.CheckAST(s)

		want := []summary{{TypeMismatch, "warning", "count"}}
		if diff := cmp.Diff(want, summarize(diags)); diff != "" {
			t.Errorf("strict=%v: diagnostics mismatch (-want +got):\n%s", strict, diff)
		}
		assert.Empty(t, c.Pending(), "strict=%v", strict)
		assert.Equal(t, types.TypeInteger, c.Context().LookupType("count"), "strict=%v", strict)
		assert.Equal(t, types.TypeString, c.Context().LookupType("ready"), "strict=%v", strict)
	}
}

func TestCheckAST_IsRepeatable(t *testing.T) {
	s := script(
		comment("@type a: int"),
		assign("a", lit("x")),
		comment("@type b: bool"),
		assign("b", lit("1")),
	)
	c := New(Options{})
	first := summarize(c.CheckAST(s))
	second := summarize(c.CheckAST(s))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated check differs (-first +second):\n%s", diff)
	}
}

func TestTypeDiagnostic_ToDiagnostic(t *testing.T) {
	diags := New(Options{Strict: true}).CheckAST(script(
		comment("@param n: int"),
		&ast.Function{Name: "retry"},
		command("retry", lit("x")),
		comment("@type v: int"),
		assign("v", lit("x")),
		command("echo", ref("ghost")),
	))
	require.Len(t, diags, 3)

	codes := []string{
		diags[0].ToDiagnostic("a.sh").Code,
		diags[1].ToDiagnostic("a.sh").Code,
		diags[2].ToDiagnostic("a.sh").Code,
	}
	assert.Equal(t, []string{
		diagnostics.ErrArgumentTypeMismatch,
		diagnostics.ErrTypeMismatch,
		diagnostics.ErrUndeclaredVariable,
	}, codes)
	assert.Equal(t, "a.sh", diags[0].ToDiagnostic("a.sh").FilePath)
}
