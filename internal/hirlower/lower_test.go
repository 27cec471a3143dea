package hirlower

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiml/bashrs-sub005/internal/codegen/purify"
	"github.com/paiml/bashrs-sub005/internal/hir"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func newLowerer() *Lowerer {
	return New(purify.DefaultOptions())
}

func match(scrut hir.Expr, arms ...*hir.MatchArm) *hir.MatchExpr {
	return &hir.MatchExpr{Scrutinee: scrut, Arms: arms}
}

func binary(op hir.BinaryOp, x, y hir.Expr) *hir.BinaryExpr {
	return &hir.BinaryExpr{Op: op, X: x, Y: y}
}

func let(name string, value hir.Expr) *hir.LetStmt {
	return &hir.LetStmt{Name: name, Value: value}
}

func TestLowerLet_CaseForm(t *testing.T) {
	out, err := newLowerer().LowerLet(let("result", match(hir.Name("x"),
		hir.Arm(hir.Lit(hir.Int("1")), hir.Int("10")),
		hir.Arm(hir.Lit(hir.Int("2")), hir.Int("20")),
		hir.Arm(hir.Wildcard(), hir.Int("0")),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`case "$x" in`,
		"    1)",
		"        result=10",
		"        ;;",
		"    2)",
		"        result=20",
		"        ;;",
		"    *)",
		"        result=0",
		"        ;;",
		"esac",
	), out)
}

func TestLowerLet_RangeUsesIfChain(t *testing.T) {
	out, err := newLowerer().LowerLet(let("result", match(hir.Name("x"),
		hir.Arm(hir.Range("1", "3"), hir.Str("low")),
		hir.Arm(hir.Range("4", "6"), hir.Str("mid")),
		hir.Arm(hir.Wildcard(), hir.Str("high")),
	)))

	require.NoError(t, err)
	assert.NotContains(t, out, "case")
	assert.NotContains(t, out, "esac")
	assert.Equal(t, lines(
		`if [ "$x" -ge 1 ] && [ "$x" -le 3 ]; then`,
		"    result=low",
		`elif [ "$x" -ge 4 ] && [ "$x" -le 6 ]; then`,
		"    result=mid",
		"else",
		"    result=high",
		"fi",
	), out)
}

func TestLowerLet_RangeMixedWithLiteral(t *testing.T) {
	exclusive := &hir.RangePattern{Lo: hir.Int("10"), Hi: hir.Int("20")}
	out, err := newLowerer().LowerLet(let("r", match(hir.Name("n"),
		hir.Arm(hir.Lit(hir.Int("0")), hir.Str("zero")),
		hir.Arm(exclusive, hir.Str("teens")),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`if [ "$n" -eq 0 ]; then`,
		"    r=zero",
		`elif [ "$n" -ge 10 ] && [ "$n" -lt 20 ]; then`,
		"    r=teens",
		"else",
		"    :",
		"fi",
	), out)
}

func TestLowerLet_DefaultClauseAlwaysEmitted(t *testing.T) {
	out, err := newLowerer().LowerLet(let("r", match(hir.Name("x"),
		hir.Arm(hir.Lit(hir.Str("a")), hir.Int("1")),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`case "$x" in`,
		"    a)",
		"        r=1",
		"        ;;",
		"    *)",
		"        ;;",
		"esac",
	), out)
}

func TestLowerLet_EmptyStringPattern(t *testing.T) {
	out, err := newLowerer().LowerLet(let("r", match(hir.Name("x"),
		hir.Arm(hir.Lit(hir.Str("")), hir.Str("")),
		hir.Arm(hir.Wildcard(), hir.Str("set")),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`case "$x" in`,
		"    '')",
		"        r=''",
		"        ;;",
		"    *)",
		"        r=set",
		"        ;;",
		"esac",
	), out)
}

func TestLowerReturn_EveryLeafReturns(t *testing.T) {
	out, err := newLowerer().LowerReturn(match(hir.Name("code"),
		hir.Arm(hir.Lit(hir.Int("0")), hir.Int("10")),
		hir.Arm(&hir.OrPattern{Alternatives: []hir.Pattern{hir.Lit(hir.Int("1")), hir.Lit(hir.Int("2"))}}, hir.Int("20")),
	))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`case "$code" in`,
		"    0)",
		"        return 10",
		"        ;;",
		"    1|2)",
		"        return 20",
		"        ;;",
		"esac",
	), out)
}

func TestLowerReturn_BooleanLeaf(t *testing.T) {
	out, err := newLowerer().LowerReturn(binary(hir.OpGe, hir.Name("n"), hir.Int("18")))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`if [ "$n" -ge 18 ]; then`,
		"    return 0",
		"else",
		"    return 1",
		"fi",
	), out)
}

func TestLowerLet_BooleanLeaf(t *testing.T) {
	out, err := newLowerer().LowerLet(let("ok", binary(hir.OpAnd,
		binary(hir.OpEq, hir.Name("mode"), hir.Str("fast")),
		&hir.UnaryExpr{Op: hir.OpNot, X: hir.Name("dry")},
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`if [ "$mode" = fast ] && ! [ "$dry" = true ]; then`,
		"    ok=true",
		"else",
		"    ok=false",
		"fi",
	), out)
}

func TestLowerLet_GuardFallsThrough(t *testing.T) {
	out, err := newLowerer().LowerLet(let("r", match(hir.Name("x"),
		&hir.MatchArm{
			Pattern: &hir.BindingPattern{Name: "n"},
			Guard:   binary(hir.OpGt, hir.Name("n"), hir.Int("10")),
			Body:    hir.Str("big"),
		},
		hir.Arm(hir.Lit(hir.Int("0")), hir.Str("zero")),
		hir.Arm(hir.Wildcard(), hir.Str("other")),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`if [ "$x" -gt 10 ]; then`,
		"    r=big",
		`elif [ "$x" -eq 0 ]; then`,
		"    r=zero",
		"else",
		"    r=other",
		"fi",
	), out)
}

func TestLowerLet_GuardInLiteralArm(t *testing.T) {
	out, err := newLowerer().LowerLet(let("r", match(hir.Name("x"),
		&hir.MatchArm{Pattern: hir.Lit(hir.Int("1")), Guard: hir.Name("verbose"), Body: hir.Str("loud")},
		hir.Arm(hir.Lit(hir.Int("1")), hir.Str("quiet")),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`if [ "$x" -eq 1 ] && [ "$verbose" = true ]; then`,
		"    r=loud",
		`elif [ "$x" -eq 1 ]; then`,
		"    r=quiet",
		"else",
		"    :",
		"fi",
	), out)
}

func TestLowerLet_ManyGuardsStayLinear(t *testing.T) {
	arms := make([]*hir.MatchArm, 0, 17)
	for i := 0; i < 16; i++ {
		arms = append(arms, &hir.MatchArm{
			Pattern: hir.Lit(hir.Int("1")),
			Guard:   binary(hir.OpGt, hir.Name("y"), hir.Int("0")),
			Body:    hir.Int("1"),
		})
	}
	arms = append(arms, hir.Arm(hir.Wildcard(), hir.Int("0")))

	out, err := newLowerer().LowerLet(let("r", match(hir.Name("x"), arms...)))
	require.NoError(t, err)

	// two lines per arm plus the closing else/fi
	assert.Equal(t, 2*len(arms)+1, strings.Count(out, "\n"))
	assert.Equal(t, 15, strings.Count(out, "elif "))
	assert.NotContains(t, out, "case ")
}

func TestLowerLet_GuardConjoinedInChain(t *testing.T) {
	out, err := newLowerer().LowerLet(let("r", match(hir.Name("x"),
		&hir.MatchArm{Pattern: hir.Range("1", "5"), Guard: hir.Name("flag"), Body: hir.Str("a")},
		hir.Arm(hir.Wildcard(), hir.Str("b")),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`if [ "$x" -ge 1 ] && [ "$x" -le 5 ] && [ "$flag" = true ]; then`,
		"    r=a",
		"else",
		"    r=b",
		"fi",
	), out)
}

func TestLowerLet_HoistsScrutinee(t *testing.T) {
	l := newLowerer()
	scrut := &hir.CallExpr{Func: "get_mode", Args: []hir.Expr{hir.Name("cfg")}}
	out, err := l.LowerLet(let("r", match(scrut,
		hir.Arm(hir.Lit(hir.Str("a")), hir.Int("1")),
		hir.Arm(&hir.BindingPattern{Name: "other"}, hir.Name("other")),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`_match_0=$(get_mode "$cfg")`,
		`case "$_match_0" in`,
		"    a)",
		"        r=1",
		"        ;;",
		"    *)",
		`        r="$_match_0"`,
		"        ;;",
		"esac",
	), out)

	// the counter keeps temporaries unique across constructs
	out, err = l.LowerLet(let("s", match(binary(hir.OpAdd, hir.Name("a"), hir.Int("1")),
		hir.Arm(hir.Wildcard(), hir.Int("0")),
	)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "_match_1=$((a + 1))\n"), out)
}

func TestLowerLet_ArmBodies(t *testing.T) {
	nested := match(hir.Name("y"),
		hir.Arm(hir.Lit(hir.Int("1")), hir.Str("inner")),
		hir.Arm(hir.Wildcard(), hir.Str("fallback")),
	)

	out, err := newLowerer().LowerLet(let("r", match(hir.Name("x"),
		hir.Arm(hir.Lit(hir.Str("empty")), hir.Body()),
		hir.Arm(hir.Lit(hir.Str("ret")), &hir.Return{Value: hir.Int("3")}),
		hir.Arm(hir.Lit(hir.Str("nested")), nested),
		hir.Arm(hir.Lit(hir.Str("multi")), hir.Body(
			let("tmp", hir.Int("1")),
			hir.Eval(&hir.CallExpr{Func: "log", Args: []hir.Expr{hir.Name("tmp")}}),
			hir.Eval(hir.Name("tmp")),
		)),
		hir.Arm(hir.Wildcard(), &hir.IfExpr{
			Cond: hir.Name("fast"),
			Then: hir.Body(hir.Eval(hir.Int("1"))),
			Else: hir.Body(hir.Eval(hir.Int("2"))),
		}),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`case "$x" in`,
		"    empty)",
		"        ;;",
		"    ret)",
		"        return 3",
		"        ;;",
		"    nested)",
		`        case "$y" in`,
		"            1)",
		"                r=inner",
		"                ;;",
		"            *)",
		"                r=fallback",
		"                ;;",
		"        esac",
		"        ;;",
		"    multi)",
		"        tmp=1",
		`        log "$tmp"`,
		`        r="$tmp"`,
		"        ;;",
		"    *)",
		`        if [ "$fast" = true ]; then`,
		"            r=1",
		"        else",
		"            r=2",
		"        fi",
		"        ;;",
		"esac",
	), out)
}

func TestLowerLet_IfWithoutElse(t *testing.T) {
	out, err := newLowerer().LowerLet(let("r", &hir.IfExpr{
		Cond: binary(hir.OpEq, hir.Name("x"), hir.Int("1")),
		Then: hir.Body(hir.Eval(hir.Str("one"))),
		Else: &hir.IfExpr{
			Cond: binary(hir.OpEq, hir.Name("x"), hir.Int("2")),
			Then: hir.Body(hir.Eval(hir.Str("two"))),
		},
	}))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`if [ "$x" -eq 1 ]; then`,
		"    r=one",
		`elif [ "$x" -eq 2 ]; then`,
		"    r=two",
		"else",
		"    :",
		"fi",
	), out)
}

func TestLowerStmt_BareMatch(t *testing.T) {
	out, err := newLowerer().LowerStmt(hir.Eval(match(hir.Name("cmd"),
		hir.Arm(hir.Lit(hir.Str("start")), &hir.CallExpr{Func: "start_service"}),
		hir.Arm(hir.Lit(hir.Str("stop")), &hir.CallExpr{Func: "stop_service"}),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`case "$cmd" in`,
		"    start)",
		"        start_service",
		"        ;;",
		"    stop)",
		"        stop_service",
		"        ;;",
		"esac",
	), out)
}

func TestLowerStmt_BareIfEmptyBranch(t *testing.T) {
	out, err := newLowerer().LowerStmt(hir.Eval(&hir.IfExpr{
		Cond: &hir.CallExpr{Func: "is_ready"},
		Then: hir.Body(),
		Else: hir.Body(hir.Eval(&hir.CallExpr{Func: "wait_ready"})),
	}))

	require.NoError(t, err)
	assert.Equal(t, lines(
		"if is_ready; then",
		"    :",
		"else",
		"    wait_ready",
		"fi",
	), out)
}

func TestLowerFunction(t *testing.T) {
	out, err := newLowerer().LowerFunction(&hir.Function{
		Name:    "classify",
		Params:  []string{"n"},
		Returns: true,
		Body: hir.Body(hir.Eval(match(hir.Name("n"),
			hir.Arm(hir.Lit(hir.Int("0")), hir.Int("1")),
			hir.Arm(hir.Wildcard(), hir.Int("0")),
		))),
	})

	require.NoError(t, err)
	assert.Equal(t, lines(
		"classify() {",
		`    n="$1"`,
		`    case "$n" in`,
		"        0)",
		"            return 1",
		"            ;;",
		"        *)",
		"            return 0",
		"            ;;",
		"    esac",
		"}",
	), out)
}

func TestLowerProgram(t *testing.T) {
	out, err := newLowerer().LowerProgram(&hir.Program{Functions: []*hir.Function{
		{Name: "main", Body: hir.Body(hir.Eval(&hir.CallExpr{Func: "echo", Args: []hir.Expr{hir.Str("hi there")}}))},
	}})

	require.NoError(t, err)
	assert.Equal(t, lines(
		"#!/bin/sh",
		"main() {",
		"    echo 'hi there'",
		"}",
		`main "$@"`,
	), out)
}

func TestLowerLet_BindingAliasesOnlyItsOwnName(t *testing.T) {
	out, err := newLowerer().LowerLet(let("r", match(hir.Name("x"),
		hir.Arm(&hir.BindingPattern{Name: "y"}, &hir.Block{Stmts: []hir.Stmt{
			let("z", hir.Name("y")),
			&hir.ExprStmt{X: hir.Name("z")},
		}}),
	)))

	require.NoError(t, err)
	assert.Equal(t, lines(
		`case "$x" in`,
		"    *)",
		`        z="$x"`,
		`        r="$z"`,
		"        ;;",
		"esac",
	), out)
}

func TestLowerProgram_NoMain(t *testing.T) {
	out, err := newLowerer().LowerProgram(&hir.Program{Functions: []*hir.Function{{Name: "helper"}}})

	require.NoError(t, err)
	assert.Equal(t, lines("#!/bin/sh", "helper() {", "    :", "}"), out)
}

func TestLower_Errors(t *testing.T) {
	tests := []struct {
		name string
		stmt hir.Stmt
		want error
	}{
		{"empty match", let("r", match(hir.Name("x"))), ErrEmptyMatch},
		{"empty range", let("r", match(hir.Name("x"), hir.Arm(hir.Range("5", "1"), hir.Int("1")))), ErrEmptyRange},
		{
			"empty exclusive range",
			let("r", match(hir.Name("x"), hir.Arm(&hir.RangePattern{Lo: hir.Int("3"), Hi: hir.Int("3")}, hir.Int("1")))),
			ErrEmptyRange,
		},
		{
			"match nested in expression",
			let("r", binary(hir.OpAdd, hir.Int("1"), match(hir.Name("x"), hir.Arm(hir.Wildcard(), hir.Int("1"))))),
			ErrUnsupportedExpr,
		},
		{
			"string in arithmetic",
			let("r", binary(hir.OpMul, hir.Str("a"), hir.Int("2"))),
			ErrUnsupportedExpr,
		},
		{"empty or pattern", let("r", match(hir.Name("x"), hir.Arm(&hir.OrPattern{}, hir.Int("1")))), ErrInvalidPattern},
		{
			"binding reassigned by let",
			let("r", match(hir.Name("x"), hir.Arm(&hir.BindingPattern{Name: "y"}, &hir.Block{Stmts: []hir.Stmt{
				let("y", hir.Int("5")),
				&hir.ExprStmt{X: hir.Name("y")},
			}}))),
			ErrInvalidPattern,
		},
		{
			"binding reassigned in nested branch",
			let("r", match(hir.Name("x"), hir.Arm(&hir.BindingPattern{Name: "y"}, &hir.IfExpr{
				Cond: hir.Name("flag"),
				Then: &hir.Block{Stmts: []hir.Stmt{&hir.AssignStmt{Name: "y", Value: hir.Int("1")}}},
				Else: &hir.Block{Stmts: []hir.Stmt{&hir.ExprStmt{X: hir.Name("y")}}},
			}))),
			ErrInvalidPattern,
		},
		{"missing pattern", let("r", match(hir.Name("x"), hir.Arm(nil, hir.Int("1")))), ErrInvalidPattern},
		{
			"non-integer range",
			let("r", match(hir.Name("x"), hir.Arm(&hir.RangePattern{Lo: hir.Str("a"), Hi: hir.Int("3"), Inclusive: true}, hir.Int("1")))),
			ErrInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newLowerer().LowerStmt(tt.stmt)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.True(t, errors.Is(err, tt.want), "got %v, want kind %v", err, tt.want)

			var lowerErr *LowerError
			require.True(t, errors.As(err, &lowerErr))
			assert.NotEmpty(t, lowerErr.ToDiagnostic().Code)
		})
	}
}

func TestLower_IsPure(t *testing.T) {
	stmt := let("r", match(hir.Name("x"),
		hir.Arm(hir.Range("1", "3"), hir.Str("low")),
		hir.Arm(hir.Wildcard(), hir.Str("high")),
	))
	first, err := newLowerer().LowerLet(stmt)
	require.NoError(t, err)
	second, err := newLowerer().LowerLet(stmt)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
