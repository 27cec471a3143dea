package hirlower

import (
	"fmt"
	"strconv"

	"github.com/paiml/bashrs-sub005/internal/codegen/purify"
	"github.com/paiml/bashrs-sub005/internal/frontend/ast"
	"github.com/paiml/bashrs-sub005/internal/hir"
)

// lowerMatch picks the if-chain form when any arm tests a range or has a
// guard, and the native case form otherwise. A failed guard falls through
// to the next elif, so the output grows linearly with the arms.
func (l *Lowerer) lowerMatch(m *hir.MatchExpr, ctx lowerContext) ([]ast.Statement, error) {
	if len(m.Arms) == 0 {
		return nil, newError(EmptyMatch, m.Loc(), "match has no arms")
	}
	for _, arm := range m.Arms {
		if err := validatePattern(arm.Pattern); err != nil {
			return nil, err
		}
		if b, ok := arm.Pattern.(*hir.BindingPattern); ok {
			if stmt := rebinding(arm.Body, b.Name); stmt != nil {
				return nil, newError(InvalidPattern, stmt.Loc(), "'%s' is bound to the scrutinee and cannot be reassigned in its arm", b.Name)
			}
		}
	}

	prelude, scrut, scrutVar, err := l.scrutinee(m)
	if err != nil {
		return nil, err
	}

	if hasRange(m.Arms) || hasGuard(m.Arms) {
		chain, err := l.lowerChain(scrut, scrutVar, m.Arms, ctx)
		if err != nil {
			return nil, err
		}
		return append(prelude, chain...), nil
	}

	c, err := l.lowerCase(scrut, scrutVar, m.Arms, ctx)
	if err != nil {
		return nil, err
	}
	return append(prelude, c), nil
}

// scrutinee returns the word to dispatch on. Anything other than a variable
// or a plain literal is evaluated once into a `_match_N` temporary.
func (l *Lowerer) scrutinee(m *hir.MatchExpr) ([]ast.Statement, ast.Expression, string, error) {
	switch s := m.Scrutinee.(type) {
	case *hir.Ident:
		name := l.name(s.Name)
		return nil, &ast.Variable{Name: name}, name, nil
	case *hir.Literal:
		if !hasBinding(m.Arms) {
			return nil, &ast.Literal{Value: s.Value}, "", nil
		}
	case nil:
		return nil, nil, "", newError(UnsupportedExpr, m.Loc(), "match without a scrutinee")
	}

	v, err := l.value(m.Scrutinee)
	if err != nil {
		return nil, nil, "", err
	}
	tmp := fmt.Sprintf("_match_%d", l.tmpCounter)
	l.tmpCounter++
	return []ast.Statement{&ast.Assignment{Name: tmp, Value: v}}, &ast.Variable{Name: tmp}, tmp, nil
}

// withBinding runs fn with a binding pattern's name aliased to the scrutinee
func (l *Lowerer) withBinding(p hir.Pattern, scrutVar string, fn func() error) error {
	b, ok := p.(*hir.BindingPattern)
	if !ok || scrutVar == "" {
		return fn()
	}
	prev, had := l.aliases[b.Name]
	l.aliases[b.Name] = scrutVar
	defer func() {
		if had {
			l.aliases[b.Name] = prev
		} else {
			delete(l.aliases, b.Name)
		}
	}()
	return fn()
}

// lowerCase emits a case/esac over unguarded arms
func (l *Lowerer) lowerCase(scrut ast.Expression, scrutVar string, arms []*hir.MatchArm, ctx lowerContext) (*ast.Case, error) {
	out := &ast.Case{Word: scrut}
	catchAll := false

	for _, arm := range arms {
		var body []ast.Statement
		err := l.withBinding(arm.Pattern, scrutVar, func() error {
			var err error
			body, err = l.lowerBody(arm.Body, ctx)
			return err
		})
		if err != nil {
			return nil, err
		}

		out.Arms = append(out.Arms, ast.CaseArm{Patterns: casePatterns(arm.Pattern), Body: body})
		if isCatchAll(arm.Pattern) {
			catchAll = true
			break
		}
	}

	if !catchAll && ctx.kind == letContext {
		out.Arms = append(out.Arms, ast.CaseArm{Patterns: []string{"*"}})
	}
	return out, nil
}

// lowerChain emits if/elif/else; the first matching arm wins and an
// unguarded catch-all arm becomes the final else.
func (l *Lowerer) lowerChain(scrut ast.Expression, scrutVar string, arms []*hir.MatchArm, ctx lowerContext) ([]ast.Statement, error) {
	var out *ast.If
	var els []ast.Statement
	hasElse := false

	for _, arm := range arms {
		var body []ast.Statement
		var guard ast.TestExpression
		err := l.withBinding(arm.Pattern, scrutVar, func() error {
			var err error
			if body, err = l.lowerBody(arm.Body, ctx); err != nil {
				return err
			}
			if arm.Guard != nil {
				guard, err = l.test(arm.Guard)
			}
			return err
		})
		if err != nil {
			return nil, err
		}

		cond := conjoin(patternTest(arm.Pattern, scrut), guard)
		if cond == nil {
			els, hasElse = body, true
			break
		}

		if out == nil {
			out = &ast.If{Condition: &ast.Test{Cond: cond}, Then: body}
		} else {
			out.Elifs = append(out.Elifs, ast.ElifBranch{Condition: &ast.Test{Cond: cond}, Body: body})
		}
	}

	if out == nil {
		return els, nil
	}
	if hasElse {
		out.Else = nonNil(els)
	} else if ctx.kind == letContext {
		out.Else = []ast.Statement{}
	}
	return []ast.Statement{out}, nil
}

func conjoin(test, guard ast.TestExpression) ast.TestExpression {
	switch {
	case test == nil:
		return guard
	case guard == nil:
		return test
	}
	return &ast.TestAnd{Left: test, Right: guard}
}

// patternTest returns the test for a pattern, or nil when it matches anything
func patternTest(p hir.Pattern, scrut ast.Expression) ast.TestExpression {
	switch pat := p.(type) {
	case *hir.LiteralPattern:
		op := ast.StrEq
		if pat.Value.Kind == hir.LiteralInt {
			op = ast.IntEq
		}
		return &ast.Comparison{Op: op, Left: scrut, Right: &ast.Literal{Value: pat.Value.Value}}
	case *hir.RangePattern:
		upper := ast.IntLe
		if !pat.Inclusive {
			upper = ast.IntLt
		}
		return &ast.TestAnd{
			Left:  &ast.Comparison{Op: ast.IntGe, Left: scrut, Right: &ast.Literal{Value: pat.Lo.Value}},
			Right: &ast.Comparison{Op: upper, Left: scrut, Right: &ast.Literal{Value: pat.Hi.Value}},
		}
	case *hir.OrPattern:
		var out ast.TestExpression
		for _, alt := range pat.Alternatives {
			t := patternTest(alt, scrut)
			if t == nil {
				return nil
			}
			if out == nil {
				out = t
			} else {
				out = &ast.TestOr{Left: out, Right: t}
			}
		}
		return out
	}
	return nil
}

// casePatterns renders a pattern for a case clause. Wildcards and bindings
// both become `*`; shells cannot destructure.
func casePatterns(p hir.Pattern) []string {
	switch pat := p.(type) {
	case *hir.LiteralPattern:
		return []string{purify.QuoteLiteral(pat.Value.Value)}
	case *hir.OrPattern:
		var out []string
		for _, alt := range pat.Alternatives {
			out = append(out, casePatterns(alt)...)
		}
		return out
	}
	return []string{"*"}
}

func isCatchAll(p hir.Pattern) bool {
	switch pat := p.(type) {
	case *hir.WildcardPattern, *hir.BindingPattern:
		return true
	case *hir.OrPattern:
		for _, alt := range pat.Alternatives {
			if isCatchAll(alt) {
				return true
			}
		}
	}
	return false
}

func hasRange(arms []*hir.MatchArm) bool {
	var walk func(hir.Pattern) bool
	walk = func(p hir.Pattern) bool {
		switch pat := p.(type) {
		case *hir.RangePattern:
			return true
		case *hir.OrPattern:
			for _, alt := range pat.Alternatives {
				if walk(alt) {
					return true
				}
			}
		}
		return false
	}
	for _, arm := range arms {
		if walk(arm.Pattern) {
			return true
		}
	}
	return false
}

func hasGuard(arms []*hir.MatchArm) bool {
	for _, arm := range arms {
		if arm.Guard != nil {
			return true
		}
	}
	return false
}

func hasBinding(arms []*hir.MatchArm) bool {
	for _, arm := range arms {
		if _, ok := arm.Pattern.(*hir.BindingPattern); ok {
			return true
		}
	}
	return false
}

func validatePattern(p hir.Pattern) error {
	switch pat := p.(type) {
	case nil:
		return newError(InvalidPattern, nil, "missing pattern")
	case *hir.LiteralPattern:
		if pat.Value == nil {
			return newError(InvalidPattern, pat.Loc(), "literal pattern without a value")
		}
	case *hir.RangePattern:
		if pat.Lo == nil || pat.Hi == nil || pat.Lo.Kind != hir.LiteralInt || pat.Hi.Kind != hir.LiteralInt {
			return newError(InvalidPattern, pat.Loc(), "range bounds must be integer literals")
		}
		lo, errLo := strconv.ParseInt(pat.Lo.Value, 10, 64)
		hi, errHi := strconv.ParseInt(pat.Hi.Value, 10, 64)
		if errLo != nil || errHi != nil {
			return newError(InvalidPattern, pat.Loc(), "range bounds must be integer literals")
		}
		if lo > hi || (!pat.Inclusive && lo == hi) {
			return newError(EmptyRange, pat.Loc(), "range %s..%s matches nothing", pat.Lo.Value, pat.Hi.Value)
		}
	case *hir.BindingPattern:
		if pat.Name == "" {
			return newError(InvalidPattern, pat.Loc(), "binding pattern without a name")
		}
	case *hir.OrPattern:
		if len(pat.Alternatives) == 0 {
			return newError(InvalidPattern, pat.Loc(), "or-pattern without alternatives")
		}
		for _, alt := range pat.Alternatives {
			if _, ok := alt.(*hir.BindingPattern); ok {
				return newError(InvalidPattern, alt.Loc(), "bindings are not allowed inside or-patterns")
			}
			if err := validatePattern(alt); err != nil {
				return err
			}
		}
	}
	return nil
}

// rebinding finds a let or assignment to name anywhere inside expr
func rebinding(expr hir.Expr, name string) hir.Stmt {
	switch e := expr.(type) {
	case *hir.Block:
		for _, stmt := range e.Stmts {
			switch st := stmt.(type) {
			case *hir.LetStmt:
				if st.Name == name {
					return st
				}
				if found := rebinding(st.Value, name); found != nil {
					return found
				}
			case *hir.AssignStmt:
				if st.Name == name {
					return st
				}
				if found := rebinding(st.Value, name); found != nil {
					return found
				}
			case *hir.ExprStmt:
				if found := rebinding(st.X, name); found != nil {
					return found
				}
			case *hir.Return:
				if found := rebinding(st.Value, name); found != nil {
					return found
				}
			}
		}
	case *hir.Return:
		return rebinding(e.Value, name)
	case *hir.IfExpr:
		if e.Then != nil {
			if found := rebinding(e.Then, name); found != nil {
				return found
			}
		}
		return rebinding(e.Else, name)
	case *hir.MatchExpr:
		for _, arm := range e.Arms {
			if found := rebinding(arm.Body, name); found != nil {
				return found
			}
		}
	}
	return nil
}
