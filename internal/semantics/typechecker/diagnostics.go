package typechecker

import (
	"fmt"

	"github.com/paiml/bashrs-sub005/internal/diagnostics"
	"github.com/paiml/bashrs-sub005/internal/source"
	"github.com/paiml/bashrs-sub005/internal/types"
)

// DiagnosticKind classifies a TypeDiagnostic
type DiagnosticKind int

const (
	TypeMismatch DiagnosticKind = iota
	UndeclaredVariable
	ImplicitCoercion
	StringInArithmetic
)

func (k DiagnosticKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case UndeclaredVariable:
		return "UndeclaredVariable"
	case ImplicitCoercion:
		return "ImplicitCoercion"
	case StringInArithmetic:
		return "StringInArithmetic"
	default:
		return "Unknown"
	}
}

// TypeDiagnostic is one finding of the checker
type TypeDiagnostic struct {
	Kind     DiagnosticKind
	Severity diagnostics.Severity
	Message  string
	Location *source.Location

	Name     string          // variable or parameter involved
	Function string          // set for call-site argument mismatches
	Expected types.ShellType // TypeMismatch / ImplicitCoercion only
	Actual   types.ShellType
}

func (d TypeDiagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Location, d.Message)
}

func (d TypeDiagnostic) code() string {
	switch d.Kind {
	case TypeMismatch:
		if d.Function != "" {
			return diagnostics.ErrArgumentTypeMismatch
		}
		return diagnostics.ErrTypeMismatch
	case UndeclaredVariable:
		return diagnostics.ErrUndeclaredVariable
	case ImplicitCoercion:
		return diagnostics.ErrImplicitCoercion
	default:
		return diagnostics.ErrStringInArithmetic
	}
}

// ToDiagnostic converts the finding into a renderable diagnostic
func (d TypeDiagnostic) ToDiagnostic(filePath string) *diagnostics.Diagnostic {
	var diag *diagnostics.Diagnostic
	switch d.Kind {
	case TypeMismatch:
		if d.Function == "" {
			diag = diagnostics.TypeMismatch(d.Severity, d.Location, d.Name, d.Expected.String(), d.Actual.String())
			break
		}
		diag = diagnostics.New(d.Severity, d.Message).
			WithCode(d.code()).
			WithPrimaryLabel(d.Location, fmt.Sprintf("expected %s, found %s", d.Expected, d.Actual))
	case UndeclaredVariable:
		diag = diagnostics.UndeclaredVariable(d.Severity, d.Location, d.Name)
	case ImplicitCoercion:
		diag = diagnostics.New(d.Severity, d.Message).
			WithCode(d.code()).
			WithPrimaryLabel(d.Location, "integer stored as string")
	default:
		diag = diagnostics.New(d.Severity, d.Message).
			WithCode(d.code()).
			WithPrimaryLabel(d.Location, "used in arithmetic").
			WithHelp(fmt.Sprintf("annotate '%s' as int or validate it before use", d.Name))
	}
	if filePath != "" {
		diag.WithFile(filePath)
	}
	return diag
}
