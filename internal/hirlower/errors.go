package hirlower

import (
	"fmt"

	"github.com/paiml/bashrs-sub005/internal/diagnostics"
	"github.com/paiml/bashrs-sub005/internal/source"
)

// ErrorKind classifies input the lowering engine refuses to guess about.
type ErrorKind int

const (
	EmptyMatch      ErrorKind = iota // a match with zero arms
	EmptyRange                       // a range pattern whose lower bound exceeds its upper bound
	UnsupportedExpr                  // a construct with no shell rendering in this position
	InvalidPattern                   // a malformed pattern
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyMatch:
		return "empty match"
	case EmptyRange:
		return "empty range"
	case UnsupportedExpr:
		return "unsupported expression"
	case InvalidPattern:
		return "invalid pattern"
	default:
		return "unknown"
	}
}

// LowerError reports malformed or unsupported input.
type LowerError struct {
	Kind     ErrorKind
	Message  string
	Location *source.Location
}

// Sentinels for errors.Is comparisons on the kind alone.
var (
	ErrEmptyMatch      = &LowerError{Kind: EmptyMatch}
	ErrEmptyRange      = &LowerError{Kind: EmptyRange}
	ErrUnsupportedExpr = &LowerError{Kind: UnsupportedExpr}
	ErrInvalidPattern  = &LowerError{Kind: InvalidPattern}
)

func (e *LowerError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any LowerError of the same kind.
func (e *LowerError) Is(target error) bool {
	t, ok := target.(*LowerError)
	return ok && t.Kind == e.Kind
}

// ToDiagnostic converts the error for terminal rendering
func (e *LowerError) ToDiagnostic() *diagnostics.Diagnostic {
	codes := map[ErrorKind]string{
		EmptyMatch:      diagnostics.ErrEmptyMatch,
		EmptyRange:      diagnostics.ErrEmptyRange,
		UnsupportedExpr: diagnostics.ErrUnsupportedExpr,
		InvalidPattern:  diagnostics.ErrInvalidPattern,
	}
	return diagnostics.NewError(e.Error()).
		WithCode(codes[e.Kind]).
		WithPrimaryLabel(e.Location, e.Kind.String())
}

func newError(kind ErrorKind, loc *source.Location, format string, args ...any) *LowerError {
	return &LowerError{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc}
}
