package diagnostics

import (
	"fmt"

	"github.com/paiml/bashrs-sub005/internal/source"
)

// Common diagnostic builders shared by the checker, purifier and lowering

// TypeMismatch creates a diagnostic for an annotated variable receiving a value of another type
func TypeMismatch(severity Severity, loc *source.Location, name, expected, actual string) *Diagnostic {
	return New(severity, fmt.Sprintf("type mismatch for '%s'", name)).
		WithCode(ErrTypeMismatch).
		WithPrimaryLabel(loc, fmt.Sprintf("expected %s, found %s", expected, actual)).
		WithHelp(fmt.Sprintf("change the value or the @type annotation of '%s'", name))
}

// UndeclaredVariable creates a diagnostic for a reference to a never-assigned variable
func UndeclaredVariable(severity Severity, loc *source.Location, name string) *Diagnostic {
	return New(severity, fmt.Sprintf("variable '%s' is never assigned", name)).
		WithCode(ErrUndeclaredVariable).
		WithPrimaryLabel(loc, "referenced here").
		WithHelp("assign it before use or provide a default with ${" + name + ":-...}")
}

// ParseFailed creates a diagnostic for a script the front-end could not read
func ParseFailed(path string, err error) *Diagnostic {
	return NewError("failed to parse script").
		WithCode(ErrParseFailed).
		WithFile(path).
		WithNote(err.Error())
}
