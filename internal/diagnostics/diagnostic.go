package diagnostics

import (
	"github.com/paiml/bashrs-sub005/internal/source"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Label represents a labeled section of a script in a diagnostic
type Label struct {
	Location *source.Location
	Message  string
	Style    LabelStyle
}

type LabelStyle int

const (
	Primary   LabelStyle = iota // The main location (uses ^^^)
	Secondary                   // Additional context (uses ---)
)

// Note represents additional information attached to a diagnostic
type Note struct {
	Message string
}

// Diagnostic is a rendered-ready report about a script
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string // like "T0001"
	FilePath string
	Labels   []Label
	Notes    []Note
	Help     string
}

func newDiagnostic(severity Severity, message string) *Diagnostic {
	return &Diagnostic{
		Severity: severity,
		Message:  message,
		Labels:   make([]Label, 0),
		Notes:    make([]Note, 0),
	}
}

// NewError creates a new error diagnostic
func NewError(message string) *Diagnostic { return newDiagnostic(Error, message) }

// NewWarning creates a new warning diagnostic
func NewWarning(message string) *Diagnostic { return newDiagnostic(Warning, message) }

// NewInfo creates a new info diagnostic
func NewInfo(message string) *Diagnostic { return newDiagnostic(Info, message) }

// New creates a diagnostic with an explicit severity
func New(severity Severity, message string) *Diagnostic { return newDiagnostic(severity, message) }

// WithCode sets the diagnostic code
func (d *Diagnostic) WithCode(code string) *Diagnostic {
	d.Code = code
	return d
}

func (d *Diagnostic) hasPrimary() bool {
	for _, label := range d.Labels {
		if label.Style == Primary {
			return true
		}
	}
	return false
}

// WithPrimaryLabel adds the primary labeled location. Only the first primary label is kept,
// and it is always stored ahead of secondary labels.
func (d *Diagnostic) WithPrimaryLabel(loc *source.Location, message string) *Diagnostic {
	if d.hasPrimary() {
		return d
	}
	if d.FilePath == "" && loc != nil && loc.Filename != nil {
		d.FilePath = *loc.Filename
	}
	d.Labels = append([]Label{{Location: loc, Message: message, Style: Primary}}, d.Labels...)
	return d
}

// WithSecondaryLabel adds a context label. A primary label must already exist.
func (d *Diagnostic) WithSecondaryLabel(loc *source.Location, message string) *Diagnostic {
	if !d.hasPrimary() {
		panic("Cannot add secondary label without primary label. Call WithPrimaryLabel first.")
	}
	d.Labels = append(d.Labels, Label{Location: loc, Message: message, Style: Secondary})
	return d
}

// WithFile records the script path when labels carry anonymous locations
func (d *Diagnostic) WithFile(path string) *Diagnostic {
	d.FilePath = path
	return d
}

// WithNote adds a note to the diagnostic
func (d *Diagnostic) WithNote(message string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Message: message})
	return d
}

// WithHelp sets helpful suggestion for fixing the problem
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// PrimaryLocation returns the location of the primary label, or nil
func (d *Diagnostic) PrimaryLocation() *source.Location {
	for _, label := range d.Labels {
		if label.Style == Primary {
			return label.Location
		}
	}
	return nil
}
