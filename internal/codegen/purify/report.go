package purify

import (
	"fmt"

	"github.com/paiml/bashrs-sub005/internal/diagnostics"
	"github.com/paiml/bashrs-sub005/internal/source"
)

// FindingKind tells an applied rewrite from a flagged construct
type FindingKind int

const (
	IdempotencyFix FindingKind = iota
	NonDeterministic
)

// Finding records one rewrite or warning made while purifying
type Finding struct {
	Kind     FindingKind
	Subject  string // command or variable name
	Message  string
	Location *source.Location
}

// Report collects the findings of one Generate call
type Report struct {
	Findings []Finding
}

func (r *Report) add(kind FindingKind, subject, message string, loc *source.Location) {
	r.Findings = append(r.Findings, Finding{Kind: kind, Subject: subject, Message: message, Location: loc})
}

// Count returns how many findings of kind were recorded
func (r *Report) Count(kind FindingKind) int {
	n := 0
	for _, f := range r.Findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// Diagnostics converts the findings for terminal rendering
func (r *Report) Diagnostics(filePath string) []*diagnostics.Diagnostic {
	out := make([]*diagnostics.Diagnostic, 0, len(r.Findings))
	for _, f := range r.Findings {
		var diag *diagnostics.Diagnostic
		switch f.Kind {
		case IdempotencyFix:
			diag = diagnostics.NewInfo(f.Message).
				WithCode(diagnostics.InfoIdempotencyFix).
				WithPrimaryLabel(f.Location, fmt.Sprintf("'%s' made safe to re-run", f.Subject))
		default:
			diag = diagnostics.NewWarning(f.Message).
				WithCode(diagnostics.WarnNonDeterministic).
				WithPrimaryLabel(f.Location, "value differs between runs").
				WithHelp("pass the value in explicitly instead")
		}
		if filePath != "" {
			diag.WithFile(filePath)
		}
		out = append(out, diag)
	}
	return out
}
