package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/paiml/bashrs-sub005/colors"
	"github.com/paiml/bashrs-sub005/internal/source"
)

const (
	STR_MULTIPLIER = "%*d | "
	LINE_POS       = "%s--> %s:%d:%d\n"
)

// SourceCache holds script contents for snippet rendering.
// Scripts are registered explicitly; the emitter never reads from disk.
type SourceCache struct {
	files map[string][]string
}

func NewSourceCache() *SourceCache {
	return &SourceCache{
		files: make(map[string][]string),
	}
}

// AddSource registers the content of a script
func (sc *SourceCache) AddSource(filepath, content string) {
	sc.files[filepath] = source.SplitLines(content)
}

// GetLine retrieves a specific 1-based line from a registered script
func (sc *SourceCache) GetLine(filepath string, line int) (string, error) {
	lines, ok := sc.files[filepath]
	if !ok {
		return "", fmt.Errorf("no source registered for %s", filepath)
	}
	if line > 0 && line <= len(lines) {
		return lines[line-1], nil
	}
	return "", fmt.Errorf("line %d out of range", line)
}

// Emitter handles the rendering and output of diagnostics
type Emitter struct {
	cache       *SourceCache
	writer      io.Writer
	highlighter *SyntaxHighlighter
}

// NewEmitter creates an emitter that writes to a specific writer
func NewEmitter(w io.Writer, cache *SourceCache) *Emitter {
	if cache == nil {
		cache = NewSourceCache()
	}
	return &Emitter{
		cache:       cache,
		writer:      w,
		highlighter: NewSyntaxHighlighter(colors.Enabled),
	}
}

// Emit renders one diagnostic: header, labelled snippets, notes and help
func (e *Emitter) Emit(diag *Diagnostic) {
	e.printHeader(diag)

	for _, label := range diag.Labels {
		e.printLabel(diag.FilePath, label, diag.Severity)
	}

	for _, note := range diag.Notes {
		colors.CYAN.Fprint(e.writer, "  = note: ")
		fmt.Fprintln(e.writer, note.Message)
	}

	if diag.Help != "" {
		colors.GREEN.Fprint(e.writer, "  = help: ")
		fmt.Fprintln(e.writer, diag.Help)
	}

	fmt.Fprintln(e.writer)
}

func severityColor(severity Severity) colors.COLOR {
	switch severity {
	case Error:
		return colors.BOLD_RED
	case Warning:
		return colors.BOLD_YELLOW
	case Info:
		return colors.BOLD_CYAN
	default:
		return colors.BOLD_PURPLE
	}
}

func (e *Emitter) printHeader(diag *Diagnostic) {
	color := severityColor(diag.Severity)
	color.Fprint(e.writer, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.writer, "[%s]", diag.Code)
	}
	fmt.Fprint(e.writer, ": ")
	color.Fprintln(e.writer, diag.Message)
}

func (e *Emitter) printLabel(filepath string, label Label, severity Severity) {
	loc := label.Location
	if !loc.IsKnown() {
		if label.Message != "" {
			colors.GREY.Fprintf(e.writer, "  --> %s: %s\n", fallbackPath(filepath, loc), label.Message)
		}
		return
	}
	if filepath == "" {
		filepath = loc.File()
	}

	start, end := loc.Start, loc.End
	lineNumWidth := len(fmt.Sprintf("%d", end.Line))

	colors.BLUE.Fprintf(e.writer, LINE_POS, strings.Repeat(" ", lineNumWidth), filepath, start.Line, start.Column)
	fmt.Fprint(e.writer, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprintln(e.writer, " |")

	sourceLine, err := e.cache.GetLine(filepath, start.Line)
	if err != nil {
		fmt.Fprint(e.writer, strings.Repeat(" ", lineNumWidth))
		colors.GREY.Fprint(e.writer, " = ")
		fmt.Fprintln(e.writer, label.Message)
		return
	}

	colors.GREY.Fprintf(e.writer, STR_MULTIPLIER, lineNumWidth, start.Line)
	fmt.Fprintln(e.writer, e.highlighter.HighlightLine(sourceLine))

	endCol := end.Column
	if end.Line != start.Line {
		endCol = len(sourceLine) + 1
	}
	length := endCol - start.Column
	if length <= 0 {
		length = 1
	}

	marker, color := "^", severityColor(severity)
	if label.Style == Secondary {
		marker, color = "-", colors.BLUE
	}

	fmt.Fprint(e.writer, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprint(e.writer, " | ")
	fmt.Fprint(e.writer, strings.Repeat(" ", max(start.Column-1, 0)))
	color.Fprint(e.writer, strings.Repeat(marker, length))
	if label.Message != "" {
		fmt.Fprint(e.writer, " ")
		color.Fprint(e.writer, label.Message)
	}
	fmt.Fprintln(e.writer)
}

func fallbackPath(filepath string, loc *source.Location) string {
	if filepath != "" {
		return filepath
	}
	return loc.File()
}
