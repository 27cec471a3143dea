package source

import (
	"fmt"
	"strings"
)

// Location represents a span of a script with start and end positions.
// Nodes built by hand (tests, lowering) carry a zero Location.
type Location struct {
	Start    *Position
	End      *Position
	Filename *string
}

// NewLocation creates a new Location with the given start and end positions
func NewLocation(filename *string, start, end *Position) *Location {
	return &Location{
		Filename: filename,
		Start:    start,
		End:      end,
	}
}

// IsKnown reports whether the location carries positions.
func (l *Location) IsKnown() bool {
	return l != nil && l.Start != nil && l.End != nil
}

// Contains checks if the given position is within this location
func (l *Location) Contains(pos *Position) bool {
	if !l.IsKnown() {
		return false
	}
	if l.Start.Line > pos.Line || (l.Start.Line == pos.Line && l.Start.Column > pos.Column) {
		return false
	}
	if l.End.Line < pos.Line || (l.End.Line == pos.Line && l.End.Column < pos.Column) {
		return false
	}
	return true
}

// File returns the filename or "<input>" when the location is anonymous.
func (l *Location) File() string {
	if l == nil || l.Filename == nil {
		return "<input>"
	}
	return *l.Filename
}

func (l *Location) String() string {
	if !l.IsKnown() {
		return "location(unknown)"
	}

	return fmt.Sprintf("location(%d:%d - %d:%d)", l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}

// TextIn extracts the text covered by this location from in-memory source lines.
// Returns empty string if the location does not fit the lines.
func (l *Location) TextIn(lines []string) string {
	if !l.IsKnown() {
		return ""
	}

	lineStart, lineEnd := l.Start.Line, l.End.Line
	colStart, colEnd := l.Start.Column, l.End.Column
	if lineStart < 1 || lineStart > lineEnd || lineEnd > len(lines) {
		return ""
	}

	if lineStart == lineEnd {
		line := lines[lineStart-1]
		if colStart < 1 || colStart > len(line)+1 || colEnd < colStart || colEnd > len(line)+1 {
			return ""
		}
		return line[colStart-1 : colEnd-1]
	}

	var sb strings.Builder
	for n := lineStart; n <= lineEnd; n++ {
		line := lines[n-1]
		switch n {
		case lineStart:
			if colStart >= 1 && colStart <= len(line)+1 {
				sb.WriteString(line[colStart-1:])
			}
		case lineEnd:
			sb.WriteByte('\n')
			if colEnd >= 1 && colEnd <= len(line)+1 {
				sb.WriteString(line[:colEnd-1])
			}
		default:
			sb.WriteByte('\n')
			sb.WriteString(line)
		}
	}
	return sb.String()
}

// SplitLines splits script content into lines without the trailing newline characters.
func SplitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
