package colors

import (
	"fmt"
	"io"
	"strings"
)

// Print methods (default to stdout)
func (c COLOR) Printf(format string, args ...any) {
	fmt.Print(c.Sprintf(format, args...))
}

func (c COLOR) Println(args ...any) {
	fmt.Print(c.Sprintln(args...))
}

func (c COLOR) Print(args ...any) {
	fmt.Print(c.Sprint(args...))
}

// Fprint methods (write to specific writer)
func (c COLOR) Fprintf(w io.Writer, format string, args ...any) {
	fmt.Fprint(w, c.Sprintf(format, args...))
}

func (c COLOR) Fprintln(w io.Writer, args ...any) {
	fmt.Fprint(w, c.prefix())
	fmt.Fprintln(w, args...)
	fmt.Fprint(w, c.suffix())
}

func (c COLOR) Fprint(w io.Writer, args ...any) {
	fmt.Fprint(w, c.Sprint(args...))
}

func (c COLOR) Sprintf(format string, args ...any) string {
	return c.prefix() + fmt.Sprintf(format, args...) + c.suffix()
}

func (c COLOR) Sprintln(args ...any) string {
	return c.prefix() + fmt.Sprintln(args...) + c.suffix()
}

func (c COLOR) Sprint(args ...any) string {
	return c.prefix() + fmt.Sprint(args...) + c.suffix()
}

// StripANSI removes ANSI color codes from a string
func StripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			inEscape = true
			i++
			continue
		}
		if inEscape {
			if (s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z') {
				inEscape = false
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
