package diagnostics

import (
	"strings"

	"github.com/paiml/bashrs-sub005/colors"
)

var shellKeywords = map[string]bool{
	"if": true, "then": true, "elif": true, "else": true, "fi": true,
	"for": true, "while": true, "until": true, "do": true, "done": true,
	"case": true, "esac": true, "in": true, "function": true, "return": true,
	"select": true, "coproc": true, "local": true, "declare": true,
	"typeset": true, "export": true, "readonly": true,
}

// SyntaxHighlighter provides syntax highlighting for shell snippets
type SyntaxHighlighter struct {
	enabled bool
}

// NewSyntaxHighlighter creates a new syntax highlighter
func NewSyntaxHighlighter(enabled bool) *SyntaxHighlighter {
	return &SyntaxHighlighter{enabled: enabled}
}

// Enable turns on syntax highlighting
func (sh *SyntaxHighlighter) Enable() {
	sh.enabled = true
}

// Disable turns off syntax highlighting
func (sh *SyntaxHighlighter) Disable() {
	sh.enabled = false
}

// IsEnabled returns whether syntax highlighting is enabled
func (sh *SyntaxHighlighter) IsEnabled() bool {
	return sh.enabled
}

// Token represents a highlighted token
type Token struct {
	Text  string
	Color colors.COLOR
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// scanQuoted returns the index just past the closing quote, honouring
// backslash escapes only for double quotes.
func scanQuoted(line string, i int) int {
	quote := line[i]
	i++
	for i < len(line) && line[i] != quote {
		if quote == '"' && line[i] == '\\' && i+1 < len(line) {
			i += 2
			continue
		}
		i++
	}
	if i < len(line) {
		i++
	}
	return i
}

// scanExpansion returns the end of a $name, ${...} or $(...) expansion starting at i.
func scanExpansion(line string, i int) int {
	i++
	if i >= len(line) {
		return i
	}
	switch line[i] {
	case '{', '(':
		open, closing := line[i], byte('}')
		if open == '(' {
			closing = ')'
		}
		depth := 0
		for i < len(line) {
			switch line[i] {
			case open:
				depth++
			case closing:
				depth--
				if depth == 0 {
					return i + 1
				}
			}
			i++
		}
		return i
	case '?', '$', '!', '#', '@', '*':
		return i + 1
	}
	for i < len(line) && isWordByte(line[i]) {
		i++
	}
	return i
}

// Highlight splits a line of shell into colored tokens
func (sh *SyntaxHighlighter) Highlight(line string) []Token {
	if !sh.enabled {
		return []Token{{Text: line, Color: colors.WHITE}}
	}

	var tokensSlice []Token
	i := 0
	for i < len(line) {
		c := line[i]
		start := i
		switch {
		case c == ' ' || c == '\t':
			for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
				i++
			}
			tokensSlice = append(tokensSlice, Token{Text: line[start:i], Color: colors.WHITE})
		case c == '#' && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t'):
			tokensSlice = append(tokensSlice, Token{Text: line[i:], Color: colors.GREY})
			i = len(line)
		case c == '"':
			i = scanQuoted(line, i)
			tokensSlice = append(tokensSlice, Token{Text: line[start:i], Color: colors.LIGHT_GREEN})
		case c == '\'':
			i = scanQuoted(line, i)
			tokensSlice = append(tokensSlice, Token{Text: line[start:i], Color: colors.LIGHT_YELLOW})
		case c == '$':
			i = scanExpansion(line, i)
			tokensSlice = append(tokensSlice, Token{Text: line[start:i], Color: colors.CYAN})
		case isDigit(c):
			for i < len(line) && isDigit(line[i]) {
				i++
			}
			tokensSlice = append(tokensSlice, Token{Text: line[start:i], Color: colors.LIGHT_YELLOW})
		case isWordByte(c):
			for i < len(line) && isWordByte(line[i]) {
				i++
			}
			word := line[start:i]
			color := colors.WHITE
			if shellKeywords[word] {
				color = colors.PURPLE
			}
			tokensSlice = append(tokensSlice, Token{Text: word, Color: color})
		default:
			i++
			tokensSlice = append(tokensSlice, Token{Text: line[start:i], Color: colors.WHITE})
		}
	}
	return tokensSlice
}

// HighlightLine returns a highlighted line as a string ready for printing
func (sh *SyntaxHighlighter) HighlightLine(line string) string {
	if !sh.enabled {
		return line
	}

	var result strings.Builder
	for _, token := range sh.Highlight(line) {
		token.Color.Fprint(&result, token.Text)
	}
	return result.String()
}
