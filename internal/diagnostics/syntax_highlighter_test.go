package diagnostics

import (
	"strings"
	"testing"

	"github.com/paiml/bashrs-sub005/colors"
)

func TestHighlight_Tokens(t *testing.T) {
	sh := NewSyntaxHighlighter(true)

	tokens := sh.Highlight(`if [ "$x" = 1 ]; then echo ${name:-a} # done`)

	var joined strings.Builder
	found := map[string]colors.COLOR{}
	for _, tok := range tokens {
		joined.WriteString(tok.Text)
		found[tok.Text] = tok.Color
	}

	if joined.String() != `if [ "$x" = 1 ]; then echo ${name:-a} # done` {
		t.Errorf("tokens do not reassemble the line: %q", joined.String())
	}

	expected := map[string]colors.COLOR{
		"if":         colors.PURPLE,
		"then":       colors.PURPLE,
		`"$x"`:       colors.LIGHT_GREEN,
		"1":          colors.LIGHT_YELLOW,
		"${name:-a}": colors.CYAN,
		"# done":     colors.GREY,
		"echo":       colors.WHITE,
	}
	for text, color := range expected {
		if got, ok := found[text]; !ok || got != color {
			t.Errorf("token %q: got color %q (present=%v), want %q", text, got, ok, color)
		}
	}
}

func TestHighlightLine_Disabled(t *testing.T) {
	sh := NewSyntaxHighlighter(false)
	line := "echo $HOME"
	if got := sh.HighlightLine(line); got != line {
		t.Errorf("disabled highlighter changed the line: %q", got)
	}
}
