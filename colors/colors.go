package colors

import "os"

// COLOR is an ANSI escape prefix
type COLOR string

const (
	RESET COLOR = "\033[0m"

	RED    COLOR = "\033[31m"
	GREEN  COLOR = "\033[32m"
	YELLOW COLOR = "\033[33m"
	BLUE   COLOR = "\033[34m"
	PURPLE COLOR = "\033[35m"
	CYAN   COLOR = "\033[36m"
	WHITE  COLOR = "\033[37m"
	GREY   COLOR = "\033[90m"

	LIGHT_GREEN  COLOR = "\033[92m"
	LIGHT_YELLOW COLOR = "\033[93m"
	ORANGE       COLOR = "\033[38;5;208m"

	BOLD_RED    COLOR = "\033[1;31m"
	BOLD_GREEN  COLOR = "\033[1;32m"
	BOLD_YELLOW COLOR = "\033[1;33m"
	BOLD_BLUE   COLOR = "\033[1;34m"
	BOLD_PURPLE COLOR = "\033[1;35m"
	BOLD_CYAN   COLOR = "\033[1;36m"
)

// Enabled controls whether escapes are written at all. It honours NO_COLOR.
var Enabled = os.Getenv("NO_COLOR") == ""

func (c COLOR) prefix() string {
	if !Enabled {
		return ""
	}
	return string(c)
}

func (c COLOR) suffix() string {
	if !Enabled {
		return ""
	}
	return string(RESET)
}
