package colors

import "testing"

func TestStripANSI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"\033[31merror\033[0m: x", "error: x"},
		{"\033[1;33mwarn\033[0m", "warn"},
		{"\033[38;5;208morange\033[0m", "orange"},
	}
	for _, tt := range tests {
		if got := StripANSI(tt.in); got != tt.want {
			t.Errorf("StripANSI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSprintfRespectsEnabled(t *testing.T) {
	prev := Enabled
	defer func() { Enabled = prev }()

	Enabled = false
	if got := RED.Sprintf("%d items", 3); got != "3 items" {
		t.Errorf("disabled Sprintf = %q", got)
	}

	Enabled = true
	if got := RED.Sprint("x"); got != string(RED)+"x"+string(RESET) {
		t.Errorf("enabled Sprint = %q", got)
	}
}
