package phase

import "testing"

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		from, to ScriptPhase
		want     bool
	}{
		{PhaseNotStarted, PhaseParsed, true},
		{PhaseParsed, PhaseChecked, true},
		{PhaseChecked, PhasePurified, true},
		{PhaseNotStarted, PhaseChecked, false},
		{PhaseParsed, PhasePurified, false},
		{PhasePurified, PhaseNotStarted, false},
		{PhaseChecked, PhaseChecked, false},
	}

	for _, tt := range tests {
		if got := CanAdvance(tt.from, tt.to); got != tt.want {
			t.Errorf("CanAdvance(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	if PhasePurified.String() != "Purified" || ScriptPhase(42).String() != "Unknown" {
		t.Error("unexpected phase names")
	}
}
