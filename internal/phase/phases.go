package phase

// ScriptPhase tracks how far a script has progressed through the pipeline
//
// Phase progression is sequential:
// - NotStarted -> Parsed -> Checked -> Purified
//
// Transitions are validated with CanAdvance, which checks the predecessor
// recorded in PhasePrerequisites.
type ScriptPhase int

const (
	PhaseNotStarted ScriptPhase = iota // Source read but not parsed
	PhaseParsed                        // AST built
	PhaseChecked                       // Type checking complete
	PhasePurified                      // POSIX output generated
)

// PhasePrerequisites maps each phase to its required predecessor phase
var PhasePrerequisites = map[ScriptPhase]ScriptPhase{
	PhaseParsed:   PhaseNotStarted,
	PhaseChecked:  PhaseParsed,
	PhasePurified: PhaseChecked,
}

// CanAdvance reports whether a script at from may move to to
func CanAdvance(from, to ScriptPhase) bool {
	prev, ok := PhasePrerequisites[to]
	return ok && prev == from
}

func (p ScriptPhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseParsed:
		return "Parsed"
	case PhaseChecked:
		return "Checked"
	case PhasePurified:
		return "Purified"
	default:
		return "Unknown"
	}
}
