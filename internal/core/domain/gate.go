package domain

// GateState is the per-document state of the save gate.
type GateState uint8

const (
	// GateUnconfigured means no template is attached; saves never run.
	GateUnconfigured GateState = iota
	// GateArmed means a template is attached and nothing has run yet.
	GateArmed
	// GateTriggered means the gate recorded the version of the last run.
	GateTriggered
)

// String returns a human readable state name.
func (s GateState) String() string {
	switch s {
	case GateUnconfigured:
		return "unconfigured"
	case GateArmed:
		return "armed"
	case GateTriggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a save passing through the gate.
type Decision uint8

const (
	// DecisionSkip means the save must not run the command.
	DecisionSkip Decision = iota
	// DecisionRun means the save must run the command.
	DecisionRun
)

// SaveGate decides whether a save triggers a run. It is not safe for
// concurrent use; callers serialize access per document.
type SaveGate struct {
	state     GateState
	alwaysRun bool
	last      Version
}

// Arm attaches a template's always-run policy. Arming an armed or triggered
// gate keeps its recorded version.
func (g *SaveGate) Arm(alwaysRun bool) {
	g.alwaysRun = alwaysRun
	if g.state == GateUnconfigured {
		g.state = GateArmed
	}
}

// Decide records v and reports whether the save runs. The version is
// recorded before any work is dispatched, so a second save of the same
// content is skipped even while the first run is still executing.
func (g *SaveGate) Decide(v Version) Decision {
	switch {
	case g.state == GateUnconfigured:
		return DecisionSkip
	case g.alwaysRun, g.state == GateArmed, g.last != v:
		g.state = GateTriggered
		g.last = v
		return DecisionRun
	default:
		return DecisionSkip
	}
}

// State returns the current gate state.
func (g *SaveGate) State() GateState { return g.state }

// LastVersion returns the version recorded by the last run, if any.
func (g *SaveGate) LastVersion() (Version, bool) {
	return g.last, g.state == GateTriggered
}
