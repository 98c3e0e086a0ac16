package states

import "fmt"

// GamePhase is where a session is in its lifecycle
type GamePhase int

const (
	// PhaseSetup - board built, no turn resolved yet
	PhaseSetup GamePhase = iota

	// PhaseRunning - turns are being resolved
	PhaseRunning

	// PhaseEnded - a turn finished the game
	PhaseEnded

	// PhaseError - the pipeline reported an internal invariant violation
	PhaseError
)

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	case PhaseError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if no turn may be resolved without reverting first
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanReceiveActions returns true if the session accepts a turn in this phase
func (p GamePhase) CanReceiveActions() bool {
	return p == PhaseSetup || p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to.
// Ended and Error lead back to Running only through a revert.
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseSetup:
		return []GamePhase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []GamePhase{PhaseEnded, PhaseError}
	case PhaseEnded:
		return []GamePhase{PhaseRunning}
	case PhaseError:
		return []GamePhase{PhaseRunning}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a GamePhase
func ParsePhase(s string) (GamePhase, error) {
	switch s {
	case "Setup":
		return PhaseSetup, nil
	case "Running":
		return PhaseRunning, nil
	case "Ended":
		return PhaseEnded, nil
	case "Error":
		return PhaseError, nil
	default:
		return PhaseSetup, fmt.Errorf("unknown phase %q", s)
	}
}
