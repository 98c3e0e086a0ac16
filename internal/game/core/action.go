package core

import "fmt"

// ActionKind is the tag of an Action
type ActionKind int

const (
	ActionStay ActionKind = iota
	ActionMove
	ActionFire
)

func (k ActionKind) String() string {
	switch k {
	case ActionStay:
		return "stay"
	case ActionMove:
		return "move"
	case ActionFire:
		return "fire"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is what one agent does during a turn: stay put, step one cell, or
// fire a bullet. Dir is meaningful only for Move and Fire.
type Action struct {
	Kind ActionKind
	Dir  Direction
}

// Actions holds one action per agent, indexed by agent ID
type Actions [AgentCount]Action

// Stay returns the no-op action
func Stay() Action { return Action{Kind: ActionStay} }

// Move returns an action stepping one cell in d
func Move(d Direction) Action { return Action{Kind: ActionMove, Dir: d} }

// Fire returns an action shooting a bullet in d
func Fire(d Direction) Action { return Action{Kind: ActionFire, Dir: d} }

func (a Action) IsStay() bool { return a.Kind == ActionStay }
func (a Action) IsMove() bool { return a.Kind == ActionMove }
func (a Action) IsFire() bool { return a.Kind == ActionFire }

// Validate checks the action is well formed. It does not look at the board.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionStay:
		return nil
	case ActionMove, ActionFire:
		if !a.Dir.IsValid() {
			return ErrInvalidDirection
		}
		return nil
	default:
		return ErrInvalidAction
	}
}

// Opposes reports whether a and other are both fire actions pointing at each other
func (a Action) Opposes(other Action) bool {
	return a.IsFire() && other.IsFire() && a.Dir.IsOpposite(other.Dir)
}

func (a Action) String() string {
	if a.Kind == ActionStay {
		return "stay"
	}
	return fmt.Sprintf("%s %s", a.Kind, a.Dir)
}

// Numeric action codes used by bots and clients: -1 stay, 0..3 move, 4..7 fire.
const (
	CodeStay      = -1
	codeFireShift = 4
)

// Code returns the protocol integer for a
func (a Action) Code() int {
	switch a.Kind {
	case ActionMove:
		return int(a.Dir)
	case ActionFire:
		return int(a.Dir) + codeFireShift
	default:
		return CodeStay
	}
}

// ActionFromCode decodes a protocol integer into an Action
func ActionFromCode(code int) (Action, error) {
	switch {
	case code == CodeStay:
		return Stay(), nil
	case code >= int(Up) && code <= int(Left):
		return Move(Direction(code)), nil
	case code >= codeFireShift+int(Up) && code <= codeFireShift+int(Left):
		return Fire(Direction(code - codeFireShift)), nil
	default:
		return Action{}, fmt.Errorf("action code %d: %w", code, ErrInvalidAction)
	}
}
