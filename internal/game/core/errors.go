package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidDirection   = errors.New("invalid direction")
	ErrInvalidAction      = errors.New("invalid action")
	ErrDeadAgentAction    = errors.New("action supplied for dead agent")
	ErrConsecutiveFire    = errors.New("agent fired on the previous turn")
	ErrGameFinished       = errors.New("game is finished")
	ErrNotBrick           = errors.New("cell is not a brick")
	ErrInvariantViolation = errors.New("internal invariant violated")
	ErrInvalidLayout      = errors.New("invalid map layout")
)

// ActionError ties a contract violation to the agent whose action caused it
type ActionError struct {
	AgentID int
	Action  Action
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("agent %d: %s: %v", e.AgentID, e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// WrapActionError adds agent and action context to err. Returns nil for a nil err.
func WrapActionError(agentID int, action Action, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{AgentID: agentID, Action: action, Err: err}
}

// GameStateError records the turn and operation during which a failure happened
type GameStateError struct {
	Turn      int
	Operation string
	Err       error
}

func (e *GameStateError) Error() string {
	return fmt.Sprintf("turn %d: %s: %v", e.Turn, e.Operation, e.Err)
}

func (e *GameStateError) Unwrap() error { return e.Err }

// WrapGameStateError adds turn and operation context to err. Returns nil for a nil err.
func WrapGameStateError(turn int, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &GameStateError{Turn: turn, Operation: operation, Err: err}
}

// invariantError marks err as an internal pipeline bug rather than a caller mistake
func invariantError(err error) error {
	return fmt.Errorf("%w: %w", ErrInvariantViolation, err)
}
