package core

import "fmt"

// GameStatus is the lifecycle state of a game: in progress, or finished
// with a winner or a draw. Only the turn orchestrator moves it to a finished value.
type GameStatus int

const (
	StatusInProgress GameStatus = iota
	StatusSide0Wins
	StatusSide1Wins
	StatusDraw
)

// Finished reports whether no further turns may be resolved
func (s GameStatus) Finished() bool { return s != StatusInProgress }

// Winner returns the winning side. ok is false while in progress or on a draw.
func (s GameStatus) Winner() (side Side, ok bool) {
	switch s {
	case StatusSide0Wins:
		return Side0, true
	case StatusSide1Wins:
		return Side1, true
	default:
		return 0, false
	}
}

// WinFor returns the finished status in which side wins
func WinFor(side Side) GameStatus {
	if side == Side0 {
		return StatusSide0Wins
	}
	return StatusSide1Wins
}

func (s GameStatus) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusSide0Wins:
		return "side0_wins"
	case StatusSide1Wins:
		return "side1_wins"
	case StatusDraw:
		return "draw"
	default:
		return fmt.Sprintf("GameStatus(%d)", int(s))
	}
}
