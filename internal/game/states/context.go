package states

import (
	"time"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/rs/zerolog"
)

// GameContext carries what the phase callbacks need to know about a session
type GameContext struct {
	// GameID uniquely identifies this game instance
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// Turn is the next turn to be resolved
	Turn int

	// Status is the status of the current board
	Status core.GameStatus

	// StartTime is when the first turn was resolved
	StartTime time.Time

	// EndTime is when the game finished, zero while it runs
	EndTime time.Time

	// Error holds the failure that moved the session to PhaseError
	Error error
}

// NewGameContext creates a new game context
func NewGameContext(gameID string, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID: gameID,
		Logger: logger.With().Str("game_id", gameID).Logger(),
		Turn:   1,
	}
}

// GetElapsedTime returns the wall time since the first turn, up to the end
// of the game if it has ended
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	if !gc.EndTime.IsZero() {
		return gc.EndTime.Sub(gc.StartTime)
	}
	return time.Since(gc.StartTime)
}
