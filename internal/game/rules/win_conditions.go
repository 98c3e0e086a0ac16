package rules

import (
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/rs/zerolog"
)

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger   zerolog.Logger
	maxTurns int
}

// NewWinConditionChecker creates a new win condition checker. maxTurns of 0
// disables the turn limit.
func NewWinConditionChecker(logger zerolog.Logger, maxTurns int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:   logger.With().Str("component", "WinConditionChecker").Logger(),
		maxTurns: maxTurns,
	}
}

// MaxTurns returns the configured turn limit
func (wc *WinConditionChecker) MaxTurns() int { return wc.maxTurns }

// Evaluate returns the status of a board whose turn counter has just been
// advanced. Turn counts from 1, so the limit is hit once Turn passes maxTurns.
// A side is defeated when its base or both of its tanks are gone. Both sides
// defeated in the same turn is a draw, as is reaching the turn limit with
// neither defeated.
func (wc *WinConditionChecker) Evaluate(state *core.BoardState) core.GameStatus {
	lost0 := state.SideDefeated(core.Side0)
	lost1 := state.SideDefeated(core.Side1)

	var status core.GameStatus
	switch {
	case lost0 && lost1:
		status = core.StatusDraw
		wc.logger.Info().Int("turn", state.Turn).Msg("Both sides defeated in the same turn, draw")
	case lost0:
		status = core.StatusSide1Wins
	case lost1:
		status = core.StatusSide0Wins
	case wc.maxTurns > 0 && state.Turn > wc.maxTurns:
		status = core.StatusDraw
		wc.logger.Info().Int("turn", state.Turn).Int("max_turns", wc.maxTurns).Msg("Turn limit reached, draw")
	default:
		status = core.StatusInProgress
	}

	if side, ok := status.Winner(); ok {
		wc.logger.Info().Str("winner", side.String()).Int("turn", state.Turn).Msg("Winner determined")
	}

	wc.logger.Debug().
		Bool("side0_defeated", lost0).
		Bool("side1_defeated", lost1).
		Int("side0_tanks", state.AliveTanks(core.Side0)).
		Int("side1_tanks", state.AliveTanks(core.Side1)).
		Str("status", status.String()).
		Msg("Game over check complete")

	return status
}
