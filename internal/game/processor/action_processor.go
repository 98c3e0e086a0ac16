package processor

import (
	"context"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/rs/zerolog"
)

// ActionProcessor checks a turn's actions against the board before any
// resolver sees them
type ActionProcessor struct {
	logger                zerolog.Logger
	forbidConsecutiveFire bool
}

// NewActionProcessor creates a new action processor
func NewActionProcessor(logger zerolog.Logger, forbidConsecutiveFire bool) *ActionProcessor {
	return &ActionProcessor{
		logger:                logger.With().Str("component", "ActionProcessor").Logger(),
		forbidConsecutiveFire: forbidConsecutiveFire,
	}
}

// ValidateActions rejects the whole turn on the first contract violation.
// Agents are checked in ID order so the reported error is deterministic.
func (ap *ActionProcessor) ValidateActions(ctx context.Context, state *core.BoardState, actions core.Actions) error {
	if err := ctx.Err(); err != nil {
		ap.logger.Warn().Err(err).Msg("Action validation interrupted by context cancellation")
		return err
	}

	if state.Status.Finished() {
		return core.WrapGameStateError(state.Turn, "validate actions", core.ErrGameFinished)
	}

	for id, action := range actions {
		if err := ap.validateAction(state, id, action); err != nil {
			wrapped := core.WrapActionError(id, action, err)
			ap.logger.Warn().Err(wrapped).
				Int("agent_id", id).
				Str("action", action.String()).
				Int("turn", state.Turn).
				Msg("Rejected action")
			return wrapped
		}
	}

	ap.logger.Debug().Int("turn", state.Turn).Msg("Actions validated")
	return nil
}

func (ap *ActionProcessor) validateAction(state *core.BoardState, id int, action core.Action) error {
	if err := action.Validate(); err != nil {
		return err
	}

	if !state.Agents[id].Alive {
		if !action.IsStay() {
			return core.ErrDeadAgentAction
		}
		return nil
	}

	if ap.forbidConsecutiveFire && action.IsFire() && state.PrevActions[id].IsFire() {
		return core.ErrConsecutiveFire
	}
	return nil
}
