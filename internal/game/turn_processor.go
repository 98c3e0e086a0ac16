package game

import (
	"context"
	"time"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/animation"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/events"
	"github.com/rs/zerolog"
)

// TurnProcessor handles the orchestration of a single turn
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ProcessTurn runs the phases of one turn against a clone of board: action
// validation, movement, fire, destruction, status, events. Context is only
// checked before any work starts; once begun a turn always completes.
func (tp *TurnProcessor) ProcessTurn(ctx context.Context, board *core.BoardState, actions core.Actions) (*TurnResult, error) {
	if err := tp.checkContext(ctx, board.Turn, "before starting"); err != nil {
		return nil, err
	}

	if err := tp.validateGameState(board); err != nil {
		return nil, err
	}

	turnLogger := tp.logger.With().Int("turn", board.Turn).Logger()
	turnLogger.Debug().Msg("Starting turn")
	turnStartTime := time.Now()

	if err := tp.engine.actionProcessor.ValidateActions(ctx, board, actions); err != nil {
		return nil, core.WrapGameStateError(board.Turn, "action validation", err)
	}

	next := board.Clone()

	// Movement phase
	movement := core.ResolveMovement(board, actions)
	next.Agents = movement.Agents
	for _, m := range movement.Moves {
		turnLogger.Debug().
			Int("agent_id", m.AgentID).
			Str("from", m.From.String()).
			Str("to", m.To.String()).
			Str("outcome", m.Outcome.String()).
			Msg("Movement resolved")
	}
	if err := core.CheckOccupancy(next); err != nil {
		turnLogger.Error().Err(err).Msg("Occupancy check failed after movement")
		return nil, core.WrapGameStateError(board.Turn, "movement phase", err)
	}

	// Fire phase
	hits := core.ResolveFire(next, actions)
	for _, h := range hits {
		turnLogger.Debug().Str("hit", h.String()).Msg("Bullet resolved")
	}

	destruction, err := core.ApplyDestruction(next, hits)
	if err != nil {
		turnLogger.Error().Err(err).Msg("Destruction could not be applied")
		return nil, core.WrapGameStateError(board.Turn, "destruction phase", err)
	}

	// End of turn phase
	next.Turn = board.Turn + 1
	next.PrevActions = actions
	next.Status = tp.engine.winCondition.Evaluate(next)

	result := &TurnResult{
		Board:       next,
		Moves:       movement.Moves,
		Hits:        hits,
		Destruction: destruction,
		Animations:  animation.Emit(movement.Moves, hits, tp.engine.timing),
		Status:      next.Status,
	}

	tp.publishTurnEvents(board.Turn, actions, result, time.Since(turnStartTime))

	if next.Status.Finished() {
		turnLogger.Info().
			Str("status", next.Status.String()).
			Int("final_turn", board.Turn).
			Msg("Game finished")
	}
	turnLogger.Debug().Msg("Turn finished")
	return result, nil
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, turn int, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("turn", turn).
			Str("phase", phase).
			Msg("Turn cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// validateGameState ensures the board can receive actions. A board whose
// live agents already share a cell cannot have come out of a resolved turn.
func (tp *TurnProcessor) validateGameState(board *core.BoardState) error {
	if board.Status.Finished() {
		tp.logger.Warn().
			Int("turn", board.Turn).
			Str("status", board.Status.String()).
			Msg("Attempted to resolve a turn on a finished game")
		return core.WrapGameStateError(board.Turn, "resolve turn", core.ErrGameFinished)
	}
	if err := core.CheckOccupancy(board); err != nil {
		tp.logger.Error().Err(err).Int("turn", board.Turn).Msg("Incoming board is corrupt")
		return core.WrapGameStateError(board.Turn, "resolve turn", err)
	}
	return nil
}

// publishTurnEvents publishes casualties and map changes first, then the
// turn summary, then the game end if the turn finished the game
func (tp *TurnProcessor) publishTurnEvents(turn int, actions core.Actions, result *TurnResult, elapsed time.Duration) {
	bus := tp.engine.eventBus
	gameID := tp.engine.gameID
	deaths := 0

	for _, m := range result.Moves {
		if !m.Outcome.IsDeath() {
			continue
		}
		deaths++
		bus.Publish(events.NewTankDestroyedEvent(gameID, turn, result.Board.Agents[m.AgentID], moveCause(m.Outcome), -1))
	}

	for _, id := range result.Destruction.Tanks {
		deaths++
		bus.Publish(events.NewTankDestroyedEvent(gameID, turn, result.Board.Agents[id], events.CauseShot, shooterOf(result.Hits, id)))
	}
	for _, side := range result.Destruction.Bases {
		bus.Publish(events.NewBaseDestroyedEvent(gameID, turn, result.Board.Bases[side]))
	}
	for _, c := range result.Destruction.Bricks {
		bus.Publish(events.NewBrickDestroyedEvent(gameID, turn, c))
	}

	bus.Publish(events.NewTurnResolvedEvent(gameID, turn, actions, len(result.Hits), deaths, elapsed))

	if result.Status.Finished() {
		bus.Publish(events.NewGameEndedEvent(gameID, result.Status, turn))
	}
}

func moveCause(o core.MoveOutcome) string {
	switch o {
	case core.MoveBoundaryDeath:
		return events.CauseBoundary
	case core.MoveObstacleDeath:
		return events.CauseObstacle
	default:
		return events.CauseCollision
	}
}

// shooterOf returns the first agent whose bullet killed id
func shooterOf(hits []core.HitEvent, id int) int {
	for _, h := range hits {
		if h.Kind == core.HitTank && h.TargetAgent == id {
			return h.Shooter
		}
	}
	return -1
}
