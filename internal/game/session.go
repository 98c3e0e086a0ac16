package game

import (
	"context"
	"errors"
	"sync"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/states"
)

var (
	// ErrNoHistory is returned by Revert when no turn has been resolved yet
	ErrNoHistory = errors.New("no turn to revert")
	// ErrSessionFailed is returned by Step after an internal failure until the session is reverted
	ErrSessionFailed = errors.New("session is in error phase")
)

// Session owns the evolving board of one game and serializes turns on it.
// Every state handed out is a copy.
type Session struct {
	engine    *Engine
	lifecycle *states.StateMachine

	mu      sync.Mutex
	board   *core.BoardState
	history []*core.BoardState
}

// NewSession starts a session from an opening board. The session keeps its
// own copy of board.
func NewSession(engine *Engine, board *core.BoardState) *Session {
	ctx := states.NewGameContext(engine.GameID(), engine.logger)
	ctx.Turn = board.Turn
	ctx.Status = board.Status
	return &Session{
		engine:    engine,
		lifecycle: states.NewStateMachine(ctx, engine.EventBus()),
		board:     board.Clone(),
	}
}

// ID returns the game identifier
func (s *Session) ID() string { return s.engine.GameID() }

// Engine returns the engine resolving this session's turns
func (s *Session) Engine() *Engine { return s.engine }

// Phase returns the lifecycle phase of the session
func (s *Session) Phase() states.GamePhase { return s.lifecycle.CurrentPhase() }

// Transitions returns the lifecycle transitions so far, oldest first
func (s *Session) Transitions() []states.Transition { return s.lifecycle.GetHistory() }

// Step resolves one turn. On error the board is left unchanged. An internal
// invariant violation also moves the session to PhaseError until reverted.
func (s *Session) Step(ctx context.Context, actions core.Actions) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if phase := s.lifecycle.CurrentPhase(); phase == states.PhaseError {
		return nil, core.WrapGameStateError(s.board.Turn, "step", ErrSessionFailed)
	}

	result, err := s.engine.ResolveTurn(ctx, s.board, actions)
	if err != nil {
		if errors.Is(err, core.ErrInvariantViolation) {
			s.lifecycle.Update(func(c *states.GameContext) { c.Error = err })
			if terr := s.lifecycle.TransitionTo(states.PhaseError, "invariant violation"); terr != nil {
				s.engine.logger.Error().Err(terr).Msg("Failed to enter error phase")
			}
		}
		return nil, err
	}

	if s.lifecycle.CurrentPhase() == states.PhaseSetup {
		if err := s.lifecycle.TransitionTo(states.PhaseRunning, "first turn"); err != nil {
			return nil, err
		}
	}

	s.history = append(s.history, s.board)
	s.board = result.Board.Clone()
	s.syncLifecycle("turn resolved")
	return result, nil
}

// syncLifecycle copies the board's turn and status into the lifecycle context
// and moves between Running and Ended when the status calls for it
func (s *Session) syncLifecycle(reason string) {
	s.lifecycle.Update(func(c *states.GameContext) {
		c.Turn = s.board.Turn
		c.Status = s.board.Status
	})

	var target states.GamePhase
	switch phase := s.lifecycle.CurrentPhase(); {
	case s.board.Status.Finished() && phase == states.PhaseRunning:
		target = states.PhaseEnded
		reason = s.board.Status.String()
	case !s.board.Status.Finished() && phase.IsTerminal():
		target = states.PhaseRunning
	default:
		return
	}
	if err := s.lifecycle.TransitionTo(target, reason); err != nil {
		s.engine.logger.Error().Err(err).Str("target_phase", target.String()).Msg("Lifecycle transition failed")
	}
}

// Revert restores the board as it was before the last resolved turn,
// including its status, so a finished game can be replayed from there.
// Reverting also leaves PhaseError. A session that failed on its opening
// board has nothing to revert to and stays failed; start a new one.
func (s *Session) Revert() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return core.WrapGameStateError(s.board.Turn, "revert", ErrNoHistory)
	}
	last := len(s.history) - 1
	s.board = s.history[last]
	s.history[last] = nil
	s.history = s.history[:last]

	s.syncLifecycle("revert")
	s.engine.logger.Debug().Int("turn", s.board.Turn).Msg("Reverted to previous turn")
	return nil
}

// Board returns a copy of the current board
func (s *Session) Board() *core.BoardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// History returns copies of every board before the current one, oldest first
func (s *Session) History() []*core.BoardState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*core.BoardState, len(s.history))
	for i, b := range s.history {
		out[i] = b.Clone()
	}
	return out
}

// Status returns the status of the current board
func (s *Session) Status() core.GameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Status
}

// Turn returns the number of the next turn to resolve
func (s *Session) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Turn
}
