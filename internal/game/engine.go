package game

import (
	"context"
	"fmt"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/animation"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/events"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/mapgen"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/processor"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/rules"
	"github.com/rs/zerolog"
)

// Engine resolves turns for one game. It holds rules and collaborators but
// no board: every call takes the current BoardState and returns a new one.
type Engine struct {
	gameID          string
	logger          zerolog.Logger
	actionProcessor *processor.ActionProcessor
	winCondition    *rules.WinConditionChecker
	legalMoves      *rules.LegalMoveCalculator
	eventBus        *events.EventBus
	timing          animation.Timing
	turnProcessor   *TurnProcessor
}

// TurnResult is everything produced by resolving one turn
type TurnResult struct {
	Board       *core.BoardState
	Moves       []core.Movement
	Hits        []core.HitEvent
	Destruction core.Destruction
	Animations  []animation.Event
	Status      core.GameStatus
}

// NewGame builds the opening BoardState from a map and the agent and base
// cells. Agents 0 and 1 belong to side 0, agents 2 and 3 to side 1. Every
// position must be on the field, on an empty cell, and distinct.
func NewGame(m *core.Map, agents [core.AgentCount]core.Coordinate, bases [core.SideCount]core.Coordinate) (*core.BoardState, error) {
	if m == nil {
		return nil, fmt.Errorf("nil map: %w", core.ErrInvalidLayout)
	}

	occupied := make(map[core.Coordinate]string, core.AgentCount+core.SideCount)
	place := func(c core.Coordinate, what string) error {
		if !m.InBounds(c) {
			return fmt.Errorf("%s at %s is off the field: %w", what, c, core.ErrInvalidLayout)
		}
		if kind := m.At(c); kind != core.CellEmpty {
			return fmt.Errorf("%s at %s stands on %s: %w", what, c, kind, core.ErrInvalidLayout)
		}
		if other, ok := occupied[c]; ok {
			return fmt.Errorf("%s at %s overlaps %s: %w", what, c, other, core.ErrInvalidLayout)
		}
		occupied[c] = what
		return nil
	}

	state := &core.BoardState{
		Map:    m.Clone(),
		Turn:   1,
		Status: core.StatusInProgress,
	}
	for side, pos := range bases {
		if err := place(pos, fmt.Sprintf("base %d", side)); err != nil {
			return nil, err
		}
		state.Bases[side] = core.Base{Side: core.Side(side), Pos: pos, Alive: true}
	}
	for id, pos := range agents {
		if err := place(pos, fmt.Sprintf("agent %d", id)); err != nil {
			return nil, err
		}
		state.Agents[id] = core.Agent{ID: id, Side: core.SideOf(id), Pos: pos, Alive: true}
		state.PrevActions[id] = core.Stay()
	}
	return state, nil
}

// NewGameFromLayout decodes a bitmask layout and places agents and bases on
// their default cells
func NewGameFromLayout(w, h int, layout mapgen.Layout) (*core.BoardState, error) {
	m, err := layout.Decode(w, h)
	if err != nil {
		return nil, err
	}
	return NewGame(m, core.DefaultAgentSpawns(w, h), core.DefaultBaseSpawns(w, h))
}

// ResolveTurn validates actions against board and resolves one turn. board
// is not modified. A rejected turn returns an error and no result.
func (e *Engine) ResolveTurn(ctx context.Context, board *core.BoardState, actions core.Actions) (*TurnResult, error) {
	return e.turnProcessor.ProcessTurn(ctx, board, actions)
}

// LegalActionMask returns the agent-major action mask for board; see
// rules.LegalMoveCalculator for the layout
func (e *Engine) LegalActionMask(board *core.BoardState, safeOnly bool) []bool {
	return e.legalMoves.GetLegalActionMask(board, safeOnly)
}

// GameID returns the identifier attached to every published event
func (e *Engine) GameID() string { return e.gameID }

// EventBus returns the bus turn events are published on
func (e *Engine) EventBus() *events.EventBus { return e.eventBus }

// MaxTurns returns the turn limit, 0 meaning none
func (e *Engine) MaxTurns() int { return e.winCondition.MaxTurns() }
