package testutil

import (
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
)

// CreateTestState creates an obstacle-free 9x9 board with the default spawns
// and every agent and base alive
func CreateTestState() *core.BoardState {
	return CreateTestStateWithCells(nil)
}

// CreateTestStateWithCells creates the default board and sets up specific cells
func CreateTestStateWithCells(cells map[core.Coordinate]core.CellKind) *core.BoardState {
	m := core.NewMap(core.FieldWidth, core.FieldHeight)
	for c, kind := range cells {
		m.Set(c, kind)
	}

	state := &core.BoardState{Map: m, Turn: 1}
	for id, pos := range core.DefaultAgentSpawns(m.W, m.H) {
		state.Agents[id] = core.Agent{ID: id, Side: core.SideOf(id), Pos: pos, Alive: true}
	}
	for side, pos := range core.DefaultBaseSpawns(m.W, m.H) {
		state.Bases[side] = core.Base{Side: core.Side(side), Pos: pos, Alive: true}
	}
	state.PrevActions = AllStay()
	return state
}

// PlaceAgent moves agent id to (x, y) without any rule checks
func PlaceAgent(state *core.BoardState, id, x, y int) {
	state.Agents[id].Pos = core.NewCoordinate(x, y)
}

// KillAgent marks agent id dead in place
func KillAgent(state *core.BoardState, id int) {
	state.Agents[id].Alive = false
}

// AllStay returns a turn in which nobody acts
func AllStay() core.Actions {
	var actions core.Actions
	for i := range actions {
		actions[i] = core.Stay()
	}
	return actions
}
