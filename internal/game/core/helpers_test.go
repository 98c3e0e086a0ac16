package core

import "math/rand"

// newTestState returns an empty 9x9 field with the default spawn layout:
// side 0 tanks at (2,0),(6,0), side 1 tanks at (6,8),(2,8), bases at (4,0),(4,8).
func newTestState() *BoardState {
	s := &BoardState{Map: NewMap(FieldWidth, FieldHeight), Turn: 1}
	spawns := [AgentCount]Coordinate{{2, 0}, {6, 0}, {6, 8}, {2, 8}}
	for id, pos := range spawns {
		s.Agents[id] = Agent{ID: id, Side: SideOf(id), Pos: pos, Alive: true}
	}
	s.Bases[Side0] = Base{Side: Side0, Pos: Coordinate{4, 0}, Alive: true}
	s.Bases[Side1] = Base{Side: Side1, Pos: Coordinate{4, 8}, Alive: true}
	for id := range s.PrevActions {
		s.PrevActions[id] = Stay()
	}
	return s
}

func placeAgent(s *BoardState, id, x, y int) {
	s.Agents[id].Pos = NewCoordinate(x, y)
}

// parkBases moves both bases into the bottom corners so they stay out of test rays
func parkBases(s *BoardState) {
	s.Bases[Side0].Pos = NewCoordinate(0, 8)
	s.Bases[Side1].Pos = NewCoordinate(8, 8)
}

func allStay() Actions {
	var a Actions
	for i := range a {
		a[i] = Stay()
	}
	return a
}

func randomAction(rng *rand.Rand) Action {
	switch rng.Intn(3) {
	case 0:
		return Stay()
	case 1:
		return Move(Direction(rng.Intn(4)))
	default:
		return Fire(Direction(rng.Intn(4)))
	}
}
