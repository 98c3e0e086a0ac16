package core

// BoardState is everything needed to resolve the next turn of a game.
// Resolvers treat it as a read-only snapshot; the orchestrator builds the
// next state from a Clone.
type BoardState struct {
	Map    *Map
	Agents [AgentCount]Agent
	Bases  [SideCount]Base
	Turn   int

	// PrevActions are the actions resolved on the previous turn (all Stay before turn 1)
	PrevActions Actions
	Status      GameStatus
}

// Clone returns a deep copy that shares no mutable state with s
func (s *BoardState) Clone() *BoardState {
	c := *s
	if s.Map != nil {
		c.Map = s.Map.Clone()
	}
	return &c
}

// LiveAgentAt returns the ID of the live agent standing on c
func (s *BoardState) LiveAgentAt(c Coordinate) (int, bool) {
	for _, a := range s.Agents {
		if a.Alive && a.Pos.Equal(c) {
			return a.ID, true
		}
	}
	return -1, false
}

// LiveBaseAt returns the side of the live base standing on c
func (s *BoardState) LiveBaseAt(c Coordinate) (Side, bool) {
	for _, b := range s.Bases {
		if b.Alive && b.Pos.Equal(c) {
			return b.Side, true
		}
	}
	return 0, false
}

// AliveTanks counts the live tanks of side
func (s *BoardState) AliveTanks(side Side) int {
	n := 0
	for _, a := range s.Agents {
		if a.Side == side && a.Alive {
			n++
		}
	}
	return n
}

// SideDefeated reports whether side has lost its base or all of its tanks
func (s *BoardState) SideDefeated(side Side) bool {
	return !s.Bases[side].Alive || s.AliveTanks(side) == 0
}
