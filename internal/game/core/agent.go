package core

import "fmt"

// Side identifies one of the two teams
type Side int

const (
	Side0 Side = iota
	Side1
)

const (
	SideCount    = 2
	TanksPerSide = 2
	AgentCount   = SideCount * TanksPerSide
)

func (s Side) IsValid() bool { return s == Side0 || s == Side1 }

// Opponent returns the other side
func (s Side) Opponent() Side { return 1 - s }

func (s Side) String() string {
	switch s {
	case Side0:
		return "side0"
	case Side1:
		return "side1"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// AgentID returns the stable agent index for a side's tank slot
func AgentID(side Side, slot int) int {
	return int(side)*TanksPerSide + slot
}

// SideOf returns the side owning agent id
func SideOf(id int) Side {
	return Side(id / TanksPerSide)
}

// Agent is a tank. Dead agents keep their last position so indices stay stable.
type Agent struct {
	ID    int
	Side  Side
	Pos   Coordinate
	Alive bool
}

// Base is a side's headquarters; losing it loses the game
type Base struct {
	Side  Side
	Pos   Coordinate
	Alive bool
}

// DefaultAgentSpawns returns the starting cells of agents 0..3 on a w×h field:
// side 0 on the top row, side 1 on the bottom row, each side's tanks two
// columns either side of its base, mirrored through the centre.
func DefaultAgentSpawns(w, h int) [AgentCount]Coordinate {
	mid := w / 2
	return [AgentCount]Coordinate{
		{X: mid - 2, Y: 0},
		{X: mid + 2, Y: 0},
		{X: mid + 2, Y: h - 1},
		{X: mid - 2, Y: h - 1},
	}
}

// DefaultBaseSpawns returns the base cells of side 0 and side 1 on a w×h field
func DefaultBaseSpawns(w, h int) [SideCount]Coordinate {
	return [SideCount]Coordinate{
		{X: w / 2, Y: 0},
		{X: w / 2, Y: h - 1},
	}
}
