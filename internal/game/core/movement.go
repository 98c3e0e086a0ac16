package core

import "fmt"

// MoveOutcome classifies what happened to an agent during movement resolution
type MoveOutcome int

const (
	MoveStepped MoveOutcome = iota
	MoveBoundaryDeath
	MoveObstacleDeath
	MoveCollisionDeath
)

func (o MoveOutcome) String() string {
	switch o {
	case MoveStepped:
		return "stepped"
	case MoveBoundaryDeath:
		return "boundary_death"
	case MoveObstacleDeath:
		return "obstacle_death"
	case MoveCollisionDeath:
		return "collision_death"
	default:
		return fmt.Sprintf("MoveOutcome(%d)", int(o))
	}
}

// IsDeath reports whether the outcome killed the agent
func (o MoveOutcome) IsDeath() bool { return o != MoveStepped }

// Movement is the delta for one agent whose position or life changed.
// From is the pre-turn cell, To the cell the agent ended on. For boundary and
// obstacle deaths To equals From; Attempted holds the cell it tried to enter.
type Movement struct {
	AgentID   int
	From      Coordinate
	To        Coordinate
	Attempted Coordinate
	Outcome   MoveOutcome
}

// MovementResult carries the post-movement agents plus the ordered deltas
type MovementResult struct {
	Agents [AgentCount]Agent
	Moves  []Movement
}

// ResolveMovement applies every live agent's Move action against the pre-turn
// snapshot. Targets are computed from original positions, so agents never see
// each other's new cells. A step off the field or onto blocked terrain or a
// live base kills the mover in place. After that, any cell holding two or more
// live agents kills all of them. The snapshot is not modified.
func ResolveMovement(state *BoardState, actions Actions) MovementResult {
	res := MovementResult{Agents: state.Agents}
	moveIdx := make(map[int]int, AgentCount)

	for id := 0; id < AgentCount; id++ {
		agent := &res.Agents[id]
		act := actions[id]
		if !agent.Alive || !act.IsMove() {
			continue
		}

		from := agent.Pos
		target := from.Move(act.Dir)
		m := Movement{AgentID: id, From: from, To: from, Attempted: target}

		_, onBase := state.LiveBaseAt(target)
		switch {
		case !state.Map.InBounds(target):
			agent.Alive = false
			m.Outcome = MoveBoundaryDeath
		case state.Map.At(target).BlocksMovement() || onBase:
			agent.Alive = false
			m.Outcome = MoveObstacleDeath
		default:
			agent.Pos = target
			m.To = target
			m.Outcome = MoveStepped
		}

		moveIdx[id] = len(res.Moves)
		res.Moves = append(res.Moves, m)
	}

	for _, group := range collisionGroups(res.Agents) {
		for _, id := range group {
			res.Agents[id].Alive = false
			if i, ok := moveIdx[id]; ok {
				res.Moves[i].Outcome = MoveCollisionDeath
				continue
			}
			pos := res.Agents[id].Pos
			moveIdx[id] = len(res.Moves)
			res.Moves = append(res.Moves, Movement{
				AgentID:   id,
				From:      pos,
				To:        pos,
				Attempted: pos,
				Outcome:   MoveCollisionDeath,
			})
		}
	}

	return res
}

// collisionGroups returns the IDs of live agents sharing a cell, grouped by
// cell, in ascending agent order
func collisionGroups(agents [AgentCount]Agent) [][]int {
	var groups [][]int
	claimed := [AgentCount]bool{}
	for i := 0; i < AgentCount; i++ {
		if !agents[i].Alive || claimed[i] {
			continue
		}
		group := []int{i}
		for j := i + 1; j < AgentCount; j++ {
			if agents[j].Alive && !claimed[j] && agents[j].Pos.Equal(agents[i].Pos) {
				group = append(group, j)
				claimed[j] = true
			}
		}
		if len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups
}
