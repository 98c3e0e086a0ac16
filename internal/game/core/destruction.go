package core

import (
	"fmt"
	"sort"
)

// Destruction lists what a turn's bullets destroyed, deduplicated and sorted
type Destruction struct {
	Bricks []Coordinate
	Tanks  []int
	Bases  []Side
}

// Empty reports whether nothing was destroyed
func (d Destruction) Empty() bool {
	return len(d.Bricks) == 0 && len(d.Tanks) == 0 && len(d.Bases) == 0
}

// ApplyDestruction mutates state according to hits: each distinct brick cell
// is destroyed once, Tank targets die and Base targets die. Cancelled, Steel
// and OutOfBounds hits change nothing. An error means a resolver produced a
// hit that does not match the board and is reported as an invariant violation.
func ApplyDestruction(state *BoardState, hits []HitEvent) (Destruction, error) {
	var d Destruction
	bricks := make(map[Coordinate]struct{})
	tanks := make(map[int]struct{})
	bases := make(map[Side]struct{})

	for _, h := range hits {
		switch h.Kind {
		case HitBrick:
			bricks[h.Terminal] = struct{}{}
		case HitTank:
			tanks[h.TargetAgent] = struct{}{}
		case HitBase:
			bases[h.TargetSide] = struct{}{}
		}
	}

	for c := range bricks {
		d.Bricks = append(d.Bricks, c)
	}
	sort.Slice(d.Bricks, func(i, j int) bool {
		return d.Bricks[i].ToIndex(state.Map.W) < d.Bricks[j].ToIndex(state.Map.W)
	})
	for _, c := range d.Bricks {
		if err := state.Map.DestroyBrick(c); err != nil {
			return d, invariantError(err)
		}
	}

	for id := range tanks {
		if id < 0 || id >= AgentCount {
			return d, invariantError(fmt.Errorf("tank target %d out of range", id))
		}
		d.Tanks = append(d.Tanks, id)
	}
	sort.Ints(d.Tanks)
	for _, id := range d.Tanks {
		state.Agents[id].Alive = false
	}

	for side := range bases {
		if !side.IsValid() {
			return d, invariantError(fmt.Errorf("base target %s out of range", side))
		}
		d.Bases = append(d.Bases, side)
	}
	sort.Slice(d.Bases, func(i, j int) bool { return d.Bases[i] < d.Bases[j] })
	for _, side := range d.Bases {
		state.Bases[side].Alive = false
	}

	return d, nil
}

// CheckOccupancy verifies no two live agents share a cell. It is run after
// every phase that follows collision resolution.
func CheckOccupancy(state *BoardState) error {
	if groups := collisionGroups(state.Agents); len(groups) > 0 {
		pos := state.Agents[groups[0][0]].Pos
		return invariantError(fmt.Errorf("agents %v share cell %s", groups[0], pos))
	}
	return nil
}
