package core

import "fmt"

// HitKind is what terminated a bullet's ray walk
type HitKind int

const (
	HitOutOfBounds HitKind = iota
	HitSteel
	HitBrick
	HitTank
	HitBase
	HitCancelled
)

func (k HitKind) String() string {
	switch k {
	case HitOutOfBounds:
		return "out_of_bounds"
	case HitSteel:
		return "steel"
	case HitBrick:
		return "brick"
	case HitTank:
		return "tank"
	case HitBase:
		return "base"
	case HitCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("HitKind(%d)", int(k))
	}
}

// Destructive reports whether events of this kind change the board
func (k HitKind) Destructive() bool {
	return k == HitBrick || k == HitTank || k == HitBase
}

// HitEvent is the resolved end of one bullet.
//
// Terminal is the cell where the walk stopped: the obstructing cell, or the
// first cell past the edge for HitOutOfBounds. TargetAgent is set for HitTank
// (the victim) and HitCancelled (the opposing shooter) and is -1 otherwise.
// TargetSide is meaningful for HitBase only.
type HitEvent struct {
	Shooter     int
	Origin      Coordinate
	Dir         Direction
	Terminal    Coordinate
	Kind        HitKind
	TargetAgent int
	TargetSide  Side
}

// Distance is the number of cells the bullet travelled, terminal included
func (h HitEvent) Distance() int {
	return h.Origin.DistanceTo(h.Terminal)
}

func (h HitEvent) String() string {
	switch h.Kind {
	case HitTank, HitCancelled:
		return fmt.Sprintf("agent %d fires %s from %s: %s agent %d at %s", h.Shooter, h.Dir, h.Origin, h.Kind, h.TargetAgent, h.Terminal)
	case HitBase:
		return fmt.Sprintf("agent %d fires %s from %s: base %s at %s", h.Shooter, h.Dir, h.Origin, h.TargetSide, h.Terminal)
	default:
		return fmt.Sprintf("agent %d fires %s from %s: %s at %s", h.Shooter, h.Dir, h.Origin, h.Kind, h.Terminal)
	}
}
