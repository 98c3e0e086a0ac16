// Package animation projects a resolved turn into renderer-agnostic
// animation cues. Nothing here has authority over game state.
package animation

import (
	"sort"
	"time"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/config"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
)

// Kind names an animation cue
type Kind string

const (
	KindMove       Kind = "move"
	KindMoveFailed Kind = "move_failed"
	KindBullet     Kind = "bullet"
	KindExplosion  Kind = "explosion"
	KindSpark      Kind = "spark"
	KindFizzle     Kind = "fizzle"
	KindClash      Kind = "clash"
)

// Event is one animation cue for the agent AgentID. Origin and Destination
// coincide for stationary effects.
type Event struct {
	Kind        Kind            `json:"kind"`
	AgentID     int             `json:"agent_id"`
	Origin      core.Coordinate `json:"origin"`
	Destination core.Coordinate `json:"destination"`
	Duration    time.Duration   `json:"duration"`
}

// Timing holds the duration hints attached to each cue
type Timing struct {
	Move      time.Duration
	Bullet    time.Duration
	Impact    time.Duration
	Explosion time.Duration
}

// DefaultTiming matches the classic web client tweens
func DefaultTiming() Timing {
	return Timing{
		Move:      200 * time.Millisecond,
		Bullet:    200 * time.Millisecond,
		Impact:    150 * time.Millisecond,
		Explosion: 400 * time.Millisecond,
	}
}

// TimingFromConfig converts the millisecond settings of cfg
func TimingFromConfig(cfg config.AnimationConfig) Timing {
	return Timing{
		Move:      time.Duration(cfg.MoveMs) * time.Millisecond,
		Bullet:    time.Duration(cfg.BulletMs) * time.Millisecond,
		Impact:    time.Duration(cfg.ImpactMs) * time.Millisecond,
		Explosion: time.Duration(cfg.ExplosionMs) * time.Millisecond,
	}
}

// Emit orders a turn's cues: movement in agent order first, each death
// followed by its explosion, then for every hit in firing order the bullet
// flight followed by its impact. Emit does not modify its inputs.
func Emit(moves []core.Movement, hits []core.HitEvent, timing Timing) []Event {
	events := make([]Event, 0, 2*len(moves)+2*len(hits))

	ordered := make([]core.Movement, len(moves))
	copy(ordered, moves)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].AgentID < ordered[j].AgentID })

	for _, m := range ordered {
		events = append(events, movementEvents(m, timing)...)
	}
	for _, h := range hits {
		events = append(events, hitEvents(h, timing)...)
	}
	return events
}

func movementEvents(m core.Movement, timing Timing) []Event {
	switch m.Outcome {
	case core.MoveStepped:
		return []Event{{Kind: KindMove, AgentID: m.AgentID, Origin: m.From, Destination: m.To, Duration: timing.Move}}
	case core.MoveBoundaryDeath, core.MoveObstacleDeath:
		return []Event{
			{Kind: KindMoveFailed, AgentID: m.AgentID, Origin: m.From, Destination: m.Attempted, Duration: timing.Move},
			explosion(m.AgentID, m.From, timing),
		}
	case core.MoveCollisionDeath:
		if m.From.Equal(m.To) {
			return []Event{explosion(m.AgentID, m.To, timing)}
		}
		return []Event{
			{Kind: KindMove, AgentID: m.AgentID, Origin: m.From, Destination: m.To, Duration: timing.Move},
			explosion(m.AgentID, m.To, timing),
		}
	default:
		return nil
	}
}

func hitEvents(h core.HitEvent, timing Timing) []Event {
	dest := h.Terminal
	impact := Event{AgentID: h.Shooter, Duration: timing.Impact}

	switch h.Kind {
	case core.HitBrick, core.HitTank, core.HitBase:
		impact.Kind = KindExplosion
		impact.Duration = timing.Explosion
	case core.HitSteel:
		impact.Kind = KindSpark
	case core.HitOutOfBounds:
		impact.Kind = KindFizzle
	case core.HitCancelled:
		// the two bullets meet halfway; each shooter animates its own half
		dest = meetingCell(h)
		impact.Kind = KindClash
	}
	impact.Origin, impact.Destination = dest, dest

	bullet := Event{Kind: KindBullet, AgentID: h.Shooter, Origin: h.Origin, Destination: dest, Duration: timing.Bullet}
	return []Event{bullet, impact}
}

func meetingCell(h core.HitEvent) core.Coordinate {
	c := h.Origin
	for i := 0; i < h.Distance()/2; i++ {
		c = c.Move(h.Dir)
	}
	return c
}

func explosion(agentID int, at core.Coordinate, timing Timing) Event {
	return Event{Kind: KindExplosion, AgentID: agentID, Origin: at, Destination: at, Duration: timing.Explosion}
}
