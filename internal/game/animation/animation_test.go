package animation

import (
	"testing"
	"time"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/config"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(x, y int) core.Coordinate { return core.NewCoordinate(x, y) }

func kinds(events []Event) []Kind {
	out := make([]Kind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestTimingFromConfig(t *testing.T) {
	timing := TimingFromConfig(config.AnimationConfig{MoveMs: 100, BulletMs: 200, ImpactMs: 50, ExplosionMs: 300})
	assert.Equal(t, 100*time.Millisecond, timing.Move)
	assert.Equal(t, 200*time.Millisecond, timing.Bullet)
	assert.Equal(t, 50*time.Millisecond, timing.Impact)
	assert.Equal(t, 300*time.Millisecond, timing.Explosion)

	assert.Equal(t, 200*time.Millisecond, DefaultTiming().Bullet)
}

func TestEmitEmptyTurn(t *testing.T) {
	assert.Empty(t, Emit(nil, nil, DefaultTiming()))
}

func TestEmitMovement(t *testing.T) {
	timing := DefaultTiming()
	moves := []core.Movement{
		{AgentID: 2, From: c(6, 8), To: c(6, 8), Attempted: c(6, 9), Outcome: core.MoveBoundaryDeath},
		{AgentID: 0, From: c(2, 0), To: c(2, 1), Attempted: c(2, 1), Outcome: core.MoveStepped},
		{AgentID: 3, From: c(2, 8), To: c(2, 8), Attempted: c(2, 7), Outcome: core.MoveObstacleDeath},
	}

	events := Emit(moves, nil, timing)
	assert.Equal(t, []Kind{KindMove, KindMoveFailed, KindExplosion, KindMoveFailed, KindExplosion}, kinds(events))

	assert.Equal(t, Event{Kind: KindMove, AgentID: 0, Origin: c(2, 0), Destination: c(2, 1), Duration: timing.Move}, events[0])
	assert.Equal(t, c(6, 9), events[1].Destination, "failed step animates toward the attempted cell")
	assert.Equal(t, Event{Kind: KindExplosion, AgentID: 2, Origin: c(6, 8), Destination: c(6, 8), Duration: timing.Explosion}, events[2])

	// input order untouched
	assert.Equal(t, 2, moves[0].AgentID)
}

func TestEmitCollision(t *testing.T) {
	moves := []core.Movement{
		{AgentID: 1, From: c(5, 3), To: c(4, 3), Attempted: c(4, 3), Outcome: core.MoveCollisionDeath},
		{AgentID: 0, From: c(4, 3), To: c(4, 3), Attempted: c(4, 3), Outcome: core.MoveCollisionDeath},
	}
	events := Emit(moves, nil, DefaultTiming())

	// stationary victim only explodes, the mover steps in first
	require.Equal(t, []Kind{KindExplosion, KindMove, KindExplosion}, kinds(events))
	assert.Equal(t, 0, events[0].AgentID)
	assert.Equal(t, 1, events[1].AgentID)
	assert.Equal(t, c(4, 3), events[2].Origin)
}

func TestEmitHits(t *testing.T) {
	timing := DefaultTiming()
	tests := []struct {
		name   string
		hit    core.HitEvent
		impact Kind
		dest   core.Coordinate
		dur    time.Duration
	}{
		{"brick", core.HitEvent{Shooter: 0, Origin: c(4, 0), Dir: core.Down, Terminal: c(4, 4), Kind: core.HitBrick, TargetAgent: -1}, KindExplosion, c(4, 4), timing.Explosion},
		{"tank", core.HitEvent{Shooter: 1, Origin: c(6, 0), Dir: core.Down, Terminal: c(6, 5), Kind: core.HitTank, TargetAgent: 2}, KindExplosion, c(6, 5), timing.Explosion},
		{"base", core.HitEvent{Shooter: 2, Origin: c(4, 3), Dir: core.Up, Terminal: c(4, 0), Kind: core.HitBase, TargetAgent: -1}, KindExplosion, c(4, 0), timing.Explosion},
		{"steel", core.HitEvent{Shooter: 3, Origin: c(0, 4), Dir: core.Right, Terminal: c(2, 4), Kind: core.HitSteel, TargetAgent: -1}, KindSpark, c(2, 4), timing.Impact},
		{"out of bounds", core.HitEvent{Shooter: 0, Origin: c(0, 2), Dir: core.Left, Terminal: c(-1, 2), Kind: core.HitOutOfBounds, TargetAgent: -1}, KindFizzle, c(-1, 2), timing.Impact},
		{"cancelled even gap", core.HitEvent{Shooter: 0, Origin: c(4, 0), Dir: core.Down, Terminal: c(4, 8), Kind: core.HitCancelled, TargetAgent: 2}, KindClash, c(4, 4), timing.Impact},
		{"cancelled adjacent", core.HitEvent{Shooter: 2, Origin: c(4, 5), Dir: core.Up, Terminal: c(4, 4), Kind: core.HitCancelled, TargetAgent: 0}, KindClash, c(4, 5), timing.Impact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := Emit(nil, []core.HitEvent{tt.hit}, timing)
			require.Len(t, events, 2)

			bullet := events[0]
			assert.Equal(t, KindBullet, bullet.Kind)
			assert.Equal(t, tt.hit.Shooter, bullet.AgentID)
			assert.Equal(t, tt.hit.Origin, bullet.Origin)
			assert.Equal(t, tt.dest, bullet.Destination)
			assert.Equal(t, timing.Bullet, bullet.Duration)

			impact := events[1]
			assert.Equal(t, tt.impact, impact.Kind)
			assert.Equal(t, tt.dest, impact.Origin)
			assert.Equal(t, tt.dest, impact.Destination)
			assert.Equal(t, tt.dur, impact.Duration)
		})
	}
}

func TestEmitOrdersMovementBeforeFire(t *testing.T) {
	moves := []core.Movement{{AgentID: 3, From: c(2, 8), To: c(2, 7), Attempted: c(2, 7), Outcome: core.MoveStepped}}
	hits := []core.HitEvent{
		{Shooter: 0, Origin: c(2, 0), Dir: core.Down, Terminal: c(2, 7), Kind: core.HitTank, TargetAgent: 3},
		{Shooter: 1, Origin: c(6, 0), Dir: core.Up, Terminal: c(6, -1), Kind: core.HitOutOfBounds, TargetAgent: -1},
	}

	events := Emit(moves, hits, DefaultTiming())
	assert.Equal(t, []Kind{KindMove, KindBullet, KindExplosion, KindBullet, KindFizzle}, kinds(events))
	assert.Equal(t, 0, events[1].AgentID)
	assert.Equal(t, 1, events[3].AgentID)

	// pure: same input, same output
	assert.Equal(t, events, Emit(moves, hits, DefaultTiming()))
}
