package core

// ResolveFire traces the bullet of every live agent whose action is Fire
// against the post-movement snapshot and returns one HitEvent per shooter,
// in agent order. The snapshot is not modified; destruction is applied later
// from the returned events.
func ResolveFire(state *BoardState, actions Actions) []HitEvent {
	var hits []HitEvent
	for id := 0; id < AgentCount; id++ {
		shooter := state.Agents[id]
		act := actions[id]
		if !shooter.Alive || !act.IsFire() {
			continue
		}
		hits = append(hits, traceBullet(state, actions, shooter, act.Dir))
	}
	return hits
}

// traceBullet walks cell by cell from the shooter until something stops the bullet
func traceBullet(state *BoardState, actions Actions, shooter Agent, dir Direction) HitEvent {
	hit := HitEvent{
		Shooter:     shooter.ID,
		Origin:      shooter.Pos,
		Dir:         dir,
		TargetAgent: -1,
	}

	cur := shooter.Pos
	for {
		cur = cur.Move(dir)
		hit.Terminal = cur

		if !state.Map.InBounds(cur) {
			hit.Kind = HitOutOfBounds
			return hit
		}

		switch state.Map.At(cur) {
		case CellSteel:
			hit.Kind = HitSteel
			return hit
		case CellBrick:
			hit.Kind = HitBrick
			return hit
		}

		if target, ok := state.LiveAgentAt(cur); ok {
			hit.TargetAgent = target
			if actions[target].Opposes(actions[shooter.ID]) {
				hit.Kind = HitCancelled
			} else {
				hit.Kind = HitTank
			}
			return hit
		}

		if side, ok := state.LiveBaseAt(cur); ok {
			hit.Kind = HitBase
			hit.TargetSide = side
			return hit
		}
	}
}
