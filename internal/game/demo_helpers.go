package game

import (
	"math/rand"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/rules"
)

// GenerateRandomActions picks a legal action for every agent. Live agents
// fire with probability fireBias when firing is allowed, otherwise they pick
// among staying and the moves that do not kill them outright. Dead agents
// always stay. Intended for demos, tests and as a baseline bot.
func GenerateRandomActions(e *Engine, state *core.BoardState, rng *rand.Rand, fireBias float64) core.Actions {
	mask := e.LegalActionMask(state, true)

	var actions core.Actions
	for id := range actions {
		legal := rules.LegalActions(mask, id)

		var fires, others []core.Action
		for _, a := range legal {
			if a.IsFire() {
				fires = append(fires, a)
			} else {
				others = append(others, a)
			}
		}

		switch {
		case len(fires) > 0 && rng.Float64() < fireBias:
			actions[id] = fires[rng.Intn(len(fires))]
		default:
			actions[id] = others[rng.Intn(len(others))]
		}

		if state.Agents[id].Alive {
			e.logger.Debug().
				Int("turn", state.Turn).
				Int("agent_id", id).
				Str("action", actions[id].String()).
				Msg("Generated random action")
		}
	}
	return actions
}
