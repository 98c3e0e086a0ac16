package rules

import "github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"

// ActionsPerAgent is the size of one agent's slice of the action mask
const ActionsPerAgent = 9

// MaskIndex returns the position of action a inside one agent's mask:
// 0 = stay, 1..4 = move up/right/down/left, 5..8 = fire up/right/down/left.
func MaskIndex(a core.Action) int {
	return a.Code() + 1
}

// LegalMoveCalculator computes which actions are accepted for each agent
type LegalMoveCalculator struct {
	forbidConsecutiveFire bool
}

// NewLegalMoveCalculator creates a new legal move calculator
func NewLegalMoveCalculator(forbidConsecutiveFire bool) *LegalMoveCalculator {
	return &LegalMoveCalculator{forbidConsecutiveFire: forbidConsecutiveFire}
}

// GetLegalActionMask returns a flattened mask of AgentCount*ActionsPerAgent
// entries, agent-major. A dead agent may only stay. When safeOnly is set,
// moves that would end in boundary or obstacle death are masked out too.
func (lmc *LegalMoveCalculator) GetLegalActionMask(state *core.BoardState, safeOnly bool) []bool {
	mask := make([]bool, core.AgentCount*ActionsPerAgent)

	for id, agent := range state.Agents {
		offset := id * ActionsPerAgent
		mask[offset+MaskIndex(core.Stay())] = true
		if !agent.Alive {
			continue
		}

		for _, dir := range core.AllDirections {
			move := core.Move(dir)
			if !safeOnly || lmc.safeStep(state, agent.Pos.Move(dir)) {
				mask[offset+MaskIndex(move)] = true
			}

			fire := core.Fire(dir)
			if lmc.CanFire(state, id) {
				mask[offset+MaskIndex(fire)] = true
			}
		}
	}

	return mask
}

// CanFire reports whether agent id may fire this turn under the rule set
func (lmc *LegalMoveCalculator) CanFire(state *core.BoardState, id int) bool {
	return !lmc.forbidConsecutiveFire || !state.PrevActions[id].IsFire()
}

// safeStep reports whether entering c kills the mover outright
func (lmc *LegalMoveCalculator) safeStep(state *core.BoardState, c core.Coordinate) bool {
	if state.Map.BlocksMovement(c) {
		return false
	}
	_, onBase := state.LiveBaseAt(c)
	return !onBase
}

// LegalActions lists the actions the mask allows for one agent
func LegalActions(mask []bool, id int) []core.Action {
	var out []core.Action
	offset := id * ActionsPerAgent
	for code := core.CodeStay; code < ActionsPerAgent-1; code++ {
		if !mask[offset+code+1] {
			continue
		}
		a, err := core.ActionFromCode(code)
		if err == nil {
			out = append(out, a)
		}
	}
	return out
}
