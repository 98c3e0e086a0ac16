package events

import (
	"time"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted    = "game.started"
	TypeGameEnded      = "game.ended"
	TypeTurnResolved   = "turn.resolved"
	TypeTankDestroyed  = "tank.destroyed"
	TypeBaseDestroyed  = "base.destroyed"
	TypeBrickDestroyed = "brick.destroyed"
	TypePhaseChanged   = "phase.changed"
)

// Causes reported on TankDestroyedEvent
const (
	CauseBoundary  = "boundary"
	CauseObstacle  = "obstacle"
	CauseCollision = "collision"
	CauseShot      = "shot"
)

func newBase(eventType, gameID string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Game:      gameID,
	}
}

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	MapWidth  int
	MapHeight int
	Bricks    int
	Steel     int
	Water     int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, m *core.Map) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent: newBase(TypeGameStarted, gameID),
		MapWidth:  m.W,
		MapHeight: m.H,
		Bricks:    m.Count(core.CellBrick),
		Steel:     m.Count(core.CellSteel),
		Water:     m.Count(core.CellWater),
	}
}

// GameEndedEvent is published when a turn finishes the game
type GameEndedEvent struct {
	BaseEvent
	Metadata  EventMetadata
	Status    core.GameStatus
	FinalTurn int
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, status core.GameStatus, finalTurn int) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBase(TypeGameEnded, gameID),
		Metadata:  EventMetadata{Turn: finalTurn},
		Status:    status,
		FinalTurn: finalTurn,
	}
}

// TurnResolvedEvent is published after every accepted turn
type TurnResolvedEvent struct {
	BaseEvent
	Metadata      EventMetadata
	TurnNumber    int
	Actions       core.Actions
	Hits          int
	Deaths        int
	ProcessedTime time.Duration
}

// NewTurnResolvedEvent creates a new TurnResolvedEvent
func NewTurnResolvedEvent(gameID string, turn int, actions core.Actions, hits, deaths int, processedTime time.Duration) *TurnResolvedEvent {
	return &TurnResolvedEvent{
		BaseEvent:     newBase(TypeTurnResolved, gameID),
		Metadata:      EventMetadata{Turn: turn},
		TurnNumber:    turn,
		Actions:       actions,
		Hits:          hits,
		Deaths:        deaths,
		ProcessedTime: processedTime,
	}
}

// TankDestroyedEvent is published for each agent that died during a turn
type TankDestroyedEvent struct {
	BaseEvent
	Metadata EventMetadata
	AgentID  int
	Side     core.Side
	Position core.Coordinate
	Cause    string
	// Shooter is the agent whose bullet hit, or -1 for movement deaths
	Shooter int
}

// NewTankDestroyedEvent creates a new TankDestroyedEvent
func NewTankDestroyedEvent(gameID string, turn int, agent core.Agent, cause string, shooter int) *TankDestroyedEvent {
	return &TankDestroyedEvent{
		BaseEvent: newBase(TypeTankDestroyed, gameID),
		Metadata:  EventMetadata{AgentID: agent.ID, Turn: turn},
		AgentID:   agent.ID,
		Side:      agent.Side,
		Position:  agent.Pos,
		Cause:     cause,
		Shooter:   shooter,
	}
}

// BaseDestroyedEvent is published when a base is shot
type BaseDestroyedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Side     core.Side
	Position core.Coordinate
}

// NewBaseDestroyedEvent creates a new BaseDestroyedEvent
func NewBaseDestroyedEvent(gameID string, turn int, base core.Base) *BaseDestroyedEvent {
	return &BaseDestroyedEvent{
		BaseEvent: newBase(TypeBaseDestroyed, gameID),
		Metadata:  EventMetadata{Turn: turn},
		Side:      base.Side,
		Position:  base.Pos,
	}
}

// BrickDestroyedEvent is published once per brick cleared in a turn
type BrickDestroyedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Position core.Coordinate
}

// NewBrickDestroyedEvent creates a new BrickDestroyedEvent
func NewBrickDestroyedEvent(gameID string, turn int, pos core.Coordinate) *BrickDestroyedEvent {
	return &BrickDestroyedEvent{
		BaseEvent: newBase(TypeBrickDestroyed, gameID),
		Metadata:  EventMetadata{Turn: turn},
		Position:  pos,
	}
}

// PhaseChangedEvent is published when a session moves between lifecycle phases
type PhaseChangedEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewPhaseChangedEvent creates a new PhaseChangedEvent
func NewPhaseChangedEvent(gameID, from, to, reason string) *PhaseChangedEvent {
	return &PhaseChangedEvent{
		BaseEvent: newBase(TypePhaseChanged, gameID),
		FromPhase: from,
		ToPhase:   to,
		Reason:    reason,
	}
}
