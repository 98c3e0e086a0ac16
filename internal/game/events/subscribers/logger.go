package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("map_width", e.MapWidth).
			Int("map_height", e.MapHeight).
			Int("bricks", e.Bricks).
			Int("steel", e.Steel).
			Int("water", e.Water)

	case *events.GameEndedEvent:
		logEvent.
			Str("status", e.Status.String()).
			Int("final_turn", e.FinalTurn)

	case *events.TurnResolvedEvent:
		actions := make([]int, len(e.Actions))
		for i, a := range e.Actions {
			actions[i] = a.Code()
		}
		logEvent.
			Int("turn", e.TurnNumber).
			Ints("actions", actions).
			Int("hits", e.Hits).
			Int("deaths", e.Deaths).
			Dur("process_time", e.ProcessedTime)

	case *events.TankDestroyedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("agent_id", e.AgentID).
			Str("side", e.Side.String()).
			Int("x", e.Position.X).
			Int("y", e.Position.Y).
			Str("cause", e.Cause).
			Int("shooter", e.Shooter)

	case *events.BaseDestroyedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Str("side", e.Side.String()).
			Int("x", e.Position.X).
			Int("y", e.Position.Y)

	case *events.PhaseChangedEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)

	case *events.BrickDestroyedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("x", e.Position.X).
			Int("y", e.Position.Y)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}
