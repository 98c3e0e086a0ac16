package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/config"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/animation"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/events"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/mapgen"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/processor"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/rules"
	"github.com/rs/zerolog"
)

// GameConfig holds everything needed to set up one game. Zero values are
// replaced with defaults by the initializer.
type GameConfig struct {
	Width                 int
	Height                int
	MaxTurns              int
	ForbidConsecutiveFire bool
	Map                   mapgen.MapConfig
	Timing                animation.Timing
	Logger                zerolog.Logger
	Rng                   *rand.Rand
	GameID                string
	EventBus              *events.EventBus
}

// GameConfigFromConfig maps the application config onto a GameConfig
func GameConfigFromConfig(cfg *config.Config, logger zerolog.Logger) GameConfig {
	return GameConfig{
		Width:                 cfg.Game.Width,
		Height:                cfg.Game.Height,
		MaxTurns:              cfg.Game.MaxTurns,
		ForbidConsecutiveFire: cfg.Game.Rules.ForbidConsecutiveFire,
		Map: mapgen.MapConfig{
			Width:       cfg.Game.Width,
			Height:      cfg.Game.Height,
			BrickChance: cfg.Game.Map.BrickChance,
			WaterChance: cfg.Game.Map.WaterChance,
			SteelChance: cfg.Game.Map.SteelChance,
			MaxAttempts: cfg.Game.Map.MaxAttempts,
		},
		Timing: animation.TimingFromConfig(cfg.Animation),
		Logger: logger,
	}
}

// EngineInitializer handles the initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	ei := &EngineInitializer{config: cfg}
	ei.setupDefaults()
	ei.logger = ei.config.Logger.With().
		Str("component", "GameEngine").
		Str("game_id", ei.config.GameID).
		Logger()
	return ei
}

// Initialize generates a random map and returns an engine together with the
// opening board
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, *core.BoardState, error) {
	if err := ctx.Err(); err != nil {
		ei.logger.Error().Err(err).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, nil, err
	}

	m, err := mapgen.NewGenerator(ei.config.Map, ei.config.Rng).GenerateMap()
	if err != nil {
		return nil, nil, fmt.Errorf("map generation failed: %w", err)
	}

	board, err := NewGame(m, core.DefaultAgentSpawns(m.W, m.H), core.DefaultBaseSpawns(m.W, m.H))
	if err != nil {
		return nil, nil, fmt.Errorf("board setup failed: %w", err)
	}

	return ei.start(board), board, nil
}

// InitializeWithBoard returns an engine for an opening board built elsewhere,
// for example from a decoded layout
func (ei *EngineInitializer) InitializeWithBoard(ctx context.Context, board *core.BoardState) (*Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ei.start(board), nil
}

func (ei *EngineInitializer) start(board *core.BoardState) *Engine {
	engine := ei.createEngine()

	engine.eventBus.Publish(events.NewGameStartedEvent(engine.gameID, board.Map))

	ei.logger.Info().
		Int("width", board.Map.W).
		Int("height", board.Map.H).
		Int("max_turns", ei.config.MaxTurns).
		Bool("forbid_consecutive_fire", ei.config.ForbidConsecutiveFire).
		Msg("Engine created successfully")

	return engine
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() {
	cfg := &ei.config
	if cfg.Width == 0 {
		cfg.Width = core.FieldWidth
	}
	if cfg.Height == 0 {
		cfg.Height = core.FieldHeight
	}
	if cfg.Map.MaxAttempts == 0 {
		cfg.Map = mapgen.DefaultMapConfig(cfg.Width, cfg.Height)
	}
	if cfg.Timing == (animation.Timing{}) {
		cfg.Timing = animation.DefaultTiming()
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.GameID == "" {
		cfg.GameID = uuid.NewString()
	}
	if cfg.EventBus == nil {
		cfg.EventBus = events.NewEventBus(cfg.Logger)
	}
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine() *Engine {
	engine := &Engine{
		gameID:          ei.config.GameID,
		logger:          ei.logger,
		actionProcessor: processor.NewActionProcessor(ei.logger, ei.config.ForbidConsecutiveFire),
		winCondition:    rules.NewWinConditionChecker(ei.logger, ei.config.MaxTurns),
		legalMoves:      rules.NewLegalMoveCalculator(ei.config.ForbidConsecutiveFire),
		eventBus:        ei.config.EventBus,
		timing:          ei.config.Timing,
	}
	engine.turnProcessor = NewTurnProcessor(engine)
	return engine
}
