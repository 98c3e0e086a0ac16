package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/config"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/monitoring"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/replay"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	games := flag.Int("games", -1, "Number of games to play (-1 to use config default)")
	seed := flag.Int64("seed", -1, "Base RNG seed, game i uses seed+i (-1 to use config default, 0 for time based)")
	concurrency := flag.Int("concurrency", -1, "Games played in parallel (-1 to use config default)")
	replayDir := flag.String("replay-dir", "", "Directory for replay files (empty to use config default, none if both empty)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	render := flag.Bool("render", false, "Print the final board of every game")
	verify := flag.Bool("verify", false, "Re-resolve every recorded game and check it reproduces")
	watch := flag.Bool("watch-config", false, "Apply log level changes when the config file is edited")
	progress := flag.Duration("progress", 5*time.Second, "Interval between progress reports at debug level (0 disables)")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	// Flag overrides go through the config so they are validated like file values
	overrides := map[string]interface{}{}
	if *games != -1 {
		overrides["simulator.games"] = *games
	}
	if *seed != -1 {
		overrides["simulator.seed"] = *seed
	}
	if *concurrency != -1 {
		overrides["simulator.concurrency"] = *concurrency
	}
	if *replayDir != "" {
		overrides["simulator.replay_dir"] = *replayDir
	}
	if *logLevel != "" {
		overrides["logging.level"] = *logLevel
	}
	for key, value := range overrides {
		if err := config.Set(key, value); err != nil {
			log.Fatal().Err(err).Msg("Invalid command line override")
		}
	}

	cfg := *config.Get()
	*games = cfg.Simulator.Games
	*seed = cfg.Simulator.Seed
	*concurrency = cfg.Simulator.Concurrency
	*replayDir = cfg.Simulator.ReplayDir
	*logLevel = cfg.Logging.Level
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	// Setup logging
	closeLogs := setupLogging(*logLevel, cfg.Logging)
	defer closeLogs()

	if *watch {
		config.WatchConfig(func() {
			level := parseLevel(config.Get().Logging.Level)
			zerolog.SetGlobalLevel(level)
			log.Info().Str("level", level.String()).Msg("Config reloaded")
		}, func(err error) {
			log.Warn().Err(err).Msg("Ignoring invalid config change")
		})
	}

	storeCfg := replay.DefaultStoreConfig()
	if *replayDir != "" {
		storeCfg.Type = replay.StoreTypeFile
		storeCfg.BaseDir = *replayDir
	}
	store, err := replay.NewStore(storeCfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open replay store")
	}
	defer store.Close()

	if *verify && storeCfg.Type != replay.StoreTypeFile {
		log.Warn().Msg("Verification needs a replay directory, skipping")
		*verify = false
	}

	log.Info().
		Str("config_file", config.ConfigFilePath()).
		Int("games", *games).
		Int64("seed", *seed).
		Int("concurrency", *concurrency).
		Str("replay_dir", *replayDir).
		Int("max_turns", cfg.Game.MaxTurns).
		Msg("Starting tank duel simulation")

	// Stop scheduling games on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := monitoring.NewSimulationMonitor(log.Logger, *progress)
	monitor.Start()

	sim := &simulator{
		cfg:         cfg,
		games:       *games,
		seed:        *seed,
		concurrency: *concurrency,
		fireBias:    cfg.Simulator.FireBias,
		render:      *render,
		color:       isatty.IsTerminal(os.Stdout.Fd()),
		verify:      *verify,
		store:       store,
		monitor:     monitor,
		logger:      log.Logger,
		out:         os.Stdout,
	}

	results, err := sim.run(ctx)
	monitor.Stop()
	sim.printSummary(results)

	if err != nil {
		log.Error().Err(err).Msg("Simulation stopped")
		closeLogs()
		os.Exit(1)
	}
	log.Info().Msg("Simulation complete")
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// setupLogging configures the global logger: console or JSON on stderr, plus
// a rotating JSON file when logging.file is set. The returned func closes the file.
func setupLogging(level string, lc config.LoggingConfig) func() {
	zerolog.SetGlobalLevel(parseLevel(level))

	var console io.Writer = os.Stderr
	if lc.Format == "console" {
		console = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	if lc.File == "" {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return func() {}
	}

	file := &lumberjack.Logger{
		Filename:   lc.File,
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAgeDays,
		Compress:   lc.Compress,
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, file)).With().Timestamp().Logger()
	return func() { _ = file.Close() }
}
