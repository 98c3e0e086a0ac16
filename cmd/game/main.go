package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/config"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game"
)

// Plays a single random-bot game and prints the board after every turn
func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "RNG seed (0 for time based)")
	delay := flag.Duration("delay", 300*time.Millisecond, "Pause between turns")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.WarnLevel).With().Timestamp().Logger()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(*seed))
	cfg := game.GameConfigFromConfig(config.Get(), log.Logger)
	cfg.Rng = rng

	ctx := context.Background()
	engine, board, err := game.NewEngineInitializer(cfg).Initialize(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start game")
	}

	color := isatty.IsTerminal(os.Stdout.Fd())
	session := game.NewSession(engine, board)
	fmt.Printf("Seed %d\n%s\n", *seed, game.RenderBoard(board, color))

	for !session.Status().Finished() {
		actions := game.GenerateRandomActions(engine, session.Board(), rng, config.Get().Simulator.FireBias)
		result, err := session.Step(ctx, actions)
		if err != nil {
			log.Fatal().Err(err).Int("turn", session.Turn()).Msg("Turn failed")
		}
		fmt.Printf("After turn %d: %v\n%s\n", result.Board.Turn-1, actions, game.RenderBoard(result.Board, color))
		time.Sleep(*delay)
	}

	fmt.Printf("Game over: %s\n", session.Status())
}
