package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/config"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/events"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/monitoring"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/replay"
)

// errInvalidRun is returned by run when the game count or worker limit is not positive
var errInvalidRun = errors.New("games and concurrency must be positive")

// simulator plays random-bot games concurrently, each on its own session
type simulator struct {
	cfg         config.Config
	games       int
	seed        int64
	concurrency int
	fireBias    float64
	render      bool
	color       bool
	verify      bool
	store       replay.Store
	monitor     *monitoring.SimulationMonitor
	logger      zerolog.Logger

	outMu sync.Mutex
	out   io.Writer
}

// gameResult is the outcome of one simulated game
type gameResult struct {
	Index  int
	GameID string
	Seed   int64
	Status core.GameStatus
	Turns  int
}

// run plays every game with at most concurrency in flight. The first failing
// game cancels the rest; results of games that completed are still returned.
func (s *simulator) run(ctx context.Context) ([]gameResult, error) {
	if s.games <= 0 || s.concurrency <= 0 {
		return nil, fmt.Errorf("games %d, concurrency %d: %w", s.games, s.concurrency, errInvalidRun)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	var mu sync.Mutex
	results := make([]gameResult, 0, s.games)

	for i := 0; i < s.games; i++ {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			res, err := s.playGame(ctx, i)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i, s.seed+int64(i), err)
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

func (s *simulator) playGame(ctx context.Context, index int) (gameResult, error) {
	seed := s.seed + int64(index)
	rng := rand.New(rand.NewSource(seed))

	bus := events.NewEventBus(s.logger)
	eventLogger := subscribers.NewLoggerSubscriber(fmt.Sprintf("game-%d-logger", index), s.logger, zerolog.DebugLevel)
	eventLogger.SetEventFilter([]string{
		events.TypeGameStarted,
		events.TypeGameEnded,
		events.TypeTankDestroyed,
		events.TypeBaseDestroyed,
		events.TypePhaseChanged,
	})
	bus.Subscribe(eventLogger)

	gameCfg := game.GameConfigFromConfig(&s.cfg, s.logger)
	gameCfg.Rng = rng
	gameCfg.EventBus = bus

	engine, board, err := game.NewEngineInitializer(gameCfg).Initialize(ctx)
	if err != nil {
		return gameResult{}, err
	}

	s.monitor.GameStarted()
	res, err := s.playSession(ctx, engine, board, rng)
	if err != nil {
		s.monitor.GameFailed()
		return gameResult{}, err
	}
	s.monitor.GameFinished(res.Status)

	res.Index = index
	res.Seed = seed
	return res, nil
}

func (s *simulator) playSession(ctx context.Context, engine *game.Engine, board *core.BoardState, rng *rand.Rand) (gameResult, error) {
	session := game.NewSession(engine, board)
	rec := replay.NewRecorder(engine.GameID(), s.store, 64, s.logger)
	if err := rec.RecordOpening(ctx, board); err != nil {
		return gameResult{}, err
	}

	for !session.Status().Finished() {
		current := session.Board()
		actions := game.GenerateRandomActions(engine, current, rng, s.fireBias)

		result, err := session.Step(ctx, actions)
		if err != nil {
			return gameResult{}, err
		}
		if err := rec.RecordTurn(ctx, actions, result); err != nil {
			return gameResult{}, err
		}
		s.monitor.TurnResolved()
	}

	if err := rec.Flush(ctx); err != nil {
		return gameResult{}, err
	}

	final := session.Board()
	if s.verify {
		if err := s.verifyGame(ctx, engine.GameID()); err != nil {
			return gameResult{}, err
		}
	}
	if s.render {
		s.outMu.Lock()
		fmt.Fprintf(s.out, "game %s\n%s\n", engine.GameID(), game.RenderBoard(final, s.color))
		s.outMu.Unlock()
	}

	return gameResult{
		GameID: engine.GameID(),
		Status: final.Status,
		Turns:  final.Turn - 1,
	}, nil
}

// verifyGame reloads a recorded game and re-resolves it on a fresh engine
func (s *simulator) verifyGame(ctx context.Context, gameID string) error {
	frames, err := replay.LoadGame(ctx, s.store, gameID)
	if err != nil {
		return fmt.Errorf("load replay: %w", err)
	}
	if len(frames) == 0 {
		return fmt.Errorf("load replay: no frames for %s", gameID)
	}

	cfg := game.GameConfigFromConfig(&s.cfg, zerolog.Nop())
	cfg.GameID = gameID + "-verify"
	verifier, err := game.NewEngineInitializer(cfg).InitializeWithBoard(ctx, frames[0].Board)
	if err != nil {
		return err
	}
	if err := replay.Verify(ctx, verifier, frames); err != nil {
		return err
	}
	s.logger.Debug().Str("game_id", gameID).Int("frames", len(frames)).Msg("Replay verified")
	return nil
}

func (s *simulator) printSummary(results []gameResult) {
	var side0, side1, draws, turns int
	for _, r := range results {
		turns += r.Turns
		switch r.Status {
		case core.StatusSide0Wins:
			side0++
		case core.StatusSide1Wins:
			side1++
		case core.StatusDraw:
			draws++
		}
	}

	avg := 0.0
	if len(results) > 0 {
		avg = float64(turns) / float64(len(results))
	}

	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, "games %d  side0 %d  side1 %d  draws %d  avg turns %.1f\n",
		len(results), side0, side1, draws, avg)
}
