package replay

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrReplayDiverged is returned by Verify when re-resolving a recorded turn
// does not reproduce the recorded board
var ErrReplayDiverged = errors.New("replay diverged from recording")

// Recorder buffers the frames of one game and hands them to a Store in batches
type Recorder struct {
	mu        sync.Mutex
	frames    []*structpb.Struct
	batchSize int
	gameID    string
	store     Store
	written   int
	logger    zerolog.Logger
}

// NewRecorder creates a recorder for gameID. Frames are written to store each
// time batchSize of them are buffered, and on Flush.
func NewRecorder(gameID string, store Store, batchSize int, logger zerolog.Logger) *Recorder {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &Recorder{
		frames:    make([]*structpb.Struct, 0, batchSize),
		batchSize: batchSize,
		gameID:    gameID,
		store:     store,
		logger:    logger.With().Str("component", "replay_recorder").Str("game_id", gameID).Logger(),
	}
}

// RecordOpening records the board before the first turn
func (r *Recorder) RecordOpening(ctx context.Context, board *core.BoardState) error {
	return r.add(ctx, Frame{
		GameID: r.gameID,
		Board:  board,
		Status: board.Status,
	})
}

// RecordTurn records the outcome of one resolved turn
func (r *Recorder) RecordTurn(ctx context.Context, actions core.Actions, result *game.TurnResult) error {
	return r.add(ctx, Frame{
		GameID:     r.gameID,
		Turn:       result.Board.Turn - 1,
		Actions:    actions[:],
		Board:      result.Board,
		Animations: result.Animations,
		Status:     result.Status,
	})
}

func (r *Recorder) add(ctx context.Context, f Frame) error {
	encoded, err := EncodeFrame(f)
	if err != nil {
		return fmt.Errorf("record turn %d: %w", f.Turn, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames = append(r.frames, encoded)
	r.logger.Debug().
		Int("turn", f.Turn).
		Str("status", f.Status.String()).
		Msg("Recorded frame")

	if len(r.frames) >= r.batchSize {
		return r.flushLocked(ctx)
	}
	return nil
}

// Flush writes every buffered frame to the store
func (r *Recorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked(ctx)
}

func (r *Recorder) flushLocked(ctx context.Context) error {
	if len(r.frames) == 0 {
		return nil
	}
	if err := r.store.Write(ctx, r.frames); err != nil {
		return fmt.Errorf("flush %d frames: %w", len(r.frames), err)
	}
	r.written += len(r.frames)
	r.frames = r.frames[:0]
	return nil
}

// Buffered returns the number of frames not yet written
func (r *Recorder) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Written returns the number of frames handed to the store so far
func (r *Recorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// LoadGame reads and decodes the frames of gameID, ordered by turn
func LoadGame(ctx context.Context, store Store, gameID string) ([]Frame, error) {
	encoded, err := store.Read(ctx, gameID, 0)
	if err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, len(encoded))
	for _, s := range encoded {
		f, err := DecodeFrame(s)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].Turn < frames[j].Turn })
	return frames, nil
}

// Verify re-resolves every recorded turn with engine, starting from the
// opening frame, and checks each result against the recorded board
func Verify(ctx context.Context, engine *game.Engine, frames []Frame) error {
	if len(frames) == 0 || !frames[0].Opening() {
		return fmt.Errorf("verify: recording has no opening frame: %w", ErrMalformed)
	}

	board := frames[0].Board
	for _, f := range frames[1:] {
		if len(f.Actions) != core.AgentCount {
			return fmt.Errorf("verify turn %d: %d actions: %w", f.Turn, len(f.Actions), ErrMalformed)
		}
		var actions core.Actions
		copy(actions[:], f.Actions)

		result, err := engine.ResolveTurn(ctx, board, actions)
		if err != nil {
			return fmt.Errorf("verify turn %d: %w", f.Turn, err)
		}
		if !reflect.DeepEqual(result.Board, f.Board) {
			return fmt.Errorf("verify turn %d: %w", f.Turn, ErrReplayDiverged)
		}
		board = result.Board
	}
	return nil
}
