package replay

import (
	"fmt"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/animation"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"google.golang.org/protobuf/types/known/structpb"
)

// Frame is one line of a replay: the board after a resolved turn together
// with the actions and animation cues that produced it. The opening frame of
// a game has Turn 0 and no actions.
type Frame struct {
	GameID     string
	Turn       int
	Actions    []core.Action
	Board      *core.BoardState
	Animations []animation.Event
	Status     core.GameStatus
}

// Opening reports whether f records the board before the first turn
func (f Frame) Opening() bool { return f.Turn == 0 }

// EncodeFrame converts a frame into a Struct
func EncodeFrame(f Frame) (*structpb.Struct, error) {
	board, err := EncodeBoard(f.Board)
	if err != nil {
		return nil, err
	}
	anims, err := EncodeAnimations(f.Animations)
	if err != nil {
		return nil, fmt.Errorf("encode animations: %w", err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"game_id":    structpb.NewStringValue(f.GameID),
		"turn":       structpb.NewNumberValue(float64(f.Turn)),
		"actions":    structpb.NewListValue(codeList(f.Actions)),
		"board":      structpb.NewStructValue(board),
		"animations": structpb.NewListValue(anims),
		"status":     structpb.NewStringValue(f.Status.String()),
	}}, nil
}

// DecodeFrame is the inverse of EncodeFrame. The status is taken from the
// embedded board; the top-level status string is informational.
func DecodeFrame(s *structpb.Struct) (Frame, error) {
	r := reader{fields: s.GetFields()}
	f := Frame{
		GameID: r.getString("game_id"),
		Turn:   r.getInt("turn"),
	}
	codes := r.getList("actions")
	board := r.value("board")
	anims := r.value("animations")
	if r.err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", r.err)
	}

	var err error
	if f.Actions, err = decodeActions(codes); err != nil {
		return Frame{}, fmt.Errorf("decode frame: actions: %w", err)
	}
	if len(f.Actions) == 0 {
		f.Actions = nil
	}
	if f.Board, err = DecodeBoard(board.GetStructValue()); err != nil {
		return Frame{}, fmt.Errorf("decode frame %d: %w", f.Turn, err)
	}
	if f.Animations, err = DecodeAnimations(anims.GetListValue()); err != nil {
		return Frame{}, fmt.Errorf("decode frame %d: %w", f.Turn, err)
	}
	if len(f.Animations) == 0 {
		f.Animations = nil
	}
	f.Status = f.Board.Status
	return f, nil
}

// GameIDOf returns the game_id field of an encoded frame
func GameIDOf(s *structpb.Struct) string {
	return s.GetFields()["game_id"].GetStringValue()
}

func codeList(actions []core.Action) *structpb.ListValue {
	values := make([]*structpb.Value, len(actions))
	for i, a := range actions {
		values[i] = structpb.NewNumberValue(float64(a.Code()))
	}
	return &structpb.ListValue{Values: values}
}
