package replay

import (
	"testing"
	"time"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/animation"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/mitchelldurbincs/TankDuelEngine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func midGameBoard() *core.BoardState {
	board := testutil.CreateTestStateWithCells(map[core.Coordinate]core.CellKind{
		{X: 4, Y: 1}: core.CellBrick,
		{X: 4, Y: 4}: core.CellSteel,
		{X: 0, Y: 4}: core.CellWater,
	})
	testutil.PlaceAgent(board, 1, 7, 3)
	testutil.KillAgent(board, 2)
	board.Bases[core.Side1].Alive = false
	board.Turn = 17
	board.Status = core.StatusSide0Wins
	board.PrevActions[0] = core.Fire(core.Down)
	board.PrevActions[1] = core.Move(core.Left)
	return board
}

func TestEncodeDecodeBoard(t *testing.T) {
	board := midGameBoard()

	encoded, err := EncodeBoard(board)
	require.NoError(t, err)

	// survive the JSON wire format, where every number becomes a double
	data, err := protojson.Marshal(encoded)
	require.NoError(t, err)
	wire := &structpb.Struct{}
	require.NoError(t, protojson.Unmarshal(data, wire))

	decoded, err := DecodeBoard(wire)
	require.NoError(t, err)
	assert.Equal(t, board, decoded)
}

func TestEncodeBoardLayout(t *testing.T) {
	encoded, err := EncodeBoard(midGameBoard())
	require.NoError(t, err)

	fields := encoded.GetFields()
	assert.Equal(t, 9.0, fields["width"].GetNumberValue())
	assert.Len(t, fields["cells"].GetListValue().GetValues(), 81)
	assert.Equal(t, float64(core.CellBrick), fields["cells"].GetListValue().GetValues()[9+4].GetNumberValue())

	agent1 := fields["agents"].GetListValue().GetValues()[1].GetStructValue().GetFields()
	assert.Equal(t, 7.0, agent1["x"].GetNumberValue())
	assert.Equal(t, 3.0, agent1["y"].GetNumberValue())
	assert.True(t, agent1["alive"].GetBoolValue())

	prev := fields["prev_actions"].GetListValue().GetValues()
	assert.Equal(t, 6.0, prev[0].GetNumberValue())
	assert.Equal(t, 3.0, prev[1].GetNumberValue())
	assert.Equal(t, -1.0, prev[2].GetNumberValue())
}

func TestDecodeBoardRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fields map[string]*structpb.Value)
	}{
		{"missing width", func(f map[string]*structpb.Value) { delete(f, "width") }},
		{"cells wrong length", func(f map[string]*structpb.Value) { f["height"] = structpb.NewNumberValue(8) }},
		{"bad cell kind", func(f map[string]*structpb.Value) {
			f["cells"].GetListValue().GetValues()[0] = structpb.NewNumberValue(9)
		}},
		{"bad status", func(f map[string]*structpb.Value) { f["status"] = structpb.NewNumberValue(7) }},
		{"turn not a number", func(f map[string]*structpb.Value) { f["turn"] = structpb.NewStringValue("17") }},
		{"agent out of order", func(f map[string]*structpb.Value) {
			agents := f["agents"].GetListValue().GetValues()
			agents[0], agents[1] = agents[1], agents[0]
		}},
		{"base side mismatch", func(f map[string]*structpb.Value) {
			bases := f["bases"].GetListValue().GetValues()
			bases[0], bases[1] = bases[1], bases[0]
		}},
		{"too few agents", func(f map[string]*structpb.Value) {
			l := f["agents"].GetListValue()
			l.Values = l.Values[:3]
		}},
		{"bad action code", func(f map[string]*structpb.Value) {
			f["prev_actions"].GetListValue().GetValues()[3] = structpb.NewNumberValue(8)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := EncodeBoard(midGameBoard())
			require.NoError(t, err)
			tt.mutate(encoded.Fields)

			_, err = DecodeBoard(encoded)
			assert.Error(t, err)
		})
	}

	_, err := EncodeBoard(nil)
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = DecodeBoard(nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEncodeDecodeAnimations(t *testing.T) {
	evs := []animation.Event{
		{Kind: animation.KindMove, AgentID: 1, Origin: core.NewCoordinate(6, 0), Destination: core.NewCoordinate(6, 1), Duration: 200 * time.Millisecond},
		{Kind: animation.KindFizzle, AgentID: 3, Origin: core.NewCoordinate(-1, 8), Destination: core.NewCoordinate(-1, 8), Duration: 150 * time.Millisecond},
	}

	encoded, err := EncodeAnimations(evs)
	require.NoError(t, err)
	decoded, err := DecodeAnimations(encoded)
	require.NoError(t, err)
	assert.Equal(t, evs, decoded)

	bad, err := structpb.NewList([]interface{}{map[string]interface{}{"kind": "move", "agent_id": 0, "origin": []interface{}{1}}})
	require.NoError(t, err)
	_, err = DecodeAnimations(bad)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEncodeDecodeFrame(t *testing.T) {
	board := midGameBoard()
	f := Frame{
		GameID:  "g-1",
		Turn:    16,
		Actions: []core.Action{core.Fire(core.Down), core.Move(core.Left), core.Stay(), core.Stay()},
		Board:   board,
		Animations: []animation.Event{
			{Kind: animation.KindBullet, AgentID: 0, Origin: core.NewCoordinate(4, 5), Destination: core.NewCoordinate(4, 8), Duration: 200 * time.Millisecond},
		},
		Status: board.Status,
	}

	encoded, err := EncodeFrame(f)
	require.NoError(t, err)
	assert.Equal(t, "g-1", GameIDOf(encoded))
	assert.Equal(t, "side0_wins", encoded.GetFields()["status"].GetStringValue())

	decoded, err := DecodeFrame(encoded)
	require.NoError(t, err)
	assert.Equal(t, f, decoded)
	assert.False(t, decoded.Opening())

	opening, err := EncodeFrame(Frame{GameID: "g-1", Board: testutil.CreateTestState()})
	require.NoError(t, err)
	decoded, err = DecodeFrame(opening)
	require.NoError(t, err)
	assert.True(t, decoded.Opening())
	assert.Nil(t, decoded.Actions)
	assert.Nil(t, decoded.Animations)
}
