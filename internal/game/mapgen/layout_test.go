package mapgen

import (
	"testing"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordsFor(t *testing.T) {
	assert.Equal(t, 3, WordsFor(9))
	assert.Equal(t, 1, WordsFor(3))
	assert.Equal(t, 2, WordsFor(4))
}

func TestLayoutDecode(t *testing.T) {
	t.Run("bit positions", func(t *testing.T) {
		l := Layout{
			// (0,0) and (8,2) in band 0, (1,3) in band 1
			Brick: []uint64{1 | 1<<26, 1 << 1, 0},
			// (8,8) is the last bit of band 2
			Water: []uint64{0, 0, 1 << 26},
			// (4,4): row 1 of band 1
			Steel: []uint64{0, 1 << 13, 0},
		}
		m, err := l.Decode(9, 9)
		require.NoError(t, err)

		assert.Equal(t, core.CellBrick, m.At(core.NewCoordinate(0, 0)))
		assert.Equal(t, core.CellBrick, m.At(core.NewCoordinate(8, 2)))
		assert.Equal(t, core.CellBrick, m.At(core.NewCoordinate(1, 3)))
		assert.Equal(t, core.CellWater, m.At(core.NewCoordinate(8, 8)))
		assert.Equal(t, core.CellSteel, m.At(core.NewCoordinate(4, 4)))
		assert.Equal(t, 3, m.Count(core.CellBrick))
		assert.Equal(t, 1, m.Count(core.CellWater))
		assert.Equal(t, 1, m.Count(core.CellSteel))
	})

	t.Run("brick beats water beats steel", func(t *testing.T) {
		l := Layout{
			Brick: []uint64{1, 0, 0},
			Water: []uint64{1 | 2, 0, 0},
			Steel: []uint64{1 | 2 | 4, 0, 0},
		}
		m, err := l.Decode(9, 9)
		require.NoError(t, err)
		assert.Equal(t, core.CellBrick, m.At(core.NewCoordinate(0, 0)))
		assert.Equal(t, core.CellWater, m.At(core.NewCoordinate(1, 0)))
		assert.Equal(t, core.CellSteel, m.At(core.NewCoordinate(2, 0)))
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name   string
			layout Layout
		}{
			{"missing words", Layout{Brick: []uint64{0, 0}, Water: []uint64{0, 0, 0}, Steel: []uint64{0, 0, 0}}},
			{"nil layer", Layout{Brick: []uint64{0, 0, 0}, Water: []uint64{0, 0, 0}}},
			{"bit past field", Layout{Brick: []uint64{1 << 27, 0, 0}, Water: []uint64{0, 0, 0}, Steel: []uint64{0, 0, 0}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := tt.layout.Decode(9, 9)
				assert.ErrorIs(t, err, core.ErrInvalidLayout)
			})
		}

		_, err := Layout{}.Decode(30, 9)
		assert.ErrorIs(t, err, core.ErrInvalidLayout)
	})

	t.Run("short last band", func(t *testing.T) {
		// 9x4 field: band 1 holds a single row of 9 bits
		l := Layout{Brick: []uint64{0, 1 << 8}, Water: []uint64{0, 0}, Steel: []uint64{0, 0}}
		m, err := l.Decode(9, 4)
		require.NoError(t, err)
		assert.Equal(t, core.CellBrick, m.At(core.NewCoordinate(8, 3)))

		l.Brick[1] = 1 << 9
		_, err = l.Decode(9, 4)
		assert.ErrorIs(t, err, core.ErrInvalidLayout)
	})
}

func TestLayoutEncodeRoundTrip(t *testing.T) {
	m, err := NewGenerator(DefaultMapConfig(9, 9), newTestRNG()).GenerateMap()
	require.NoError(t, err)

	l := Encode(m)
	assert.Len(t, l.Brick, 3)

	decoded, err := l.Decode(9, 9)
	require.NoError(t, err)
	assert.Equal(t, m.Cells, decoded.Cells)
}
