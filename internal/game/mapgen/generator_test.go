package mapgen

import (
	"math/rand"
	"testing"

	"github.com/mitchelldurbincs/TankDuelEngine/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRNG provides a random number generator with a fixed seed for deterministic tests.
func newTestRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func TestDefaultMapConfig(t *testing.T) {
	config := DefaultMapConfig(9, 9)

	assert.Equal(t, 9, config.Width)
	assert.Equal(t, 9, config.Height)
	assert.InDelta(t, 1.0/3.0, config.BrickChance, 1e-9)
	assert.InDelta(t, 4.0/27.0, config.WaterChance, 1e-9)
	assert.InDelta(t, 4.0/23.0, config.SteelChance, 1e-9)
	assert.Equal(t, 1000, config.MaxAttempts)
}

func TestNewGenerator(t *testing.T) {
	config := DefaultMapConfig(9, 9)
	rng := newTestRNG()
	generator := NewGenerator(config, rng)

	require.NotNil(t, generator)
	assert.Equal(t, config, generator.config)
	assert.Same(t, rng, generator.rng)
}

func TestGenerateMap_FixedFeatures(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		m, err := NewGenerator(DefaultMapConfig(9, 9), rand.New(rand.NewSource(seed))).GenerateMap()
		require.NoError(t, err, "seed %d", seed)

		for _, c := range core.DefaultAgentSpawns(9, 9) {
			assert.Equal(t, core.CellEmpty, m.At(c), "spawn %s seed %d", c, seed)
		}
		for _, c := range core.DefaultBaseSpawns(9, 9) {
			assert.Equal(t, core.CellEmpty, m.At(c), "base %s seed %d", c, seed)
		}

		// bricks shielding each base
		assert.Equal(t, core.CellBrick, m.At(core.NewCoordinate(4, 1)))
		assert.Equal(t, core.CellBrick, m.At(core.NewCoordinate(4, 7)))
		for _, c := range []core.Coordinate{{X: 3, Y: 0}, {X: 5, Y: 0}, {X: 3, Y: 1}, {X: 5, Y: 1}, {X: 3, Y: 8}, {X: 5, Y: 8}, {X: 3, Y: 7}, {X: 5, Y: 7}} {
			assert.Equal(t, core.CellEmpty, m.At(c), "base surroundings %s seed %d", c, seed)
		}

		// steel in the middle row, brick elsewhere along it
		for x := 0; x < 9; x++ {
			want := core.CellBrick
			if x == 2 || x == 4 || x == 6 {
				want = core.CellSteel
			}
			assert.Equal(t, want, m.At(core.NewCoordinate(x, 4)), "middle row x=%d seed %d", x, seed)
		}
		for _, y := range []int{2, 3, 5, 6} {
			assert.Equal(t, core.CellBrick, m.At(core.NewCoordinate(4, y)), "middle column y=%d seed %d", y, seed)
		}

		assert.True(t, Connected(m), "seed %d", seed)
	}
}

func TestGenerateMap_PointSymmetric(t *testing.T) {
	m, err := NewGenerator(DefaultMapConfig(9, 9), newTestRNG()).GenerateMap()
	require.NoError(t, err)

	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			a := m.At(core.NewCoordinate(x, y))
			b := m.At(core.NewCoordinate(m.W-1-x, m.H-1-y))
			assert.Equal(t, a, b, "cell (%d,%d)", x, y)
		}
	}
}

func TestGenerateMap_Deterministic(t *testing.T) {
	a, err := NewGenerator(DefaultMapConfig(9, 9), newTestRNG()).GenerateMap()
	require.NoError(t, err)
	b, err := NewGenerator(DefaultMapConfig(9, 9), newTestRNG()).GenerateMap()
	require.NoError(t, err)
	assert.Equal(t, a.Cells, b.Cells)
}

func TestGenerateMap_Errors(t *testing.T) {
	t.Run("field too small", func(t *testing.T) {
		_, err := NewGenerator(DefaultMapConfig(3, 9), newTestRNG()).GenerateMap()
		assert.ErrorIs(t, err, core.ErrInvalidLayout)
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		// all-water rolls always cut the field apart
		config := DefaultMapConfig(9, 9)
		config.BrickChance = 0
		config.WaterChance = 1
		config.MaxAttempts = 3
		_, err := NewGenerator(config, newTestRNG()).GenerateMap()
		assert.ErrorIs(t, err, ErrNoConnectedMap)
	})

	t.Run("obstacle free rolls", func(t *testing.T) {
		config := DefaultMapConfig(9, 9)
		config.BrickChance = 0
		config.WaterChance = 0
		config.SteelChance = 0
		m, err := NewGenerator(config, newTestRNG()).GenerateMap()
		require.NoError(t, err)
		assert.Equal(t, 3, m.Count(core.CellSteel))
		assert.Equal(t, 0, m.Count(core.CellWater))
	})
}

func TestConnected(t *testing.T) {
	m := core.NewMap(9, 9)
	assert.True(t, Connected(m))

	// a wall of steel across row 3 separates the bottom from side 0's base
	for x := 0; x < 9; x++ {
		m.Set(core.NewCoordinate(x, 3), core.CellSteel)
	}
	assert.False(t, Connected(m))

	// bricks can be shot through so they do not disconnect
	m.Set(core.NewCoordinate(0, 3), core.CellBrick)
	assert.True(t, Connected(m))

	m.Set(core.NewCoordinate(0, 3), core.CellWater)
	assert.False(t, Connected(m))
}
