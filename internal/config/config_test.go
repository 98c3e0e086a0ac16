package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
game:
  max_turns: 60
  rules:
    forbid_consecutive_fire: true
  map:
    brick_chance: 0.5
animation:
  bullet_ms: 120
logging:
  level: debug
  format: json
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg = nil
	v = nil

	err = Init(configFile)
	require.NoError(t, err)

	assert.Equal(t, configFile, ConfigFilePath())

	c := Get()
	assert.Equal(t, 60, c.Game.MaxTurns)
	assert.True(t, c.Game.Rules.ForbidConsecutiveFire)
	assert.Equal(t, 0.5, c.Game.Map.BrickChance)
	assert.Equal(t, 120, c.Animation.BulletMs)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
	// Untouched keys keep their defaults
	assert.Equal(t, 9, c.Game.Width)
	assert.Equal(t, 200, c.Animation.MoveMs)
}

func TestInitWithDefaults(t *testing.T) {
	cfg = nil
	v = nil

	err := Init("/non/existent/path/config.yaml")
	require.NoError(t, err)
	assert.Empty(t, ConfigFilePath())

	c := Get()
	require.NotNil(t, c)
	assert.Equal(t, 9, c.Game.Width)
	assert.Equal(t, 9, c.Game.Height)
	assert.Equal(t, 100, c.Game.MaxTurns)
	assert.False(t, c.Game.Rules.ForbidConsecutiveFire)
	assert.InDelta(t, 1.0/3.0, c.Game.Map.BrickChance, 1e-9)
	assert.Equal(t, 200, c.Animation.BulletMs)
	assert.Equal(t, "console", c.Logging.Format)
	assert.Equal(t, 10, c.Simulator.Games)
}

func TestEnvironmentVariables(t *testing.T) {
	cfg = nil
	v = nil

	t.Setenv("TANK_GAME_MAX_TURNS", "42")
	t.Setenv("TANK_SIMULATOR_CONCURRENCY", "8")

	err := Init("")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 42, c.Game.MaxTurns)
	assert.Equal(t, 8, c.Simulator.Concurrency)
}

func TestSet(t *testing.T) {
	cfg = nil
	v = nil

	require.NoError(t, Init(""))

	require.NoError(t, Set("game.max_turns", 30))
	require.NoError(t, Set("animation.explosion_ms", 900))

	c := Get()
	assert.Equal(t, 30, c.Game.MaxTurns)
	assert.Equal(t, 900, c.Animation.ExplosionMs)
}

func TestSetRejectsInvalidValue(t *testing.T) {
	cfg = nil
	v = nil

	require.NoError(t, Init(""))
	require.NoError(t, Set("simulator.concurrency", 2))

	err := Set("simulator.concurrency", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulator.concurrency must be positive")
	assert.Equal(t, 2, Get().Simulator.Concurrency, "rejected value is not applied")

	err = Set("simulator.games", -1)
	require.Error(t, err)
	assert.Equal(t, 10, Get().Simulator.Games)

	// a later valid Set is not polluted by the rejected one
	require.NoError(t, Set("game.max_turns", 50))
	assert.Equal(t, 2, Get().Simulator.Concurrency)
	assert.Equal(t, 10, Get().Simulator.Games)
}

func TestSetBeforeInit(t *testing.T) {
	cfg = nil
	v = nil

	assert.Error(t, Set("game.max_turns", 10))
}

func TestInitRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("game:\n  max_turns: -5\n"), 0644))

	cfg = nil
	v = nil

	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.max_turns")
}

func TestInitRejectsMalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("game:\n  max_turns: [1, 2\n\tbroken"), 0644))

	cfg = nil
	v = nil

	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg = nil
		v = nil
		require.NoError(t, Init(""))
		c := *Get()
		return &c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"zero width", func(c *Config) { c.Game.Width = 0 }, "game dimensions must be positive"},
		{"too wide for layout words", func(c *Config) { c.Game.Width = 22 }, "game.width must be at most 21"},
		{"negative max turns", func(c *Config) { c.Game.MaxTurns = -1 }, "game.max_turns must be non-negative"},
		{"brick chance above one", func(c *Config) { c.Game.Map.BrickChance = 1.5 }, "game.map.brick_chance must be between 0 and 1"},
		{"negative water chance", func(c *Config) { c.Game.Map.WaterChance = -0.1 }, "game.map.water_chance must be between 0 and 1"},
		{"no map attempts", func(c *Config) { c.Game.Map.MaxAttempts = 0 }, "game.map.max_attempts must be positive"},
		{"negative animation", func(c *Config) { c.Animation.BulletMs = -1 }, "animation durations must be non-negative"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format must be console or json"},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb must be positive"},
		{"no games", func(c *Config) { c.Simulator.Games = 0 }, "simulator.games must be positive"},
		{"no workers", func(c *Config) { c.Simulator.Concurrency = 0 }, "simulator.concurrency must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := Validate(c)
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}
