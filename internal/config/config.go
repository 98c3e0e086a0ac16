package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game      GameConfig      `mapstructure:"game"`
	Animation AnimationConfig `mapstructure:"animation"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
}

// GameConfig holds game mechanics configuration
type GameConfig struct {
	Width    int         `mapstructure:"width"`
	Height   int         `mapstructure:"height"`
	MaxTurns int         `mapstructure:"max_turns"`
	Rules    RulesConfig `mapstructure:"rules"`
	Map      MapConfig   `mapstructure:"map"`
}

// RulesConfig holds optional rule variants
type RulesConfig struct {
	ForbidConsecutiveFire bool `mapstructure:"forbid_consecutive_fire"`
}

// MapConfig holds random map generation settings. Each chance is rolled
// per cell of the generated half, brick first, then water, then steel.
type MapConfig struct {
	BrickChance float64 `mapstructure:"brick_chance"`
	WaterChance float64 `mapstructure:"water_chance"`
	SteelChance float64 `mapstructure:"steel_chance"`
	MaxAttempts int     `mapstructure:"max_attempts"`
}

// AnimationConfig holds duration hints handed to renderers, in milliseconds
type AnimationConfig struct {
	MoveMs      int `mapstructure:"move_ms"`
	BulletMs    int `mapstructure:"bullet_ms"`
	ImpactMs    int `mapstructure:"impact_ms"`
	ExplosionMs int `mapstructure:"explosion_ms"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// SimulatorConfig holds settings for the batch simulation command
type SimulatorConfig struct {
	Games       int     `mapstructure:"games"`
	Seed        int64   `mapstructure:"seed"`
	Concurrency int     `mapstructure:"concurrency"`
	ReplayDir   string  `mapstructure:"replay_dir"`
	FireBias    float64 `mapstructure:"fire_bias"`
}

var (
	// Global config instance
	cfg        *Config
	v          *viper.Viper
	loadedFile string
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.width", 9)
	v.SetDefault("game.height", 9)
	v.SetDefault("game.max_turns", 100)
	v.SetDefault("game.rules.forbid_consecutive_fire", false)

	// Map generation defaults
	v.SetDefault("game.map.brick_chance", 1.0/3.0)
	v.SetDefault("game.map.water_chance", 4.0/27.0)
	v.SetDefault("game.map.steel_chance", 4.0/23.0)
	v.SetDefault("game.map.max_attempts", 1000)

	// Animation defaults
	v.SetDefault("animation.move_ms", 200)
	v.SetDefault("animation.bullet_ms", 200)
	v.SetDefault("animation.impact_ms", 150)
	v.SetDefault("animation.explosion_ms", 400)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 7)
	v.SetDefault("logging.compress", false)

	// Simulator defaults
	v.SetDefault("simulator.games", 10)
	v.SetDefault("simulator.seed", 0)
	v.SetDefault("simulator.concurrency", 4)
	v.SetDefault("simulator.replay_dir", "")
	v.SetDefault("simulator.fire_bias", 0.4)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()
	loadedFile = ""

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/tank-duel")
	}

	v.SetEnvPrefix("TANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Only a missing file falls back to defaults; parse errors are returned
		if !isNotFound(err) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		loadedFile = v.ConfigFileUsed()
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// Set overrides a single key at runtime. The merged config is validated
// before it replaces the current one; on error nothing changes.
func Set(key string, value interface{}) error {
	if v == nil {
		return fmt.Errorf("config not initialized - call Init() first")
	}
	prev, existed := v.Get(key), v.IsSet(key)
	v.Set(key, value)

	next := &Config{}
	err := v.Unmarshal(next)
	if err == nil {
		err = Validate(next)
	}
	if err != nil {
		if existed {
			v.Set(key, prev)
		}
		return fmt.Errorf("set %s: %w", key, err)
	}
	*cfg = *next
	return nil
}

// ConfigFilePath returns the path of the loaded config file, empty when
// running on defaults
func ConfigFilePath() string {
	return loadedFile
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// WatchConfig enables hot-reloading of the config file. Invalid edits are
// reported through onError and leave the previous config in place.
func WatchConfig(onChange func(), onError func(error)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		if err := Validate(next); err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange()
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Game.Width <= 0 || c.Game.Height <= 0 {
		return fmt.Errorf("game dimensions must be positive")
	}
	if c.Game.Width*3 > 63 {
		return fmt.Errorf("game.width must be at most 21 so three rows fit in a layout word")
	}
	if c.Game.MaxTurns < 0 {
		return fmt.Errorf("game.max_turns must be non-negative")
	}

	chance := func(p float64, name string) error {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
		return nil
	}
	if err := chance(c.Game.Map.BrickChance, "game.map.brick_chance"); err != nil {
		return err
	}
	if err := chance(c.Game.Map.WaterChance, "game.map.water_chance"); err != nil {
		return err
	}
	if err := chance(c.Game.Map.SteelChance, "game.map.steel_chance"); err != nil {
		return err
	}
	if c.Game.Map.MaxAttempts <= 0 {
		return fmt.Errorf("game.map.max_attempts must be positive")
	}

	if c.Animation.MoveMs < 0 || c.Animation.BulletMs < 0 || c.Animation.ImpactMs < 0 || c.Animation.ExplosionMs < 0 {
		return fmt.Errorf("animation durations must be non-negative")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}
	if c.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("logging.max_size_mb must be positive")
	}
	if c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("logging rotation limits must be non-negative")
	}

	if c.Simulator.Games <= 0 {
		return fmt.Errorf("simulator.games must be positive")
	}
	if c.Simulator.Concurrency <= 0 {
		return fmt.Errorf("simulator.concurrency must be positive")
	}
	if err := chance(c.Simulator.FireBias, "simulator.fire_bias"); err != nil {
		return err
	}

	return nil
}
