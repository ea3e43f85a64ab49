package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/seesaw/internal/beam"
)

const (
	DefaultFPS      = 60
	DefaultDataDir  = ".seesaw"
	DefaultBackend  = "file"
	DefaultRedisURL = "redis://localhost:6379/0"
	DefaultLogLevel = "info"
	DefaultTheme    = "ocean"

	DefaultStrategy = "random"
	DefaultDuration = 20.0
	DefaultInterval = 0.75
	DefaultDrops    = 12
)

type Config struct {
	Beam     beam.Params `yaml:"beam"`
	FPS      int         `yaml:"fps"`
	DataDir  string      `yaml:"data_dir"`
	Backend  string      `yaml:"backend"`
	RedisURL string      `yaml:"redis_url"`
	LogLevel string      `yaml:"log_level"`
	Theme    string      `yaml:"theme"`
	Run      RunConfig   `yaml:"run"`
}

// RunConfig drives the headless runner.
type RunConfig struct {
	Strategy string       `yaml:"strategy"`
	Duration float64      `yaml:"duration"`
	Interval float64      `yaml:"interval"`
	Drops    int          `yaml:"drops"`
	Seed     int64        `yaml:"seed"`
	Script   []ScriptDrop `yaml:"script"`
}

// ScriptDrop is one scripted drop; At is seconds from the start.
type ScriptDrop struct {
	Weight int     `yaml:"weight"`
	Offset float64 `yaml:"offset"`
	At     float64 `yaml:"at"`
}

func DefaultConfig() *Config {
	return &Config{
		Beam:     beam.DefaultParams(),
		FPS:      DefaultFPS,
		DataDir:  DefaultDataDir,
		Backend:  DefaultBackend,
		RedisURL: DefaultRedisURL,
		LogLevel: DefaultLogLevel,
		Theme:    DefaultTheme,
		Run: RunConfig{
			Strategy: DefaultStrategy,
			Duration: DefaultDuration,
			Interval: DefaultInterval,
			Drops:    DefaultDrops,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays SEESAW_* variables, reading a .env file first if one
// exists.
func (c *Config) ApplyEnv() {
	godotenv.Load()

	c.DataDir = getEnv("SEESAW_DATA", c.DataDir)
	c.Backend = getEnv("SEESAW_BACKEND", c.Backend)
	c.RedisURL = getEnv("SEESAW_REDIS_URL", c.RedisURL)
	c.LogLevel = getEnv("SEESAW_LOG_LEVEL", c.LogLevel)
	c.Theme = getEnv("SEESAW_THEME", c.Theme)
	c.FPS = getEnvInt("SEESAW_FPS", c.FPS)
}

func (c *Config) Validate() error {
	p := c.Beam
	switch {
	case p.PlankLength <= 0:
		return fmt.Errorf("plank_length must be positive, got %v", p.PlankLength)
	case p.PlankThickness < 0:
		return fmt.Errorf("plank_thickness must not be negative, got %v", p.PlankThickness)
	case p.ClickTolerance < 0:
		return fmt.Errorf("click_tolerance must not be negative, got %v", p.ClickTolerance)
	case p.MinSize <= 0 || p.MaxSize < p.MinSize:
		return fmt.Errorf("invalid item size range %v..%v", p.MinSize, p.MaxSize)
	case p.PlankLength < p.MaxSize:
		return fmt.Errorf("plank_length %v cannot hold an item of size %v", p.PlankLength, p.MaxSize)
	case p.MinWeight < 1 || p.MaxWeight < p.MinWeight:
		return fmt.Errorf("invalid weight range %d..%d", p.MinWeight, p.MaxWeight)
	case p.TorqueDivisor <= 0:
		return fmt.Errorf("torque_divisor must be positive, got %v", p.TorqueDivisor)
	case p.MaxAngle <= 0:
		return fmt.Errorf("max_angle must be positive, got %v", p.MaxAngle)
	case p.FollowSpeed <= 0 || p.FollowSpeed > 1:
		return fmt.Errorf("follow_speed must be in (0, 1], got %v", p.FollowSpeed)
	case p.SnapEps <= 0:
		return fmt.Errorf("snap_eps must be positive, got %v", p.SnapEps)
	case p.LogLimit < 0:
		return fmt.Errorf("log_limit must not be negative, got %d", p.LogLimit)
	case c.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	case c.Backend != "file" && c.Backend != "redis":
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
