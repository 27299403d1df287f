// Package config loads meal-planner settings from YAML, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/meal-planner/internal/model"
	"github.com/rcliao/meal-planner/internal/targets"
)

// Environment variables read by the planner.
const (
	EnvConfig   = "MEAL_PLANNER_CONFIG"
	EnvDB       = "MEAL_PLANNER_DB"
	EnvCatalog  = "MEAL_PLANNER_CATALOG"
	EnvLogLevel = "MEAL_PLANNER_LOG_LEVEL"
	EnvDelay    = "MEAL_PLANNER_DELAY"
)

// shareTolerance bounds how far slot shares may drift from summing to 1.
const shareTolerance = 1e-6

// Config holds all meal-planner configuration.
type Config struct {
	DBPath      string `yaml:"db_path"`
	CatalogPath string `yaml:"catalog_path"` // empty uses the SQLite catalog, falling back to the embedded one

	Generation GenerationConfig `yaml:"generation"`
	Slots      []model.MealSlot `yaml:"slots"`
	Tables     targets.Tables   `yaml:"tables"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GenerationConfig tunes the plan generator.
type GenerationConfig struct {
	Delay         string `yaml:"delay"`
	MaxIterations int    `yaml:"max_iterations"`
	Attempts      int    `yaml:"attempts"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Dir returns ~/.meal-planner, or the working directory when home is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".meal-planner"
	}
	return filepath.Join(home, ".meal-planner")
}

// DefaultPath returns the config file location: $MEAL_PLANNER_CONFIG or
// ~/.meal-planner/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DBPath: filepath.Join(Dir(), "meal-planner.db"),
		Generation: GenerationConfig{
			Delay:         "0s",
			MaxIterations: 150,
			Attempts:      1,
		},
		Slots:  model.DefaultMealSlots(),
		Tables: targets.DefaultTables(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadEnv reads a .env file into the process environment. A missing file is
// not an error.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied either way. Table entries in the file are
// merged over the default tables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvDelay); v != "" {
		c.Generation.Delay = v
	}
}

// GetDelay returns the pre-generation delay. Unparseable values mean no delay.
func (c *Config) GetDelay() time.Duration {
	d, err := time.ParseDuration(c.Generation.Delay)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// GetMaxIterations returns the per-slot iteration cap.
func (c *Config) GetMaxIterations() int {
	if c.Generation.MaxIterations <= 0 {
		return 150
	}
	return c.Generation.MaxIterations
}

// GetAttempts returns how many plans to generate when picking the best one.
func (c *Config) GetAttempts() int {
	if c.Generation.Attempts < 1 {
		return 1
	}
	return c.Generation.Attempts
}

// Validate checks the configuration for values the planner cannot use.
func (c *Config) Validate() error {
	if c.Generation.Delay != "" {
		d, err := time.ParseDuration(c.Generation.Delay)
		if err != nil {
			return fmt.Errorf("invalid generation.delay %q: %w", c.Generation.Delay, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid generation.delay %q: negative", c.Generation.Delay)
		}
	}
	if c.Generation.MaxIterations < 0 {
		return fmt.Errorf("invalid generation.max_iterations: %d", c.Generation.MaxIterations)
	}
	if c.Generation.Attempts < 0 {
		return fmt.Errorf("invalid generation.attempts: %d", c.Generation.Attempts)
	}
	if err := ValidateSlots(c.Slots); err != nil {
		return err
	}
	if err := validateTables(c.Tables); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging.format %q (valid: json, console)", c.Logging.Format)
	}
	return nil
}

// ValidateSlots checks that every slot has a known meal type, a share in
// (0, 1], and that shares sum to 1.
func ValidateSlots(slots []model.MealSlot) error {
	if len(slots) == 0 {
		return errors.New("no meal slots configured")
	}
	var sum float64
	for _, s := range slots {
		if !model.ValidMealTypes[s.MealType] {
			return fmt.Errorf("slot %q: unknown meal type %q", s.Name, s.MealType)
		}
		if math.IsNaN(s.CalorieShare) || s.CalorieShare <= 0 || s.CalorieShare > 1 {
			return fmt.Errorf("slot %q: calorie share %v out of range (0, 1]", s.Name, s.CalorieShare)
		}
		sum += s.CalorieShare
	}
	if math.Abs(sum-1) > shareTolerance {
		return fmt.Errorf("slot calorie shares sum to %v, want 1", sum)
	}
	return nil
}

func validateTables(t targets.Tables) error {
	for level, m := range t.ActivityMultipliers {
		if !(m > 0) {
			return fmt.Errorf("activity multiplier %q must be positive, got %v", level, m)
		}
	}
	for goal, a := range t.GoalAdjustments {
		if !(a > 0) {
			return fmt.Errorf("goal adjustment %q must be positive, got %v", goal, a)
		}
	}
	for goal, r := range t.BaseRatios {
		if _, err := targets.NormalizeRatios(r); err != nil {
			return fmt.Errorf("base ratios %q: %w", goal, err)
		}
	}
	return nil
}
