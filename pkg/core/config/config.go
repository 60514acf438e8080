// ============================================================================
// robogame - Robot Script Arena
// ============================================================================
//
// Package:     config
// Description: Typed configuration of the rsl tool, loaded from TOML or YAML
//              with defaults and RSL_* environment overrides
// Author:      Mike Stoffels
// Created:     2026-10-06
// License:     MIT
// ============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	rglog "github.com/msto63/robogame/foundation/core/log"
)

// Config holds the complete application configuration
type Config struct {
	General   GeneralConfig   `toml:"general" yaml:"general"`
	Script    ScriptConfig    `toml:"script" yaml:"script"`
	Arena     ArenaConfig     `toml:"arena" yaml:"arena"`
	Store     StoreConfig     `toml:"store" yaml:"store"`
	Spectator SpectatorConfig `toml:"spectator" yaml:"spectator"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
}

// ScriptConfig holds parser and evaluator limits
type ScriptConfig struct {
	MaxProgramLength int   `toml:"max_program_length" yaml:"max_program_length"`
	CacheSize        int   `toml:"cache_size" yaml:"cache_size"`
	MaxIterations    int64 `toml:"max_iterations" yaml:"max_iterations"`
}

// ArenaConfig holds the rules of the simulated arena
type ArenaConfig struct {
	Width      int `toml:"width" yaml:"width"`
	Height     int `toml:"height" yaml:"height"`
	Barrels    int `toml:"barrels" yaml:"barrels"`
	StartFuel  int `toml:"start_fuel" yaml:"start_fuel"`
	BarrelFuel int `toml:"barrel_fuel" yaml:"barrel_fuel"`
	MoveCost   int `toml:"move_cost" yaml:"move_cost"`
	ShieldCost int `toml:"shield_cost" yaml:"shield_cost"`
	RamDamage  int `toml:"ram_damage" yaml:"ram_damage"`
	MaxTicks   int `toml:"max_ticks" yaml:"max_ticks"`

	// TickRate is the number of ticks per second, 0 runs unthrottled.
	TickRate    float64  `toml:"tick_rate" yaml:"tick_rate"`
	TickTimeout Duration `toml:"tick_timeout" yaml:"tick_timeout"`

	// Seed for barrel placement, 0 picks a time based seed.
	Seed int64 `toml:"seed" yaml:"seed"`
}

// StoreConfig holds run history settings
type StoreConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// SpectatorConfig holds the websocket feed settings
type SpectatorConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, rgerror.Newf("config file not found: %s", path).
				WithCode(rgerror.CodeMissingConfig).
				WithOperation("config.Load")
		}
		return nil, rgerror.Wrap(err, "failed to read config").
			WithCode(rgerror.CodeConfigError).
			WithOperation("config.Load")
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return nil, rgerror.Newf("unsupported config format %q", ext).
			WithCode(rgerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}
	if err != nil {
		return nil, rgerror.Wrap(err, "failed to parse config").
			WithCode(rgerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Environment overrides and expansion
	cfg.applyEnv()

	return &cfg, nil
}

// LoadFromEnv loads configuration from the RSL_CONFIG environment variable or
// a default location. Without any file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("RSL_CONFIG")
	if path == "" {
		// Try default locations
		defaultPaths := []string{
			"./configs/rsl.toml",
			"./rsl.toml",
			"./rsl.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/rsl/rsl.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "rsl"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}

	// Script
	if c.Script.MaxProgramLength == 0 {
		c.Script.MaxProgramLength = 64 * 1024
	}
	if c.Script.CacheSize == 0 {
		c.Script.CacheSize = 128
	}

	// Arena
	if c.Arena.Width == 0 {
		c.Arena.Width = 16
	}
	if c.Arena.Height == 0 {
		c.Arena.Height = 12
	}
	if c.Arena.Barrels == 0 {
		c.Arena.Barrels = 4
	}
	if c.Arena.StartFuel == 0 {
		c.Arena.StartFuel = 100
	}
	if c.Arena.BarrelFuel == 0 {
		c.Arena.BarrelFuel = 40
	}
	if c.Arena.MoveCost == 0 {
		c.Arena.MoveCost = 1
	}
	if c.Arena.ShieldCost == 0 {
		c.Arena.ShieldCost = 2
	}
	if c.Arena.RamDamage == 0 {
		c.Arena.RamDamage = 20
	}
	if c.Arena.MaxTicks == 0 {
		c.Arena.MaxTicks = 1000
	}
	if c.Arena.TickTimeout.Duration == 0 {
		c.Arena.TickTimeout.Duration = 250 * time.Millisecond
	}

	// Store
	if c.Store.Path == "" {
		c.Store.Path = "rsl.db"
	}

	// Spectator
	if c.Spectator.Addr == "" {
		c.Spectator.Addr = "127.0.0.1:8765"
	}
}

// applyEnv applies RSL_* overrides and expands environment variables in
// path settings
func (c *Config) applyEnv() {
	if v := os.Getenv("RSL_LOG_LEVEL"); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv("RSL_LOG_FORMAT"); v != "" {
		c.General.LogFormat = v
	}
	if v := os.Getenv("RSL_DATA_DIR"); v != "" {
		c.General.DataDir = v
	}
	if v := os.Getenv("RSL_SPECTATOR_ADDR"); v != "" {
		c.Spectator.Addr = v
	}
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}

// StorePath returns the database path, resolved against the data directory
// when relative
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(c.General.DataDir, c.Store.Path)
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var problems []error
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if _, err := rglog.ParseLevel(c.General.LogLevel); err != nil {
		add("general.log_level: %v", err)
	}
	if _, err := rglog.ParseFormat(c.General.LogFormat); err != nil {
		add("general.log_format: %v", err)
	}

	if c.Script.MaxProgramLength < 0 {
		add("script.max_program_length must not be negative")
	}
	if c.Script.MaxIterations < 0 {
		add("script.max_iterations must not be negative")
	}

	a := c.Arena
	if a.Width < 3 || a.Height < 3 {
		add("arena size %dx%d is smaller than 3x3", a.Width, a.Height)
	}
	if a.Barrels < 0 || a.Barrels > a.Width*a.Height/2 {
		add("arena.barrels %d does not fit the arena", a.Barrels)
	}
	if a.StartFuel <= 0 {
		add("arena.start_fuel must be positive")
	}
	if a.BarrelFuel < 0 || a.MoveCost < 0 || a.ShieldCost < 0 || a.RamDamage < 0 {
		add("arena fuel amounts and costs must not be negative")
	}
	if a.MaxTicks <= 0 {
		add("arena.max_ticks must be positive")
	}
	if a.TickRate < 0 {
		add("arena.tick_rate must not be negative")
	}
	if a.TickTimeout.Duration <= 0 {
		add("arena.tick_timeout must be positive")
	}

	if c.Store.Enabled && c.Store.Path == "" {
		add("store.path is required when the store is enabled")
	}

	if len(problems) == 0 {
		return nil
	}
	return rgerror.Wrap(errors.Join(problems...), "invalid configuration").
		WithCode(rgerror.CodeInvalidConfig).
		WithOperation("config.Validate").
		WithDetail("problems", len(problems))
}
