// Package config loads the optional YAML application config. It supplies
// app-level defaults (directories, log level, initial reading preferences)
// used before any settings record exists; runtime preferences live in the
// store.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	StateDir string        `yaml:"state_dir"`
	LogLevel string        `yaml:"log_level"`
	Reading  ReadingConfig `yaml:"reading"`
}

// ReadingConfig seeds the initial reading preferences.
type ReadingConfig struct {
	WPM          int     `yaml:"wpm"`
	ChunkWidth   int     `yaml:"chunk_width"`
	TopMargin    float64 `yaml:"top_margin"`
	BottomMargin float64 `yaml:"bottom_margin"`
	PauseScale   float64 `yaml:"pause_scale"`
	SpacingScale float64 `yaml:"spacing_scale"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return err
	}
	return c.Reading.Validate()
}

// Validate validates the reading defaults.
func (c *ReadingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.WPM, validation.Min(60), validation.Max(1500)),
		validation.Field(&c.ChunkWidth, validation.Min(1), validation.Max(9)),
		validation.Field(&c.TopMargin, validation.Min(0.0), validation.Max(0.45)),
		validation.Field(&c.BottomMargin, validation.Min(0.0), validation.Max(0.45)),
		validation.Field(&c.PauseScale, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&c.SpacingScale, validation.Min(0.0), validation.Max(3.0)),
	)
}

// NewDefault returns a Config with sensible default values.
func NewDefault() *Config {
	return &Config{
		StateDir: defaultStateDir(),
		LogLevel: "info",
		Reading: ReadingConfig{
			WPM:          300,
			ChunkWidth:   1,
			TopMargin:    0.05,
			BottomMargin: 0.05,
			PauseScale:   1.0,
			SpacingScale: 0.3,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if dir := os.Getenv("SKIM_CONFIG_FILE"); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "skim", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "skim", "config.yaml")
}

// defaultStateDir returns XDG_STATE_HOME/skim or ~/.local/state/skim.
func defaultStateDir() string {
	if dir := os.Getenv("SKIM_STATE_DIR"); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "skim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "skim")
}

// Load reads a YAML config with environment variable expansion, layered
// over defaults. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := NewDefault()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
