// Package config loads application configuration from TOML files and
// watches them for changes.
//
// A missing file is not an error: Load falls back to Default. Values in
// the file merge over the defaults, so a partial file only overrides
// what it names.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/vellumlab/vellum/internal/logging"
)

// Config is the application configuration.
type Config struct {
	History    HistoryConfig    `toml:"history"`
	Validation ValidationConfig `toml:"validation"`
	Schema     SchemaConfig     `toml:"schema"`
	Log        LogConfig        `toml:"log"`
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	// MaxEntries is the undo stack limit. Zero keeps the built-in
	// default.
	MaxEntries int `toml:"max_entries"`
}

// ValidationConfig controls validation on document load.
type ValidationConfig struct {
	// Enabled turns on structural validation of loaded documents.
	Enabled bool `toml:"enabled"`

	// Interchange additionally validates raw JSON against the
	// interchange schema before decoding.
	Interchange bool `toml:"interchange"`
}

// SchemaConfig points at an optional vocabulary file.
type SchemaConfig struct {
	// Path is a YAML schema description merged into the default
	// vocabulary. Empty means defaults only.
	Path string `toml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn or error.
	Level string `toml:"level"`

	// Prefix is prepended to every log line.
	Prefix string `toml:"prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History:    HistoryConfig{MaxEntries: 1000},
		Validation: ValidationConfig{Enabled: true},
		Log:        LogConfig{Level: "info", Prefix: "vellum"},
	}
}

// Load reads the configuration file at path, merged over Default. A
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadFrom reads configuration from r, merged over Default.
func LoadFrom(r io.Reader) (Config, error) {
	cfg := Default()

	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks the configuration for basic sanity.
func (c Config) Validate() error {
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("%w: history.max_entries is negative", ErrInvalidConfig)
	}
	if c.Log.Level != "" && !logging.KnownLevel(c.Log.Level) {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// LogLevel returns the configured logging level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}
