// SPDX-License-Identifier: MIT

// Package config loads the geoinv settings: an optional YAML file over
// built-in defaults, then GEOINV_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/geoinv/inversion"
)

// Environment variables read by Load.
const (
	EnvLogLevel    = "GEOINV_LOG_LEVEL"
	EnvLogFile     = "GEOINV_LOG_FILE"
	EnvStoreDriver = "GEOINV_STORE_DRIVER"
	EnvStorePath   = "GEOINV_STORE_PATH"
	EnvWorkers     = "GEOINV_WORKERS"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

// ErrInvalidConfig: a value failed to parse.
var ErrInvalidConfig = errors.New("config: invalid value")

// Config holds all configuration values.
type Config struct {
	Log       Log                  `yaml:"log"`
	Store     Store                `yaml:"store"`
	Workers   int                  `yaml:"workers"`
	Inversion inversion.Parameters `yaml:"inversion"`
}

// Log configures SetupLogger. An empty File logs to stderr only.
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Store selects the result backend. An empty Path disables persistence
// unless Driver is memory.
type Store struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Location returns the store.Open location, or "" when persistence is off.
func (s Store) Location() string {
	switch {
	case s.Driver == DriverMemory:
		return DriverMemory
	case s.Path == "":
		return ""
	case s.Driver == "":
		return DriverSQLite + ":" + s.Path
	default:
		return s.Driver + ":" + s.Path
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:       Log{Level: "INFO"},
		Store:     Store{Driver: DriverSQLite},
		Workers:   4,
		Inversion: inversion.DefaultParameters(),
	}
}

// Load returns Default overlaid with the YAML file at path (skipped when
// path is empty) and then with the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Log.Level = getEnv(EnvLogLevel, cfg.Log.Level)
	cfg.Log.File = getEnv(EnvLogFile, cfg.Log.File)
	cfg.Store.Driver = getEnv(EnvStoreDriver, cfg.Store.Driver)
	cfg.Store.Path = getEnv(EnvStorePath, cfg.Store.Path)
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("%s=%q: %w", EnvWorkers, v, ErrInvalidConfig)
		}
		cfg.Workers = n
	}

	switch cfg.Store.Driver {
	case DriverSQLite, DriverBadger, DriverMemory, "":
	default:
		return Config{}, fmt.Errorf("store driver %q: %w", cfg.Store.Driver, ErrInvalidConfig)
	}

	return cfg, nil
}

// Write encodes cfg as YAML.
func Write(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return enc.Close()
}

// LogLevel returns the parsed Log.Level.
func (c Config) LogLevel() slog.Level { return parseLogLevel(c.Log.Level) }

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
