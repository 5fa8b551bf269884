// Package config loads notenest settings from an optional YAML file, an
// optional .env file and NOTENEST_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/viant/notenest/database"
	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Load.
const (
	EnvDBPath       = "NOTENEST_DB_PATH"
	EnvBusyTimeout  = "NOTENEST_BUSY_TIMEOUT"
	EnvMaxOpenConns = "NOTENEST_MAX_OPEN_CONNS"
)

// Config is the top-level settings document.
type Config struct {
	Database database.Config `yaml:"database"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{Database: database.DefaultConfig()}
}

// Load builds a Config starting from Default. A non-empty path must name a
// readable YAML file. A .env file in the working directory is loaded when
// present; variables already set in the environment win over it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvDBPath); ok {
		c.Database.Path = v
	}
	if v, ok := os.LookupEnv(EnvBusyTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s: %w", EnvBusyTimeout, err)
		}
		c.Database.BusyTimeout = d
	}
	if v, ok := os.LookupEnv(EnvMaxOpenConns); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s: %w", EnvMaxOpenConns, err)
		}
		c.Database.MaxOpenConns = n
	}
	return nil
}
