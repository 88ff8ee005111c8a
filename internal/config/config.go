// Package config provides configuration loading for briefd.
//
// Configuration is loaded from a YAML file, then overridden with
// BRIEFD_-prefixed environment variables, on top of hardcoded defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/briefd/internal/llm"
	"github.com/fyrsmithlabs/briefd/internal/logging"
	"github.com/fyrsmithlabs/briefd/internal/orchestrator"
)

// Config holds the complete briefd configuration.
type Config struct {
	Server   ServerConfig        `koanf:"server"`
	Model    llm.Config          `koanf:"model"`
	Research orchestrator.Config `koanf:"research"`
	Redact   RedactConfig        `koanf:"redact"`
	Database DatabaseConfig      `koanf:"database"`
	Logging  logging.Config      `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// RedactConfig holds redaction pipeline configuration.
type RedactConfig struct {
	// LogEnabled appends every redaction result to the process log for
	// cumulative statistics.
	LogEnabled bool `koanf:"log_enabled"`
}

// DatabaseConfig locates the company records file.
type DatabaseConfig struct {
	// Path points at a JSONL file, one company record per line.
	Path string `koanf:"path"`
}

// NewDefaultConfig returns the hardcoded defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Model: llm.Config{
			Model:             "gpt-4o-mini",
			RequestsPerMinute: 60,
		},
		Research: orchestrator.Config{
			MaxIterations: orchestrator.DefaultMaxIterations,
		},
		Redact: RedactConfig{
			LogEnabled: true,
		},
		Database: DatabaseConfig{
			Path: "data/companies.jsonl",
		},
		Logging: logging.NewDefaultConfig(),
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout cannot be negative"))
	}
	if c.Model.Model == "" {
		errs = append(errs, errors.New("model.model is required"))
	}
	if c.Model.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("model.requests_per_minute cannot be negative"))
	}
	if c.Research.MaxIterations < 0 {
		errs = append(errs, errors.New("research.max_iterations cannot be negative"))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}
