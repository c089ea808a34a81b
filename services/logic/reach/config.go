// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package reach

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/randoreach/pkg/logging"
)

// Config holds engine configuration.
type Config struct {
	// Workers bounds how many forks EvaluateCandidates runs at once.
	Workers int `json:"workers" yaml:"workers"`

	// LogLevel is used to build the default logger when none is supplied.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// TracingEnabled emits OpenTelemetry spans.
	TracingEnabled bool `json:"tracing_enabled" yaml:"tracing_enabled"`

	// MetricsEnabled records OpenTelemetry and Prometheus metrics.
	MetricsEnabled bool `json:"metrics_enabled" yaml:"metrics_enabled"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:        runtime.GOMAXPROCS(0),
		LogLevel:       "info",
		TracingEnabled: true,
		MetricsEnabled: true,
	}
}

// LoadConfig loads configuration with priority: env > file > defaults.
//
// Inputs:
//   - configPath: Path to YAML/JSON config file (optional, can be empty).
//
// Outputs:
//   - Config: Merged configuration.
//   - error: Non-nil if the file exists but is invalid, or the merged
//     configuration fails validation.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}

	loadConfigFromEnv(&config)

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadConfigFromEnv(config *Config) {
	if v := os.Getenv("REACH_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Workers = i
		}
	}
	if v := os.Getenv("REACH_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("REACH_TRACING_ENABLED"); v != "" {
		config.TracingEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("REACH_METRICS_ENABLED"); v != "" {
		config.MetricsEnabled = v == "true" || v == "1"
	}
}

// Validate checks that the configuration is valid.
//
// Outputs:
//   - error: ErrInvalidConfig wrapped with the offending field.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// newLogger builds the default engine logger for this configuration.
func (c Config) newLogger() *logging.Logger {
	level, _ := logging.ParseLevel(c.LogLevel)
	return logging.New(logging.Config{
		Level:   level,
		Service: "randoreach",
	})
}
