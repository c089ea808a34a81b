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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.GreaterOrEqual(t, config.Workers, 1)
	assert.Equal(t, "info", config.LogLevel)
	assert.True(t, config.TracingEnabled)
	assert.True(t, config.MetricsEnabled)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    Config
	}{
		{
			name:    "yaml",
			file:    "reach.yaml",
			content: "workers: 3\nlog_level: debug\ntracing_enabled: false\n",
			want:    Config{Workers: 3, LogLevel: "debug", TracingEnabled: false, MetricsEnabled: true},
		},
		{
			name:    "json",
			file:    "reach.json",
			content: `{"workers": 5, "log_level": "warn", "metrics_enabled": false}`,
			want:    Config{Workers: 5, LogLevel: "warn", TracingEnabled: true, MetricsEnabled: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, config)
		})
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "reach.yaml", "workers: 3\nlog_level: debug\n")
	t.Setenv("REACH_WORKERS", "7")
	t.Setenv("REACH_LOG_LEVEL", "error")
	t.Setenv("REACH_TRACING_ENABLED", "0")
	t.Setenv("REACH_METRICS_ENABLED", "false")

	config, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, Config{Workers: 7, LogLevel: "error"}, config)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("unparseable file", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "reach.conf", "workers: [unterminated"))
		assert.Error(t, err)
	})

	t.Run("workers below one", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "reach.yaml", "workers: 0\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unknown log level", func(t *testing.T) {
		t.Setenv("REACH_LOG_LEVEL", "chatty")
		_, err := LoadConfig("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
