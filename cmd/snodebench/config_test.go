// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snodebench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverlay(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
context:
  name: device
  limit_bytes: 4096
workload:
  workers: 2
  sub_indices: [7, -1]
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "device", cfg.Context.Name)
	assert.Equal(t, uint64(4096), cfg.Context.LimitBytes)
	assert.Equal(t, DefaultConfig().Context.InitBlockLen, cfg.Context.InitBlockLen)
	assert.Equal(t, 2, cfg.Workload.Workers)
	assert.Equal(t, []int{7, -1}, cfg.Workload.SubIndices)
	assert.Equal(t, 2, cfg.Workload.Appends, "unset keys keep their default")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigKeepsDefaultSubIndices(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeConfig(t, "workload:\n  rounds: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Workload.SubIndices, cfg.Workload.SubIndices)
	assert.Equal(t, 3, cfg.Workload.Rounds)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"no workers", "workload:\n  workers: 0\n", "Workers"},
		{"empty sub indices", "workload:\n  sub_indices: []\n", "SubIndices"},
		{"negative appends", "workload:\n  appends: -1\n", "Appends"},
		{"no rounds", "workload:\n  rounds: 0\n", "Rounds"},
		{"bad level", "log:\n  level: loud\n", "Level"},
		{"no context name", "context:\n  name: \"\"\n", "Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "workload: [\n"))
	require.ErrorContains(t, err, "parsing config")
}

func TestDefaultConfigYAML(t *testing.T) {
	t.Parallel()

	out, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	cfg, err := LoadConfig(writeConfig(t, string(out)))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
