// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/gaissmai/snode/arena"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const defaultContextName = "host"

// Config is the snodebench configuration file.
type Config struct {
	Context  arena.Config   `yaml:"context"`
	Workload WorkloadConfig `yaml:"workload"`
	Log      LogConfig      `yaml:"log"`
}

// WorkloadConfig describes which cells get filled and by how many workers.
type WorkloadConfig struct {
	// Workers is the number of concurrent producers.
	Workers int `yaml:"workers" validate:"gte=1"`

	// SubIndices are looked up under every dense row, duplicates included.
	SubIndices []int `yaml:"sub_indices" validate:"required,min=1"`

	// Appends is the number of values appended per visited cell.
	Appends int `yaml:"appends" validate:"gte=0"`

	Rounds int `yaml:"rounds" validate:"gte=1"`
}

// LogConfig selects the zap logger preset and its level.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns a small host workload.
func DefaultConfig() Config {
	ctx := arena.DefaultConfig()
	ctx.Name = defaultContextName

	return Config{
		Context: ctx,
		Workload: WorkloadConfig{
			Workers:    4,
			SubIndices: []int{0, 5, 5, 100},
			Appends:    2,
			Rounds:     1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var validate = validator.New()

// Validate checks the config against its field constraints.
func (c Config) Validate() error {
	return errors.Wrap(validate.Struct(c), "invalid config")
}

// LoadConfig reads path over the defaults and validates the result.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "reading config")
		}

		// a listed sub_indices replaces the default one
		cfg.Workload.SubIndices = nil
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parsing config %s", path)
		}
		if cfg.Workload.SubIndices == nil {
			cfg.Workload.SubIndices = DefaultConfig().Workload.SubIndices
		}
	}

	return cfg, cfg.Validate()
}
