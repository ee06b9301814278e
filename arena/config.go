// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package arena

const (
	defaultName         = "host"
	defaultInitBlockLen = 64
	defaultMaxBlockLen  = 64 << 10
)

// Config configures one execution context and the arenas drawing from it.
//
// A zero LimitBytes means the context is unbounded; zero block lengths
// are replaced by the defaults.
type Config struct {
	// Name labels log lines and metrics, e.g. "host" or "device".
	Name string `yaml:"name" validate:"required"`

	// LimitBytes caps the bytes reserved by all arenas of this context.
	LimitBytes uint64 `yaml:"limit_bytes"`

	// InitBlockLen is the number of children in the first block of an arena.
	InitBlockLen int `yaml:"init_block_len" validate:"gte=0"`

	// MaxBlockLen caps the doubling of block lengths.
	MaxBlockLen int `yaml:"max_block_len" validate:"gte=0"`
}

// DefaultConfig returns the config of an unbounded host context.
func DefaultConfig() Config {
	return Config{
		Name:         defaultName,
		InitBlockLen: defaultInitBlockLen,
		MaxBlockLen:  defaultMaxBlockLen,
	}
}

// withDefaults fills in zero values.
func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.InitBlockLen <= 0 {
		c.InitBlockLen = defaultInitBlockLen
	}
	if c.MaxBlockLen <= 0 {
		c.MaxBlockLen = defaultMaxBlockLen
	}
	if c.MaxBlockLen < c.InitBlockLen {
		c.MaxBlockLen = c.InitBlockLen
	}
	return c
}
