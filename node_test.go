// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import (
	"testing"

	"github.com/gaissmai/snode/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// leaf is a small numeric payload, as stored by a field.
type leaf struct {
	v [4]float32
}

func newArena[C any](t *testing.T, limit uint64) *arena.Arena[C] {
	t.Helper()
	cfg := arena.DefaultConfig()
	cfg.Name = t.Name()
	cfg.LimitBytes = limit
	return arena.New[C](arena.NewContext(cfg))
}

// checkIdempotent activates each index and looks it up twice,
// all lookups must return the same child.
func checkIdempotent[C any](t *testing.T, n Node[C], a Allocator[C], indices ...int) {
	t.Helper()
	for _, i := range indices {
		require.NoError(t, n.Activate(a, i), "Activate(%d)", i)

		c1, err := n.LookUp(a, i)
		require.NoError(t, err)
		require.NotNil(t, c1, "LookUp(%d) after Activate", i)

		c2, err := n.LookUp(a, i)
		require.NoError(t, err)
		require.Same(t, c1, c2, "LookUp(%d) twice", i)
	}
}

func TestIdempotentActivation(t *testing.T) {
	t.Parallel()

	t.Run("root", func(t *testing.T) {
		checkIdempotent[leaf](t, new(Root[leaf]), nil, 0)
	})
	t.Run("dense", func(t *testing.T) {
		checkIdempotent[leaf](t, new(Dense[leaf, [8]leaf]), nil, 0, 1, 7, 7)
	})
	t.Run("hashed/host", func(t *testing.T) {
		checkIdempotent[leaf](t, new(Hashed[leaf, Host]), newArena[leaf](t, 0), 0, 5, 5, 1<<20, -3)
	})
	t.Run("hashed/device", func(t *testing.T) {
		checkIdempotent[leaf](t, new(Hashed[leaf, Device]), newArena[leaf](t, 0), 0, 5, 5, 1<<20, -3)
	})
	t.Run("pointer/host", func(t *testing.T) {
		checkIdempotent[leaf](t, new(Pointer[leaf, Host]), newArena[leaf](t, 0), 0, 0)
	})
	t.Run("pointer/device", func(t *testing.T) {
		checkIdempotent[leaf](t, new(Pointer[leaf, Device]), newArena[leaf](t, 0), 0, 0)
	})
	t.Run("dynamic", func(t *testing.T) {
		checkIdempotent[leaf](t, new(Dynamic[leaf, [16]leaf, Device]), nil, 0, 3, 15)
	})
	t.Run("indirect", func(t *testing.T) {
		checkIdempotent[int32](t, new(Indirect[[16]int32, Device]), nil, 0, 3, 15)
	})
	t.Run("bitmasked/host", func(t *testing.T) {
		checkIdempotent[leaf](t, new(Bitmasked[leaf, [32]leaf, Host]), nil, 0, 31, 31)
	})
	t.Run("bitmasked/device", func(t *testing.T) {
		checkIdempotent[leaf](t, new(Bitmasked[leaf, [32]leaf, Device]), nil, 0, 31, 31)
	})
}

func TestHasNull(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node interface{ HasNull() bool }
		want bool
	}{
		{"root", new(Root[leaf]), false},
		{"dense", new(Dense[leaf, [4]leaf]), false},
		{"hashed", new(Hashed[leaf, Default]), true},
		{"pointer", new(Pointer[leaf, Default]), true},
		{"dynamic", new(Dynamic[leaf, [4]leaf, Default]), false},
		{"indirect", new(Indirect[[4]int32, Default]), false},
		{"bitmasked", new(Bitmasked[leaf, [4]leaf, Default]), true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.node.HasNull(), tt.name)
	}
}

func TestInitialCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, new(Root[leaf]).N())
	assert.Equal(t, 4, new(Dense[leaf, [4]leaf]).N())
	assert.Equal(t, 4096, new(Dense[int8, [4096]int8]).N())
	assert.Equal(t, 0, new(Hashed[leaf, Default]).N())
	assert.Equal(t, 1, new(Pointer[leaf, Default]).N(), "pointer counts its slot, set or not")
	assert.Equal(t, 0, new(Dynamic[leaf, [4]leaf, Default]).N())
	assert.Equal(t, 0, new(Indirect[[4]int32, Default]).N())
	assert.Equal(t, 0, new(Bitmasked[leaf, [4]leaf, Default]).N())
}

func TestExecString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "host", Host{}.String())
	assert.Equal(t, "device", Device{}.String())
	assert.True(t, Host{}.implicitActivate())
	assert.False(t, Device{}.implicitActivate())
}

func TestMustLookUp(t *testing.T) {
	t.Parallel()

	d := new(Dynamic[int, [2]int, Host])
	assert.NotNil(t, MustLookUp[int](d, nil, 1))
	assert.Equal(t, 2, d.N())

	assert.Panics(t, func() { MustLookUp[int](d, nil, 2) })
}
