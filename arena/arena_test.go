// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package arena

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type cell struct {
	a, b int64
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{MaxBlockLen: 4, InitBlockLen: 16}.withDefaults()
	assert.Equal(t, defaultName, cfg.Name)
	assert.Equal(t, 16, cfg.InitBlockLen)
	assert.Equal(t, 16, cfg.MaxBlockLen, "max is raised to init")

	cfg = Config{}.withDefaults()
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestAddr(t *testing.T) {
	t.Parallel()

	assert.True(t, NullAddr.IsNull())
	assert.Equal(t, "null", NullAddr.String())

	addr := Addr{block: 2, offset: 7}
	assert.False(t, addr.IsNull())
	assert.Equal(t, 2, addr.Block())
	assert.Equal(t, 7, addr.Offset())
	assert.Equal(t, "2:7", addr.String())

	assert.False(t, Addr{}.IsNull(), "zero Addr is a valid address")
}

func TestArenaAllocZeroed(t *testing.T) {
	t.Parallel()

	a := New[cell](NewContext(DefaultConfig()))
	assert.Nil(t, a.Deref(NullAddr))

	seen := map[Addr]bool{}
	for i := range 1_000 {
		addr, err := a.Alloc()
		require.NoError(t, err)
		require.False(t, seen[addr], "address %v handed out twice", addr)
		seen[addr] = true

		c := a.Deref(addr)
		require.NotNil(t, c)
		require.Equal(t, cell{}, *c)
		c.a = int64(i)
	}
	assert.Equal(t, 1_000, a.Len())
	assert.Equal(t, uint64(1_000*16), a.Context().Used())
}

func TestArenaBlockGrowth(t *testing.T) {
	t.Parallel()

	ctx := NewContext(Config{Name: "grow", InitBlockLen: 2, MaxBlockLen: 8})
	a := New[int64](ctx)

	// block lengths: 2, 4, 8, 8, ...
	wantBlocks := []int{1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3, 4}
	for i, want := range wantBlocks {
		addr, err := a.Alloc()
		require.NoError(t, err)
		require.Equal(t, want, a.Blocks(), "alloc %d", i)
		require.Equal(t, want-1, addr.Block())
	}
}

func TestArenaStablePointers(t *testing.T) {
	t.Parallel()

	a := New[cell](NewContext(Config{InitBlockLen: 1, MaxBlockLen: 4}))

	addr, err := a.Alloc()
	require.NoError(t, err)
	p := a.Deref(addr)
	p.a = 42

	for range 100 {
		_, err := a.Alloc()
		require.NoError(t, err)
	}

	assert.Same(t, p, a.Deref(addr), "blocks must not move on growth")
	assert.Equal(t, int64(42), a.Deref(addr).a)
}

func TestArenaExhaustion(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ctx := NewContext(Config{Name: "small", LimitBytes: 3 * 8}, WithLogger(zap.New(core)), WithMetrics(m))
	a := New[int64](ctx)

	for range 3 {
		_, err := a.Alloc()
		require.NoError(t, err)
	}

	addr, err := a.Alloc()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.True(t, addr.IsNull())
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, uint64(24), ctx.Used(), "failed request reserves nothing")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "block allocator exhausted", entry.Message)
	assert.Equal(t, "small", entry.ContextMap()["context"])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.exhaustions.WithLabelValues("small")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.allocations.WithLabelValues("small")))
	assert.Equal(t, 24.0, testutil.ToFloat64(m.reserved.WithLabelValues("small")))
}

func TestArenaReset(t *testing.T) {
	t.Parallel()

	m := NewMetrics(nil)
	ctx := NewContext(Config{Name: "reset", LimitBytes: 10 * 8}, WithMetrics(m))
	a := New[int64](ctx)
	b := New[int32](ctx)

	for range 10 {
		_, err := a.Alloc()
		require.NoError(t, err)
	}
	_, err := b.Alloc()
	require.ErrorIs(t, err, ErrExhausted)

	a.Reset()
	assert.Zero(t, a.Len())
	assert.Zero(t, a.Blocks())
	assert.Zero(t, ctx.Used())
	assert.Zero(t, testutil.ToFloat64(m.reserved.WithLabelValues("reset")))

	addr, err := b.Alloc()
	require.NoError(t, err)
	assert.Equal(t, int32(0), *b.Deref(addr))
	assert.Equal(t, uint64(4), ctx.Used())
}

func TestArenaConcurrentAlloc(t *testing.T) {
	t.Parallel()

	const workers, perWorker = 8, 500

	ctx := NewContext(Config{Name: "device", InitBlockLen: 4})
	a := New[cell](ctx)

	addrs := make([][]Addr, workers)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				addr, err := a.Alloc()
				if err != nil {
					t.Error(err)
					return
				}
				a.Deref(addr).a = int64(w*perWorker + i)
				addrs[w] = append(addrs[w], addr)
			}
		}()
	}
	wg.Wait()

	seen := map[Addr]bool{}
	for w := range workers {
		for i, addr := range addrs[w] {
			require.False(t, seen[addr])
			seen[addr] = true
			require.Equal(t, int64(w*perWorker+i), a.Deref(addr).a)
		}
	}
	assert.Equal(t, workers*perWorker, a.Len())
	assert.Equal(t, uint64(workers*perWorker*16), ctx.Used())
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.allocated("x")
		m.exhausted("x")
		m.blockAdded("x")
		m.setReserved("x", 1)
	})
}

func TestArenaDerefWithoutBlocks(t *testing.T) {
	t.Parallel()

	a := New[int64](NewContext(DefaultConfig()))
	assert.Nil(t, a.Deref(Addr{}), "before the first Alloc")

	addr, err := a.Alloc()
	require.NoError(t, err)
	require.NotNil(t, a.Deref(addr))

	a.Reset()
	assert.Nil(t, a.Deref(addr), "after Reset")
	assert.Nil(t, a.Deref(NullAddr))
}
