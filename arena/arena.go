// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package arena implements the block allocator behind lazily activated
// nodes.
//
// A [Context] represents one execution context and accounts the bytes
// reserved from it. An [Arena] hands out zero-initialized children of one
// type in blocks that grow by doubling. Children are addressed by [Addr],
// an index into the arena rather than a raw pointer, so a whole hierarchy
// is torn down at once with [Arena.Reset].
package arena

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
)

// NullAddr addresses nothing.
var NullAddr = Addr{math.MaxUint32, math.MaxUint32}

// Addr is the address of a child within its arena.
type Addr struct {
	block  uint32
	offset uint32
}

// IsNull reports whether addr is the null address.
func (addr Addr) IsNull() bool {
	return addr == NullAddr
}

// Block returns the block index of addr.
func (addr Addr) Block() int {
	return int(addr.block)
}

// Offset returns the slot index within the block.
func (addr Addr) Offset() int {
	return int(addr.offset)
}

func (addr Addr) String() string {
	if addr.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%d:%d", addr.block, addr.offset)
}

// Arena is a typed slab allocator for children of type T.
//
// Alloc is serialized by a mutex, Deref is lock-free. Published blocks
// never move, so a *T stays valid until Reset.
type Arena[T any] struct {
	ctx  *Context
	size uint64 // sizeof(T)

	mu       sync.Mutex
	blockLen int // length of the last block
	length   int // used slots in the last block

	// copy-on-write block directory, read by Deref without locking
	blocks atomic.Pointer[[][]T]

	live atomic.Int64
}

// New returns an empty arena drawing from ctx.
func New[T any](ctx *Context) *Arena[T] {
	var zero T
	return &Arena[T]{
		ctx:  ctx,
		size: uint64(unsafe.Sizeof(zero)),
	}
}

// Context returns the execution context of the arena.
func (a *Arena[T]) Context() *Context {
	return a.ctx
}

// Alloc reserves sizeof(T) bytes from the context and returns the address
// of a zero-initialized child. Exhaustion of the context is returned as
// an error wrapping [ErrExhausted].
func (a *Arena[T]) Alloc() (Addr, error) {
	if err := a.ctx.Alloc(a.size); err != nil {
		return NullAddr, err
	}

	a.mu.Lock()
	addr := a.allocInLastBlock()
	if addr.IsNull() {
		a.enlarge()
		addr = a.allocInLastBlock()
	}
	a.mu.Unlock()

	a.live.Add(1)
	a.ctx.metrics.allocated(a.ctx.cfg.Name)

	return addr, nil
}

// Deref returns the child at addr, nil for the null address and for an
// arena without blocks, i.e. before the first Alloc or after Reset.
// Otherwise addr must have been returned by Alloc since the last Reset.
func (a *Arena[T]) Deref(addr Addr) *T {
	p := a.blocks.Load()
	if addr.IsNull() || p == nil {
		return nil
	}
	blocks := *p
	return &blocks[addr.block][addr.offset]
}

// Len returns the number of children allocated since the last Reset.
func (a *Arena[T]) Len() int {
	return int(a.live.Load())
}

// Blocks returns the number of backing blocks.
func (a *Arena[T]) Blocks() int {
	if p := a.blocks.Load(); p != nil {
		return len(*p)
	}
	return 0
}

// Reset drops all children at once and returns their bytes to the context.
// Every Addr handed out before is invalid afterwards, the hierarchy
// holding them must be discarded with it.
func (a *Arena[T]) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.live.Swap(0)
	a.ctx.release(uint64(n) * a.size)

	a.blocks.Store(nil)
	a.blockLen = 0
	a.length = 0
}

// allocInLastBlock, the caller must hold the lock.
func (a *Arena[T]) allocInLastBlock() Addr {
	p := a.blocks.Load()
	if p == nil || a.length >= a.blockLen {
		return NullAddr
	}

	addr := Addr{block: uint32(len(*p) - 1), offset: uint32(a.length)}
	a.length++
	return addr
}

// enlarge appends a new block, doubling the length up to MaxBlockLen.
// The caller must hold the lock.
func (a *Arena[T]) enlarge() {
	blockLen := a.ctx.cfg.InitBlockLen
	if a.blockLen > 0 {
		blockLen = a.blockLen << 1
	}
	if blockLen > a.ctx.cfg.MaxBlockLen {
		blockLen = a.ctx.cfg.MaxBlockLen
	}

	var old [][]T
	if p := a.blocks.Load(); p != nil {
		old = *p
	}

	grown := make([][]T, len(old), len(old)+1)
	copy(grown, old)
	grown = append(grown, make([]T, blockLen))

	a.blocks.Store(&grown)
	a.blockLen = blockLen
	a.length = 0

	a.ctx.metrics.blockAdded(a.ctx.cfg.Name)
	a.ctx.log.Debug("arena block added",
		zap.Int("blocks", len(grown)),
		zap.Int("blockLen", blockLen),
		zap.Uint64("childSize", a.size))
}
