// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import (
	"iter"

	"github.com/gaissmai/snode/arena"
)

// compile time check
var (
	_ Allocator[any] = (*arena.Arena[any])(nil)

	_ Node[any]   = (*Root[any])(nil)
	_ Node[any]   = (*Dense[any, [4]any])(nil)
	_ Node[any]   = (*Hashed[any, Host])(nil)
	_ Node[any]   = (*Hashed[any, Device])(nil)
	_ Node[any]   = (*Pointer[any, Host])(nil)
	_ Node[any]   = (*Pointer[any, Device])(nil)
	_ Node[any]   = (*Dynamic[any, [8]any, Default])(nil)
	_ Node[int32] = (*Indirect[[8]int32, Default])(nil)
	_ Node[any]   = (*Bitmasked[any, [8]any, Default])(nil)
)

// Allocator is the block allocator consumed by activating nodes,
// bound to one execution context. [arena.Arena] implements it.
type Allocator[C any] interface {
	// Alloc returns the address of a new zero-initialized child.
	Alloc() (arena.Addr, error)

	// Deref returns the child at addr.
	Deref(arena.Addr) *C
}

// blockAllocator is the allocating half of Allocator, independent of C.
type blockAllocator interface {
	Alloc() (arena.Addr, error)
}

// Node is the capability set every node variant implements for its
// child type C.
//
// The index i is the flattened index of this level, computed by the
// caller. Variants that never allocate ignore the allocator, nil is fine
// for them.
type Node[C any] interface {
	// LookUp returns the child slot for i. On the host it activates an
	// absent child first, on the device it returns nil for absent children.
	LookUp(a Allocator[C], i int) (*C, error)

	// Activate ensures the child for i exists, idempotently.
	Activate(a Allocator[C], i int) error

	// N returns the number of currently valid children.
	N() int

	// HasNull reports whether LookUp may return nil. The result is a
	// constant of the variant.
	HasNull() bool

	// All yields the active children in ascending index order.
	All(a Allocator[C]) iter.Seq2[int, *C]
}

// MustLookUp is LookUp for callers that treat a failed lookup as fatal
// for the invocation. It panics on error.
func MustLookUp[C any](n Node[C], a Allocator[C], i int) *C {
	c, err := n.LookUp(a, i)
	if err != nil {
		panic(err)
	}
	return c
}
