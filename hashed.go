// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import (
	"iter"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gaissmai/snode/arena"
	"github.com/pkg/errors"
)

// Hashed is an unbounded sparse level, mapping any index to a child
// allocated on first activation.
//
// The zero value is empty and ready to use.
// A Hashed must not be copied after first use.
type Hashed[C any, P Exec] struct {
	// mu serializes host activation, see [Host]
	mu sync.Mutex

	// slots maps int to *slot, lock-free for readers
	slots sync.Map

	// number of published children
	n atomic.Int64
}

// LookUp returns the child for i. On the host an absent child is activated
// first, on the device nil is returned for it.
func (h *Hashed[C, P]) LookUp(a Allocator[C], i int) (*C, error) {
	var p P
	if p.implicitActivate() {
		addr, err := h.activate(a, i)
		if err != nil {
			return nil, err
		}
		return a.Deref(addr), nil
	}

	if addr, ok := h.load(i); ok {
		return a.Deref(addr), nil
	}
	return nil, nil
}

// Activate allocates the child for i, exactly once per index.
func (h *Hashed[C, P]) Activate(a Allocator[C], i int) error {
	_, err := h.activate(a, i)
	return err
}

// Contains reports whether the child for i was activated.
func (h *Hashed[C, P]) Contains(i int) bool {
	_, ok := h.load(i)
	return ok
}

// N returns the number of distinct activated indices.
// It is counted after publication, so under concurrent activation it may
// briefly lag what Contains and All already observe.
func (h *Hashed[C, P]) N() int {
	return int(h.n.Load())
}

// HasNull returns true.
func (h *Hashed[C, P]) HasNull() bool {
	return true
}

// All yields the activated children in ascending index order.
func (h *Hashed[C, P]) All(a Allocator[C]) iter.Seq2[int, *C] {
	return func(yield func(int, *C) bool) {
		indices := make([]int, 0, h.N())
		h.slots.Range(func(k, v any) bool {
			if _, ok := v.(*slot).load(); ok {
				indices = append(indices, k.(int))
			}
			return true
		})
		slices.Sort(indices)

		for _, i := range indices {
			addr, _ := h.load(i)
			if !yield(i, a.Deref(addr)) {
				return
			}
		}
	}
}

func (h *Hashed[C, P]) activate(a Allocator[C], i int) (arena.Addr, error) {
	var p P
	addr, won, err := p.claim(h.slotFor(i), &h.mu, a)
	if err != nil {
		return arena.NullAddr, errors.WithMessagef(err, "hashed: activate %d", i)
	}
	if won {
		h.n.Add(1)
	}
	return addr, nil
}

// load returns the published address for i, if any.
func (h *Hashed[C, P]) load(i int) (arena.Addr, bool) {
	v, ok := h.slots.Load(i)
	if !ok {
		return arena.NullAddr, false
	}
	return v.(*slot).load()
}

// slotFor returns the slot for i, inserting an empty one if missing.
func (h *Hashed[C, P]) slotFor(i int) *slot {
	if v, ok := h.slots.Load(i); ok {
		return v.(*slot)
	}
	v, _ := h.slots.LoadOrStore(i, new(slot))
	return v.(*slot)
}
