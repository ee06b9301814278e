// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import (
	"iter"

	"github.com/gaissmai/snode/internal/bitset"
)

// Bitmasked is a level of len(A) embedded children, up to 256, each one
// individually active or not.
//
// Storage is always present, activation only flips a bit in an atomic
// mask, so it never allocates and never fails for valid indices.
// Deactivation keeps the contents.
type Bitmasked[C any, A MaskFanout[C], P Exec] struct {
	data A
	mask bitset.BitSet256
}

// LookUp returns the child at i. On the host an inactive child is
// activated first, on the device nil is returned for it.
func (b *Bitmasked[C, A, P]) LookUp(_ Allocator[C], i int) (*C, error) {
	if err := checkIndex(i, len(b.data)); err != nil {
		return nil, err
	}

	var p P
	if p.implicitActivate() {
		b.mask.Set(uint(i))
	} else if !b.mask.Test(uint(i)) {
		return nil, nil
	}
	return &b.data[i], nil
}

// Activate marks the child at i active.
func (b *Bitmasked[C, A, P]) Activate(_ Allocator[C], i int) error {
	if err := checkIndex(i, len(b.data)); err != nil {
		return err
	}
	b.mask.Set(uint(i))
	return nil
}

// Deactivate marks the child at i inactive, the contents are not touched.
func (b *Bitmasked[C, A, P]) Deactivate(i int) error {
	if err := checkIndex(i, len(b.data)); err != nil {
		return err
	}
	b.mask.Clear(uint(i))
	return nil
}

// IsActive reports whether the child at i is active.
func (b *Bitmasked[C, A, P]) IsActive(i int) bool {
	return i >= 0 && b.mask.Test(uint(i))
}

// Clear deactivates all children, the contents are not touched.
func (b *Bitmasked[C, A, P]) Clear() {
	b.mask.Reset()
}

// N returns the number of active children.
func (b *Bitmasked[C, A, P]) N() int {
	return b.mask.Size()
}

// MaxN returns the capacity.
func (b *Bitmasked[C, A, P]) MaxN() int {
	return len(b.data)
}

// HasNull returns true.
func (b *Bitmasked[C, A, P]) HasNull() bool {
	return true
}

// All yields the active children in ascending index order.
func (b *Bitmasked[C, A, P]) All(_ Allocator[C]) iter.Seq2[int, *C] {
	return func(yield func(int, *C) bool) {
		for bit, ok := b.mask.NextSet(0); ok; bit, ok = b.mask.NextSet(bit + 1) {
			if !yield(int(bit), &b.data[bit]) {
				return
			}
		}
	}
}
