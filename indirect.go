// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import (
	"iter"
	"sync/atomic"
)

// Indirect is a leaf level of at most len(A) plain integers, typically
// indices into another level, filled by concurrent producers with Append.
//
// Same append protocol as [Dynamic].
type Indirect[A Fanout[int32], P Exec] struct {
	data A
	n    atomic.Int32
}

// LookUp returns the integer slot at i. On the host the count is raised
// to at least i+1.
func (ind *Indirect[A, P]) LookUp(_ Allocator[int32], i int) (*int32, error) {
	if err := checkIndex(i, len(ind.data)); err != nil {
		return nil, err
	}

	var p P
	if p.implicitActivate() {
		growTo(&ind.n, i+1)
	}
	return &ind.data[i], nil
}

// Activate does nothing but the range check.
func (ind *Indirect[A, P]) Activate(_ Allocator[int32], i int) error {
	return checkIndex(i, len(ind.data))
}

// Append stores v in the next free slot and returns its index.
// It returns an error wrapping [ErrCapacity] if all max_n slots are taken.
func (ind *Indirect[A, P]) Append(v int32) (int, error) {
	i, err := reserve(&ind.n, len(ind.data))
	if err != nil {
		return -1, err
	}
	ind.data[i] = v
	return i, nil
}

// Get returns the integer at i, it panics if i is out of range.
func (ind *Indirect[A, P]) Get(i int) int32 {
	return ind.data[i]
}

// Clear resets the count to zero, the contents are not touched.
func (ind *Indirect[A, P]) Clear() {
	ind.n.Store(0)
}

// N returns the number of appended integers.
func (ind *Indirect[A, P]) N() int {
	return int(ind.n.Load())
}

// MaxN returns the capacity.
func (ind *Indirect[A, P]) MaxN() int {
	return len(ind.data)
}

// HasNull returns false.
func (ind *Indirect[A, P]) HasNull() bool {
	return false
}

// All yields the integer slots in [0, N()).
func (ind *Indirect[A, P]) All(_ Allocator[int32]) iter.Seq2[int, *int32] {
	return func(yield func(int, *int32) bool) {
		n := ind.N()
		for i := 0; i < n; i++ {
			if !yield(i, &ind.data[i]) {
				return
			}
		}
	}
}
