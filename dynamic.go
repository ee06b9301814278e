// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import (
	"iter"
	"sync/atomic"
)

// Dynamic is a level of at most len(A) elements, filled by concurrent
// producers with Append.
//
// Append phases and read phases must be ordered by the caller, nothing
// guards a read racing an in-flight Append.
type Dynamic[C any, A Fanout[C], P Exec] struct {
	data A
	n    atomic.Int32
}

// LookUp returns the element at i. On the host the count is raised to
// at least i+1.
func (d *Dynamic[C, A, P]) LookUp(_ Allocator[C], i int) (*C, error) {
	if err := checkIndex(i, len(d.data)); err != nil {
		return nil, err
	}

	var p P
	if p.implicitActivate() {
		growTo(&d.n, i+1)
	}
	return &d.data[i], nil
}

// Activate does nothing but the range check, elements are activated by Append.
func (d *Dynamic[C, A, P]) Activate(_ Allocator[C], i int) error {
	return checkIndex(i, len(d.data))
}

// Append stores v in the next free slot and returns its index.
// It returns an error wrapping [ErrCapacity] if all max_n slots are taken.
func (d *Dynamic[C, A, P]) Append(v C) (int, error) {
	i, err := reserve(&d.n, len(d.data))
	if err != nil {
		return -1, err
	}
	d.data[i] = v
	return i, nil
}

// Clear resets the count to zero. The contents are not touched,
// subsequent appends overwrite them.
func (d *Dynamic[C, A, P]) Clear() {
	d.n.Store(0)
}

// N returns the number of appended elements.
func (d *Dynamic[C, A, P]) N() int {
	return int(d.n.Load())
}

// MaxN returns the capacity.
func (d *Dynamic[C, A, P]) MaxN() int {
	return len(d.data)
}

// HasNull returns false.
func (d *Dynamic[C, A, P]) HasNull() bool {
	return false
}

// All yields the elements in [0, N()).
func (d *Dynamic[C, A, P]) All(_ Allocator[C]) iter.Seq2[int, *C] {
	return func(yield func(int, *C) bool) {
		n := d.N()
		for i := 0; i < n; i++ {
			if !yield(i, &d.data[i]) {
				return
			}
		}
	}
}
