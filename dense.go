// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import "iter"

// Dense is a level of len(A) embedded children, all of them always active.
//
// Dense is the innermost access path: At and LookUp index the array
// directly, an out-of-range index panics unless built with snode_debug.
type Dense[C any, A Fanout[C]] struct {
	children A
}

// At returns the child at i without a reported bounds check.
func (d *Dense[C, A]) At(i int) *C {
	return &d.children[i]
}

// LookUp returns the child at i.
func (d *Dense[C, A]) LookUp(_ Allocator[C], i int) (*C, error) {
	if boundsChecks {
		if err := checkIndex(i, len(d.children)); err != nil {
			return nil, err
		}
	}
	return &d.children[i], nil
}

// Activate is a no-op, dense children are always present.
func (d *Dense[C, A]) Activate(_ Allocator[C], i int) error {
	if boundsChecks {
		return checkIndex(i, len(d.children))
	}
	return nil
}

// N returns the fanout.
func (d *Dense[C, A]) N() int {
	return len(d.children)
}

// HasNull returns false.
func (d *Dense[C, A]) HasNull() bool {
	return false
}

// All yields every child.
func (d *Dense[C, A]) All(_ Allocator[C]) iter.Seq2[int, *C] {
	return func(yield func(int, *C) bool) {
		for i := 0; i < len(d.children); i++ {
			if !yield(i, &d.children[i]) {
				return
			}
		}
	}
}
