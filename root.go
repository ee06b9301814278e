// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import "iter"

// Root is the top of a hierarchy, it embeds exactly one child
// and is always active.
type Root[C any] struct {
	child C
}

// Child returns the embedded child.
func (r *Root[C]) Child() *C {
	return &r.child
}

// LookUp returns the embedded child, i is ignored unless built with snode_debug.
func (r *Root[C]) LookUp(_ Allocator[C], i int) (*C, error) {
	if boundsChecks {
		if err := checkIndex(i, 1); err != nil {
			return nil, err
		}
	}
	return &r.child, nil
}

// Activate is a no-op, the child is always present.
func (r *Root[C]) Activate(_ Allocator[C], i int) error {
	if boundsChecks {
		return checkIndex(i, 1)
	}
	return nil
}

// N returns 1.
func (r *Root[C]) N() int {
	return 1
}

// HasNull returns false.
func (r *Root[C]) HasNull() bool {
	return false
}

// All yields the embedded child.
func (r *Root[C]) All(_ Allocator[C]) iter.Seq2[int, *C] {
	return func(yield func(int, *C) bool) {
		yield(0, &r.child)
	}
}
