// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import "github.com/pkg/errors"

// MaxNumIndices is the maximum dimensionality of a field.
const MaxNumIndices = 8

// LeafContext is what a kernel body gets for one logical element:
// the per-dimension indices and the resolved leaf storage.
//
// It is owned by the calling kernel frame and never shared between
// concurrent invocations.
type LeafContext[T any] struct {
	Indices [MaxNumIndices]int
	Ptr     *T
}

// NewLeafContext packages ptr with the indices of its element.
// Unused dimensions are zero.
func NewLeafContext[T any](ptr *T, indices ...int) (LeafContext[T], error) {
	var lc LeafContext[T]
	if len(indices) > MaxNumIndices {
		return lc, errors.Wrapf(ErrTooManyIndices, "got %d, max %d", len(indices), MaxNumIndices)
	}
	copy(lc.Indices[:], indices)
	lc.Ptr = ptr
	return lc, nil
}

// Index returns the index of dimension dim, it panics if dim >= MaxNumIndices.
func (lc *LeafContext[T]) Index(dim int) int {
	return lc.Indices[dim]
}

// Valid reports whether the leaf was resolved.
func (lc *LeafContext[T]) Valid() bool {
	return lc.Ptr != nil
}
