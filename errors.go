// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import "github.com/pkg/errors"

var (
	// ErrOutOfRange is returned for an index outside [0, capacity) of a bounded node.
	ErrOutOfRange = errors.New("snode: index out of range")

	// ErrCapacity is returned when an append would exceed max_n.
	ErrCapacity = errors.New("snode: capacity exceeded")

	// ErrTooManyIndices is returned when a leaf context gets more than MaxNumIndices indices.
	ErrTooManyIndices = errors.New("snode: too many indices")
)

// checkIndex, negative i wraps around in the uint conversion.
func checkIndex(i, n int) error {
	if uint(i) >= uint(n) {
		return errors.Wrapf(ErrOutOfRange, "index %d, capacity %d", i, n)
	}
	return nil
}
