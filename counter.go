// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// reserve claims the next free slot index below maxN.
//
// The count never exceeds maxN, a failed reservation leaves it untouched.
func reserve(n *atomic.Int32, maxN int) (int, error) {
	for {
		cur := n.Load()
		if int(cur) >= maxN {
			return -1, errors.Wrapf(ErrCapacity, "append at %d, max_n %d", cur, maxN)
		}
		if n.CompareAndSwap(cur, cur+1) {
			return int(cur), nil
		}
	}
}

// growTo raises the count to at least want.
func growTo(n *atomic.Int32, want int) {
	for {
		cur := n.Load()
		if int(cur) >= want || n.CompareAndSwap(cur, int32(want)) {
			return
		}
	}
}
