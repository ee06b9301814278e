// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import (
	"iter"

	"github.com/pkg/errors"
)

// Pointer is a level with a single, optionally absent child,
// allocated once and then cached.
//
// Activation claims the slot with compare-and-swap in both execution
// contexts, the context only decides whether LookUp activates.
//
// The index is ignored unless built with snode_debug.
// A Pointer must not be copied after first use.
type Pointer[C any, P Exec] struct {
	slot slot
}

// LookUp returns the child. On the host an absent child is activated
// first, on the device nil is returned for it.
func (ptr *Pointer[C, P]) LookUp(a Allocator[C], i int) (*C, error) {
	if boundsChecks {
		if err := checkIndex(i, 1); err != nil {
			return nil, err
		}
	}

	var p P
	if p.implicitActivate() {
		if err := ptr.Activate(a, i); err != nil {
			return nil, err
		}
	}

	if addr, ok := ptr.slot.load(); ok {
		return a.Deref(addr), nil
	}
	return nil, nil
}

// Activate allocates the child, exactly once.
func (ptr *Pointer[C, P]) Activate(a Allocator[C], i int) error {
	if boundsChecks {
		if err := checkIndex(i, 1); err != nil {
			return err
		}
	}

	if _, _, err := ptr.slot.claim(a); err != nil {
		return errors.WithMessage(err, "pointer: activate")
	}
	return nil
}

// IsNull reports whether the child is absent.
func (ptr *Pointer[C, P]) IsNull() bool {
	_, ok := ptr.slot.load()
	return !ok
}

// N returns 1, whether or not the child is present.
func (ptr *Pointer[C, P]) N() int {
	return 1
}

// HasNull returns true.
func (ptr *Pointer[C, P]) HasNull() bool {
	return true
}

// All yields the child if present.
func (ptr *Pointer[C, P]) All(a Allocator[C]) iter.Seq2[int, *C] {
	return func(yield func(int, *C) bool) {
		if addr, ok := ptr.slot.load(); ok {
			yield(0, a.Deref(addr))
		}
	}
}
