// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gaissmai/snode/arena"
)

// Host is the serial host execution context.
//
// LookUp implies Activate. A Hashed activation is a check-then-allocate
// sequence held under the node's mutex from the check until the child is
// published, so concurrent host callers are safe as well, they just
// serialize. Pointer activation claims its slot with compare-and-swap.
type Host struct{}

// Device is the massively concurrent device execution context.
//
// LookUp is a pure read and returns nil for children never activated.
// Activate claims the slot with compare-and-swap, exactly one caller
// allocates, all others wait for the published address and reuse it.
type Device struct{}

// Exec is the execution context strategy of a node, [Host] or [Device].
type Exec interface {
	Host | Device
	fmt.Stringer

	// implicitActivate reports whether LookUp materializes absent children.
	implicitActivate() bool

	// claim publishes the child of s, allocating at most once per slot.
	// won is true for the single caller that allocated.
	claim(s *slot, mu *sync.Mutex, a blockAllocator) (addr arena.Addr, won bool, err error)
}

func (Host) String() string   { return "host" }
func (Device) String() string { return "device" }

func (Host) implicitActivate() bool   { return true }
func (Device) implicitActivate() bool { return false }

func (Host) claim(s *slot, mu *sync.Mutex, a blockAllocator) (arena.Addr, bool, error) {
	if addr, ok := s.load(); ok {
		return addr, false, nil
	}

	mu.Lock()
	defer mu.Unlock()

	// someone got to it while we were waiting
	if addr, ok := s.load(); ok {
		return addr, false, nil
	}

	addr, err := a.Alloc()
	if err != nil {
		return arena.NullAddr, false, err
	}
	s.publish(addr)

	return addr, true, nil
}

func (Device) claim(s *slot, _ *sync.Mutex, a blockAllocator) (arena.Addr, bool, error) {
	return s.claim(a)
}

// slot states
const (
	slotEmpty uint32 = iota
	slotPending
	slotReady
)

// slot holds the address of one lazily activated child.
//
// addr is written once before state becomes slotReady and read only
// after state was observed as slotReady.
type slot struct {
	state atomic.Uint32
	addr  arena.Addr
}

// load returns the published address, if any.
func (s *slot) load() (arena.Addr, bool) {
	if s.state.Load() == slotReady {
		return s.addr, true
	}
	return arena.NullAddr, false
}

// claim publishes the child of s with compare-and-swap,
// empty -> pending -> ready. Only the caller moving the slot to pending
// allocates, no lock is held across the allocator call.
func (s *slot) claim(a blockAllocator) (arena.Addr, bool, error) {
	for {
		switch s.state.Load() {
		case slotReady:
			return s.addr, false, nil

		case slotEmpty:
			if !s.state.CompareAndSwap(slotEmpty, slotPending) {
				continue
			}

			addr, err := a.Alloc()
			if err != nil {
				// give up the claim, a later caller may retry
				s.state.Store(slotEmpty)
				return arena.NullAddr, false, err
			}
			s.publish(addr)

			return addr, true, nil

		default:
			// another caller is allocating
			runtime.Gosched()
		}
	}
}

// publish makes addr visible to readers.
func (s *slot) publish(addr arena.Addr) {
	s.addr = addr
	s.state.Store(slotReady)
}
