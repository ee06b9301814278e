// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package snode provides the sparse node types of a hierarchical,
// sparsity-aware tree that backs dense or sparse numeric fields accessed
// by generated kernels.
//
// Each level of the tree is an independently chosen node variant:
//
//   - Root:      exactly one embedded child
//   - Dense:     fixed power-of-two array of embedded children
//   - Hashed:    sparse map from index to an arena-allocated child
//   - Pointer:   one optionally absent arena-allocated child
//   - Dynamic:   fixed capacity array filled by concurrent appends
//   - Indirect:  fixed capacity array of int32 filled by concurrent appends
//   - Bitmasked: fixed array of embedded children with an activation mask
//
// All variants implement the [Node] contract: LookUp, Activate, N and
// HasNull. Variants are composed by type parameters, e.g.
//
//	Root[Dense[Hashed[Leaf, Host], [4]Hashed[Leaf, Host]]]
//
// so the whole hierarchy is resolved at compile time, there is no dynamic
// dispatch on the variant in the access path.
//
// Activation behaves differently per execution context, selected by the
// [Exec] type parameter:
//
//   - [Host]:   LookUp implies Activate. Hashed activation runs under a
//     mutex, Pointer activation claims its slot with compare-and-swap.
//   - [Device]: LookUp never allocates and returns nil for absent
//     children, Activate publishes a child with compare-and-swap so that
//     exactly one of many concurrent callers allocates.
//
// [Default] is Host, or Device when built with the tag snode_device.
//
// Children of Hashed and Pointer nodes live in an [arena.Arena]. The
// allocator is passed explicitly on every call and satisfies
// [Allocator]; nodes hold an [arena.Addr] into it, never a pointer.
//
// Bounds checks: Dynamic, Indirect and Bitmasked report out-of-range
// indices with [ErrOutOfRange]. Root, Dense and Pointer are the innermost
// access path and only check with the build tag snode_debug. Otherwise
// Dense panics on an out-of-range index like any Go array access, Root
// and Pointer ignore the index.
package snode
