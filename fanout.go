// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package snode

// Fanout is the storage of a bounded level: an array of C whose length,
// a power of two up to 4096, is the compile-time capacity of the node.
//
//	Dense[float32, [8]float32]
type Fanout[C any] interface {
	~[1]C | ~[2]C | ~[4]C | ~[8]C | ~[16]C | ~[32]C | ~[64]C | ~[128]C |
		~[256]C | ~[512]C | ~[1024]C | ~[2048]C | ~[4096]C
}

// MaskFanout is the storage of a bitmasked level, at most 256 children
// to fit the activation mask.
type MaskFanout[C any] interface {
	~[1]C | ~[2]C | ~[4]C | ~[8]C | ~[16]C | ~[32]C | ~[64]C | ~[128]C | ~[256]C
}
