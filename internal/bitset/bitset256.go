// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package bitset implements the activation mask of bitmasked nodes,
// a fixed size bitset from [0..255] with atomic words.
//
// Set and Clear report the previous state of the bit, so exactly one
// of many concurrent callers observes the transition.
package bitset

import (
	"fmt"
	"math/bits"
	"sync/atomic"
)

//   i>>6 is the word index, i&63 the bit index in the word.
//
// not factored out as functions to keep the methods inlineable.

// BitSet256 represents a fixed size bitset from [0..255].
//
// The zero value is empty and ready to use.
// A BitSet256 must not be copied after first use.
type BitSet256 [4]atomic.Uint64

func (b *BitSet256) String() string {
	return fmt.Sprint(b.All())
}

// Set sets the bit and reports whether it was already set.
// It panic's if bit is > 255 by intention!
func (b *BitSet256) Set(bit uint) (wasSet bool) {
	mask := uint64(1) << (bit & 63)
	return b[bit>>6].Or(mask)&mask != 0
}

// Clear clears the bit and reports whether it was set.
// It panic's if bit is > 255 by intention!
func (b *BitSet256) Clear(bit uint) (wasSet bool) {
	mask := uint64(1) << (bit & 63)
	return b[bit>>6].And(^mask)&mask != 0
}

// Test if the bit is set.
func (b *BitSet256) Test(bit uint) (ok bool) {
	if x := int(bit >> 6); x < 4 {
		return b[x&3].Load()&(1<<(bit&63)) != 0 // [x&3] is bounds check elimination (BCE)
	}
	return
}

// Reset clears all bits.
func (b *BitSet256) Reset() {
	b[0].Store(0)
	b[1].Store(0)
	b[2].Store(0)
	b[3].Store(0)
}

// NextSet returns the next bit set from the specified start bit,
// including possibly the current bit along with an ok code.
func (b *BitSet256) NextSet(bit uint) (uint, bool) {
	wIdx := int(bit >> 6)
	if wIdx >= 4 {
		return 0, false
	}

	// process the first (maybe partial) word
	first := b[wIdx&3].Load() >> (bit & 63)
	if first != 0 {
		return bit + uint(bits.TrailingZeros64(first)), true
	}

	// process the following words until next bit is set
	for wIdx++; wIdx < 4; wIdx++ {
		if word := b[wIdx].Load(); word != 0 {
			return uint(wIdx<<6 + bits.TrailingZeros64(word)), true
		}
	}
	return 0, false
}

// AsSlice returns all set bits as slice of uint without
// heap allocations.
//
// It panics if the capacity of buf is < b.Size()
func (b *BitSet256) AsSlice(buf []uint) []uint {
	buf = buf[:cap(buf)] // use cap as max len

	size := 0
	for wIdx := range b {
		for word := b[wIdx].Load(); word != 0; size++ {
			// panics if capacity of buf is exceeded.
			buf[size] = uint(wIdx<<6 + bits.TrailingZeros64(word))

			// clear the rightmost set bit
			word &= word - 1
		}
	}

	return buf[:size]
}

// All returns all set bits. This has a simpler API but is slower than AsSlice.
func (b *BitSet256) All() []uint {
	return b.AsSlice(make([]uint, 0, 256))
}

// Size is the number of set bits (popcount).
func (b *BitSet256) Size() (cnt int) {
	cnt += bits.OnesCount64(b[0].Load())
	cnt += bits.OnesCount64(b[1].Load())
	cnt += bits.OnesCount64(b[2].Load())
	cnt += bits.OnesCount64(b[3].Load())
	return
}

// IsEmpty returns true if no bit is set.
func (b *BitSet256) IsEmpty() bool {
	return b[3].Load() == 0 &&
		b[2].Load() == 0 &&
		b[1].Load() == 0 &&
		b[0].Load() == 0
}
