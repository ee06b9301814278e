// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

//go:build snode_debug

package snode

// boundsChecks, Root and Dense report out-of-range indices with ErrOutOfRange.
const boundsChecks = true
