// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

//go:build !snode_debug

package snode

// boundsChecks, Root and Dense index without a reported bounds check.
const boundsChecks = false
