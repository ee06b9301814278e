// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

//go:build !snode_device

package snode

// Default is the execution context of this build.
type Default = Host
