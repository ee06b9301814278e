// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command snodebench drives a sparse grid through its host or device
// activation path and reports what was allocated.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
