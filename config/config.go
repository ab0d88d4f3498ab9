// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

// Package config hosts the tuning parameters of the nullability analysis and
// the per-run configuration threaded through the driver.
package config

import "time"

// DefaultCheckTimeout bounds one translation unit's analysis. Each function
// body always reaches its fixed point on its own (widening bounds iteration),
// so this only guards against pathologically large inputs.
const DefaultCheckTimeout = 5 * time.Minute

// Config controls one analysis run.
type Config struct {
	// Timeout bounds the whole run. Zero means DefaultCheckTimeout.
	Timeout time.Duration
	// Sequential disables the per-function goroutines; useful when a caller
	// wants deterministic scheduling while debugging the engine itself.
	Sequential bool
}

// New returns a Config with default values.
func New() *Config {
	return &Config{Timeout: DefaultCheckTimeout}
}
