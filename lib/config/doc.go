// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the pacsub
// host.
//
// Configuration is loaded from a single file specified by either the
// PACSUB_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. This ensures deterministic, auditable
// configuration with no hidden overrides — on a host whose whole
// purpose is access control, nobody should have to guess which config
// was in effect.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and other environment variables, plus ${PACSUB_ROOT} bound
// to the configured root directory. No environment variable overrides
// a config value.
//
// Key exports:
//
//   - [Config] — paths, rule store location, lock timeout, external
//     tool names
//   - [Default] — a Config with development defaults under the
//     caller's home directory
//   - [Load] and [LoadFile] — the two entry points for loading
//
// This package depends on no other pacsub packages.
package config
