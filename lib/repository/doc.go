// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package repository manages the on-disk layout of package
// repositories: one directory per repository under the configured
// repos root, with one subdirectory per registered architecture.
//
// The package index format belongs to the distribution tooling, not to
// pacsub: index mutation is delegated to the external repo-add and
// repo-remove binaries. This package only shells out to them with the
// right database path, the same way it never parses package files
// itself.
//
// Repository and architecture names are validated against a
// conservative character set before any path is built from them;
// nothing here trusts caller-supplied names as path components.
package repository
