// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for pacsub packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PacBSD/pacsub/lib/config"
)

// Workspace creates a temporary host layout (root, repos, users) and
// returns a configuration pointing at it. The lock timeout is kept
// short so tests that provoke lock conflicts fail fast.
func Workspace(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.Paths.Root = root
	cfg.Paths.RuleStore = filepath.Join(root, "rules.acl")
	cfg.Paths.Repos = filepath.Join(root, "repos")
	cfg.Paths.Users = filepath.Join(root, "users")
	cfg.Paths.AuthorizedKeys = filepath.Join(root, "authorized_keys")
	cfg.LockTimeout = "250ms"

	for _, directory := range []string{cfg.ReposPath(), cfg.UsersPath()} {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			t.Fatalf("creating workspace directory %s: %v", directory, err)
		}
	}
	return cfg
}

// SeedRules writes rule lines to the workspace rule store, replacing
// whatever is there. Lines use the store format, e.g.
// "allow admin:rwcda:/".
func SeedRules(t *testing.T, cfg *config.Config, lines ...string) {
	t.Helper()
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(cfg.RuleStorePath(), []byte(content), 0o644); err != nil {
		t.Fatalf("seeding rule store: %v", err)
	}
}
