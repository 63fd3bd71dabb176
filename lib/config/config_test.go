// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_DerivedPaths(t *testing.T) {
	cfg := Default()

	if cfg.Paths.Root == "" {
		t.Fatal("default root is empty")
	}
	if got := cfg.RuleStorePath(); got != filepath.Join(cfg.Paths.Root, "acl") {
		t.Errorf("RuleStorePath = %q", got)
	}
	if got := cfg.ReposPath(); got != filepath.Join(cfg.Paths.Root, "repos") {
		t.Errorf("ReposPath = %q", got)
	}
	if got := cfg.UsersPath(); got != filepath.Join(cfg.Paths.Root, "users") {
		t.Errorf("UsersPath = %q", got)
	}
	if cfg.LockWait() != 10*time.Second {
		t.Errorf("LockWait = %v", cfg.LockWait())
	}
	if cfg.Tools.RepoAdd != "repo-add" || cfg.Tools.GPG != "gpg" {
		t.Errorf("tools = %+v", cfg.Tools)
	}
}

func TestLoadFile_OverridesAndExpansion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacsub.yaml")
	content := `
paths:
  root: /srv/pacsub
  rule_store: ${PACSUB_ROOT}/state/acl
lock_timeout: 3s
tools:
  gpg: gpg2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Paths.Root != "/srv/pacsub" {
		t.Errorf("root = %q", cfg.Paths.Root)
	}
	if got := cfg.RuleStorePath(); got != "/srv/pacsub/state/acl" {
		t.Errorf("RuleStorePath = %q, want expansion against root", got)
	}
	// Unset fields keep their root-derived defaults.
	if got := cfg.ReposPath(); got != "/srv/pacsub/repos" {
		t.Errorf("ReposPath = %q", got)
	}
	if cfg.LockWait() != 3*time.Second {
		t.Errorf("LockWait = %v", cfg.LockWait())
	}
	if cfg.Tools.GPG != "gpg2" {
		t.Errorf("gpg tool = %q", cfg.Tools.GPG)
	}
	// Unset tool names keep defaults.
	if cfg.Tools.RepoAdd != "repo-add" {
		t.Errorf("repo_add tool = %q", cfg.Tools.RepoAdd)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacsub.yaml")
	if err := os.WriteFile(path, []byte("paths: ["), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("malformed config: no error")
	}
}

func TestLoad_UnsetVariableUsesDefaults(t *testing.T) {
	t.Setenv("PACSUB_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.Root == "" {
		t.Error("root is empty")
	}
}
