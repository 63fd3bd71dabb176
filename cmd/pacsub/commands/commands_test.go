// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/account"
	"github.com/PacBSD/pacsub/lib/authorization"
	"github.com/PacBSD/pacsub/lib/config"
	"github.com/PacBSD/pacsub/lib/testutil"
)

func runtime(t *testing.T, subject string, cfg *config.Config) *cli.Runtime {
	t.Helper()
	return &cli.Runtime{
		Subject: subject,
		Config:  cfg,
		Logger:  cli.NewCommandLogger(),
	}
}

func execute(t *testing.T, subject string, cfg *config.Config, args ...string) error {
	t.Helper()
	return Root().Execute(runtime(t, subject, cfg), args)
}

func category(err error) cli.ErrorCategory {
	var commandError *cli.CommandError
	if errors.As(err, &commandError) {
		return commandError.Category
	}
	return ""
}

func TestInit_FirstRunBootstrap(t *testing.T) {
	cfg := testutil.Workspace(t)

	if err := execute(t, "admin", cfg, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}

	engine, err := authorization.Open(cfg.RuleStorePath(), authorization.ReadOnly, cfg.LockWait())
	if err != nil {
		t.Fatalf("opening seeded store: %v", err)
	}
	defer engine.Close()

	rules := engine.Rules()
	if len(rules) != 1 {
		t.Fatalf("seeded %d rules, want 1: %v", len(rules), rules)
	}
	if rules[0].String() != "allow admin:rwcda:/" {
		t.Errorf("seed rule = %q", rules[0])
	}
}

func TestInit_RepeatRequiresAdmin(t *testing.T) {
	cfg := testutil.Workspace(t)
	if err := execute(t, "admin", cfg, "init"); err != nil {
		t.Fatalf("first init: %v", err)
	}

	err := execute(t, "mallory", cfg, "init")
	if category(err) != cli.CategoryForbidden {
		t.Fatalf("second init by stranger = %v, want forbidden", err)
	}

	// The bootstrap administrator holds "a /" and may re-run.
	if err := execute(t, "admin", cfg, "init"); err != nil {
		t.Fatalf("second init by admin: %v", err)
	}
}

func TestInit_DenialLeavesStoreUntouched(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg, "allow admin:rwcda:/")
	seeded, err := os.ReadFile(cfg.RuleStorePath())
	if err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "mallory", cfg, "init"); category(err) != cli.CategoryForbidden {
		t.Fatalf("init over populated store = %v, want forbidden", err)
	}

	// The denied run must not have saved its own full-control grant.
	after, err := os.ReadFile(cfg.RuleStorePath())
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(seeded) {
		t.Errorf("store changed by denied init:\n%s", after)
	}
}

func TestInit_EmptyStoreCountsAsFirstRun(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg)

	// A store file holding no rules grants nobody anything, so init
	// stays open just like a missing store.
	if err := execute(t, "admin", cfg, "init"); err != nil {
		t.Fatalf("init over empty store: %v", err)
	}

	data, err := os.ReadFile(cfg.RuleStorePath())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "allow admin:rwcda:/\n" {
		t.Errorf("seeded store = %q", data)
	}
}

func TestInit_GateRunsUnderStoreLock(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg, "allow admin:rwcda:/")

	// Hold the exclusive store lock, as a concurrent init would. The
	// second init must queue on that lock before deciding whether the
	// first-run bypass applies, so it reports busy rather than
	// proceeding on a stale view of the store.
	holder, err := authorization.Open(cfg.RuleStorePath(), authorization.ReadWrite, cfg.LockWait())
	if err != nil {
		t.Fatal(err)
	}
	defer holder.Close()

	if err := execute(t, "mallory", cfg, "init"); category(err) != cli.CategoryBusy {
		t.Fatalf("init against held lock = %v, want busy", err)
	}
}

func TestInit_PolicyFile(t *testing.T) {
	cfg := testutil.Workspace(t)
	policy := filepath.Join(t.TempDir(), "bootstrap.jsonc")
	content := `{
  // host bootstrap policy
  "rules": [
    {"type": "allow", "subject": "admin", "perms": "rwcda", "object": "/"},
    {"type": "allow", "subject": "*", "perms": "r", "object": "/repo"},
  ],
}`
	if err := os.WriteFile(policy, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "admin", cfg, "init", "--policy", policy); err != nil {
		t.Fatalf("init --policy: %v", err)
	}

	engine, err := authorization.Open(cfg.RuleStorePath(), authorization.ReadOnly, cfg.LockWait())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()
	if len(engine.Rules()) != 2 {
		t.Fatalf("seeded rules = %v, want 2", engine.Rules())
	}
	read, _ := authorization.ParsePermissions("r")
	if !engine.Can("anyone", read, "/repo/core") {
		t.Error("wildcard read grant from policy file not effective")
	}
}

func TestRepoCreate_Authorized(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg, "allow alice:c:/repo")

	if err := execute(t, "alice", cfg, "repo", "create", "core"); err != nil {
		t.Fatalf("repo create: %v", err)
	}
	info, err := os.Stat(filepath.Join(cfg.ReposPath(), "core"))
	if err != nil || !info.IsDir() {
		t.Fatalf("repository directory missing: %v", err)
	}

	err = execute(t, "alice", cfg, "repo", "create", "core")
	if category(err) != cli.CategoryConflict {
		t.Fatalf("duplicate create = %v, want conflict", err)
	}
}

func TestRepoCreate_Forbidden(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg, "allow alice:c:/repo")

	err := execute(t, "bob", cfg, "repo", "create", "core")
	if category(err) != cli.CategoryForbidden {
		t.Fatalf("unauthorized create = %v, want forbidden", err)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.ReposPath(), "core")); !os.IsNotExist(statErr) {
		t.Error("forbidden create still made the directory")
	}
}

func TestRepoDelete_SpecificDenyOverridesBroadGrant(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg,
		"allow alice:rwcd:/repo",
		"deny alice:d:/repo/core",
	)
	if err := execute(t, "alice", cfg, "repo", "create", "core"); err != nil {
		t.Fatal(err)
	}

	err := execute(t, "alice", cfg, "repo", "delete", "core")
	if category(err) != cli.CategoryForbidden {
		t.Fatalf("delete under specific deny = %v, want forbidden", err)
	}
}

func TestACLAllow_PersistsRule(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg, "allow admin:rw:/acl")

	if err := execute(t, "admin", cfg, "acl", "allow", "alice", "rw", "/repo/core"); err != nil {
		t.Fatalf("acl allow: %v", err)
	}

	data, err := os.ReadFile(cfg.RuleStorePath())
	if err != nil {
		t.Fatal(err)
	}
	want := "allow admin:rw:/acl\nallow alice:rw:/repo/core\n"
	if string(data) != want {
		t.Errorf("store = %q, want %q", data, want)
	}
}

func TestACLAllow_RequiresWriteOnACL(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg, "allow admin:r:/acl")

	err := execute(t, "admin", cfg, "acl", "allow", "alice", "rw", "/repo")
	if category(err) != cli.CategoryForbidden {
		t.Fatalf("acl allow with read-only grant = %v, want forbidden", err)
	}
}

func TestACLCan_ExitStatusIsTheAnswer(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg,
		"allow admin:r:/acl",
		"allow alice:w:/repo",
	)

	if err := execute(t, "admin", cfg, "acl", "can", "alice", "w", "/repo/core"); err != nil {
		t.Fatalf("acl can (permitted) = %v, want nil", err)
	}

	err := execute(t, "admin", cfg, "acl", "can", "bob", "w", "/repo/core")
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 1 {
		t.Fatalf("acl can (denied) = %v, want ExitError{1}", err)
	}
}

func TestUserCreate_BatchPartialFailure(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg, "allow admin:c:/user/alice")

	// alice is authorized, bob is not: the batch continues past the
	// denial and reports an aggregate failure.
	err := execute(t, "admin", cfg, "user", "create", "alice", "bob")
	if err == nil {
		t.Fatal("partially failed batch returned nil")
	}

	m := account.NewManager(cfg.UsersPath(), cfg.AuthorizedKeysPath(), cfg.Tools.GPG)
	if !m.Exists("alice") {
		t.Error("authorized target was not created")
	}
	if m.Exists("bob") {
		t.Error("unauthorized target was created")
	}
}

func TestUserDelete_PrunesSubjectRules(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg,
		"allow admin:rwcda:/",
		"allow alice:w:/repo/core",
		"allow bob:w:/repo/core",
	)
	if err := execute(t, "admin", cfg, "user", "create", "alice"); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "admin", cfg, "user", "delete", "alice"); err != nil {
		t.Fatalf("user delete: %v", err)
	}

	engine, err := authorization.Open(cfg.RuleStorePath(), authorization.ReadOnly, cfg.LockWait())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()
	for _, rule := range engine.Rules() {
		if rule.Subject == "alice" {
			t.Errorf("rule %q survived user deletion", rule)
		}
	}
	write, _ := authorization.ParsePermissions("w")
	if !engine.Can("bob", write, "/repo/core") {
		t.Error("unrelated subject's rule was pruned")
	}
}

func TestShell_DispatchesOriginalCommand(t *testing.T) {
	cfg := testutil.Workspace(t)
	testutil.SeedRules(t, cfg, "allow alice:r:/acl")

	t.Setenv("SSH_ORIGINAL_COMMAND", "pacsub acl list")
	if err := execute(t, "alice", cfg, "shell"); err != nil {
		t.Fatalf("shell dispatch: %v", err)
	}

	// The forced command carries the caller's identity; a command the
	// subject is not granted still fails through the normal path.
	t.Setenv("SSH_ORIGINAL_COMMAND", "repo create core")
	err := execute(t, "alice", cfg, "shell")
	if category(err) != cli.CategoryForbidden {
		t.Fatalf("shell-dispatched forbidden command = %v, want forbidden", err)
	}
}

func TestShell_RefusesRecursionAndEmpty(t *testing.T) {
	cfg := testutil.Workspace(t)

	t.Setenv("SSH_ORIGINAL_COMMAND", "shell")
	if err := execute(t, "alice", cfg, "shell"); category(err) != cli.CategoryValidation {
		t.Errorf("recursive shell = %v, want validation", err)
	}

	t.Setenv("SSH_ORIGINAL_COMMAND", "")
	if err := execute(t, "alice", cfg, "shell"); category(err) != cli.CategoryValidation {
		t.Errorf("empty original command = %v, want validation", err)
	}
}

func TestUnknownCommand_Suggests(t *testing.T) {
	cfg := testutil.Workspace(t)
	err := execute(t, "admin", cfg, "rpeo")
	if category(err) != cli.CategoryValidation {
		t.Fatalf("unknown command = %v, want validation", err)
	}
}
