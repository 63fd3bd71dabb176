// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestOpen_MissingFileIsEmptySet(t *testing.T) {
	engine, err := Open(filepath.Join(t.TempDir(), "missing", "acl"), ReadOnly, time.Second)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer engine.Close()

	if rules := engine.Rules(); len(rules) != 0 {
		t.Errorf("rules = %v, want none", rules)
	}
}

func TestOpen_ParsesStoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acl")
	content := "allow alice:rw:/repo\n\ndeny *:w:/repo/frozen   \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing store: %v", err)
	}

	engine, err := Open(path, ReadOnly, time.Second)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer engine.Close()

	want := []Rule{
		{Type: Allow, Subject: "alice", Perms: "rw", Object: "/repo"},
		{Type: Deny, Subject: "*", Perms: "w", Object: "/repo/frozen"},
	}
	if got := engine.Rules(); !reflect.DeepEqual(got, want) {
		t.Errorf("rules = %v, want %v", got, want)
	}
}

func TestOpen_MalformedLineIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acl")
	content := "allow alice:rw:/repo\npermit bob:r:/repo\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing store: %v", err)
	}

	_, err := Open(path, ReadOnly, time.Second)
	var formatError *FormatError
	if !errors.As(err, &formatError) {
		t.Fatalf("open: got %v, want FormatError", err)
	}
	if formatError.Line != 2 {
		t.Errorf("line = %d, want 2", formatError.Line)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acl")

	engine, err := Open(path, ReadWrite, time.Second)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	allow(t, engine, "alice", "rw", "/repo/core")
	deny(t, engine, "bob", "d", "/user/alice")
	allow(t, engine, "*", "r", "/")
	if err := engine.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	saved := engine.Rules()
	engine.Close()

	reloaded, err := Open(path, ReadOnly, time.Second)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reloaded.Close()

	if got := reloaded.Rules(); !reflect.DeepEqual(got, saved) {
		t.Errorf("reloaded rules = %v, want %v", got, saved)
	}
}

func TestSave_DeterministicOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acl")

	engine, err := Open(path, ReadWrite, time.Second)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer engine.Close()

	// Insert in scrambled order; the file comes out sorted.
	allow(t, engine, "carol", "r", "/repo")
	deny(t, engine, "alice", "w", "/repo")
	allow(t, engine, "alice", "r", "/acl")
	if err := engine.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading store: %v", err)
	}
	want := "allow alice:r:/acl\ndeny alice:w:/repo\nallow carol:r:/repo\n"
	if string(data) != want {
		t.Errorf("store content:\n%q\nwant:\n%q", data, want)
	}
}

func TestAdd_Idempotent(t *testing.T) {
	engine := newEngine(t)

	allow(t, engine, "alice", "r", "/repo")
	allow(t, engine, "alice", "r", "/repo")
	if got := len(engine.Rules()); got != 1 {
		t.Fatalf("rules after duplicate add = %d, want 1", got)
	}

	rule := Rule{Type: Allow, Subject: "alice", Perms: "r", Object: "/repo"}
	engine.Remove(rule)
	if got := len(engine.Rules()); got != 0 {
		t.Fatalf("rules after remove = %d, want 0", got)
	}

	// Removing an absent tuple is a silent no-op.
	engine.Remove(rule)

	allow(t, engine, "alice", "r", "/repo")
	if got := engine.Rules(); len(got) != 1 || got[0] != rule {
		t.Errorf("rules after re-add = %v, want [%v]", got, rule)
	}
}

func TestRemove_ExactTupleOnly(t *testing.T) {
	engine := newEngine(t)
	allow(t, engine, "alice", "rw", "/repo")

	// Same subject and object, different permissions: not the tuple.
	engine.Remove(Rule{Type: Allow, Subject: "alice", Perms: "r", Object: "/repo"})
	// Same tuple, other type: not the tuple either.
	engine.Remove(Rule{Type: Deny, Subject: "alice", Perms: "rw", Object: "/repo"})

	if got := len(engine.Rules()); got != 1 {
		t.Errorf("rules = %d, want the original grant untouched", got)
	}
}

func TestSave_ReadOnlyRefused(t *testing.T) {
	engine, err := Open(filepath.Join(t.TempDir(), "acl"), ReadOnly, time.Second)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer engine.Close()

	if err := engine.Save(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("save on read-only engine: %v, want ErrReadOnly", err)
	}
}

func TestOpen_ExclusiveLockExcludesWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acl")

	holder, err := Open(path, ReadWrite, time.Second)
	if err != nil {
		t.Fatalf("open holder: %v", err)
	}

	// A second writer cannot enter the critical section and times out.
	_, err = Open(path, ReadWrite, 50*time.Millisecond)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("second writer: %v, want ErrBusy", err)
	}

	// A reader is also excluded while the writer holds the lock.
	_, err = Open(path, ReadOnly, 50*time.Millisecond)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("reader during write: %v, want ErrBusy", err)
	}

	holder.Close()

	// After release the store opens normally.
	engine, err := Open(path, ReadWrite, time.Second)
	if err != nil {
		t.Fatalf("open after release: %v", err)
	}
	engine.Close()
}

func TestOpen_SharedLocksCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acl")

	first, err := Open(path, ReadOnly, time.Second)
	if err != nil {
		t.Fatalf("first reader: %v", err)
	}
	defer first.Close()

	second, err := Open(path, ReadOnly, time.Second)
	if err != nil {
		t.Fatalf("second reader: %v", err)
	}
	second.Close()
}

// TestConcurrentWriters_UnionOfEdits simulates two racing command
// invocations. The exclusive lock serializes them; the second writer
// loads the first writer's saved rule, so the final store holds the
// union of both edits.
func TestConcurrentWriters_UnionOfEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acl")

	first, err := Open(path, ReadWrite, time.Second)
	if err != nil {
		t.Fatalf("first writer: %v", err)
	}

	// The second invocation arrives while the first holds the lock.
	if _, err := Open(path, ReadWrite, 50*time.Millisecond); !errors.Is(err, ErrBusy) {
		t.Fatalf("overlapping writer: %v, want ErrBusy", err)
	}

	allow(t, first, "alice", "w", "/repo/core")
	if err := first.Save(); err != nil {
		t.Fatalf("first save: %v", err)
	}
	first.Close()

	// The second invocation retries after the lock is released.
	second, err := Open(path, ReadWrite, time.Second)
	if err != nil {
		t.Fatalf("second writer retry: %v", err)
	}
	allow(t, second, "bob", "w", "/repo/extra")
	if err := second.Save(); err != nil {
		t.Fatalf("second save: %v", err)
	}
	second.Close()

	final, err := Open(path, ReadOnly, time.Second)
	if err != nil {
		t.Fatalf("final open: %v", err)
	}
	defer final.Close()

	want := []Rule{
		{Type: Allow, Subject: "alice", Perms: "w", Object: "/repo/core"},
		{Type: Allow, Subject: "bob", Perms: "w", Object: "/repo/extra"},
	}
	if got := final.Rules(); !reflect.DeepEqual(got, want) {
		t.Errorf("final rules = %v, want union %v", got, want)
	}
}

func TestDirty_TracksUnsavedMutations(t *testing.T) {
	engine := newEngine(t)

	if engine.Dirty() {
		t.Error("fresh engine is dirty")
	}
	allow(t, engine, "alice", "r", "/repo")
	if !engine.Dirty() {
		t.Error("engine not dirty after add")
	}
	if err := engine.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if engine.Dirty() {
		t.Error("engine dirty after save")
	}
}
