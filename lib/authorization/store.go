// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// Mode selects the locking discipline for an engine session.
type Mode int

const (
	// ReadOnly takes a shared lock for the duration of the load and
	// releases it immediately. The session sees the store as of its
	// own load and cannot save.
	ReadOnly Mode = iota

	// ReadWrite takes an exclusive lock and holds it until Close, so
	// the whole load-mutate-save sequence is serialized against every
	// other session on the host.
	ReadWrite
)

// store persists the rule set as a flat file, one rule per line in
// Rule.String format. Locking uses flock(2) on a sidecar file next to
// the store: the store file itself is replaced by rename on save, and
// a lock taken on a replaced inode would no longer exclude anyone.
type store struct {
	path string
	lock *os.File
}

// lockPollInterval is how often a blocked lock acquisition re-attempts
// before its deadline expires.
const lockPollInterval = 25 * time.Millisecond

// openStore acquires the lock appropriate for mode, loads the rule
// set, and for ReadOnly releases the lock again. A missing store file
// is an empty rule set, not an error.
func openStore(path string, mode Mode, lockTimeout time.Duration) (*store, map[Rule]struct{}, error) {
	s := &store{path: path}

	operation := unix.LOCK_SH
	if mode == ReadWrite {
		operation = unix.LOCK_EX
	}
	if err := s.acquire(operation, lockTimeout); err != nil {
		return nil, nil, err
	}

	rules, err := s.load()
	if err != nil {
		s.release()
		return nil, nil, err
	}

	if mode == ReadOnly {
		s.release()
	}
	return s, rules, nil
}

// acquire opens the sidecar lock file and polls flock with LOCK_NB
// until it succeeds or the deadline passes. A blocking flock would
// wait forever; the bounded poll turns contention into ErrBusy.
func (s *store) acquire(operation int, timeout time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	lock, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("opening store lock: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		err := unix.Flock(int(lock.Fd()), operation|unix.LOCK_NB)
		if err == nil {
			s.lock = lock
			return nil
		}
		if err != unix.EWOULDBLOCK {
			lock.Close()
			return fmt.Errorf("locking store: %w", err)
		}
		if time.Now().After(deadline) {
			lock.Close()
			return ErrBusy
		}
		time.Sleep(lockPollInterval)
	}
}

// release drops the lock. Safe to call more than once.
func (s *store) release() {
	if s.lock == nil {
		return
	}
	unix.Flock(int(s.lock.Fd()), unix.LOCK_UN)
	s.lock.Close()
	s.lock = nil
}

// load reads and parses the store file into a deduplicated rule set.
func (s *store) load() (map[Rule]struct{}, error) {
	rules := make(map[Rule]struct{})

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		// First run: no rules, every check denies.
		return rules, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rule store: %w", err)
	}

	for number, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		rule, err := ParseRule(line)
		if err != nil {
			return nil, &FormatError{Path: s.path, Line: number + 1, Err: err}
		}
		rules[rule] = struct{}{}
	}
	return rules, nil
}

// save serializes the rule set in sorted order to a temporary file in
// the store directory and renames it over the store file. A crash
// leaves either the old or the new store intact, never a mixture.
// Caller must hold the exclusive lock.
func (s *store) save(rules map[Rule]struct{}) error {
	sorted := sortRules(rules)

	var buffer strings.Builder
	for _, rule := range sorted {
		buffer.WriteString(rule.String())
		buffer.WriteByte('\n')
	}

	directory := filepath.Dir(s.path)
	temp, err := os.CreateTemp(directory, ".acl-*")
	if err != nil {
		return fmt.Errorf("creating temporary store: %w", err)
	}
	tempPath := temp.Name()

	_, writeErr := temp.WriteString(buffer.String())
	if writeErr == nil {
		writeErr = temp.Sync()
	}
	if closeErr := temp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Chmod(tempPath, 0o644)
	}
	if writeErr == nil {
		writeErr = os.Rename(tempPath, s.path)
	}
	if writeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("writing rule store: %w", writeErr)
	}
	return nil
}
