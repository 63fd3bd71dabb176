// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PacBSD/pacsub/lib/repository"
)

// Manager operates per-user state under a single users root.
type Manager struct {
	usersDir       string
	authorizedKeys string
	gpgBinary      string
}

// NewManager returns a Manager over the given users directory and
// authorized_keys file, delegating keyring work to the named gpg
// binary.
func NewManager(usersDir, authorizedKeysPath, gpgBinary string) *Manager {
	return &Manager{
		usersDir:       usersDir,
		authorizedKeys: authorizedKeysPath,
		gpgBinary:      gpgBinary,
	}
}

// ValidateUser checks a user name. User names share the conservative
// repository name rules: they become path components and rule
// subjects.
func ValidateUser(name string) error {
	if err := repository.ValidateName(name); err != nil {
		return err
	}
	if name == "*" {
		return fmt.Errorf("user name %q is reserved", name)
	}
	return nil
}

// Create makes the user's directory layout: an uploads staging area
// and a GPG keyring directory. Creating an existing user is an error.
func (m *Manager) Create(name string) error {
	if err := ValidateUser(name); err != nil {
		return err
	}
	home := filepath.Join(m.usersDir, name)
	if _, err := os.Stat(home); err == nil {
		return fmt.Errorf("user %q already exists", name)
	}

	for _, directory := range []string{
		filepath.Join(home, "uploads"),
		filepath.Join(home, "gpg"),
	} {
		if err := os.MkdirAll(directory, 0o700); err != nil {
			return fmt.Errorf("creating user %q: %w", name, err)
		}
	}
	return nil
}

// Delete removes the user's directory tree and any authorized_keys
// entries registered for them.
func (m *Manager) Delete(name string) error {
	if err := ValidateUser(name); err != nil {
		return err
	}
	home := filepath.Join(m.usersDir, name)
	if _, err := os.Stat(home); err != nil {
		return fmt.Errorf("user %q does not exist", name)
	}
	if err := os.RemoveAll(home); err != nil {
		return fmt.Errorf("deleting user %q: %w", name, err)
	}
	return m.removeKeysMatching(func(key AuthorizedKey) bool {
		return key.User == name
	})
}

// Exists reports whether the user has a directory.
func (m *Manager) Exists(name string) bool {
	if ValidateUser(name) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(m.usersDir, name))
	return err == nil && info.IsDir()
}

// List returns all user names in sorted order.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.usersDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading users root: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// UploadsDir returns the user's staging directory.
func (m *Manager) UploadsDir(name string) string {
	return filepath.Join(m.usersDir, name, "uploads")
}

// keyringDir returns the user's GPG homedir.
func (m *Manager) keyringDir(name string) string {
	return filepath.Join(m.usersDir, name, "gpg")
}
