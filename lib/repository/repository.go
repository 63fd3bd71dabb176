// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PacBSD/pacsub/lib/config"
)

// architecturesFile is the registry of known architectures, one name
// per line, kept at the repos root.
const architecturesFile = ".architectures"

// Manager operates the repository tree under a single repos root.
type Manager struct {
	root  string
	tools config.ToolsConfig
}

// NewManager returns a Manager rooted at root, delegating index
// updates to the configured external tools.
func NewManager(root string, tools config.ToolsConfig) *Manager {
	return &Manager{root: root, tools: tools}
}

// ValidateName checks a repository or architecture name: non-empty,
// lower-case letters, digits, dots, underscores, hyphens, not starting
// with a dot. Names become path components, so nothing else is
// accepted.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	if name[0] == '.' {
		return fmt.Errorf("name %q must not start with a dot", name)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '.' || c == '_' || c == '-' {
			continue
		}
		return fmt.Errorf("name %q contains invalid character %q", name, string(c))
	}
	return nil
}

// Create makes the repository directory with one subdirectory per
// registered architecture. Creating an existing repository is an
// error.
func (m *Manager) Create(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	path := filepath.Join(m.root, name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("repository %q already exists", name)
	}

	architectures, err := m.Architectures()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating repository %q: %w", name, err)
	}
	for _, architecture := range architectures {
		if err := os.MkdirAll(filepath.Join(path, architecture), 0o755); err != nil {
			return fmt.Errorf("creating %s/%s: %w", name, architecture, err)
		}
	}
	return nil
}

// Delete removes the repository directory and everything in it,
// including the index databases.
func (m *Manager) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	path := filepath.Join(m.root, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("repository %q does not exist", name)
	}
	return os.RemoveAll(path)
}

// List returns the repository names in sorted order.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading repos root: %w", err)
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

// Exists reports whether the named repository directory is present.
func (m *Manager) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(m.root, name))
	return err == nil && info.IsDir()
}

// Architectures returns the registered architecture names in sorted
// order. A missing registry means no architectures yet.
func (m *Manager) Architectures() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(m.root, architecturesFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading architecture registry: %w", err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	sort.Strings(names)
	return names, nil
}

// AddArchitecture registers an architecture and creates its
// subdirectory in every existing repository.
func (m *Manager) AddArchitecture(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	architectures, err := m.Architectures()
	if err != nil {
		return err
	}
	for _, existing := range architectures {
		if existing == name {
			return fmt.Errorf("architecture %q already registered", name)
		}
	}

	repositories, err := m.List()
	if err != nil {
		return err
	}
	for _, repository := range repositories {
		if err := os.MkdirAll(filepath.Join(m.root, repository, name), 0o755); err != nil {
			return fmt.Errorf("creating %s/%s: %w", repository, name, err)
		}
	}

	return m.writeArchitectures(append(architectures, name))
}

// RemoveArchitecture unregisters an architecture and removes its
// subdirectory from every repository.
func (m *Manager) RemoveArchitecture(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	architectures, err := m.Architectures()
	if err != nil {
		return err
	}
	remaining := architectures[:0]
	found := false
	for _, existing := range architectures {
		if existing == name {
			found = true
			continue
		}
		remaining = append(remaining, existing)
	}
	if !found {
		return fmt.Errorf("architecture %q is not registered", name)
	}

	repositories, err := m.List()
	if err != nil {
		return err
	}
	for _, repository := range repositories {
		if err := os.RemoveAll(filepath.Join(m.root, repository, name)); err != nil {
			return fmt.Errorf("removing %s/%s: %w", repository, name, err)
		}
	}

	return m.writeArchitectures(remaining)
}

func (m *Manager) writeArchitectures(names []string) error {
	sort.Strings(names)
	var buffer strings.Builder
	for _, name := range names {
		buffer.WriteString(name)
		buffer.WriteByte('\n')
	}
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return fmt.Errorf("creating repos root: %w", err)
	}
	path := filepath.Join(m.root, architecturesFile)
	if err := os.WriteFile(path, []byte(buffer.String()), 0o644); err != nil {
		return fmt.Errorf("writing architecture registry: %w", err)
	}
	return nil
}

// indexPath is the repository database the external index tools
// maintain for one repository/architecture pair.
func (m *Manager) indexPath(repository, architecture string) string {
	return filepath.Join(m.root, repository, architecture, repository+".db.tar.gz")
}

// AddPackage hands a package file to the external index tool for the
// given repository and architecture. The package file must already be
// inside the architecture directory; moving it there is the caller's
// job.
func (m *Manager) AddPackage(ctx context.Context, repository, architecture, packagePath string) error {
	return m.runIndexTool(ctx, m.tools.RepoAdd, repository, architecture, packagePath)
}

// RemovePackage removes a package (by name, not file) from the index
// via the external tool.
func (m *Manager) RemovePackage(ctx context.Context, repository, architecture, packageName string) error {
	return m.runIndexTool(ctx, m.tools.RepoRemove, repository, architecture, packageName)
}

// runIndexTool invokes an external index tool with the database path
// and one argument. Stderr is captured and included in error messages.
func (m *Manager) runIndexTool(ctx context.Context, tool, repository, architecture, argument string) error {
	if err := ValidateName(repository); err != nil {
		return err
	}
	if err := ValidateName(architecture); err != nil {
		return err
	}

	var stderr bytes.Buffer
	command := exec.CommandContext(ctx, tool, m.indexPath(repository, architecture), argument)
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return fmt.Errorf("%s %s/%s: %w (stderr: %s)",
			tool, repository, architecture, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
