// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

// forcedCommandOptions are the authorized_keys options applied to
// every key pacsub registers. The command option pins the connection
// to the pacsub dispatcher under the key's subject; the rest close off
// everything an upload session has no business doing.
const forcedCommandOptions = "no-port-forwarding,no-X11-forwarding,no-agent-forwarding,no-pty"

// AuthorizedKey is one entry in the managed authorized_keys file.
type AuthorizedKey struct {
	// User is the pacsub subject the key is registered for, extracted
	// from the forced command option.
	User string

	// Fingerprint is the SHA256 key fingerprint.
	Fingerprint string

	// Comment is the key's trailing comment, if any.
	Comment string

	// line is the full authorized_keys line as persisted.
	line string
}

// AddSSHKey parses one public key and registers it for the user. The
// same key (by fingerprint) cannot be registered twice, not even for
// another user: a key identifies exactly one subject.
func (m *Manager) AddSSHKey(user string, publicKey []byte) (*AuthorizedKey, error) {
	if err := ValidateUser(user); err != nil {
		return nil, err
	}
	parsed, comment, _, _, err := ssh.ParseAuthorizedKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	fingerprint := ssh.FingerprintSHA256(parsed)

	keys, err := m.SSHKeys("")
	if err != nil {
		return nil, err
	}
	for _, existing := range keys {
		if existing.Fingerprint == fingerprint {
			return nil, fmt.Errorf("key %s is already registered for %q", fingerprint, existing.User)
		}
	}

	// The global --subject flag must precede the subcommand: the
	// binary stops global flag parsing at the first positional
	// argument.
	line := fmt.Sprintf("command=\"pacsub --subject %s shell\",%s %s",
		user, forcedCommandOptions,
		strings.TrimSpace(string(ssh.MarshalAuthorizedKey(parsed))))
	if comment != "" {
		line += " " + comment
	}

	entry := AuthorizedKey{User: user, Fingerprint: fingerprint, Comment: comment, line: line}
	if err := m.writeAuthorizedKeys(append(keys, entry)); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveSSHKey deletes the user's key with the given fingerprint.
func (m *Manager) RemoveSSHKey(user, fingerprint string) error {
	if err := ValidateUser(user); err != nil {
		return err
	}
	found := false
	err := m.removeKeysMatching(func(key AuthorizedKey) bool {
		match := key.User == user && key.Fingerprint == fingerprint
		found = found || match
		return match
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no key %s registered for %q", fingerprint, user)
	}
	return nil
}

// SSHKeys returns the registered keys, all of them when user is empty.
func (m *Manager) SSHKeys(user string) ([]AuthorizedKey, error) {
	data, err := os.ReadFile(m.authorizedKeys)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading authorized_keys: %w", err)
	}

	var keys []AuthorizedKey
	for number, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, err := parseAuthorizedKeyLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", m.authorizedKeys, number+1, err)
		}
		if user == "" || key.User == user {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// parseAuthorizedKeyLine parses one persisted line and extracts the
// subject from the forced command option.
func parseAuthorizedKeyLine(line string) (AuthorizedKey, error) {
	parsed, comment, options, _, err := ssh.ParseAuthorizedKey([]byte(line))
	if err != nil {
		return AuthorizedKey{}, fmt.Errorf("parsing key line: %w", err)
	}

	key := AuthorizedKey{
		Fingerprint: ssh.FingerprintSHA256(parsed),
		Comment:     comment,
		line:        line,
	}
	for _, option := range options {
		command, ok := strings.CutPrefix(option, "command=")
		if !ok {
			continue
		}
		fields := strings.Fields(strings.Trim(command, "\""))
		for i := 0; i < len(fields)-1; i++ {
			if fields[i] == "--subject" {
				key.User = fields[i+1]
			}
		}
	}
	if key.User == "" {
		return AuthorizedKey{}, fmt.Errorf("key line carries no pacsub subject")
	}
	return key, nil
}

// removeKeysMatching rewrites authorized_keys without the entries the
// predicate selects.
func (m *Manager) removeKeysMatching(predicate func(AuthorizedKey) bool) error {
	keys, err := m.SSHKeys("")
	if err != nil {
		return err
	}
	remaining := keys[:0]
	for _, key := range keys {
		if !predicate(key) {
			remaining = append(remaining, key)
		}
	}
	return m.writeAuthorizedKeys(remaining)
}

// writeAuthorizedKeys replaces the authorized_keys file atomically.
func (m *Manager) writeAuthorizedKeys(keys []AuthorizedKey) error {
	var buffer strings.Builder
	for _, key := range keys {
		buffer.WriteString(key.line)
		buffer.WriteByte('\n')
	}

	directory := filepath.Dir(m.authorizedKeys)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("creating authorized_keys directory: %w", err)
	}
	temp, err := os.CreateTemp(directory, ".authorized_keys-*")
	if err != nil {
		return fmt.Errorf("writing authorized_keys: %w", err)
	}
	tempPath := temp.Name()

	_, writeErr := temp.WriteString(buffer.String())
	if closeErr := temp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Chmod(tempPath, 0o600)
	}
	if writeErr == nil {
		writeErr = os.Rename(tempPath, m.authorizedKeys)
	}
	if writeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("writing authorized_keys: %w", writeErr)
	}
	return nil
}
