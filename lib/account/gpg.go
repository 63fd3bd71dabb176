// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GPGKey is one public key in a user's keyring, as reported by gpg's
// machine-readable listing.
type GPGKey struct {
	// KeyID is the long key ID.
	KeyID string

	// UserID is the primary user ID, when present.
	UserID string
}

// ImportGPGKey feeds armored or binary key material to the user's
// keyring.
func (m *Manager) ImportGPGKey(ctx context.Context, user string, keyData []byte) error {
	if err := ValidateUser(user); err != nil {
		return err
	}
	if !m.Exists(user) {
		return fmt.Errorf("user %q does not exist", user)
	}
	_, err := m.runGPG(ctx, user, bytes.NewReader(keyData), "--import")
	return err
}

// RemoveGPGKey deletes a public key from the user's keyring by key ID
// or fingerprint.
func (m *Manager) RemoveGPGKey(ctx context.Context, user, keyID string) error {
	if err := ValidateUser(user); err != nil {
		return err
	}
	if !m.Exists(user) {
		return fmt.Errorf("user %q does not exist", user)
	}
	if strings.TrimSpace(keyID) == "" {
		return fmt.Errorf("empty key ID")
	}
	_, err := m.runGPG(ctx, user, nil, "--batch", "--yes", "--delete-keys", keyID)
	return err
}

// GPGKeys lists the public keys in the user's keyring.
func (m *Manager) GPGKeys(ctx context.Context, user string) ([]GPGKey, error) {
	if err := ValidateUser(user); err != nil {
		return nil, err
	}
	if !m.Exists(user) {
		return nil, fmt.Errorf("user %q does not exist", user)
	}
	output, err := m.runGPG(ctx, user, nil, "--list-keys", "--with-colons")
	if err != nil {
		return nil, err
	}
	return parseColonListing(output), nil
}

// parseColonListing extracts keys from gpg --with-colons output: pub
// records carry the key ID in field 5, the following uid record the
// user ID in field 10.
func parseColonListing(output string) []GPGKey {
	var keys []GPGKey
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, ":")
		switch fields[0] {
		case "pub":
			if len(fields) > 4 {
				keys = append(keys, GPGKey{KeyID: fields[4]})
			}
		case "uid":
			if len(keys) > 0 && keys[len(keys)-1].UserID == "" && len(fields) > 9 {
				keys[len(keys)-1].UserID = fields[9]
			}
		}
	}
	return keys
}

// runGPG invokes the gpg binary against the user's keyring directory,
// surfacing stderr in the error on failure.
func (m *Manager) runGPG(ctx context.Context, user string, stdin *bytes.Reader, args ...string) (string, error) {
	full := append([]string{"--homedir", m.keyringDir(user), "--no-tty", "--quiet"}, args...)
	cmd := exec.CommandContext(ctx, m.gpgBinary, full...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			return "", fmt.Errorf("gpg %s: %w", args[0], err)
		}
		return "", fmt.Errorf("gpg %s: %s", args[0], message)
	}
	return stdout.String(), nil
}
