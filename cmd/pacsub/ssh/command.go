// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package ssh implements SSH key management commands.
package ssh

import (
	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/account"
	"github.com/PacBSD/pacsub/lib/config"
)

// Command returns the "ssh" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "ssh",
		Summary: "Manage SSH keys",
		Description: `Manage the SSH keys that identify uploaders. Keys live in a shared
authorized_keys file; each entry carries a forced command pinning the
connection to the key's registered user.

Managing your own keys requires "w /ssh"; managing another user's
requires "w /user/USER". The USER argument defaults to the caller.`,
		Subcommands: []*cli.Command{
			addCommand(),
			removeCommand(),
			listCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Register one of your own keys",
				Command:     "pacsub ssh add < ~/.ssh/id_ed25519.pub",
			},
			{
				Description: "Remove a key of another user",
				Command:     "pacsub ssh remove bob SHA256:fingerprint",
			},
		},
	}
}

func manager(cfg *config.Config) *account.Manager {
	return account.NewManager(cfg.UsersPath(), cfg.AuthorizedKeysPath(), cfg.Tools.GPG)
}

// authorize runs the identity-relative check common to the group: the
// caller's own keys are guarded by ownObject, another user's by their
// /user subtree.
func authorize(rt *cli.Runtime, user, letters, ownObject string) error {
	object := ownObject
	if user != rt.Subject {
		object = "/user/" + user
	}
	return rt.CheckPermission(letters, object)
}
