// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package user implements user account management commands.
package user

import (
	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/account"
	"github.com/PacBSD/pacsub/lib/config"
)

// Command returns the "user" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "user",
		Summary: "Manage user accounts",
		Description: `Manage the uploader accounts on this host. Each user gets a staging
directory for uploads and a GPG keyring directory; their SSH keys land
in the shared authorized_keys file with a forced command pinning the
connection to their identity.

Creating a user requires "c /user/NAME" per target, deleting
"d /user/NAME". Deleting a user also removes every access rule naming
them and every SSH key registered for them.`,
		Subcommands: []*cli.Command{
			createCommand(),
			deleteCommand(),
			listCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Create several users in one invocation",
				Command:     "pacsub user create alice bob carol",
			},
		},
	}
}

func manager(cfg *config.Config) *account.Manager {
	return account.NewManager(cfg.UsersPath(), cfg.AuthorizedKeysPath(), cfg.Tools.GPG)
}
