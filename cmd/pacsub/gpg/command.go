// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package gpg implements GPG key management commands.
package gpg

import (
	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/account"
	"github.com/PacBSD/pacsub/lib/config"
)

// Command returns the "gpg" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "gpg",
		Summary: "Manage GPG keys",
		Description: `Manage per-user GPG keyrings. Key material is handled entirely by the
external gpg binary against the user's keyring directory.

Managing your own keyring requires "w /gpg"; managing another user's
requires "w /user/USER/gpg". The USER argument defaults to the caller.`,
		Subcommands: []*cli.Command{
			addCommand(),
			removeCommand(),
			listCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Import your signing key",
				Command:     "pacsub gpg add < signing-key.asc",
			},
		},
	}
}

func manager(cfg *config.Config) *account.Manager {
	return account.NewManager(cfg.UsersPath(), cfg.AuthorizedKeysPath(), cfg.Tools.GPG)
}

// resolveUser picks the target user from an optional positional
// argument, defaulting to the caller.
func resolveUser(rt *cli.Runtime, args []string, trailing int) (string, []string, error) {
	switch len(args) {
	case trailing:
		return rt.Subject, args, nil
	case trailing + 1:
		user := args[0]
		if err := account.ValidateUser(user); err != nil {
			return "", nil, cli.Validation("%v", err)
		}
		return user, args[1:], nil
	default:
		return "", nil, cli.Validation("unexpected arguments: %v", args)
	}
}

// authorize guards the caller's own keyring with /gpg and another
// user's with their /user subtree.
func authorize(rt *cli.Runtime, user string) error {
	object := "/gpg"
	if user != rt.Subject {
		object = "/user/" + user + "/gpg"
	}
	return rt.CheckPermission("w", object)
}
