// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package file implements staged upload management commands.
package file

import (
	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/account"
	"github.com/PacBSD/pacsub/lib/staging"
)

// Command returns the "file" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "file",
		Summary: "Manage staged uploads",
		Description: `Inspect and manage files staged in upload directories before they are
added to a repository.

Reading your own staged files requires "r /file" and removing them
"d /file"; another user's require the same letter on
"/user/USER/files". Callers holding "r /user" get the administrative
view: "file list" walks every user's staging area.`,
		Subcommands: []*cli.Command{
			listCommand(),
			infoCommand(),
			removeCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Show your staged uploads",
				Command:     "pacsub file list",
			},
			{
				Description: "Inspect a staged package of another user",
				Command:     "pacsub file info bob vim-9.1.0-2-x86_64.pkg.tar.zst",
			},
		},
	}
}

// store returns the staging store for one user's uploads directory.
func store(rt *cli.Runtime, user string) *staging.Store {
	m := account.NewManager(rt.Config.UsersPath(), rt.Config.AuthorizedKeysPath(), rt.Config.Tools.GPG)
	return staging.NewStore(m.UploadsDir(user))
}

// resolveUser picks the target user from an optional leading
// positional argument, defaulting to the caller.
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

// authorize guards the caller's own staging area with /file and
// another user's with their /user subtree.
func authorize(rt *cli.Runtime, user, letters string) error {
	object := "/file"
	if user != rt.Subject {
		object = "/user/" + user + "/files"
	}
	return rt.CheckPermission(letters, object)
}
