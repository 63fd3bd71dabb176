// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package repo implements repository management commands.
package repo

import (
	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/config"
	"github.com/PacBSD/pacsub/lib/repository"
)

// Command returns the "repo" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "repo",
		Summary: "Manage package repositories",
		Description: `Manage the package repositories hosted on this machine. Each
repository holds one directory per registered architecture; the
package index inside is maintained by the external repo-add and
repo-remove tools.

Creating a repository requires "c /repo/NAME", deleting it
"d /repo/NAME". Listing shows the repositories the caller can read.`,
		Subcommands: []*cli.Command{
			createCommand(),
			deleteCommand(),
			listCommand(),
			addCommand(),
			removePackageCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Create a repository",
				Command:     "pacsub repo create core",
			},
			{
				Description: "List readable repositories",
				Command:     "pacsub repo list",
			},
		},
	}
}

// manager builds the repository manager from the runtime config.
func manager(cfg *config.Config) *repository.Manager {
	return repository.NewManager(cfg.ReposPath(), cfg.Tools)
}

// objectForName derives the rule object path for a repository named in
// the first positional argument. Tolerates a short argument list; the
// Run function still validates the count.
func objectForName(args []string) string {
	if len(args) == 0 {
		return "/repo"
	}
	return "/repo/" + args[0]
}
