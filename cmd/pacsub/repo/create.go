// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"fmt"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/repository"
)

func createCommand() *cli.Command {
	return &cli.Command{
		Name:    "create",
		Summary: "Create a repository",
		Description: `Create a repository with one directory per registered architecture.
Requires "c /repo/NAME".`,
		Usage: "pacsub repo create NAME",
		Permission: &cli.Permission{
			Letters: "c",
			Object:  objectForName,
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one NAME argument, got %d", len(args))
			}
			name := args[0]
			if err := repository.ValidateName(name); err != nil {
				return cli.Validation("%v", err)
			}

			m := manager(rt.Config)
			if m.Exists(name) {
				return cli.Conflict("repository %q already exists", name)
			}
			if err := m.Create(name); err != nil {
				return cli.Internal("creating repository: %v", err)
			}
			rt.Logger.Info("repository created", "repo", name)
			fmt.Printf("created %s\n", name)
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a repository",
		Description: `Delete a repository and everything in it. Requires "d /repo/NAME".`,
		Usage: "pacsub repo delete NAME",
		Permission: &cli.Permission{
			Letters: "d",
			Object:  objectForName,
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one NAME argument, got %d", len(args))
			}
			name := args[0]
			if err := repository.ValidateName(name); err != nil {
				return cli.Validation("%v", err)
			}

			m := manager(rt.Config)
			if !m.Exists(name) {
				return cli.NotFound("repository %q does not exist", name)
			}
			if err := m.Delete(name); err != nil {
				return cli.Internal("deleting repository: %v", err)
			}
			rt.Logger.Info("repository deleted", "repo", name)
			fmt.Printf("deleted %s\n", name)
			return nil
		},
	}
}
