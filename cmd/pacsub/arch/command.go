// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package arch implements architecture registration commands.
package arch

import (
	"fmt"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/repository"
)

// Command returns the "arch" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "arch",
		Summary: "Manage registered architectures",
		Description: `Manage the architectures this host serves. Registering an
architecture adds its directory to every existing repository; new
repositories get a directory per registered architecture.

Adding requires "c /arch/NAME", removing "d /arch/NAME", listing
"r /arch".`,
		Subcommands: []*cli.Command{
			addCommand(),
			removeCommand(),
			listCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Register an architecture",
				Command:     "pacsub arch add x86_64",
			},
		},
	}
}

func objectForName(args []string) string {
	if len(args) == 0 {
		return "/arch"
	}
	return "/arch/" + args[0]
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:    "add",
		Summary: "Register an architecture",
		Usage:   "pacsub arch add NAME",
		Permission: &cli.Permission{
			Letters: "c",
			Object:  objectForName,
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one NAME argument, got %d", len(args))
			}
			name := args[0]

			m := repository.NewManager(rt.Config.ReposPath(), rt.Config.Tools)
			if err := m.AddArchitecture(name); err != nil {
				return cli.Validation("%v", err)
			}
			rt.Logger.Info("architecture registered", "arch", name)
			fmt.Printf("added %s\n", name)
			return nil
		},
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Summary: "Unregister an architecture",
		Usage:   "pacsub arch remove NAME",
		Permission: &cli.Permission{
			Letters: "d",
			Object:  objectForName,
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one NAME argument, got %d", len(args))
			}
			name := args[0]

			m := repository.NewManager(rt.Config.ReposPath(), rt.Config.Tools)
			if err := m.RemoveArchitecture(name); err != nil {
				return cli.NotFound("%v", err)
			}
			rt.Logger.Info("architecture unregistered", "arch", name)
			fmt.Printf("removed %s\n", name)
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List registered architectures",
		Usage:   "pacsub arch list",
		Permission: &cli.Permission{
			Letters: "r",
			Object:  func([]string) string { return "/arch" },
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			names, err := repository.NewManager(rt.Config.ReposPath(), rt.Config.Tools).Architectures()
			if err != nil {
				return cli.Internal("listing architectures: %v", err)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
