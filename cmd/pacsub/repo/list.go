// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"fmt"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/authorization"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List readable repositories",
		Description: `List the repositories the caller can read. Each repository NAME is
shown when the caller holds "r /repo/NAME"; repositories the caller
cannot read are omitted rather than refused.`,
		Usage: "pacsub repo list",
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			names, err := manager(rt.Config).List()
			if err != nil {
				return cli.Internal("listing repositories: %v", err)
			}

			engine, err := rt.OpenEngine(authorization.ReadOnly)
			if err != nil {
				return err
			}
			defer engine.Close()

			read, err := authorization.ParsePermissions("r")
			if err != nil {
				return cli.Internal("parsing permissions: %v", err)
			}
			for _, name := range names {
				if engine.Can(rt.Subject, read, "/repo/"+name) {
					fmt.Println(name)
				}
			}
			return nil
		},
	}
}
