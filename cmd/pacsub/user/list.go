// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package user

import (
	"fmt"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/authorization"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List user accounts",
		Description: `List user accounts. Callers holding "r /user" see every account;
everyone else sees only themselves.`,
		Usage: "pacsub user list",
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 0 {
				return cli.Validation("unexpected argument: %s", args[0])
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

			m := manager(rt.Config)
			if !engine.Can(rt.Subject, read, "/user") {
				if m.Exists(rt.Subject) {
					fmt.Println(rt.Subject)
				}
				return nil
			}
			names, err := m.List()
			if err != nil {
				return cli.Internal("listing users: %v", err)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
