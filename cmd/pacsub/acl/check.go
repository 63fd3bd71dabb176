// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package acl

import (
	"fmt"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/authorization"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:    "check",
		Summary: "Show the evaluation trace for the calling subject",
		Description: `Evaluate each requested permission letter for the calling subject on
an object path and show which rule decided it. Useful for
understanding why an operation is permitted or refused. Requires
"r /acl".`,
		Usage: "pacsub acl check LETTERS OBJECT",
		Examples: []cli.Example{
			{
				Description: "Explain the caller's write access to a repository",
				Command:     "pacsub acl check w /repo/core",
			},
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 2 {
				return cli.Validation("expected LETTERS OBJECT, got %d arguments", len(args))
			}
			perms, err := authorization.ParsePermissions(args[0])
			if err != nil {
				return cli.Validation("%v", err)
			}
			object := args[1]
			if err := authorization.ValidateObject(object); err != nil {
				return cli.Validation("%v", err)
			}

			engine, err := rt.OpenEngine(authorization.ReadOnly)
			if err != nil {
				return err
			}
			defer engine.Close()

			readACL, err := authorization.ParsePermissions("r")
			if err != nil {
				return cli.Internal("parsing permissions: %v", err)
			}
			if err := engine.Check(rt.Subject, readACL, "/acl"); err != nil {
				return cli.WrapEngineError(err)
			}

			denied := false
			for i := 0; i < len(perms); i++ {
				letter := perms[i]
				result := engine.Decide(rt.Subject, letter, object)
				if result.Allowed {
					fmt.Printf("%c %s: allowed by %q\n", letter, object, result.Matched)
				} else {
					denied = true
					fmt.Printf("%c %s: denied (%s)\n", letter, object, result.Reason())
				}
			}
			if denied {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
