// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package acl

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/authorization"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List access rules",
		Description: `List the access rules in the store, optionally filtered to one
subject. Requires "r /acl".`,
		Usage: "pacsub acl list [SUBJECT]",
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) > 1 {
				return cli.Validation("expected at most one SUBJECT argument, got %d", len(args))
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

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			for _, rule := range engine.Rules() {
				if len(args) == 1 && rule.Subject != args[0] {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					rule.Type, rule.Subject, rule.Perms, rule.Object)
			}
			return tw.Flush()
		},
	}
}
