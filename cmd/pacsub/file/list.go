// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package file

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/account"
	"github.com/PacBSD/pacsub/lib/authorization"
	"github.com/PacBSD/pacsub/lib/staging"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List staged uploads",
		Description: `List staged uploads. With a USER argument, lists that user's staging
area ("r /file" for your own, "r /user/USER/files" for another's).
Without one, callers holding "r /user" see every user's staging area;
everyone else sees their own.`,
		Usage: "pacsub file list [USER]",
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) > 1 {
				return cli.Validation("unexpected arguments: %v", args[1:])
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

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			defer tw.Flush()

			if len(args) == 1 && args[0] != rt.Subject {
				user := args[0]
				if err := account.ValidateUser(user); err != nil {
					return cli.Validation("%v", err)
				}
				if err := engine.Check(rt.Subject, read, "/user/"+user+"/files"); err != nil {
					return cli.WrapEngineError(err)
				}
				return printFiles(tw, user, store(rt, user))
			}

			// No explicit target: the administrative view covers every
			// user when the caller can read the user tree.
			if len(args) == 0 && engine.Can(rt.Subject, read, "/user") {
				m := account.NewManager(rt.Config.UsersPath(), rt.Config.AuthorizedKeysPath(), rt.Config.Tools.GPG)
				users, err := m.List()
				if err != nil {
					return cli.Internal("listing users: %v", err)
				}
				for _, user := range users {
					if err := printFiles(tw, user, store(rt, user)); err != nil {
						return err
					}
				}
				return nil
			}

			if err := engine.Check(rt.Subject, read, "/file"); err != nil {
				return cli.WrapEngineError(err)
			}
			return printFiles(tw, rt.Subject, store(rt, rt.Subject))
		},
	}
}

func printFiles(tw *tabwriter.Writer, user string, s *staging.Store) error {
	files, err := s.List()
	if err != nil {
		return cli.Internal("listing staged files: %v", err)
	}
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			user, f.Name, f.Size, f.Modified.Format("2006-01-02 15:04"))
	}
	return nil
}
