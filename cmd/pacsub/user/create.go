// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package user

import (
	"fmt"
	"os"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/account"
	"github.com/PacBSD/pacsub/lib/authorization"
)

func createCommand() *cli.Command {
	return &cli.Command{
		Name:    "create",
		Summary: "Create user accounts",
		Description: `Create one or more user accounts. Each target is authorized and
processed independently ("c /user/NAME" per target); a failure on one
does not stop the rest. The per-target outcomes are printed and the
exit status is nonzero when any target failed.`,
		Usage: "pacsub user create NAME...",
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) == 0 {
				return cli.Validation("expected at least one NAME argument")
			}

			engine, err := rt.OpenEngine(authorization.ReadOnly)
			if err != nil {
				return err
			}
			defer engine.Close()

			create, err := authorization.ParsePermissions("c")
			if err != nil {
				return cli.Internal("parsing permissions: %v", err)
			}

			m := manager(rt.Config)
			var report cli.BatchReport
			for _, name := range args {
				report.Add(name, createOne(rt, engine, create, m, name))
			}
			report.Print(os.Stdout)
			return report.Err()
		},
	}
}

func createOne(rt *cli.Runtime, engine *authorization.Engine, create authorization.Permissions, m *account.Manager, name string) error {
	if err := account.ValidateUser(name); err != nil {
		return err
	}
	if err := engine.Check(rt.Subject, create, "/user/"+name); err != nil {
		return err
	}
	if m.Exists(name) {
		return fmt.Errorf("user %q already exists", name)
	}
	if err := m.Create(name); err != nil {
		return err
	}
	rt.Logger.Info("user created", "user", name)
	return nil
}
