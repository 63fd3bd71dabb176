// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package user

import (
	"fmt"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/account"
	"github.com/PacBSD/pacsub/lib/authorization"
)

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a user account",
		Description: `Delete a user account: their staging directory, keyring, registered
SSH keys, and every access rule naming them as subject. Requires
"d /user/NAME". The rule store is edited in the same exclusive session
as the authorization check, so a concurrent edit cannot resurrect the
deleted user's rules.`,
		Usage: "pacsub user delete NAME",
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one NAME argument, got %d", len(args))
			}
			name := args[0]
			if err := account.ValidateUser(name); err != nil {
				return cli.Validation("%v", err)
			}

			engine, err := rt.OpenEngine(authorization.ReadWrite)
			if err != nil {
				return err
			}
			defer engine.Close()

			del, err := authorization.ParsePermissions("d")
			if err != nil {
				return cli.Internal("parsing permissions: %v", err)
			}
			if err := engine.Check(rt.Subject, del, "/user/"+name); err != nil {
				return cli.WrapEngineError(err)
			}

			m := manager(rt.Config)
			if !m.Exists(name) {
				return cli.NotFound("user %q does not exist", name)
			}
			if err := m.Delete(name); err != nil {
				return cli.Internal("deleting user: %v", err)
			}

			for _, rule := range engine.Rules() {
				if rule.Subject == name {
					engine.Remove(rule)
				}
			}
			if engine.Dirty() {
				if err := engine.Save(); err != nil {
					return cli.WrapEngineError(err)
				}
			}
			rt.Logger.Info("user deleted", "user", name)
			fmt.Printf("deleted %s\n", name)
			return nil
		},
	}
}
