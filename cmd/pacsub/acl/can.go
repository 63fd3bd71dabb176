// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package acl

import (
	"fmt"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/authorization"
)

func canCommand() *cli.Command {
	return &cli.Command{
		Name:    "can",
		Summary: "Probe whether a subject holds a permission",
		Description: `Probe whether a subject holds the given permissions on an object
path, without side effects. Prints the answer and exits 0 when
permitted, 1 when denied — the exit status is the answer, for use in
scripts. Requires "r /acl".`,
		Usage: "pacsub acl can SUBJECT LETTERS OBJECT",
		Examples: []cli.Example{
			{
				Description: "Check before attempting an upload script",
				Command:     "pacsub acl can bob w /repo/core/x86_64",
			},
		},
		Run: func(rt *cli.Runtime, args []string) error {
			subject, letters, object, err := parseRuleArgs(args)
			if err != nil {
				return err
			}
			perms, err := authorization.ParsePermissions(letters)
			if err != nil {
				return cli.Validation("%v", err)
			}
			if err := authorization.ValidateSubject(subject); err != nil {
				return cli.Validation("%v", err)
			}
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

			if engine.Can(subject, perms, object) {
				fmt.Printf("%s can %s %s\n", subject, perms, object)
				return nil
			}
			fmt.Printf("%s cannot %s %s\n", subject, perms, object)
			return &cli.ExitError{Code: 1}
		},
	}
}
