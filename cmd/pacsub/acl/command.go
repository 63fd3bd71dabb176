// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package acl

import (
	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
)

// Command returns the "acl" command group for access rule management.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "acl",
		Summary: "Manage access control rules",
		Description: `Manage the access control rules governing every pacsub operation.

Rules are allow/deny tuples of subject, permission letters, and an
object path. Paths form a hierarchy: a rule on /repo applies to
/repo/core and everything below it, and a more specific rule overrides
a less specific one regardless of type. Rules naming the caller exactly
override wildcard (*) rules. With no matching rule the answer is deny.

Permission letters: r (read), w (write), c (create), d (delete),
a (admin).

Listing and probing rules requires "r /acl"; changing them requires
"w /acl".`,
		Subcommands: []*cli.Command{
			listCommand(),
			editCommand("allow"),
			editCommand("deny"),
			removeCommand("unallow"),
			removeCommand("undeny"),
			canCommand(),
			checkCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Let alice manage everything under /repo/core",
				Command:     "pacsub acl allow alice rwcd /repo/core",
			},
			{
				Description: "Give every user read access to the repository tree",
				Command:     "pacsub acl allow '*' r /repo",
			},
			{
				Description: "Carve bob out of a broader grant",
				Command:     "pacsub acl deny bob w /repo/core/testing",
			},
			{
				Description: "Probe a decision without side effects",
				Command:     "pacsub acl can bob w /repo/core/testing",
			},
		},
	}
}

// parseRuleArgs validates the SUBJECT LETTERS OBJECT argument triple
// shared by the rule-editing subcommands.
func parseRuleArgs(args []string) (subject string, perms string, object string, err error) {
	if len(args) != 3 {
		return "", "", "", cli.Validation("expected SUBJECT LETTERS OBJECT, got %d arguments", len(args))
	}
	return args[0], args[1], args[2], nil
}
