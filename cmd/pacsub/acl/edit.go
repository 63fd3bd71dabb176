// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package acl

import (
	"fmt"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/authorization"
)

// editCommand builds the "allow" or "deny" subcommand. Both insert a
// rule; only the rule type differs.
func editCommand(name string) *cli.Command {
	ruleType := authorization.Allow
	if name == "deny" {
		ruleType = authorization.Deny
	}

	return &cli.Command{
		Name:    name,
		Summary: fmt.Sprintf("Add %s rule", indefinite(name)),
		Description: fmt.Sprintf(`Add %s rule for a subject on an object path. Adding a rule that
already exists is a no-op. Requires "w /acl".`, indefinite(name)),
		Usage: fmt.Sprintf("pacsub acl %s SUBJECT LETTERS OBJECT", name),
		Run: func(rt *cli.Runtime, args []string) error {
			subject, letters, object, err := parseRuleArgs(args)
			if err != nil {
				return err
			}
			perms, err := authorization.ParsePermissions(letters)
			if err != nil {
				return cli.Validation("%v", err)
			}

			return withEditSession(rt, func(engine *authorization.Engine) error {
				if ruleType == authorization.Allow {
					return engine.Allow(subject, perms, object)
				}
				return engine.Deny(subject, perms, object)
			})
		},
	}
}

// removeCommand builds the "unallow" or "undeny" subcommand. Removal
// targets the exact rule tuple; removing an absent rule is a silent
// no-op.
func removeCommand(name string) *cli.Command {
	ruleType := authorization.Allow
	counterpart := "allow"
	if name == "undeny" {
		ruleType = authorization.Deny
		counterpart = "deny"
	}

	return &cli.Command{
		Name:    name,
		Summary: fmt.Sprintf("Remove %s rule", indefinite(counterpart)),
		Description: fmt.Sprintf(`Remove %s rule matching the exact subject, letters, and object.
Removing a rule that does not exist is a no-op. Requires "w /acl".`,
			indefinite(counterpart)),
		Usage: fmt.Sprintf("pacsub acl %s SUBJECT LETTERS OBJECT", name),
		Run: func(rt *cli.Runtime, args []string) error {
			subject, letters, object, err := parseRuleArgs(args)
			if err != nil {
				return err
			}
			perms, err := authorization.ParsePermissions(letters)
			if err != nil {
				return cli.Validation("%v", err)
			}

			return withEditSession(rt, func(engine *authorization.Engine) error {
				engine.Remove(authorization.Rule{
					Type:    ruleType,
					Subject: subject,
					Perms:   perms,
					Object:  object,
				})
				return nil
			})
		},
	}
}

// withEditSession runs a mutation inside one exclusive engine session:
// authorize, mutate, save. The exclusive lock spans the whole session,
// so concurrent edits serialize and neither loses the other's rules.
func withEditSession(rt *cli.Runtime, mutate func(*authorization.Engine) error) error {
	engine, err := rt.OpenEngine(authorization.ReadWrite)
	if err != nil {
		return err
	}
	defer engine.Close()

	writeACL, err := authorization.ParsePermissions("w")
	if err != nil {
		return cli.Internal("parsing permissions: %v", err)
	}
	if err := engine.Check(rt.Subject, writeACL, "/acl"); err != nil {
		return cli.WrapEngineError(err)
	}

	if err := mutate(engine); err != nil {
		return cli.Validation("%v", err)
	}
	if !engine.Dirty() {
		return nil
	}
	if err := engine.Save(); err != nil {
		return cli.WrapEngineError(err)
	}
	return nil
}

// indefinite prefixes a rule type name with its article.
func indefinite(name string) string {
	if name == "allow" {
		return "an allow"
	}
	return "a " + name
}
