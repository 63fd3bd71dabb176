// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package ssh

import (
	"fmt"
	"io"
	"os"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/account"
)

// resolveUser picks the target user from an optional positional
// argument, defaulting to the caller, and returns the remaining args.
func resolveUser(rt *cli.Runtime, args []string, trailing int) (string, []string, error) {
	switch len(args) {
	case trailing:
		return rt.Subject, args, nil
	case trailing + 1:
		user := args[0]
		if err := account.ValidateUser(user); err != nil {
			return "", nil, cli.Validation("%v", err)
		}
		return user, args[1:], nil
	default:
		return "", nil, cli.Validation("unexpected arguments: %v", args)
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:    "add",
		Summary: "Register an SSH key from stdin",
		Usage:   "pacsub ssh add [USER] < public-key",
		Run: func(rt *cli.Runtime, args []string) error {
			user, _, err := resolveUser(rt, args, 0)
			if err != nil {
				return err
			}
			if err := authorize(rt, user, "w", "/ssh"); err != nil {
				return err
			}

			m := manager(rt.Config)
			if !m.Exists(user) {
				return cli.NotFound("user %q does not exist", user)
			}
			keyData, err := io.ReadAll(os.Stdin)
			if err != nil {
				return cli.Internal("reading key from stdin: %v", err)
			}
			key, err := m.AddSSHKey(user, keyData)
			if err != nil {
				return cli.Validation("%v", err)
			}
			rt.Logger.Info("ssh key added", "user", user, "fingerprint", key.Fingerprint)
			fmt.Printf("added %s for %s\n", key.Fingerprint, user)
			return nil
		},
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Summary: "Remove an SSH key by fingerprint",
		Usage:   "pacsub ssh remove [USER] FINGERPRINT",
		Run: func(rt *cli.Runtime, args []string) error {
			user, rest, err := resolveUser(rt, args, 1)
			if err != nil {
				return err
			}
			if err := authorize(rt, user, "w", "/ssh"); err != nil {
				return err
			}

			fingerprint := rest[0]
			if err := manager(rt.Config).RemoveSSHKey(user, fingerprint); err != nil {
				return cli.NotFound("%v", err)
			}
			rt.Logger.Info("ssh key removed", "user", user, "fingerprint", fingerprint)
			fmt.Printf("removed %s for %s\n", fingerprint, user)
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List registered SSH keys",
		Usage:   "pacsub ssh list [USER]",
		Run: func(rt *cli.Runtime, args []string) error {
			user, _, err := resolveUser(rt, args, 0)
			if err != nil {
				return err
			}
			if err := authorize(rt, user, "w", "/ssh"); err != nil {
				return err
			}

			keys, err := manager(rt.Config).SSHKeys(user)
			if err != nil {
				return cli.Internal("listing keys: %v", err)
			}
			for _, key := range keys {
				if key.Comment != "" {
					fmt.Printf("%s %s\n", key.Fingerprint, key.Comment)
				} else {
					fmt.Println(key.Fingerprint)
				}
			}
			return nil
		},
	}
}
