// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package gpg

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
)

func addCommand() *cli.Command {
	return &cli.Command{
		Name:    "add",
		Summary: "Import a GPG key from stdin",
		Usage:   "pacsub gpg add [USER] < key",
		Run: func(rt *cli.Runtime, args []string) error {
			user, _, err := resolveUser(rt, args, 0)
			if err != nil {
				return err
			}
			if err := authorize(rt, user); err != nil {
				return err
			}

			keyData, err := io.ReadAll(os.Stdin)
			if err != nil {
				return cli.Internal("reading key from stdin: %v", err)
			}
			if err := manager(rt.Config).ImportGPGKey(context.Background(), user, keyData); err != nil {
				return cli.Validation("%v", err)
			}
			rt.Logger.Info("gpg key imported", "user", user)
			fmt.Printf("imported key for %s\n", user)
			return nil
		},
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Summary: "Remove a GPG key by key ID",
		Usage:   "pacsub gpg remove [USER] KEYID",
		Run: func(rt *cli.Runtime, args []string) error {
			user, rest, err := resolveUser(rt, args, 1)
			if err != nil {
				return err
			}
			if err := authorize(rt, user); err != nil {
				return err
			}

			keyID := rest[0]
			if err := manager(rt.Config).RemoveGPGKey(context.Background(), user, keyID); err != nil {
				return cli.NotFound("%v", err)
			}
			rt.Logger.Info("gpg key removed", "user", user, "key", keyID)
			fmt.Printf("removed %s for %s\n", keyID, user)
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List GPG keys",
		Usage:   "pacsub gpg list [USER]",
		Run: func(rt *cli.Runtime, args []string) error {
			user, _, err := resolveUser(rt, args, 0)
			if err != nil {
				return err
			}
			if err := authorize(rt, user); err != nil {
				return err
			}

			keys, err := manager(rt.Config).GPGKeys(context.Background(), user)
			if err != nil {
				return cli.Internal("listing keys: %v", err)
			}
			for _, key := range keys {
				if key.UserID != "" {
					fmt.Printf("%s %s\n", key.KeyID, key.UserID)
				} else {
					fmt.Println(key.KeyID)
				}
			}
			return nil
		},
	}
}
