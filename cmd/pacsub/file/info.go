// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package file

import (
	"fmt"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:    "info",
		Summary: "Show details of a staged upload",
		Description: `Show a staged file's size, BLAKE3 digest, and, for package tarballs,
the contained package metadata.`,
		Usage: "pacsub file info [USER] NAME",
		Run: func(rt *cli.Runtime, args []string) error {
			user, rest, err := resolveUser(rt, args, 1)
			if err != nil {
				return err
			}
			if err := authorize(rt, user, "r"); err != nil {
				return err
			}
			name := rest[0]

			s := store(rt, user)
			stat, err := s.Stat(name)
			if err != nil {
				return cli.NotFound("%v", err)
			}
			digest, err := s.Digest(name)
			if err != nil {
				return cli.Internal("%v", err)
			}

			fmt.Printf("name:     %s\n", stat.Name)
			fmt.Printf("user:     %s\n", user)
			fmt.Printf("size:     %d\n", stat.Size)
			fmt.Printf("modified: %s\n", stat.Modified.Format("2006-01-02 15:04:05"))
			fmt.Printf("blake3:   %s\n", digest)

			// Package tarballs additionally get their metadata shown;
			// other staged files are fine without.
			info, err := s.Inspect(name)
			if err != nil {
				return nil
			}
			fmt.Printf("package:  %s %s (%s)\n", info.Name, info.Version, info.Architecture)
			if info.Packager != "" {
				fmt.Printf("packager: %s\n", info.Packager)
			}
			return nil
		},
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Summary: "Remove a staged upload",
		Usage:   "pacsub file remove [USER] NAME",
		Run: func(rt *cli.Runtime, args []string) error {
			user, rest, err := resolveUser(rt, args, 1)
			if err != nil {
				return err
			}
			if err := authorize(rt, user, "d"); err != nil {
				return err
			}
			name := rest[0]

			if err := store(rt, user).Remove(name); err != nil {
				return cli.NotFound("%v", err)
			}
			rt.Logger.Info("staged file removed", "user", user, "file", name)
			fmt.Printf("removed %s\n", name)
			return nil
		},
	}
}
