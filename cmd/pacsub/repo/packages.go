// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/account"
	"github.com/PacBSD/pacsub/lib/staging"
)

func addCommand() *cli.Command {
	return &cli.Command{
		Name:    "add",
		Summary: "Publish a staged package",
		Description: `Move a file from the caller's staging area into a repository's
architecture directory and add it to the package index via the
external repo-add tool. Requires "w /repo/REPO".`,
		Usage: "pacsub repo add REPO ARCH FILE",
		Permission: &cli.Permission{
			Letters: "w",
			Object:  objectForName,
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 3 {
				return cli.Validation("expected REPO ARCH FILE, got %d arguments", len(args))
			}
			repo, arch, name := args[0], args[1], args[2]

			m := manager(rt.Config)
			if !m.Exists(repo) {
				return cli.NotFound("repository %q does not exist", repo)
			}
			registered, err := m.Architectures()
			if err != nil {
				return cli.Internal("reading architectures: %v", err)
			}
			if !contains(registered, arch) {
				return cli.NotFound("architecture %q is not registered", arch)
			}

			uploads := account.NewManager(rt.Config.UsersPath(), rt.Config.AuthorizedKeysPath(), rt.Config.Tools.GPG)
			store := staging.NewStore(uploads.UploadsDir(rt.Subject))
			source, err := store.Path(name)
			if err != nil {
				return cli.Validation("%v", err)
			}
			// Inspect before moving: a broken tarball should fail while
			// the file is still staged.
			info, err := store.Inspect(name)
			if err != nil {
				return cli.Validation("%v", err)
			}

			destination := filepath.Join(rt.Config.ReposPath(), repo, arch, name)
			if err := os.Rename(source, destination); err != nil {
				return cli.Internal("moving package into repository: %v", err)
			}
			if err := m.AddPackage(context.Background(), repo, arch, destination); err != nil {
				// Index update failed: return the file to staging so the
				// upload is not stranded in the repository tree.
				os.Rename(destination, source)
				return cli.Internal("%v", err)
			}
			if err := store.Forget(name); err != nil {
				rt.Logger.Warn("dropping staging record", "file", name, "error", err)
			}

			rt.Logger.Info("package published",
				"repo", repo, "arch", arch, "package", info.Name, "version", info.Version)
			fmt.Printf("added %s %s to %s/%s\n", info.Name, info.Version, repo, arch)
			return nil
		},
	}
}

func removePackageCommand() *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Summary: "Retract a package from the index",
		Description: `Remove a package (by package name) from a repository's index via the
external repo-remove tool. The package file itself is left in place.
Requires "w /repo/REPO".`,
		Usage: "pacsub repo remove REPO ARCH PKGNAME",
		Permission: &cli.Permission{
			Letters: "w",
			Object:  objectForName,
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 3 {
				return cli.Validation("expected REPO ARCH PKGNAME, got %d arguments", len(args))
			}
			repo, arch, pkg := args[0], args[1], args[2]

			m := manager(rt.Config)
			if !m.Exists(repo) {
				return cli.NotFound("repository %q does not exist", repo)
			}
			if err := m.RemovePackage(context.Background(), repo, arch, pkg); err != nil {
				return cli.Internal("%v", err)
			}

			rt.Logger.Info("package retracted", "repo", repo, "arch", arch, "package", pkg)
			fmt.Printf("removed %s from %s/%s\n", pkg, repo, arch)
			return nil
		},
	}
}

func contains(names []string, name string) bool {
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}
	return false
}
