// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete pacsub command tree. The
// binary's main and the SSH forced-command dispatcher share it as the
// single source of truth for what the CLI can do.
package commands

import (
	aclcmd "github.com/PacBSD/pacsub/cmd/pacsub/acl"
	archcmd "github.com/PacBSD/pacsub/cmd/pacsub/arch"
	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	configcmd "github.com/PacBSD/pacsub/cmd/pacsub/config"
	filecmd "github.com/PacBSD/pacsub/cmd/pacsub/file"
	gpgcmd "github.com/PacBSD/pacsub/cmd/pacsub/gpg"
	initcmd "github.com/PacBSD/pacsub/cmd/pacsub/initialize"
	repocmd "github.com/PacBSD/pacsub/cmd/pacsub/repo"
	shellcmd "github.com/PacBSD/pacsub/cmd/pacsub/shell"
	sshcmd "github.com/PacBSD/pacsub/cmd/pacsub/ssh"
	usercmd "github.com/PacBSD/pacsub/cmd/pacsub/user"
)

// Root builds and returns the complete pacsub command tree.
func Root() *cli.Command {
	root := &cli.Command{
		Name: "pacsub",
		Description: `pacsub: multi-user package repository host.

Every operation runs under the caller's identity (--subject, passed by
the SSH forced-command entry or by a local administrator, with
PACSUB_SUBJECT as the environment fallback) and is authorized against a
hierarchical rule store before it acts.`,
		Subcommands: []*cli.Command{
			aclcmd.Command(),
			repocmd.Command(),
			archcmd.Command(),
			usercmd.Command(),
			sshcmd.Command(),
			gpgcmd.Command(),
			filecmd.Command(),
			initcmd.Command(),
			configcmd.Command(),
		},
		Examples: []cli.Example{
			{
				Description: "Bootstrap a fresh host",
				Command:     "pacsub --subject admin init",
			},
			{
				Description: "Grant alice control over a repository",
				Command:     "pacsub --subject admin acl allow alice rwcd /repo/core",
			},
			{
				Description: "Probe a permission without side effects",
				Command:     "pacsub --subject admin acl can alice w /repo/core",
			},
		},
	}

	// The shell dispatcher re-enters the tree, so it is appended after
	// construction with the root pointer.
	root.Subcommands = append(root.Subcommands, shellcmd.Command(root))

	return root
}
