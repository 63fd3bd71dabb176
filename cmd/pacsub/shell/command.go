// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package shell implements the SSH forced-command dispatcher.
package shell

import (
	"os"
	"strings"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
)

// originalCommandEnv is set by sshd to the command line the client
// requested when a forced command overrides it.
const originalCommandEnv = "SSH_ORIGINAL_COMMAND"

// Command returns the "shell" command. The authorized_keys entries
// pacsub writes name it as the forced command, so every SSH
// connection lands here; it re-dispatches the client's requested
// command line through the given root command tree.
func Command(root *cli.Command) *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Summary: "Dispatch an SSH forced-command invocation",
		Description: `Dispatch the command line a connecting SSH client requested
(SSH_ORIGINAL_COMMAND) through the pacsub command tree. Not intended
for interactive use: authorized_keys entries written by "pacsub ssh
add" name this command, with the key's registered subject, as the
forced command.

Arguments are split on whitespace; shell quoting is not interpreted.`,
		Usage: "pacsub shell",
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			requested := strings.TrimSpace(os.Getenv(originalCommandEnv))
			if requested == "" {
				return cli.Validation("no command requested: pacsub does not provide an interactive shell")
			}

			fields := strings.Fields(requested)
			// Tolerate clients that prefix the binary name.
			if fields[0] == "pacsub" {
				fields = fields[1:]
			}
			if len(fields) == 0 {
				return cli.Validation("no command requested")
			}
			if fields[0] == "shell" {
				return cli.Validation("refusing recursive shell dispatch")
			}

			rt.Logger.Info("dispatching forced command",
				"subject", rt.Subject, "command", fields[0])
			return root.Execute(rt, fields)
		},
	}
}
