// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/cmd/pacsub/commands"
	"github.com/PacBSD/pacsub/lib/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		// Commands whose nonzero exit is an answer (like "acl can")
		// return an ExitError and have already printed their output.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Global flags stop at the first positional argument so that
	// subcommand flags pass through untouched.
	flags := pflag.NewFlagSet("pacsub", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	subjectFlag := flags.String("subject", "", "caller identity (overrides PACSUB_SUBJECT)")
	configFlag := flags.String("config", "", "configuration file (overrides PACSUB_CONFIG)")
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			commands.Root().PrintHelp(os.Stderr)
			return nil
		}
		return cli.Validation("%v", err)
	}

	subject, err := cli.ResolveSubject(*subjectFlag)
	if err != nil {
		return err
	}

	var cfg *config.Config
	if *configFlag != "" {
		cfg, err = config.LoadFile(*configFlag)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	runtime := &cli.Runtime{
		Subject: subject,
		Config:  cfg,
		Logger:  cli.NewCommandLogger().With("subject", subject),
	}
	return commands.Root().Execute(runtime, flags.Args())
}
