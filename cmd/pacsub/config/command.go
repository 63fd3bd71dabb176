// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package config implements configuration inspection commands.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	libconfig "github.com/PacBSD/pacsub/lib/config"
)

// Command returns the "config" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Inspect the host configuration",
		Description: `Inspect the effective host configuration: the loaded file merged
with defaults, all variables expanded. Requires "r /config".`,
		Subcommands: []*cli.Command{
			showCommand(),
			pathCommand(),
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:    "show",
		Summary: "Print the effective configuration",
		Usage:   "pacsub config show",
		Permission: &cli.Permission{
			Letters: "r",
			Object:  func([]string) string { return "/config" },
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			encoded, err := yaml.Marshal(rt.Config)
			if err != nil {
				return cli.Internal("encoding configuration: %v", err)
			}
			os.Stdout.Write(encoded)
			return nil
		},
	}
}

func pathCommand() *cli.Command {
	return &cli.Command{
		Name:    "path",
		Summary: "Print the configuration file path",
		Usage:   "pacsub config path",
		Permission: &cli.Permission{
			Letters: "r",
			Object:  func([]string) string { return "/config" },
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			path := os.Getenv(libconfig.ConfigEnv)
			if path == "" {
				fmt.Println("(defaults; no configuration file)")
				return nil
			}
			fmt.Println(path)
			return nil
		},
	}
}
