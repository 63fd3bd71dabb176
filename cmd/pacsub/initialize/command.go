// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package initialize implements the "init" command bootstrapping a
// pacsub host.
package initialize

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/PacBSD/pacsub/cmd/pacsub/cli"
	"github.com/PacBSD/pacsub/lib/authorization"
)

// bootstrapPolicy is the JSONC seed file format: a list of rules
// loaded into the store at initialization. JSONC so the shipped
// default policy can carry explanatory comments.
type bootstrapPolicy struct {
	Rules []bootstrapRule `json:"rules"`
}

type bootstrapRule struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Perms   string `json:"perms"`
	Object  string `json:"object"`
}

// initParams holds the flags for the init command.
type initParams struct {
	Policy string `flag:"policy" desc:"JSONC bootstrap policy file"`
}

// Command returns the "init" command.
func Command() *cli.Command {
	var params initParams

	return &cli.Command{
		Name:    "init",
		Summary: "Initialize the host",
		Description: `Create the pacsub directory layout and seed the rule store.

On a fresh host (no rules yet) anyone may run init; once the store
holds rules, re-running requires "a /init". Without a policy file the seed
policy grants the invoking subject full control ("rwcda /"); with
--policy the rules come from a JSONC file instead.`,
		Usage: "pacsub init [--policy FILE]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("init", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Bootstrap a fresh host as its administrator",
				Command:     "pacsub --subject admin init",
			},
			{
				Description: "Seed from a reviewed policy file",
				Command:     "pacsub --subject admin init --policy /etc/pacsub/bootstrap.jsonc",
			},
		},
		Run: func(rt *cli.Runtime, args []string) error {
			if len(args) != 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			for _, directory := range []string{
				rt.Config.Paths.Root,
				rt.Config.ReposPath(),
				rt.Config.UsersPath(),
			} {
				if err := os.MkdirAll(directory, 0o755); err != nil {
					return cli.Internal("creating %s: %v", directory, err)
				}
			}

			rules, err := loadPolicy(params.Policy, rt.Subject)
			if err != nil {
				return err
			}

			engine, err := rt.OpenEngine(authorization.ReadWrite)
			if err != nil {
				return err
			}
			defer engine.Close()

			// First-run bypass: with no existing rules nothing could
			// grant anyone anything, so init must be open. The decision
			// is made on the rule set loaded under the exclusive store
			// lock, never on a separate existence check, so a store
			// created by a concurrent init cannot slip past the gate.
			if len(engine.Rules()) > 0 {
				adminInit, err := authorization.ParsePermissions("a")
				if err != nil {
					return cli.Internal("parsing permissions: %v", err)
				}
				if err := engine.Check(rt.Subject, adminInit, "/init"); err != nil {
					return cli.WrapEngineError(err)
				}
			}

			for _, rule := range rules {
				var addErr error
				if rule.Type == authorization.Allow {
					addErr = engine.Allow(rule.Subject, rule.Perms, rule.Object)
				} else {
					addErr = engine.Deny(rule.Subject, rule.Perms, rule.Object)
				}
				if addErr != nil {
					return cli.Validation("seeding rule %q: %v", rule, addErr)
				}
			}
			if err := engine.Save(); err != nil {
				return cli.WrapEngineError(err)
			}

			rt.Logger.Info("host initialized", "root", rt.Config.Paths.Root, "rules", len(rules))
			fmt.Printf("initialized %s with %d rules\n", rt.Config.Paths.Root, len(rules))
			return nil
		},
	}
}

// loadPolicy parses the bootstrap policy file, or synthesizes the
// default full-control grant for the invoking subject.
func loadPolicy(path, subject string) ([]authorization.Rule, error) {
	if path == "" {
		perms, err := authorization.ParsePermissions(authorization.Letters)
		if err != nil {
			return nil, cli.Internal("parsing permissions: %v", err)
		}
		return []authorization.Rule{{
			Type:    authorization.Allow,
			Subject: subject,
			Perms:   perms,
			Object:  "/",
		}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cli.Validation("reading policy file: %v", err)
	}
	var policy bootstrapPolicy
	if err := json.Unmarshal(jsonc.ToJSON(data), &policy); err != nil {
		return nil, cli.Validation("parsing policy file %s: %v", path, err)
	}
	if len(policy.Rules) == 0 {
		return nil, cli.Validation("policy file %s declares no rules", path)
	}

	var rules []authorization.Rule
	for i, seed := range policy.Rules {
		ruleType, err := authorization.ParseRuleType(seed.Type)
		if err != nil {
			return nil, cli.Validation("policy rule %d: %v", i, err)
		}
		perms, err := authorization.ParsePermissions(seed.Perms)
		if err != nil {
			return nil, cli.Validation("policy rule %d: %v", i, err)
		}
		if err := authorization.ValidateSubject(seed.Subject); err != nil {
			return nil, cli.Validation("policy rule %d: %v", i, err)
		}
		if err := authorization.ValidateObject(seed.Object); err != nil {
			return nil, cli.Validation("policy rule %d: %v", i, err)
		}
		rules = append(rules, authorization.Rule{
			Type:    ruleType,
			Subject: seed.Subject,
			Perms:   perms,
			Object:  seed.Object,
		})
	}
	return rules, nil
}
