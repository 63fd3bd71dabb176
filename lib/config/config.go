// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the host configuration for pacsub.
type Config struct {
	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// LockTimeout bounds the wait for the rule store lock, as a
	// duration string ("10s", "1m"). Contention past the deadline
	// surfaces as "busy" for the operator to retry.
	LockTimeout string `yaml:"lock_timeout"`

	// Tools names the external binaries pacsub delegates to.
	Tools ToolsConfig `yaml:"tools"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for pacsub data.
	Root string `yaml:"root"`

	// RuleStore is the access control rule store file.
	// Default: ${PACSUB_ROOT}/acl
	RuleStore string `yaml:"rule_store"`

	// Repos is where package repositories live, one directory per
	// repository with one subdirectory per architecture.
	// Default: ${PACSUB_ROOT}/repos
	Repos string `yaml:"repos"`

	// Users is where per-user directories (staged uploads, GPG
	// keyrings) live. Default: ${PACSUB_ROOT}/users
	Users string `yaml:"users"`

	// AuthorizedKeys is the SSH authorized_keys file pacsub manages
	// for the shared service account.
	// Default: ${PACSUB_ROOT}/authorized_keys
	AuthorizedKeys string `yaml:"authorized_keys"`
}

// ToolsConfig names the external binaries pacsub delegates to. Package
// index manipulation and keyring handling are never reimplemented;
// they belong to the distribution tooling.
type ToolsConfig struct {
	// RepoAdd updates a repository index with new packages.
	// Default: repo-add
	RepoAdd string `yaml:"repo_add"`

	// RepoRemove removes packages from a repository index.
	// Default: repo-remove
	RepoRemove string `yaml:"repo_remove"`

	// GPG manages per-user keyrings. Default: gpg
	GPG string `yaml:"gpg"`
}

// Default returns the default configuration: a development layout
// under the caller's home directory and a 10 second lock wait. These
// defaults are the base that a loaded config file overrides.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	root := filepath.Join(homeDir, ".local", "share", "pacsub")

	return &Config{
		Paths: PathsConfig{
			Root: root,
		},
		LockTimeout: "10s",
		Tools: ToolsConfig{
			RepoAdd:    "repo-add",
			RepoRemove: "repo-remove",
			GPG:        "gpg",
		},
	}
}

// ConfigEnv is the environment variable naming the configuration
// file.
const ConfigEnv = "PACSUB_CONFIG"

// Load loads configuration from the file named by ConfigEnv, or
// returns [Default] when the variable is unset. An unset variable is
// not an error: a fresh host administered as root has a usable default
// layout before any config file exists.
func Load() (*Config, error) {
	path := os.Getenv(ConfigEnv)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path. The config
// file is the single source of truth; environment variables do not
// override its values. The only expansion performed is ${HOME} and
// similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} references in path fields.
// ${PACSUB_ROOT} resolves to the configured root; other names resolve
// from the environment. Root itself is expanded first so the others
// may reference it.
func (c *Config) expandVariables() {
	c.Paths.Root = os.Expand(c.Paths.Root, os.Getenv)

	expand := func(s string) string {
		return os.Expand(s, func(name string) string {
			if name == "PACSUB_ROOT" {
				return c.Paths.Root
			}
			return os.Getenv(name)
		})
	}
	c.Paths.RuleStore = expand(c.Paths.RuleStore)
	c.Paths.Repos = expand(c.Paths.Repos)
	c.Paths.Users = expand(c.Paths.Users)
	c.Paths.AuthorizedKeys = expand(c.Paths.AuthorizedKeys)
}

// LockWait returns the parsed lock timeout. An unset or unparseable
// value falls back to the 10 second default.
func (c *Config) LockWait() time.Duration {
	wait, err := time.ParseDuration(c.LockTimeout)
	if err != nil || wait <= 0 {
		return 10 * time.Second
	}
	return wait
}

// RuleStorePath returns the rule store file, defaulting under Root.
func (c *Config) RuleStorePath() string {
	if c.Paths.RuleStore != "" {
		return c.Paths.RuleStore
	}
	return filepath.Join(c.Paths.Root, "acl")
}

// ReposPath returns the repository directory, defaulting under Root.
func (c *Config) ReposPath() string {
	if c.Paths.Repos != "" {
		return c.Paths.Repos
	}
	return filepath.Join(c.Paths.Root, "repos")
}

// UsersPath returns the per-user directory, defaulting under Root.
func (c *Config) UsersPath() string {
	if c.Paths.Users != "" {
		return c.Paths.Users
	}
	return filepath.Join(c.Paths.Root, "users")
}

// AuthorizedKeysPath returns the managed authorized_keys file,
// defaulting under Root.
func (c *Config) AuthorizedKeysPath() string {
	if c.Paths.AuthorizedKeys != "" {
		return c.Paths.AuthorizedKeys
	}
	return filepath.Join(c.Paths.Root, "authorized_keys")
}
