// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package acl implements the rule management command group. Unlike the
// other command groups, these commands leave the framework's
// declarative permission gate unset and run their authorization check
// inside their own engine session: each invocation loads the rule
// store exactly once, and mutating subcommands hold the exclusive
// store lock from load to save.
package acl
