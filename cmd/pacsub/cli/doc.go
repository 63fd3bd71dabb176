// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the pacsub
// administration tool.
//
// The central type is [Command]: a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, an optional
// [Permission] descriptor, and a Run function. Commands are assembled
// into a tree in cmd/pacsub/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing by
// table lookup, structured help output, and the pre-Run authorization
// check declared by the descriptor.
//
// Every command executes against a [Runtime] carrying the caller's
// resolved subject, the loaded configuration, and a scoped logger. The
// subject is resolved exactly once per process ([ResolveSubject], from
// --subject as passed by the SSH forced-command entry, or from
// PACSUB_SUBJECT) and passed explicitly into every engine call;
// nothing reads it from global state.
//
// Commands whose only engine interaction is the entry check declare it
// declaratively via [Command.Permission]; the framework opens a
// read-only engine session, checks, and closes it. Commands that need
// further engine work (the acl group, capability-probing views) leave
// Permission nil and run their single engine session themselves, so
// each process performs exactly one engine lifecycle.
//
// When a user types an unknown subcommand, the framework computes
// Levenshtein edit distance against the known names and suggests the
// closest match.
package cli
