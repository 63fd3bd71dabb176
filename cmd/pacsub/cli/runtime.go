// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/PacBSD/pacsub/lib/authorization"
	"github.com/PacBSD/pacsub/lib/config"
)

// SubjectEnv is the environment variable carrying the caller's
// identity. Forced-command entries in authorized_keys pass --subject
// explicitly; the variable serves hosting environments that establish
// identity before pacsub runs.
const SubjectEnv = "PACSUB_SUBJECT"

// Runtime carries the per-invocation context every command handler
// needs: the caller's resolved subject, the loaded configuration, and
// a base logger. It is constructed once in main and passed explicitly
// down the command tree; there is no ambient state.
type Runtime struct {
	// Subject is the caller's identity, established by the hosting
	// environment before pacsub runs.
	Subject string

	// Config is the loaded host configuration.
	Config *config.Config

	// Logger is the base structured logger. Commands scope it with
	// With("command", ...).
	Logger *slog.Logger
}

// ResolveSubject determines the caller's identity from the --subject
// flag value or, when empty, from the PACSUB_SUBJECT environment
// variable. Authentication itself (verifying the identity) is the
// hosting environment's job; pacsub only requires that an identity was
// supplied.
func ResolveSubject(flagValue string) (string, error) {
	subject := flagValue
	if subject == "" {
		subject = os.Getenv(SubjectEnv)
	}
	if subject == "" {
		return "", Validation("no subject: set %s or pass --subject", SubjectEnv)
	}
	if err := authorization.ValidateSubject(subject); err != nil {
		return "", Validation("invalid subject: %v", err)
	}
	return subject, nil
}

// OpenEngine opens the access control engine on the configured rule
// store. The caller owns the session and must Close it; mutating
// sessions hold the exclusive store lock until then.
func (rt *Runtime) OpenEngine(mode authorization.Mode) (*authorization.Engine, error) {
	engine, err := authorization.Open(rt.Config.RuleStorePath(), mode, rt.Config.LockWait())
	if err != nil {
		return nil, WrapEngineError(err)
	}
	return engine, nil
}

// CheckPermission runs a one-shot authorization check for the runtime
// subject in a read-only engine session. Used by the framework for
// declarative [Permission] gates on commands that do not otherwise
// touch the engine.
func (rt *Runtime) CheckPermission(letters, object string) error {
	perms, err := authorization.ParsePermissions(letters)
	if err != nil {
		return Internal("bad permission descriptor %q: %v", letters, err)
	}
	engine, err := rt.OpenEngine(authorization.ReadOnly)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Check(rt.Subject, perms, object); err != nil {
		return WrapEngineError(err)
	}
	return nil
}

// WrapEngineError maps engine failures onto command error categories:
// lock timeouts become busy, denials become forbidden, everything else
// (I/O, corrupt store) is internal.
func WrapEngineError(err error) error {
	var permissionError *authorization.PermissionError
	switch {
	case errors.Is(err, authorization.ErrBusy):
		return Busy(err)
	case errors.As(err, &permissionError):
		return Forbidden(err)
	default:
		return &CommandError{Category: CategoryInternal, Err: err}
	}
}
