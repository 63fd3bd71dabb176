// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so that the dispatcher and
// scripts wrapping pacsub can react without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing arguments, wrong argument count, unparseable values.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not exist:
	// unknown repository, unknown user, missing staged file.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates the access control engine denied the
	// operation for the calling subject.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict indicates the operation conflicts with existing
	// state: duplicate repository, user already present.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryBusy indicates the rule store lock could not be acquired
	// within the bounded wait. The operator retries manually.
	CategoryBusy ErrorCategory = "busy"

	// CategoryInternal indicates an unexpected failure: I/O errors,
	// corrupt store data, external tool failures.
	CategoryInternal ErrorCategory = "internal"
)

// CommandError is a categorized error returned by command handlers. It
// wraps an inner error, preserving the chain for errors.Is/As while
// adding the category for exit handling and logging.
type CommandError struct {
	// Category classifies the error.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category is not
// included in the string; it travels separately.
func (e *CommandError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden wraps an engine denial: the caller lacks permission.
func Forbidden(err error) *CommandError {
	return &CommandError{Category: CategoryForbidden, Err: err}
}

// Conflict creates a conflict error: the operation clashes with
// existing state.
func Conflict(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Busy wraps a store lock timeout.
func Busy(err error) *CommandError {
	return &CommandError{Category: CategoryBusy, Err: err}
}

// Internal creates an internal error: an unexpected failure the caller
// should report rather than retry.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
