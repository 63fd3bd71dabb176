// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when the store lock cannot be acquired within
// the bounded wait. The store is held by another invocation; the
// operator retries manually. Nothing in the engine retries.
var ErrBusy = errors.New("rule store is locked by another process")

// ErrReadOnly is returned by Save on an engine opened in ReadOnly
// mode. Mutating sessions must open the engine in ReadWrite mode so
// the exclusive lock spans the whole load-mutate-save sequence.
var ErrReadOnly = errors.New("engine opened read-only")

// PermissionError reports a failed Check: the named letter did not
// resolve to allow for the subject on the path. It aborts the
// invoking command with a nonzero exit.
type PermissionError struct {
	// Subject is the requesting identity.
	Subject string

	// Letter is the first permission letter that resolved to deny.
	Letter byte

	// Path is the requested resource path.
	Path string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: subject %q lacks %q on %s",
		e.Subject, string(e.Letter), e.Path)
}

// FormatError reports a malformed line in the persisted store. It is
// fatal at load: a store that cannot be parsed in full grants nothing
// and must be repaired by hand.
type FormatError struct {
	// Path is the store file.
	Path string

	// Line is the 1-based line number of the malformed line.
	Line int

	// Err describes what is wrong with the line.
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
