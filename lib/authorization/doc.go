// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package authorization implements pacsub's access control engine. It
// evaluates whether a subject (an uploader, an administrator, or the
// "*" wildcard standing for anyone) may perform an operation on a
// resource path by consulting a persisted set of allow/deny rules:
//
//   - Rules name a subject, a set of permission letters, and a
//     "/"-rooted object path.
//   - A rule applies to a request when its object equals the requested
//     path or is a path-segment prefix of it. The root object "/"
//     applies to everything.
//   - Among applicable rules, a rule for the exact subject outranks a
//     wildcard rule; a more specific object (more path segments)
//     outranks a less specific one; and at equal rank a denial
//     outranks a grant.
//   - No applicable rule means deny. An empty or missing store grants
//     nothing.
//
// # Permission letters
//
// Requests and rules use single-letter permissions:
//
//	r  read
//	w  write/modify
//	c  create
//	d  delete
//	a  administrative override
//
// A multi-letter request is a conjunction: every letter must resolve
// to allow independently. "a" carries no special meaning inside the
// engine; callers use it to gate administrative views, and it is
// matched like any other letter.
//
// # Engine lifecycle
//
// Each command process opens the engine exactly once. Read-only
// sessions take a shared lock for the duration of the load; mutating
// sessions hold an exclusive lock from load through [Engine.Save] so
// that concurrent invocations on the same host are fully serialized
// and neither overwrites the other's edits. Mutations are in-memory
// until Save, which replaces the store file atomically. An engine that
// exits without saving discards its mutations.
//
// The lock wait is bounded; contention past the deadline surfaces as
// [ErrBusy] for the operator to retry. Nothing is retried
// automatically.
package authorization
