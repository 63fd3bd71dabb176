// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
)

// BatchReport collects per-target results for commands that operate on
// several targets in one invocation (e.g., "user create" with multiple
// names). Each target's failure is recorded and reported individually
// without halting the remaining targets; the aggregate exit status is
// derived from whether any target failed.
type BatchReport struct {
	items []batchItem
}

type batchItem struct {
	target string
	err    error
}

// Add records the outcome for one target. A nil err marks success.
func (r *BatchReport) Add(target string, err error) {
	r.items = append(r.items, batchItem{target: target, err: err})
}

// Failed returns the number of targets that failed.
func (r *BatchReport) Failed() int {
	failed := 0
	for _, item := range r.items {
		if item.err != nil {
			failed++
		}
	}
	return failed
}

// Print writes one line per target to w.
func (r *BatchReport) Print(w io.Writer) {
	for _, item := range r.items {
		if item.err != nil {
			fmt.Fprintf(w, "%s: error: %v\n", item.target, item.err)
		} else {
			fmt.Fprintf(w, "%s: ok\n", item.target)
		}
	}
}

// Err returns nil when every target succeeded, and an error
// summarizing the failure count otherwise. Callers return it as the
// command result after Print, so partial failures still exit nonzero.
func (r *BatchReport) Err() error {
	failed := r.Failed()
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d targets failed", failed, len(r.items))
}
