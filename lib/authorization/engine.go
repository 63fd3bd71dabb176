// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"fmt"
	"sort"
	"time"
)

// Engine is the access control facade consumed by every pacsub
// subsystem. It holds the rule set loaded from the store and applies
// mutations in memory until Save. One engine is constructed per
// command invocation and passed explicitly to the handlers that need
// it; there is no ambient instance.
type Engine struct {
	store *store
	mode  Mode
	rules map[Rule]struct{}
	dirty bool
}

// Open loads the rule store at path. ReadOnly sessions hold a shared
// lock only while loading; ReadWrite sessions hold an exclusive lock
// until Close. A missing store file yields an engine with no rules.
func Open(path string, mode Mode, lockTimeout time.Duration) (*Engine, error) {
	s, rules, err := openStore(path, mode, lockTimeout)
	if err != nil {
		return nil, err
	}
	return &Engine{store: s, mode: mode, rules: rules}, nil
}

// Close releases the store lock of a ReadWrite session. Unsaved
// mutations are discarded. Safe to call on any engine, repeatedly.
func (e *Engine) Close() error {
	e.store.release()
	return nil
}

// Check resolves every letter of perms for the subject on path. All
// letters must resolve to allow; otherwise it returns a
// [PermissionError] naming the first letter that did not. An empty
// permission set is rejected rather than vacuously allowed.
func (e *Engine) Check(subject string, perms Permissions, path string) error {
	if len(perms) == 0 {
		return fmt.Errorf("empty permission set for %s on %s", subject, path)
	}
	for i := 0; i < len(perms); i++ {
		if !e.Decide(subject, perms[i], path).Allowed {
			return &PermissionError{Subject: subject, Letter: perms[i], Path: path}
		}
	}
	return nil
}

// Can reports whether Check would succeed for the same arguments. It
// never has side effects; callers use it for conditional branching
// such as choosing an administrative or a self-scoped view.
func (e *Engine) Can(subject string, perms Permissions, path string) bool {
	return e.Check(subject, perms, path) == nil
}

// Allow inserts an allow rule. Inserting a tuple that already exists
// is a no-op. The mutation is in-memory until Save.
func (e *Engine) Allow(subject string, perms Permissions, object string) error {
	return e.add(Rule{Type: Allow, Subject: subject, Perms: perms, Object: object})
}

// Deny inserts a deny rule. Same semantics as Allow.
func (e *Engine) Deny(subject string, perms Permissions, object string) error {
	return e.add(Rule{Type: Deny, Subject: subject, Perms: perms, Object: object})
}

func (e *Engine) add(rule Rule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	if _, exists := e.rules[rule]; exists {
		return nil
	}
	e.rules[rule] = struct{}{}
	e.dirty = true
	return nil
}

// Remove deletes the exact rule tuple if present. Removing an absent
// rule is a silent no-op.
func (e *Engine) Remove(rule Rule) {
	if _, exists := e.rules[rule]; !exists {
		return
	}
	delete(e.rules, rule)
	e.dirty = true
}

// Rules returns all rules in a stable sorted order for display and
// audit.
func (e *Engine) Rules() []Rule {
	return sortRules(e.rules)
}

// Dirty reports whether mutations have been made since the load or
// the last Save.
func (e *Engine) Dirty() bool { return e.dirty }

// Save flushes the rule set to the store atomically. Only valid on a
// ReadWrite session, whose exclusive lock has been held since Open.
func (e *Engine) Save() error {
	if e.mode != ReadWrite {
		return ErrReadOnly
	}
	if err := e.store.save(e.rules); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

func validateRule(rule Rule) error {
	if err := ValidateSubject(rule.Subject); err != nil {
		return err
	}
	if rule.Perms == "" {
		return fmt.Errorf("empty permission set")
	}
	normalized, err := ParsePermissions(string(rule.Perms))
	if err != nil {
		return err
	}
	if normalized != rule.Perms {
		return fmt.Errorf("permission set %q is not normalized (want %q)", rule.Perms, normalized)
	}
	return ValidateObject(rule.Object)
}

// sortRules flattens a rule set into compareRules order.
func sortRules(rules map[Rule]struct{}) []Rule {
	sorted := make([]Rule, 0, len(rules))
	for rule := range rules {
		sorted = append(sorted, rule)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return compareRules(sorted[i], sorted[j]) < 0
	})
	return sorted
}
