// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"fmt"
	"strings"
)

// Letters is the permission alphabet in display order: read, write,
// create, delete, administrative override.
const Letters = "rwcda"

// Wildcard is the subject that matches any requesting identity.
const Wildcard = "*"

// Permissions is a normalized set of permission letters. The zero
// value is the empty set; a valid rule or request never carries an
// empty set. Normalization deduplicates and orders letters as in
// [Letters], so equal sets compare equal as strings.
type Permissions string

// ParsePermissions validates and normalizes a run of permission
// letters.
func ParsePermissions(s string) (Permissions, error) {
	if s == "" {
		return "", fmt.Errorf("empty permission set")
	}
	var set [len(Letters)]bool
	for i := 0; i < len(s); i++ {
		index := strings.IndexByte(Letters, s[i])
		if index < 0 {
			return "", fmt.Errorf("unknown permission letter %q (valid: %s)", string(s[i]), Letters)
		}
		set[index] = true
	}
	var normalized strings.Builder
	for i := 0; i < len(Letters); i++ {
		if set[i] {
			normalized.WriteByte(Letters[i])
		}
	}
	return Permissions(normalized.String()), nil
}

// Contains reports whether the set includes the given letter.
func (p Permissions) Contains(letter byte) bool {
	return strings.IndexByte(string(p), letter) >= 0
}

func (p Permissions) String() string { return string(p) }

// RuleType distinguishes grants from denials.
type RuleType int

const (
	// Allow grants the rule's permissions on the rule's object.
	Allow RuleType = iota

	// Deny withholds the rule's permissions on the rule's object.
	Deny
)

// String returns "allow" or "deny".
func (t RuleType) String() string {
	if t == Deny {
		return "deny"
	}
	return "allow"
}

// ParseRuleType parses "allow" or "deny".
func ParseRuleType(s string) (RuleType, error) {
	switch s {
	case "allow":
		return Allow, nil
	case "deny":
		return Deny, nil
	}
	return Allow, fmt.Errorf("unknown rule type %q (want allow or deny)", s)
}

// Rule is one persisted access control rule. Rules have set semantics:
// the store holds each exact (Type, Subject, Perms, Object) tuple at
// most once.
type Rule struct {
	// Type is Allow or Deny.
	Type RuleType

	// Subject is the identity the rule is about, or [Wildcard].
	Subject string

	// Perms is the non-empty set of permission letters the rule
	// grants or withholds.
	Perms Permissions

	// Object is the "/"-rooted resource path the rule applies to.
	Object string
}

// String renders the rule in the persisted line format:
//
//	<allow|deny> <subject>:<letters>:<object>
func (r Rule) String() string {
	return fmt.Sprintf("%s %s:%s:%s", r.Type, r.Subject, r.Perms, r.Object)
}

// ParseRule parses one store line. The line must already be trimmed of
// surrounding whitespace and non-blank.
func ParseRule(line string) (Rule, error) {
	typeField, rest, ok := strings.Cut(line, " ")
	if !ok {
		return Rule{}, fmt.Errorf("missing rule body")
	}
	ruleType, err := ParseRuleType(typeField)
	if err != nil {
		return Rule{}, err
	}

	fields := strings.SplitN(rest, ":", 3)
	if len(fields) != 3 {
		return Rule{}, fmt.Errorf("want subject:permissions:object, got %q", rest)
	}
	subject, letters, object := fields[0], fields[1], fields[2]

	if err := ValidateSubject(subject); err != nil {
		return Rule{}, err
	}
	perms, err := ParsePermissions(letters)
	if err != nil {
		return Rule{}, err
	}
	if err := ValidateObject(object); err != nil {
		return Rule{}, err
	}

	return Rule{Type: ruleType, Subject: subject, Perms: perms, Object: object}, nil
}

// ValidateSubject checks that a subject is usable in a rule or a
// request: non-empty, no whitespace, and no ":" (the store field
// separator). The wildcard is valid.
func ValidateSubject(subject string) error {
	if subject == "" {
		return fmt.Errorf("empty subject")
	}
	if strings.ContainsAny(subject, ": \t\n") {
		return fmt.Errorf("subject %q contains reserved characters", subject)
	}
	return nil
}

// ValidateObject checks that an object is a "/"-rooted path with no
// empty interior segments and no trailing slash (except the root
// itself).
func ValidateObject(object string) error {
	if object == "" || object[0] != '/' {
		return fmt.Errorf("object %q must begin with /", object)
	}
	if object == "/" {
		return nil
	}
	if strings.HasSuffix(object, "/") {
		return fmt.Errorf("object %q must not end with /", object)
	}
	if strings.Contains(object, "//") {
		return fmt.Errorf("object %q contains an empty path segment", object)
	}
	if strings.ContainsAny(object, " \t\n") {
		return fmt.Errorf("object %q contains whitespace", object)
	}
	return nil
}

// compareRules orders rules for deterministic listing and
// serialization: by object, then subject, then type (allow before
// deny), then permission letters.
func compareRules(a, b Rule) int {
	if c := strings.Compare(a.Object, b.Object); c != 0 {
		return c
	}
	if c := strings.Compare(a.Subject, b.Subject); c != 0 {
		return c
	}
	if a.Type != b.Type {
		if a.Type == Allow {
			return -1
		}
		return 1
	}
	return strings.Compare(string(a.Perms), string(b.Perms))
}
