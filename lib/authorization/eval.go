// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

// Result describes the outcome of a single-letter decision, including
// the rule that decided it. The trace supports debugging (pacsub acl
// check) and audit logging.
type Result struct {
	// Allowed is true when the top-ranked applicable rule is a grant.
	Allowed bool

	// Matched is the rule that decided the outcome. Nil when no rule
	// applied and the decision fell through to the default deny.
	Matched *Rule
}

// Reason returns a human-readable explanation for a denial.
func (r Result) Reason() string {
	if r.Allowed {
		return ""
	}
	if r.Matched == nil {
		return "no matching rule (default deny)"
	}
	return "explicit denial"
}

// Decide resolves one permission letter for a subject on a path.
//
// Evaluation:
//  1. Collect rules whose permission set contains the letter, whose
//     object matches the path ([Matches]), and whose subject is the
//     requester or the wildcard.
//  2. Rank: exact-subject rules beat wildcard rules; among those,
//     greater object specificity wins; among those, deny beats allow.
//  3. The decision is the type of the top-ranked rule. No applicable
//     rule means deny.
func (e *Engine) Decide(subject string, letter byte, path string) Result {
	var best *Rule
	for rule := range e.rules {
		if !rule.Perms.Contains(letter) {
			continue
		}
		if rule.Subject != subject && rule.Subject != Wildcard {
			continue
		}
		if !Matches(rule.Object, path) {
			continue
		}
		candidate := rule
		if best == nil || outranks(candidate, *best, subject) {
			best = &candidate
		}
	}

	if best == nil {
		return Result{Allowed: false}
	}
	return Result{Allowed: best.Type == Allow, Matched: best}
}

// outranks reports whether candidate a takes precedence over b for a
// request by the given subject. Both are known to apply to the
// request. The final compareRules step only breaks ties between rules
// of equal rank and type, keeping the reported trace deterministic
// regardless of map iteration order.
func outranks(a, b Rule, subject string) bool {
	exactA := a.Subject == subject && a.Subject != Wildcard
	exactB := b.Subject == subject && b.Subject != Wildcard
	if exactA != exactB {
		return exactA
	}

	specificityA := Specificity(a.Object)
	specificityB := Specificity(b.Object)
	if specificityA != specificityB {
		return specificityA > specificityB
	}

	if a.Type != b.Type {
		return a.Type == Deny
	}

	return compareRules(a, b) < 0
}
