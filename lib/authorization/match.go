// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import "strings"

// Matches reports whether a rule object applies to a requested path.
// An object applies when it equals the path or is a whole-segment
// prefix of it: "/repo" matches "/repo" and "/repo/core" but not
// "/repository". The root object "/" matches every path.
func Matches(object, path string) bool {
	if object == "/" {
		return true
	}
	if object == path {
		return true
	}
	return len(path) > len(object) &&
		strings.HasPrefix(path, object) &&
		path[len(object)] == '/'
}

// Specificity is the number of path segments in a rule object. The
// root counts zero segments; "/repo/core" counts two. A more specific
// object outranks a less specific one during evaluation regardless of
// rule type.
func Specificity(object string) int {
	if object == "/" {
		return 0
	}
	return strings.Count(object, "/")
}
