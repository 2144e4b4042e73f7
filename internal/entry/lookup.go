// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package entry

import "strings"

// =============================================================================
// CASE-INSENSITIVE LOOKUP
// =============================================================================

// Attribute sets hold at most a few dozen names, so a single linear scan is
// used instead of a folded index. If two keys differ only by case, the first
// one in canonical order (the smallest) wins.

// FindValuesCI returns the values stored under name, compared
// case-insensitively. The returned slice shares storage with attrs and must
// not be modified.
func FindValuesCI(attrs Attributes, name string) ([]string, bool) {
	best, found := "", false
	for key := range attrs {
		if strings.EqualFold(key, name) && (!found || key < best) {
			best, found = key, true
		}
	}
	if !found {
		return nil, false
	}
	return attrs[best], true
}

// GetValues returns a copy of the values stored under name, or an empty
// slice if the attribute is absent.
func GetValues(attrs Attributes, name string) []string {
	values, ok := FindValuesCI(attrs, name)
	if !ok {
		return []string{}
	}
	return append([]string{}, values...)
}

// GetFirst returns the first value stored under name.
func GetFirst(attrs Attributes, name string) (string, bool) {
	values, ok := FindValuesCI(attrs, name)
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// HasAttr reports whether an attribute named name exists.
func HasAttr(attrs Attributes, name string) bool {
	_, ok := FindValuesCI(attrs, name)
	return ok
}
