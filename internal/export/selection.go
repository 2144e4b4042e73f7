// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"sort"
	"strings"

	"github.com/jeranaias/loom/internal/entry"
)

// =============================================================================
// ATTRIBUTE SELECTION
// =============================================================================

// Wildcard is the single-element selection meaning "every attribute".
const Wildcard = "*"

// Selection is an attribute selection policy. The zero value selects
// nothing (an explicit, empty list).
type Selection struct {
	wildcard bool
	names    []string // caller order, as given (duplicates kept)
}

// Select interprets an attribute list: exactly ["*"] is the wildcard, any
// other list (including a single non-"*" name or an empty list) is explicit.
func Select(attributes []string) Selection {
	if len(attributes) == 1 && attributes[0] == Wildcard {
		return Selection{wildcard: true}
	}
	return Selection{names: append([]string(nil), attributes...)}
}

// All returns the wildcard selection.
func All() Selection {
	return Selection{wildcard: true}
}

// ParseSelection parses user input such as "cn, sn mail" into a selection.
// Blank input and "*" select everything.
func ParseSelection(text string) Selection {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	if len(fields) == 0 {
		return All()
	}
	return Select(fields)
}

// Wildcard reports whether the selection keeps every attribute.
func (s Selection) Wildcard() bool {
	return s.wildcard
}

// Names returns the explicit names in caller order, or ["*"] for the
// wildcard.
func (s Selection) Names() []string {
	if s.wildcard {
		return []string{Wildcard}
	}
	return append([]string(nil), s.names...)
}

// String renders the selection the way a user would type it.
func (s Selection) String() string {
	return strings.Join(s.Names(), ", ")
}

// Filter applies the selection to one entry. The wildcard returns the entry
// unchanged; an explicit list rebuilds the attribute set from the names
// present on the entry under exactly that spelling. Missing names are
// skipped, never an error.
func (s Selection) Filter(e entry.Entry) entry.Entry {
	if s.wildcard {
		return e
	}
	attrs := make(entry.Attributes, len(s.names))
	for _, name := range s.names {
		if _, done := attrs[name]; done {
			continue
		}
		if values, ok := e.Attributes[name]; ok {
			attrs[name] = append([]string(nil), values...)
		}
	}
	return entry.New(e.DN, attrs)
}

// FilterAll applies the selection to every entry. The result has the same
// length and order as the input and is never nil.
func (s Selection) FilterAll(entries []entry.Entry) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.Filter(e))
	}
	return out
}

// Columns returns the attribute column order for tabular and line-oriented
// encoders. The wildcard yields the sorted union of names across entries;
// an explicit selection yields its literal order with repeats removed.
func (s Selection) Columns(entries []entry.Entry) []string {
	if !s.wildcard {
		seen := make(map[string]bool, len(s.names))
		cols := make([]string, 0, len(s.names))
		for _, name := range s.names {
			if seen[name] {
				continue
			}
			seen[name] = true
			cols = append(cols, name)
		}
		return cols
	}

	seen := make(map[string]bool)
	cols := []string{}
	for _, e := range entries {
		for name := range e.Attributes {
			if !seen[name] {
				seen[name] = true
				cols = append(cols, name)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
