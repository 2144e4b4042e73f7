// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package entry

import (
	"sort"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// =============================================================================
// ATTRIBUTES
// =============================================================================

// Attributes maps an attribute name to its ordered values.
type Attributes map[string][]string

// Names returns the attribute names in canonical (ascending) order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the attribute set.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for name, values := range a {
		out[name] = append([]string(nil), values...)
	}
	return out
}

// Len returns the total number of values across all attributes.
func (a Attributes) Len() int {
	n := 0
	for _, values := range a {
		n += len(values)
	}
	return n
}

// =============================================================================
// ENTRY
// =============================================================================

// Entry is a single directory record.
type Entry struct {
	DN         string     `json:"dn"`
	Attributes Attributes `json:"attributes"`
}

// New creates an entry. A nil attribute set is replaced by an empty one so
// the entry always serializes with an "attributes" object.
func New(dn string, attrs Attributes) Entry {
	if attrs == nil {
		attrs = Attributes{}
	}
	return Entry{DN: dn, Attributes: attrs}
}

// RDN returns the leftmost component of the DN ("cn=Test" for
// "cn=Test,dc=example,dc=com"). Escaped commas are respected.
func (e Entry) RDN() string {
	escaped := false
	for i, r := range e.DN {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			return strings.TrimSpace(e.DN[:i])
		}
	}
	return strings.TrimSpace(e.DN)
}

// FromLDAP converts a go-ldap search result entry. Values keep the order
// the server returned them in; repeated attribute names are merged.
func FromLDAP(le *ldap.Entry) Entry {
	if le == nil {
		return New("", nil)
	}
	attrs := make(Attributes, len(le.Attributes))
	for _, attr := range le.Attributes {
		if attr == nil {
			continue
		}
		values := attr.Values
		if len(values) == 0 && len(attr.ByteValues) > 0 {
			values = make([]string, 0, len(attr.ByteValues))
			for _, b := range attr.ByteValues {
				values = append(values, string(b))
			}
		}
		attrs[attr.Name] = append(attrs[attr.Name], values...)
	}
	return New(le.DN, attrs)
}

// FromLDAPAll converts a slice of go-ldap entries, preserving order.
func FromLDAPAll(les []*ldap.Entry) []Entry {
	out := make([]Entry, 0, len(les))
	for _, le := range les {
		out = append(out, FromLDAP(le))
	}
	return out
}
