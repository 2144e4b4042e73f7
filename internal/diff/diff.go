// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jeranaias/loom/internal/entry"
)

// =============================================================================
// CHANGE TYPES
// =============================================================================

// ChangeType classifies an entry-level change.
type ChangeType int

const (
	// ChangeAdded: the DN exists only in the new snapshot
	ChangeAdded ChangeType = iota
	// ChangeRemoved: the DN exists only in the old snapshot
	ChangeRemoved
	// ChangeModified: the DN exists in both with different attributes
	ChangeModified
)

// String returns the string representation of a change type.
func (t ChangeType) String() string {
	switch t {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Prefix returns the marker printed before the DN of a change.
func (t ChangeType) Prefix() string {
	switch t {
	case ChangeAdded:
		return "+"
	case ChangeRemoved:
		return "-"
	default:
		return "~"
	}
}

// LineType is the kind of one value line in a formatted diff.
type LineType int

const (
	LineContext LineType = iota
	LineAdded
	LineRemoved
)

// Prefix returns the diff prefix character for this line type.
func (t LineType) Prefix() string {
	switch t {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// Line is one attribute value in a change.
type Line struct {
	Type  LineType
	Value string
}

// AttributeChange is one attribute whose values differ. Old is nil for an
// added attribute, New is nil for a removed one.
type AttributeChange struct {
	Name string
	Old  []string
	New  []string
}

// EntryChange collects the changes to one DN.
type EntryChange struct {
	Type       ChangeType
	DN         string
	Attributes []AttributeChange // sorted by name
}

// Stats counts entries by outcome.
type Stats struct {
	Added     int
	Removed   int
	Modified  int
	Unchanged int
}

// Diff is the result of comparing two snapshots. Changes list added and
// modified entries in new-snapshot order, then removed entries in
// old-snapshot order.
type Diff struct {
	Changes []EntryChange
	Stats   Stats
}

// Empty reports whether the snapshots are equivalent.
func (d *Diff) Empty() bool {
	return len(d.Changes) == 0
}

// =============================================================================
// COMPARISON
// =============================================================================


// Compare diffs two entry collections. Neither input is modified.
func Compare(oldEntries, newEntries []entry.Entry) *Diff {
	d := &Diff{}

	// A Caser is stateful; one per call.
	fold := cases.Fold()
	dnKey := func(dn string) string {
		return fold.String(strings.TrimSpace(dn))
	}

	oldByDN := make(map[string]entry.Entry, len(oldEntries))
	for _, e := range oldEntries {
		oldByDN[dnKey(e.DN)] = e
	}
	seen := make(map[string]bool, len(newEntries))

	for _, e := range newEntries {
		key := dnKey(e.DN)
		seen[key] = true
		prev, ok := oldByDN[key]
		if !ok {
			d.Changes = append(d.Changes, EntryChange{Type: ChangeAdded, DN: e.DN, Attributes: FindChanges(nil, e.Attributes)})
			d.Stats.Added++
			continue
		}
		changes := FindChanges(prev.Attributes, e.Attributes)
		if len(changes) == 0 {
			d.Stats.Unchanged++
			continue
		}
		d.Changes = append(d.Changes, EntryChange{Type: ChangeModified, DN: e.DN, Attributes: changes})
		d.Stats.Modified++
	}

	for _, e := range oldEntries {
		if seen[dnKey(e.DN)] {
			continue
		}
		d.Changes = append(d.Changes, EntryChange{Type: ChangeRemoved, DN: e.DN, Attributes: FindChanges(e.Attributes, nil)})
		d.Stats.Removed++
	}
	return d
}

// FindChanges compares two attribute sets by exact name and returns the
// attributes whose value sequences differ, sorted by name.
func FindChanges(prev, curr entry.Attributes) []AttributeChange {
	var changes []AttributeChange

	for name, newVals := range curr {
		oldVals, exists := prev[name]
		if !exists || !slices.Equal(oldVals, newVals) {
			changes = append(changes, AttributeChange{Name: name, Old: oldVals, New: newVals})
		}
	}
	for name, oldVals := range prev {
		if _, exists := curr[name]; !exists {
			changes = append(changes, AttributeChange{Name: name, Old: oldVals})
		}
	}

	slices.SortFunc(changes, func(a, b AttributeChange) int {
		return strings.Compare(a.Name, b.Name)
	})
	return changes
}

// Lines diffs the old and new values in order.
func (c AttributeChange) Lines() []Line {
	lcs := computeLCS(c.Old, c.New)

	var out []Line
	i, j := 0, 0
	for _, common := range lcs {
		for c.Old[i] != common {
			out = append(out, Line{Type: LineRemoved, Value: c.Old[i]})
			i++
		}
		for c.New[j] != common {
			out = append(out, Line{Type: LineAdded, Value: c.New[j]})
			j++
		}
		out = append(out, Line{Type: LineContext, Value: common})
		i++
		j++
	}
	for ; i < len(c.Old); i++ {
		out = append(out, Line{Type: LineRemoved, Value: c.Old[i]})
	}
	for ; j < len(c.New); j++ {
		out = append(out, Line{Type: LineAdded, Value: c.New[j]})
	}
	return out
}

// computeLCS computes the longest common subsequence of two value lists.
func computeLCS(a, b []string) []string {
	m, n := len(a), len(b)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	lcs := make([]string, dp[m][n])
	k := len(lcs)
	for i, j := m, n; i > 0 && j > 0; {
		switch {
		case a[i-1] == b[j-1]:
			k--
			lcs[k] = a[i-1]
			i--
			j--
		case dp[i-1][j] >= dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	return lcs
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatUnified renders d in an LDIF-flavored unified format:
//
//	--- old.ldif
//	+++ new.ldif
//	~dn: cn=Alice,dc=example,dc=com
//	-mail: old@example.com
//	+mail: new@example.com
//
// Unchanged values of a modified attribute are shown as context.
func FormatUnified(d *Diff, oldName, newName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n", oldName)
	fmt.Fprintf(&sb, "+++ %s\n", newName)

	for i, c := range d.Changes {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%sdn: %s\n", c.Type.Prefix(), c.DN)
		for _, attr := range c.Attributes {
			for _, line := range attr.Lines() {
				fmt.Fprintf(&sb, "%s%s: %s\n", line.Type.Prefix(), attr.Name, line.Value)
			}
		}
	}
	return sb.String()
}

// Summary returns a human-readable summary of the diff.
func (d *Diff) Summary() string {
	if d.Empty() {
		return fmt.Sprintf("No changes (%d entries compared)", d.Stats.Unchanged)
	}
	var parts []string
	if d.Stats.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", d.Stats.Added))
	}
	if d.Stats.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", d.Stats.Removed))
	}
	if d.Stats.Modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", d.Stats.Modified))
	}
	return strings.Join(parts, ", ")
}
