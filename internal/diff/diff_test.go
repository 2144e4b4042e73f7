// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/loom/internal/entry"
)

func alice(mail ...string) entry.Entry {
	return entry.New("cn=Alice,dc=example,dc=com", entry.Attributes{
		"cn":   {"Alice"},
		"mail": mail,
	})
}

func TestCompare_Identical(t *testing.T) {
	e := []entry.Entry{alice("a@example.com")}
	d := Compare(e, e)

	assert.True(t, d.Empty())
	assert.Equal(t, Stats{Unchanged: 1}, d.Stats)
	assert.Equal(t, "No changes (1 entries compared)", d.Summary())
}

func TestCompare_AddedRemovedModified(t *testing.T) {
	bob := entry.New("cn=Bob,dc=example,dc=com", entry.Attributes{"cn": {"Bob"}})
	carol := entry.New("cn=Carol,dc=example,dc=com", entry.Attributes{"cn": {"Carol"}})

	oldEntries := []entry.Entry{alice("a@example.com"), bob}
	newEntries := []entry.Entry{carol, alice("alice@example.com")}
	d := Compare(oldEntries, newEntries)

	require.Len(t, d.Changes, 3)
	assert.Equal(t, Stats{Added: 1, Removed: 1, Modified: 1}, d.Stats)

	assert.Equal(t, ChangeAdded, d.Changes[0].Type)
	assert.Equal(t, carol.DN, d.Changes[0].DN)
	assert.Equal(t, []AttributeChange{{Name: "cn", New: []string{"Carol"}}}, d.Changes[0].Attributes)

	assert.Equal(t, ChangeModified, d.Changes[1].Type)
	assert.Equal(t, []AttributeChange{{
		Name: "mail", Old: []string{"a@example.com"}, New: []string{"alice@example.com"},
	}}, d.Changes[1].Attributes)

	assert.Equal(t, ChangeRemoved, d.Changes[2].Type)
	assert.Equal(t, bob.DN, d.Changes[2].DN)
	assert.Equal(t, "1 added, 1 removed, 1 modified", d.Summary())
}

func TestCompare_DNCaseInsensitive(t *testing.T) {
	lower := entry.New("cn=alice,dc=example,dc=com", entry.Attributes{"cn": {"Alice"}})
	upper := entry.New("CN=Alice,DC=example,DC=com", entry.Attributes{"cn": {"Alice"}})

	d := Compare([]entry.Entry{lower}, []entry.Entry{upper})
	assert.True(t, d.Empty())

	sharp := entry.New("cn=Straße,dc=example", entry.Attributes{"cn": {"x"}})
	caps := entry.New("CN=STRASSE,DC=EXAMPLE", entry.Attributes{"cn": {"x"}})
	assert.True(t, Compare([]entry.Entry{sharp}, []entry.Entry{caps}).Empty(), "full Unicode case folding")
}

func TestFindChanges(t *testing.T) {
	prev := entry.Attributes{"cn": {"Alice"}, "sn": {"Smith"}, "mail": {"a", "b"}}
	curr := entry.Attributes{"cn": {"Alice"}, "mail": {"b", "a"}, "title": {"Engineer"}}

	got := FindChanges(prev, curr)
	assert.Equal(t, []AttributeChange{
		{Name: "mail", Old: []string{"a", "b"}, New: []string{"b", "a"}},
		{Name: "sn", Old: []string{"Smith"}},
		{Name: "title", New: []string{"Engineer"}},
	}, got, "sorted by name, value order matters")

	assert.Empty(t, FindChanges(prev, prev))
	assert.Empty(t, FindChanges(nil, nil))
}

func TestAttributeChange_Lines(t *testing.T) {
	tests := []struct {
		name string
		old  []string
		new  []string
		want []Line
	}{
		{
			name: "append",
			old:  []string{"a"},
			new:  []string{"a", "b"},
			want: []Line{{LineContext, "a"}, {LineAdded, "b"}},
		},
		{
			name: "replace middle",
			old:  []string{"a", "b", "c"},
			new:  []string{"a", "x", "c"},
			want: []Line{{LineContext, "a"}, {LineRemoved, "b"}, {LineAdded, "x"}, {LineContext, "c"}},
		},
		{
			name: "removed attribute",
			old:  []string{"a", "b"},
			want: []Line{{LineRemoved, "a"}, {LineRemoved, "b"}},
		},
		{
			name: "added attribute",
			new:  []string{"a"},
			want: []Line{{LineAdded, "a"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := AttributeChange{Name: "x", Old: tt.old, New: tt.new}
			assert.Equal(t, tt.want, c.Lines())
		})
	}
}

func TestComputeLCS(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, computeLCS([]string{"a", "b", "c"}, []string{"a", "c", "d"}))
	assert.Empty(t, computeLCS(nil, []string{"a"}))
}

func TestFormatUnified(t *testing.T) {
	oldEntries := []entry.Entry{alice("a@example.com", "alice@example.com")}
	newEntries := []entry.Entry{alice("alice@example.com")}

	got := FormatUnified(Compare(oldEntries, newEntries), "before.ldif", "after.ldif")
	want := "--- before.ldif\n" +
		"+++ after.ldif\n" +
		"~dn: cn=Alice,dc=example,dc=com\n" +
		"-mail: a@example.com\n" +
		" mail: alice@example.com\n"
	assert.Equal(t, want, got)
}

func TestChangeType(t *testing.T) {
	assert.Equal(t, "added", ChangeAdded.String())
	assert.Equal(t, "removed", ChangeRemoved.String())
	assert.Equal(t, "modified", ChangeModified.String())
	assert.Equal(t, "unknown", ChangeType(9).String())
	assert.Equal(t, "+", ChangeAdded.Prefix())
	assert.Equal(t, "-", ChangeRemoved.Prefix())
	assert.Equal(t, "~", ChangeModified.Prefix())
}
