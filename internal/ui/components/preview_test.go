// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/loom/internal/entry"
)

func TestPreview_ShowsJSONExport(t *testing.T) {
	p := NewPreview(testTheme)
	p.SetSize(100, 30)
	entries := []entry.Entry{
		entry.New("cn=Test,dc=example,dc=com", entry.Attributes{"cn": {"Test"}, "sn": {"User"}}),
	}

	require.NoError(t, p.Show(entries, []string{"sn"}))
	assert.True(t, p.Visible())
	assert.Contains(t, p.Raw(), `"dn": "cn=Test,dc=example,dc=com"`)
	assert.Contains(t, p.Raw(), `"sn"`)
	assert.NotContains(t, p.Raw(), `"cn": [`)
	assert.Contains(t, p.View(), "Preview: 1 entry (JSON)")

	_, cmd := p.Update(key("esc"))
	assert.Equal(t, CloseDialogMsg{}, run(cmd))
	assert.False(t, p.Visible())
}

func TestPreview_EncodingError(t *testing.T) {
	p := NewPreview(testTheme)
	bad := []entry.Entry{entry.New("cn=x", entry.Attributes{"cn": {"\xff"}})}
	assert.Error(t, p.Show(bad, []string{"*"}))
	assert.False(t, p.Visible())
}

func TestHighlightJSON_KeepsText(t *testing.T) {
	out := highlightJSON(`{"a": [1]}`, true)
	for _, part := range []string{`"a"`, "1"} {
		assert.True(t, strings.Contains(out, part), "missing %s in %q", part, out)
	}
}

func TestHelp_ToggleAndRender(t *testing.T) {
	h := NewHelp(testTheme)
	h.SetSize(100, 40)
	assert.False(t, h.Visible())

	h.Toggle()
	require.True(t, h.Visible())
	assert.Contains(t, h.View(), "Connections")

	h.SetSize(100, 12)
	h.Toggle()
	h.Toggle()
	assert.NotContains(t, h.View(), "Export formats")
	h, _ = h.Update(key("G"))
	assert.Contains(t, h.View(), "Export formats")
	h, _ = h.Update(key("g"))
	assert.NotContains(t, h.View(), "Export formats")

	_, cmd := h.Update(key("?"))
	assert.Equal(t, CloseDialogMsg{}, run(cmd))
	assert.False(t, h.Visible())
	assert.Empty(t, h.View())
}
