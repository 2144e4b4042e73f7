// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package browser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/ui/components"
	"github.com/jeranaias/loom/internal/ui/styles"
	"github.com/jeranaias/loom/internal/util"
)

// =============================================================================
// GEOMETRY
// =============================================================================

// bodyHeight is the space between the layout bar and the status bar.
func (m Model) bodyHeight() int {
	return max(m.height-2, 3)
}

// listRows is how many entries fit in the list pane.
func (m Model) listRows() int {
	return max(m.bodyHeight()-3, 1)
}

// clampOffset keeps the cursor inside the visible window.
func (m *Model) clampOffset() {
	rows := m.listRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(0, min(m.offset, max(len(m.entries)-rows, 0)))
}

// defaultExportPath derives "<source>-export.ldif" from the source name.
func (m Model) defaultExportPath() string {
	base := "entries"
	if m.source != nil {
		name := filepath.Base(m.source.Name())
		name = strings.TrimSuffix(name, filepath.Ext(name))
		if name != "" && name != "." {
			base = name
		}
	}
	return base + "-export.ldif"
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the whole screen.
func (m Model) View() string {
	h := m.bodyHeight()

	var body string
	switch {
	case m.help.Visible():
		body = m.help.View()
	case m.preview.Visible():
		body = m.preview.View()
	case m.exportDlg.Visible():
		body = components.Place(m.width, h, m.exportDlg.View())
	case m.profExport.Visible():
		body = components.Place(m.width, h, m.profExport.View())
	case m.profImport.Visible():
		body = components.Place(m.width, h, m.profImport.View())
	case m.layoutBar.Active == components.LayoutConnections:
		body = m.viewConnections(h)
	default:
		body = m.viewBrowser(h)
	}
	body = lipgloss.NewStyle().Height(h).MaxHeight(h).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.layoutBar.View(),
		body,
		m.statusBar.View(),
	)
}

// splitWidths divides the screen between list and detail panes. A zero
// detail width hides the detail pane.
func (m Model) splitWidths() (list, detail int) {
	if m.theme.GetLayoutMode() == styles.LayoutNarrow || m.width < 60 {
		return m.width, 0
	}
	list = m.width * 2 / 5
	return list, m.width - list
}

func (m Model) pane(title, content string, width, height int) string {
	inner := lipgloss.JoinVertical(lipgloss.Left, m.theme.PaneTitle.Render(title), content)
	return m.theme.Pane.
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		MaxHeight(height).
		Render(inner)
}

// =============================================================================
// BROWSER LAYOUT
// =============================================================================

func (m Model) viewBrowser(h int) string {
	listW, detailW := m.splitWidths()

	title := "Entries"
	if len(m.stack) > 0 {
		title = util.TruncateWidth(m.stack[len(m.stack)-1].dn, listW-6)
	}
	if m.loading {
		title += " " + m.spinner.View()
	}
	list := m.pane(title, m.renderList(listW-4), listW, h)
	if detailW == 0 {
		return list
	}

	e, ok := m.Selected()
	var detail string
	if ok {
		detail = m.pane("Entry", m.renderEntry(e, detailW-4, h-3), detailW, h)
	} else {
		detail = m.pane("Entry", m.theme.Hint.Render("No entry selected"), detailW, h)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

func (m Model) renderList(width int) string {
	if len(m.entries) == 0 {
		switch {
		case m.loading:
			return m.theme.Hint.Render("Loading...")
		case m.source == nil:
			return m.theme.Hint.Render("Not connected. Press tab to pick a connection.")
		default:
			return m.theme.Hint.Render("No entries")
		}
	}

	end := min(m.offset+m.listRows(), len(m.entries))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		text := util.TruncateWidth(entryLabel(m.entries[i]), max(width-2, 1))
		style := m.theme.ListItem
		if i == m.cursor {
			style = m.theme.ListItemSelected
		}
		lines = append(lines, style.Render(util.PadRight(text, max(width-2, 1))))
	}
	return strings.Join(lines, "\n")
}

// entryLabel is the list text for an entry: its RDN, or the full DN.
func entryLabel(e entry.Entry) string {
	if rdn := e.RDN(); rdn != "" {
		return rdn
	}
	if e.DN == "" {
		return "(root)"
	}
	return e.DN
}

// renderEntry lists the DN and each attribute value on its own line.
func (m Model) renderEntry(e entry.Entry, width, rows int) string {
	lines := []string{m.theme.DN.Render(util.TruncateWidth(e.DN, width)), ""}

	names := e.Attributes.Names()
	nameW := 0
	for _, n := range names {
		nameW = max(nameW, util.StringWidth(n))
	}
	nameW = min(nameW, width/3)

	for _, n := range names {
		for i, v := range e.Attributes[n] {
			label := ""
			if i == 0 {
				label = util.TruncateWidth(n, nameW)
			}
			value := util.TruncateWidth(strings.ReplaceAll(v, "\n", " "), max(width-nameW-2, 1))
			lines = append(lines, m.theme.AttrName.Render(util.PadRight(label, nameW))+"  "+m.theme.AttrValue.Render(value))
		}
	}
	if len(names) == 0 {
		lines = append(lines, m.theme.Hint.Render("(no attributes)"))
	}

	if rows > 0 && len(lines) > rows {
		more := len(lines) - rows + 1
		lines = append(lines[:rows-1], m.theme.Hint.Render(fmt.Sprintf("... %d more", more)))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// CONNECTIONS LAYOUT
// =============================================================================

func (m Model) viewConnections(h int) string {
	listW, detailW := m.splitWidths()

	var content string
	if len(m.cfg.Profiles) == 0 {
		content = m.theme.Hint.Render("No profiles.\nPress I to import a profile file.")
	} else {
		lines := make([]string, len(m.cfg.Profiles))
		for i, p := range m.cfg.Profiles {
			style := m.theme.ListItem
			if i == m.connCursor {
				style = m.theme.ListItemSelected
			}
			text := util.TruncateWidth(p.Label(), max(listW-6, 1))
			lines[i] = style.Render(util.PadRight(text, max(listW-6, 1)))
		}
		content = strings.Join(lines, "\n")
	}
	list := m.pane("Connections", content, listW, h)
	if detailW == 0 || len(m.cfg.Profiles) == 0 {
		return list
	}

	p := m.cfg.Profiles[m.connCursor]
	return lipgloss.JoinHorizontal(lipgloss.Top, list, m.pane("Profile", m.renderProfile(p), detailW, h))
}

func (m Model) renderProfile(p config.Profile) string {
	rows := [][2]string{
		{"name", p.Name},
		{"url", p.URL()},
		{"security", p.Security},
		{"base dn", p.BaseDN},
		{"bind dn", p.BindDN},
		{"page size", fmt.Sprint(p.PageSize)},
		{"timeout", p.Timeout().String()},
	}
	lines := make([]string, 0, len(rows)+2)
	for _, r := range rows {
		v := r[1]
		if v == "" {
			v = "-"
		}
		lines = append(lines, m.theme.AttrName.Render(util.PadRight(r[0], 10))+"  "+m.theme.AttrValue.Render(v))
	}
	lines = append(lines, "", m.theme.Hint.Render("enter: connect"))
	return strings.Join(lines, "\n")
}
