// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/loom/internal/ui/styles"
)

// HelpMarkdown is the key reference shown by the help screen.
const HelpMarkdown = `# loom

## Browser

| Key | Action |
|-----|--------|
| j / k, up / down | Move selection |
| g / G | First / last entry |
| enter, l | Expand children (live directory) |
| h, backspace | Back to parent |
| r | Reload entries |
| e | Export entries |
| p | Preview JSON export |
| P | Export connection profiles |
| I | Import connection profiles |
| tab | Switch Browser / Connections |
| ? | Toggle this help |
| q, ctrl+c | Quit |

## Connections

| Key | Action |
|-----|--------|
| j / k | Move selection |
| enter | Connect with the selected profile |

## Export formats

The file extension picks the format: ` + "`.ldif`/`.ldf`, `.json`, `.csv`, `.xlsx`/`.xls`" + `.
Attributes are comma separated; ` + "`*`" + ` exports every attribute.
Multi-valued attributes are joined with ` + "`|`" + ` in CSV and spreadsheet cells.
`

// Help renders the key reference with glamour.
type Help struct {
	visible bool
	vp      viewport.Model
	dark    bool
	wrap    int
}

// NewHelp creates a hidden help screen.
func NewHelp(theme *styles.Theme) *Help {
	return &Help{vp: viewport.New(80, 20), dark: theme.IsDark}
}

// Render returns the rendered markdown for width columns.
func (h *Help) Render(width int) string {
	style := "dark"
	if !h.dark {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 40)),
	)
	if err != nil {
		return HelpMarkdown
	}
	out, err := r.Render(HelpMarkdown)
	if err != nil {
		return HelpMarkdown
	}
	return out
}

// Toggle opens or closes the help screen.
func (h *Help) Toggle() {
	h.visible = !h.visible
	if h.visible {
		h.vp.SetContent(h.Render(h.wrap))
		h.vp.GotoTop()
	}
}

// Visible reports whether help is open.
func (h *Help) Visible() bool {
	return h.visible
}

// SetSize fits the help screen to the terminal.
func (h *Help) SetSize(width, height int) {
	h.vp.Width = width
	h.vp.Height = max(height-2, 5)
	h.wrap = min(width-4, 100)
}

// Update scrolls (g/G jump to the ends), or closes on esc/?/q.
func (h *Help) Update(msg tea.Msg) (*Help, tea.Cmd) {
	if !h.visible {
		return h, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "?", "q":
			h.visible = false
			return h, emit(CloseDialogMsg{})
		case "g", "home":
			h.vp.GotoTop()
			return h, nil
		case "G", "end":
			h.vp.GotoBottom()
			return h, nil
		}
	}
	var cmd tea.Cmd
	h.vp, cmd = h.vp.Update(msg)
	return h, cmd
}

// View renders the help screen.
func (h *Help) View() string {
	if !h.visible {
		return ""
	}
	return h.vp.View()
}
