// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/export"
	"github.com/jeranaias/loom/internal/ui/styles"
)

// =============================================================================
// EXPORT PREVIEW
// =============================================================================

// Preview shows the JSON export of the selected entries in a scrollable,
// syntax-highlighted viewport.
type Preview struct {
	visible bool
	title   string
	raw     string
	vp      viewport.Model

	theme  *styles.Theme
	width  int
	height int
}

// NewPreview creates a hidden preview.
func NewPreview(theme *styles.Theme) *Preview {
	return &Preview{vp: viewport.New(80, 20), theme: theme}
}

// Show renders entries with the attribute selection and opens the preview.
func (p *Preview) Show(entries []entry.Entry, attributes []string) error {
	text, err := export.ToString(entries, attributes)
	if err != nil {
		return err
	}
	p.title = fmt.Sprintf("Preview: %s (JSON)", pluralEntries(len(entries)))
	p.raw = text
	p.vp.SetContent(highlightJSON(text, p.theme.IsDark))
	p.vp.GotoTop()
	p.visible = true
	return nil
}

// Raw returns the unhighlighted payload.
func (p *Preview) Raw() string {
	return p.raw
}

// Hide closes the preview.
func (p *Preview) Hide() {
	p.visible = false
}

// Visible reports whether the preview is open.
func (p *Preview) Visible() bool {
	return p.visible
}

// SetSize fits the viewport inside a width x height area.
func (p *Preview) SetSize(width, height int) {
	p.width, p.height = width, height
	p.vp.Width = max(width-6, 20)
	p.vp.Height = max(height-6, 5)
}

// Update scrolls, or closes on esc/q.
func (p *Preview) Update(msg tea.Msg) (*Preview, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "q", "p":
			p.Hide()
			return p, emit(CloseDialogMsg{})
		}
	}
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return p, cmd
}

// View renders the preview pane.
func (p *Preview) View() string {
	if !p.visible {
		return ""
	}
	footer := fmt.Sprintf("%3.f%%  j/k:scroll  Esc:close", p.vp.ScrollPercent()*100)
	content := lipgloss.JoinVertical(lipgloss.Left,
		p.theme.PaneTitle.Render(p.title),
		p.vp.View(),
		p.theme.Hint.Render(footer),
	)
	return p.theme.Pane.Render(content)
}

// highlightJSON applies terminal syntax highlighting, falling back to the
// plain text on any error.
func highlightJSON(code string, dark bool) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	name := "monokai"
	if !dark {
		name = "github"
	}
	style := chromaStyles.Get(name)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
