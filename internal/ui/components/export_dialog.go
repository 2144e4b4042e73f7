// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/loom/internal/export"
	"github.com/jeranaias/loom/internal/ui/styles"
	"github.com/jeranaias/loom/internal/util"
)

// =============================================================================
// ENTRY EXPORT DIALOG
// =============================================================================

type exportField int

const (
	exportFieldPath exportField = iota
	exportFieldAttrs
)

// ExportDialog collects a target path and an attribute selection for the
// current entries.
type ExportDialog struct {
	visible bool
	focus   exportField
	path    textinput.Model
	attrs   textinput.Model
	count   int

	theme *styles.Theme
	width int
}

// NewExportDialog creates a hidden dialog.
func NewExportDialog(theme *styles.Theme) *ExportDialog {
	return &ExportDialog{
		path:  newField("entries.ldif"),
		attrs: newField("* (all attributes)"),
		theme: theme,
	}
}

// Show opens the dialog for count entries with the given defaults.
func (d *ExportDialog) Show(count int, defaultPath string, defaultAttrs []string) tea.Cmd {
	d.visible = true
	d.count = count
	d.path.SetValue(defaultPath)
	d.path.CursorEnd()
	if len(defaultAttrs) == 0 {
		defaultAttrs = []string{export.Wildcard}
	}
	d.attrs.SetValue(export.Select(defaultAttrs).String())
	d.attrs.CursorEnd()
	return d.setFocus(exportFieldPath)
}

// Hide closes the dialog.
func (d *ExportDialog) Hide() {
	d.visible = false
	d.path.Blur()
	d.attrs.Blur()
}

// Visible reports whether the dialog is open.
func (d *ExportDialog) Visible() bool {
	return d.visible
}

// SetWidth sets the available screen width.
func (d *ExportDialog) SetWidth(w int) {
	d.width = w
}

func (d *ExportDialog) setFocus(f exportField) tea.Cmd {
	d.focus = f
	if f == exportFieldPath {
		d.attrs.Blur()
		return d.path.Focus()
	}
	d.path.Blur()
	return d.attrs.Focus()
}

// Update handles key input while visible.
func (d *ExportDialog) Update(msg tea.Msg) (*ExportDialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			d.Hide()
			return d, emit(CloseDialogMsg{})
		case "tab", "shift+tab":
			if d.focus == exportFieldPath {
				return d, d.setFocus(exportFieldAttrs)
			}
			return d, d.setFocus(exportFieldPath)
		case "enter":
			return d, d.submit()
		}
	}

	var cmd tea.Cmd
	if d.focus == exportFieldPath {
		d.path, cmd = d.path.Update(msg)
	} else {
		d.attrs, cmd = d.attrs.Update(msg)
	}
	return d, cmd
}

func (d *ExportDialog) submit() tea.Cmd {
	path := strings.TrimSpace(d.path.Value())
	if path == "" {
		return errorCmd("File path is required")
	}
	sel := export.ParseSelection(d.attrs.Value())
	d.Hide()
	return emit(ExportRequestMsg{
		Path:       util.ExpandTilde(path),
		Attributes: sel.Names(),
	})
}

// formatHint describes what the current path will produce.
func (d *ExportDialog) formatHint() string {
	path := strings.TrimSpace(d.path.Value())
	if path == "" {
		return "Format: choose .ldif, .json, .csv or .xlsx"
	}
	f, err := export.FormatFromPath(path)
	if err != nil {
		return "Format: unknown extension"
	}
	return "Format: " + f.String()
}

// View renders the dialog.
func (d *ExportDialog) View() string {
	if !d.visible {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		d.theme.Hint.Render(pluralEntries(d.count)),
		"",
		label(d.theme, "File path:", d.focus == exportFieldPath),
		d.path.View(),
		d.theme.Hint.Render(d.formatHint()),
		"",
		label(d.theme, "Attributes (comma separated, * for all):", d.focus == exportFieldAttrs),
		d.attrs.View(),
	)
	return renderDialog(d.theme, "Export Entries", body, "Tab:switch field  Enter:export  Esc:cancel", d.width)
}

func pluralEntries(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}
