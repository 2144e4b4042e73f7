// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/loom/internal/ui/styles"
)

// dialogWidth is the outer width of modal dialogs.
const dialogWidth = 60

// newField creates a text input styled like the rest of the dialogs.
func newField(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = dialogWidth - 10
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	return ti
}

// label renders a field label, highlighted when focused.
func label(theme *styles.Theme, text string, focused bool) string {
	if focused {
		return theme.FieldLabelFocused.Render(text)
	}
	return theme.FieldLabel.Render(text)
}

// renderDialog frames a dialog body with its title and key hint.
func renderDialog(theme *styles.Theme, title, body, hint string, width int) string {
	w := dialogWidth
	if width > 0 && width-4 < w {
		w = width - 4
	}
	if w < 30 {
		w = 30
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.DialogTitle.Render(title),
		body,
		"",
		theme.Hint.Render(hint),
	)
	return theme.Dialog.Width(w).Render(content)
}

// Place centers a dialog over a width x height area.
func Place(width, height int, dialog string) string {
	if width <= 0 || height <= 0 {
		return dialog
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}
