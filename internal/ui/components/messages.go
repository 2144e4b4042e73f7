// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/loom/internal/config"
)

// =============================================================================
// DIALOG RESULT MESSAGES
// =============================================================================

// StatusMsg asks the program to show a transient status message.
type StatusMsg struct {
	Text string
}

// ErrorMsg asks the program to show a transient error message.
type ErrorMsg struct {
	Text string
}

// CloseDialogMsg reports that the active dialog was dismissed.
type CloseDialogMsg struct{}

// ExportRequestMsg asks the program to export the current entries.
type ExportRequestMsg struct {
	Path       string
	Attributes []string
}

// ExportDoneMsg carries the outcome of an export run in a tea.Cmd.
type ExportDoneMsg struct {
	Path   string
	Format string
	Count  int
	Err    error
}

// ProfilesImportedMsg carries the profiles chosen in the import dialog.
type ProfilesImportedMsg struct {
	Profiles []config.Profile
}

// emit wraps a message in a command.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func statusCmd(text string) tea.Cmd {
	return emit(StatusMsg{Text: text})
}

func errorCmd(text string) tea.Cmd {
	return emit(ErrorMsg{Text: text})
}
