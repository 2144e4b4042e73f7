// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/ui/styles"
	"github.com/jeranaias/loom/internal/util"
)

// =============================================================================
// PROFILE IMPORT DIALOG
// =============================================================================

// ImportPhase is the step the import dialog is on.
type ImportPhase int

const (
	// PhaseFilePath asks for the file to read.
	PhaseFilePath ImportPhase = iota
	// PhaseSelect lists the parsed profiles for selection.
	PhaseSelect
)

// ProfileImportDialog reads a TOML profile file and lets the user choose
// which profiles to import.
type ProfileImportDialog struct {
	visible  bool
	phase    ImportPhase
	path     textinput.Model
	parsed   []config.Profile
	list     Checklist
	readFile func(path string) ([]byte, error)

	theme *styles.Theme
	width int
}

// NewProfileImportDialog creates a hidden dialog.
func NewProfileImportDialog(theme *styles.Theme) *ProfileImportDialog {
	return &ProfileImportDialog{
		path:     newField(DefaultProfilesFile),
		readFile: os.ReadFile,
		theme:    theme,
	}
}

// Show opens the dialog at the file path step.
func (d *ProfileImportDialog) Show() tea.Cmd {
	d.phase = PhaseFilePath
	d.parsed = nil
	d.list = Checklist{}
	d.path.SetValue(DefaultProfilesFile)
	d.path.CursorEnd()
	d.visible = true
	return d.path.Focus()
}

// Hide closes the dialog.
func (d *ProfileImportDialog) Hide() {
	d.visible = false
	d.path.Blur()
}

// Visible reports whether the dialog is open.
func (d *ProfileImportDialog) Visible() bool {
	return d.visible
}

// Phase returns the current step.
func (d *ProfileImportDialog) Phase() ImportPhase {
	return d.phase
}

// SetWidth sets the available screen width.
func (d *ProfileImportDialog) SetWidth(w int) {
	d.width = w
}

// Update handles key input while visible.
func (d *ProfileImportDialog) Update(msg tea.Msg) (*ProfileImportDialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			if d.phase == PhaseSelect {
				d.phase = PhaseFilePath
				d.parsed = nil
				return d, d.path.Focus()
			}
			d.Hide()
			return d, emit(CloseDialogMsg{})
		case "enter":
			if d.phase == PhaseFilePath {
				return d, d.openFile()
			}
			return d, d.submit()
		}
		if d.phase == PhaseSelect {
			d.list.HandleKey(k.String())
			return d, nil
		}
	}

	if d.phase != PhaseFilePath {
		return d, nil
	}
	var cmd tea.Cmd
	d.path, cmd = d.path.Update(msg)
	return d, cmd
}

func (d *ProfileImportDialog) openFile() tea.Cmd {
	raw := strings.TrimSpace(d.path.Value())
	if raw == "" {
		return errorCmd("File path is required")
	}

	path := util.ExpandTilde(raw)
	data, err := d.readFile(path)
	if err != nil {
		return errorCmd(fmt.Sprintf("Failed to read %s: %v", path, err))
	}

	profiles, err := config.ImportProfiles(string(data))
	if err != nil {
		return errorCmd(err.Error())
	}

	d.parsed = profiles
	labels := make([]string, len(profiles))
	for i, p := range profiles {
		labels[i] = p.Label()
	}
	d.list = NewChecklist(labels)
	d.phase = PhaseSelect
	d.path.Blur()
	return nil
}

func (d *ProfileImportDialog) submit() tea.Cmd {
	var selected []config.Profile
	for _, i := range d.list.Selected() {
		selected = append(selected, d.parsed[i])
	}
	if len(selected) == 0 {
		return errorCmd("No profiles selected")
	}
	d.Hide()
	return emit(ProfilesImportedMsg{Profiles: selected})
}

// View renders the dialog.
func (d *ProfileImportDialog) View() string {
	if !d.visible {
		return ""
	}
	if d.phase == PhaseFilePath {
		body := lipgloss.JoinVertical(lipgloss.Left,
			label(d.theme, "File path:", true),
			d.path.View(),
		)
		return renderDialog(d.theme, "Import Profiles", body, "Enter:open file  Esc:cancel", d.width)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		label(d.theme, fmt.Sprintf("Found %d profile(s):", len(d.parsed)), true),
		d.list.View(d.theme, true),
	)
	return renderDialog(d.theme, "Import Profiles", body, "Space:toggle  a:all  Enter:import  Esc:back", d.width)
}
