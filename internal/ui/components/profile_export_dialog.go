// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/ui/styles"
	"github.com/jeranaias/loom/internal/util"
)

// =============================================================================
// PROFILE EXPORT DIALOG
// =============================================================================

// DefaultProfilesFile is the filename offered by both profile dialogs.
const DefaultProfilesFile = "profiles.toml"

// ProfileExportDialog writes a chosen subset of connection profiles to a
// TOML file.
type ProfileExportDialog struct {
	visible   bool
	onList    bool
	profiles  []config.Profile
	list      Checklist
	filename  textinput.Model
	writeFile func(path string, data []byte) error

	theme *styles.Theme
	width int
}

// NewProfileExportDialog creates a hidden dialog.
func NewProfileExportDialog(theme *styles.Theme) *ProfileExportDialog {
	return &ProfileExportDialog{
		filename: newField(DefaultProfilesFile),
		writeFile: func(path string, data []byte) error {
			return util.AtomicWriteFile(path, data, 0600)
		},
		theme: theme,
	}
}

// Show opens the dialog with every profile selected.
func (d *ProfileExportDialog) Show(profiles []config.Profile) {
	d.profiles = append([]config.Profile(nil), profiles...)
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	d.list = NewChecklist(names)
	d.filename.SetValue(DefaultProfilesFile)
	d.filename.CursorEnd()
	d.filename.Blur()
	d.onList = true
	d.visible = true
}

// Hide closes the dialog.
func (d *ProfileExportDialog) Hide() {
	d.visible = false
	d.filename.Blur()
}

// Visible reports whether the dialog is open.
func (d *ProfileExportDialog) Visible() bool {
	return d.visible
}

// SetWidth sets the available screen width.
func (d *ProfileExportDialog) SetWidth(w int) {
	d.width = w
}

// Update handles key input while visible.
func (d *ProfileExportDialog) Update(msg tea.Msg) (*ProfileExportDialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}

	k, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch k.String() {
		case "esc":
			d.Hide()
			return d, emit(CloseDialogMsg{})
		case "tab", "shift+tab":
			d.onList = !d.onList
			if d.onList {
				d.filename.Blur()
				return d, nil
			}
			return d, d.filename.Focus()
		case "enter":
			return d, d.submit()
		}
		if d.onList {
			d.list.HandleKey(k.String())
			return d, nil
		}
	}

	if d.onList {
		return d, nil
	}
	var cmd tea.Cmd
	d.filename, cmd = d.filename.Update(msg)
	return d, cmd
}

func (d *ProfileExportDialog) submit() tea.Cmd {
	name := strings.TrimSpace(d.filename.Value())
	if name == "" {
		return errorCmd("Filename is required")
	}

	var selected []config.Profile
	for _, i := range d.list.Selected() {
		selected = append(selected, d.profiles[i])
	}
	if len(selected) == 0 {
		return errorCmd("No profiles selected")
	}

	content, err := config.ExportProfiles(selected)
	if err != nil {
		d.Hide()
		return errorCmd(err.Error())
	}

	path := util.ExpandTilde(name)
	if err := d.writeFile(path, []byte(content)); err != nil {
		d.Hide()
		return errorCmd(fmt.Sprintf("Failed to write %s: %v", path, err))
	}

	d.Hide()
	return statusCmd(fmt.Sprintf("Exported %d profile(s) to %s", len(selected), path))
}

// View renders the dialog.
func (d *ProfileExportDialog) View() string {
	if !d.visible {
		return ""
	}
	hint := "Space:toggle  a:all  Tab:filename  Enter:export  Esc:cancel"
	if !d.onList {
		hint = "Tab:profiles  Enter:export  Esc:cancel"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		label(d.theme, "Profiles:", d.onList),
		d.list.View(d.theme, d.onList),
		"",
		label(d.theme, "Filename:", !d.onList),
		d.filename.View(),
	)
	return renderDialog(d.theme, "Export Profiles", body, hint, d.width)
}
