// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package browser

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/directory"
	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/export"
	"github.com/jeranaias/loom/internal/ui/components"
)

// Update handles all program messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		if m.dialogOpen() {
			return m.updateDialogs(msg)
		}
		return m.handleKey(msg)

	case entriesLoadedMsg:
		return m.handleEntriesLoaded(msg)

	case connectedMsg:
		return m.handleConnected(msg)

	case components.ExportRequestMsg:
		m.logger.Debug().Str("path", msg.Path).Strs("attributes", msg.Attributes).Msg("export requested")
		return m, exportCmd(m.exporter, m.history, m.entries, msg)

	case components.ExportDoneMsg:
		return m.handleExportDone(msg)

	case components.ProfilesImportedMsg:
		return m.handleProfilesImported(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case components.StatusMsg:
		m.toasts.AddSuccess(msg.Text)
		tick := m.startTicking()
		return m, tick

	case components.ErrorMsg:
		m.toasts.AddError(msg.Text)
		tick := m.startTicking()
		return m, tick

	case components.CloseDialogMsg:
		return m, nil

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		m.ticking = false
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blinks and other component-internal messages.
	if m.dialogOpen() {
		return m.updateDialogs(msg)
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.layoutBar.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)
	m.exportDlg.SetWidth(msg.Width)
	m.profExport.SetWidth(msg.Width)
	m.profImport.SetWidth(msg.Width)
	m.preview.SetSize(msg.Width, m.bodyHeight())
	m.help.SetSize(msg.Width, m.bodyHeight())
	m.clampOffset()
	return m, nil
}

// startTicking starts the toast tick loop unless it is already running.
func (m *Model) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return components.ToastTickCmd()
}

// updateDialogs routes a message to whichever modal component is open.
func (m Model) updateDialogs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.help.Visible():
		m.help, cmd = m.help.Update(msg)
	case m.preview.Visible():
		m.preview, cmd = m.preview.Update(msg)
	case m.exportDlg.Visible():
		m.exportDlg, cmd = m.exportDlg.Update(msg)
	case m.profExport.Visible():
		m.profExport, cmd = m.profExport.Update(msg)
	case m.profImport.Visible():
		m.profImport, cmd = m.profImport.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.layoutBar.Active = m.layoutBar.Active.Next()
		return m, nil
	case "?":
		m.help.Toggle()
		return m, nil
	case "P":
		if len(m.cfg.Profiles) == 0 {
			return m.addError("No profiles configured")
		}
		m.profExport.Show(m.cfg.Profiles)
		return m, nil
	case "I":
		return m, m.profImport.Show()
	}

	if m.layoutBar.Active == components.LayoutConnections {
		return m.handleConnectionsKey(msg)
	}
	return m.handleBrowserKey(msg)
}

func (m Model) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "pgdown", "ctrl+d":
		m.moveCursor(m.listRows())
	case "pgup", "ctrl+u":
		m.moveCursor(-m.listRows())
	case "g", "home":
		m.moveCursor(-len(m.entries))
	case "G", "end":
		m.moveCursor(len(m.entries))
	case "enter", "l", "right":
		return m.expand()
	case "h", "backspace", "left":
		return m.collapse()
	case "r":
		return m.reload()
	case "e":
		if len(m.entries) == 0 {
			return m.addError("Nothing to export")
		}
		return m, m.exportDlg.Show(len(m.entries), m.defaultExportPath(), m.cfg.Export.DefaultAttributes)
	case "p":
		e, ok := m.Selected()
		if !ok {
			return m.addError("No entry selected")
		}
		if err := m.preview.Show([]entry.Entry{e}, m.cfg.Export.DefaultAttributes); err != nil {
			return m.addError(err.Error())
		}
	}
	return m, nil
}

func (m Model) handleConnectionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.connCursor+1 < len(m.cfg.Profiles) {
			m.connCursor++
		}
	case "k", "up":
		if m.connCursor > 0 {
			m.connCursor--
		}
	case "enter":
		if m.connCursor >= len(m.cfg.Profiles) {
			return m, nil
		}
		if m.connect == nil {
			return m.addError("Live connections are not available in this mode")
		}
		p := m.cfg.Profiles[m.connCursor]
		m.loading = true
		m.syncStatus()
		m.toasts.AddStatus("Connecting to " + p.Label())
		tick := m.startTicking()
		return m, tea.Batch(connectCmd(m.connect, p), m.spinner.Tick, tick)
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.entries)-1, m.cursor+delta))
	m.clampOffset()
	m.syncStatus()
}

func (m Model) expand() (tea.Model, tea.Cmd) {
	tree, ok := m.source.(directory.Tree)
	if !ok {
		return m, nil
	}
	e, ok := m.Selected()
	if !ok {
		return m, nil
	}
	m.loading = true
	m.syncStatus()
	return m, tea.Batch(childrenCmd(tree, e.DN), m.spinner.Tick)
}

func (m Model) collapse() (tea.Model, tea.Cmd) {
	if len(m.stack) == 0 {
		return m, nil
	}
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	m.entries = top.entries
	m.cursor = top.cursor
	m.clampOffset()
	m.syncStatus()
	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	if m.source == nil {
		return m, nil
	}
	m.loading = true
	m.syncStatus()
	if len(m.stack) > 0 {
		if tree, ok := m.source.(directory.Tree); ok {
			parent := m.stack[len(m.stack)-1].dn
			return m, tea.Batch(reloadChildrenCmd(tree, parent), m.spinner.Tick)
		}
	}
	return m, tea.Batch(loadCmd(m.source), m.spinner.Tick)
}

func (m Model) addError(text string) (tea.Model, tea.Cmd) {
	m.toasts.AddError(text)
	tick := m.startTicking()
	return m, tick
}

// =============================================================================
// RESULT HANDLERS
// =============================================================================

func (m Model) handleEntriesLoaded(msg entriesLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.syncStatus()
		m.logger.Error().Err(msg.err).Str("parent", msg.parent).Msg("failed to load entries")
		return m.addError("Failed to load entries: " + msg.err.Error())
	}

	switch {
	case msg.reload:
		// Same level, fresh contents.
	case msg.parent != "":
		if len(msg.entries) == 0 {
			m.syncStatus()
			m.toasts.AddStatus("No children under " + msg.parent)
			tick := m.startTicking()
			return m, tick
		}
		m.stack = append(m.stack, level{dn: msg.parent, entries: m.entries, cursor: m.cursor})
	default:
		m.stack = nil
	}

	m.entries = msg.entries
	m.cursor, m.offset = 0, 0
	m.syncStatus()
	m.logger.Debug().Int("count", len(msg.entries)).Str("parent", msg.parent).Msg("entries loaded")
	return m, nil
}

func (m Model) handleConnected(msg connectedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.loading = false
		m.syncStatus()
		m.logger.Error().Err(msg.err).Str("profile", msg.profile.Name).Msg("connect failed")
		return m.addError(fmt.Sprintf("Failed to connect to %s: %v", msg.profile.Name, msg.err))
	}
	if m.closer != nil {
		if err := m.closer.Close(); err != nil {
			m.logger.Warn().Err(err).Msg("failed to close previous connection")
		}
	}
	m.source, m.closer = msg.source, msg.closer
	m.entries, m.stack = nil, nil
	m.cursor, m.offset = 0, 0
	m.layoutBar.Active = components.LayoutBrowser
	m.loading = true
	m.syncStatus()
	m.toasts.AddSuccess("Connected to " + msg.profile.Label())
	tick := m.startTicking()
	return m, tea.Batch(loadCmd(m.source), tick)
}

func (m Model) handleExportDone(msg components.ExportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Error().Err(msg.Err).Str("path", msg.Path).Msg("export failed")
		text := "Export failed: " + msg.Err.Error()
		var xerr *export.Error
		if errors.As(msg.Err, &xerr) && xerr.Retryable() {
			text += " (check the path and try again)"
		}
		return m.addError(text)
	}
	noun := "entries"
	if msg.Count == 1 {
		noun = "entry"
	}
	m.toasts.AddSuccess(fmt.Sprintf("Exported %d %s to %s", msg.Count, noun, msg.Path))
	tick := m.startTicking()
	return m, tick
}

func (m Model) handleProfilesImported(msg components.ProfilesImportedMsg) (tea.Model, tea.Cmd) {
	cfg := m.cfg.Clone()
	merged, added, replaced := config.MergeProfiles(cfg.Profiles, msg.Profiles)
	cfg.Profiles = merged
	m.cfg = cfg
	m.connCursor = min(m.connCursor, max(len(merged)-1, 0))
	status := fmt.Sprintf("Imported %d profile(s) (%d new, %d replaced)", len(msg.Profiles), added, replaced)
	return m, saveCmd(m.save, cfg, status)
}

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Config == nil {
		return m, nil
	}
	m.cfg = msg.Config
	m.exporter = export.New(export.OptionsFromConfig(msg.Config.Export)).WithLogger(m.baseLogger)
	m.connCursor = min(m.connCursor, max(len(m.cfg.Profiles)-1, 0))
	m.toasts.AddStatus("Configuration reloaded")
	tick := m.startTicking()
	return m, tick
}
