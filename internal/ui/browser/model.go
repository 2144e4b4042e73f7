// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package browser

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/directory"
	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/export"
	"github.com/jeranaias/loom/internal/history"
	"github.com/jeranaias/loom/internal/ui/components"
	"github.com/jeranaias/loom/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// ConnectFunc opens a live source for a profile. The returned closer is
// released when another source replaces it or the program exits.
type ConnectFunc func(ctx context.Context, p config.Profile) (directory.Source, io.Closer, error)

// SaveFunc persists the configuration after profile imports.
type SaveFunc func(cfg *config.Config) error

// Options wires the browser to its collaborators. Only Config and Theme
// are required.
type Options struct {
	Config  *config.Config
	Theme   *styles.Theme
	Source  directory.Source
	Closer  io.Closer
	History *history.Store
	Connect ConnectFunc
	Save    SaveFunc
	Logger  zerolog.Logger
}

// level is one step of the drill-down stack.
type level struct {
	dn      string
	entries []entry.Entry
	cursor  int
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea program model for the directory browser.
type Model struct {
	cfg        *config.Config
	theme      *styles.Theme
	exporter   *export.Exporter
	history    *history.Store
	connect    ConnectFunc
	save       SaveFunc
	logger     zerolog.Logger
	baseLogger zerolog.Logger

	source directory.Source
	closer io.Closer

	// Browser layout
	entries []entry.Entry
	cursor  int
	offset  int
	stack   []level
	loading bool
	spinner spinner.Model

	// Connections layout
	connCursor int

	// Components
	layoutBar  *components.LayoutBar
	statusBar  *components.StatusBar
	toasts     *components.ToastManager
	exportDlg  *components.ExportDialog
	profExport *components.ProfileExportDialog
	profImport *components.ProfileImportDialog
	preview    *components.Preview
	help       *components.Help
	ticking    bool

	width  int
	height int
}

// New creates the browser model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	logger := opts.Logger.With().Str("component", "ui").Logger()

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = theme.PaneTitle

	toasts := components.NewToastManager()
	m := Model{
		cfg:        cfg,
		theme:      theme,
		exporter:   export.New(export.OptionsFromConfig(cfg.Export)).WithLogger(opts.Logger),
		history:    opts.History,
		connect:    opts.Connect,
		save:       opts.Save,
		logger:     logger,
		baseLogger: opts.Logger,
		source:     opts.Source,
		closer:     opts.Closer,
		spinner:    sp,
		layoutBar:  components.NewLayoutBar(theme),
		statusBar:  components.NewStatusBar(theme, toasts),
		toasts:     toasts,
		exportDlg:  components.NewExportDialog(theme),
		profExport: components.NewProfileExportDialog(theme),
		profImport: components.NewProfileImportDialog(theme),
		preview:    components.NewPreview(theme),
		help:       components.NewHelp(theme),
		width:      80,
		height:     24,
	}
	if m.source == nil {
		m.layoutBar.Active = components.LayoutConnections
	}
	m.syncStatus()
	return m
}

// Init loads the initial source.
func (m Model) Init() tea.Cmd {
	if m.source == nil {
		return nil
	}
	return tea.Batch(loadCmd(m.source), m.spinner.Tick)
}

// Entries returns the entries currently listed.
func (m Model) Entries() []entry.Entry {
	return m.entries
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (entry.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return entry.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// Layout returns the active top-level layout.
func (m Model) Layout() components.Layout {
	return m.layoutBar.Active
}

// Config returns the configuration the browser is using.
func (m Model) Config() *config.Config {
	return m.cfg
}

// Toasts returns the active status messages, newest first.
func (m Model) Toasts() []components.Toast {
	return m.toasts.Toasts()
}

// Close releases the active connection.
func (m Model) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}

// dialogOpen reports whether a modal component owns the keyboard.
func (m Model) dialogOpen() bool {
	return m.exportDlg.Visible() || m.profExport.Visible() || m.profImport.Visible() ||
		m.preview.Visible() || m.help.Visible()
}

// syncStatus copies list state into the status bar.
func (m *Model) syncStatus() {
	m.statusBar.Count = len(m.entries)
	m.statusBar.Position = -1
	if len(m.entries) > 0 {
		m.statusBar.Position = m.cursor
	}
	m.statusBar.Loading = m.loading
	m.statusBar.Source = ""
	m.statusBar.Offline = false
	if m.source != nil {
		m.statusBar.Source = m.source.Name()
		_, live := m.source.(directory.Tree)
		m.statusBar.Offline = !live
	}
}
