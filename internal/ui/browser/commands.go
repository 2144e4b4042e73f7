// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package browser

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/directory"
	"github.com/jeranaias/loom/internal/entry"
	"github.com/jeranaias/loom/internal/export"
	"github.com/jeranaias/loom/internal/history"
	"github.com/jeranaias/loom/internal/ui/components"
)

// loadTimeout bounds one directory request.
const loadTimeout = 60 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// entriesLoadedMsg carries a source's entries, or the children of parent
// when parent is set.
type entriesLoadedMsg struct {
	parent  string
	reload  bool // replace the current level instead of descending
	entries []entry.Entry
	err     error
}

// connectedMsg carries a newly opened live source.
type connectedMsg struct {
	profile config.Profile
	source  directory.Source
	closer  io.Closer
	err     error
}

// ConfigReloadedMsg is sent from outside the program when the config file
// changes on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

func loadCmd(src directory.Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		entries, err := src.Entries(ctx)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

func childrenCmd(tree directory.Tree, dn string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		entries, err := tree.Children(ctx, dn)
		return entriesLoadedMsg{parent: dn, entries: entries, err: err}
	}
}

func reloadChildrenCmd(tree directory.Tree, dn string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		entries, err := tree.Children(ctx, dn)
		return entriesLoadedMsg{parent: dn, reload: true, entries: entries, err: err}
	}
}

func connectCmd(connect ConnectFunc, p config.Profile) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), p.Timeout())
		defer cancel()
		src, closer, err := connect(ctx, p)
		return connectedMsg{profile: p, source: src, closer: closer, err: err}
	}
}

// exportCmd runs the export off the UI goroutine and records the attempt
// in the history store when one is configured.
func exportCmd(x *export.Exporter, store *history.Store, entries []entry.Entry, req components.ExportRequestMsg) tea.Cmd {
	return func() tea.Msg {
		rec, err := history.Export(context.Background(), store, x, entries, req.Path, req.Attributes)
		return components.ExportDoneMsg{Path: req.Path, Format: rec.Format, Count: rec.Count, Err: err}
	}
}

func saveCmd(save SaveFunc, cfg *config.Config, status string) tea.Cmd {
	return func() tea.Msg {
		if save != nil {
			if err := save(cfg); err != nil {
				return components.ErrorMsg{Text: "Failed to save config: " + err.Error()}
			}
		}
		return components.StatusMsg{Text: status}
	}
}
