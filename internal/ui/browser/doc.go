// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package browser is the loom Bubble Tea program: a two-pane directory
// browser with a connections layout, export and preview dialogs, and
// profile import/export.
//
// The model never blocks. Directory reads, connects, exports and config
// saves run as tea.Cmds and report back through messages; the result
// handlers in update.go turn them into list state and toasts.
//
// # Usage
//
//	m := browser.New(browser.Options{
//	    Config:  cfg,
//	    Source:  src,
//	    History: store,
//	    Connect: connect,
//	    Save:    config.Save,
//	    Logger:  logger,
//	})
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	_, err := p.Run()
package browser
