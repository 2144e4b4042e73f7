// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/loom/internal/ui/styles"
)

// Layout is a top-level screen.
type Layout int

const (
	LayoutBrowser Layout = iota
	LayoutConnections
)

// String returns the tab label.
func (l Layout) String() string {
	if l == LayoutConnections {
		return "Connections"
	}
	return "Browser"
}

// Next cycles to the other layout.
func (l Layout) Next() Layout {
	if l == LayoutBrowser {
		return LayoutConnections
	}
	return LayoutBrowser
}

// LayoutBar is the top line: [Browser]  Connections, with the active tab
// bracketed.
type LayoutBar struct {
	Active Layout

	theme *styles.Theme
	width int
}

// NewLayoutBar creates a bar with the browser active.
func NewLayoutBar(theme *styles.Theme) *LayoutBar {
	return &LayoutBar{Active: LayoutBrowser, theme: theme}
}

// SetWidth sets the render width.
func (b *LayoutBar) SetWidth(w int) {
	b.width = w
}

// Text is the unstyled bar content.
func (b *LayoutBar) Text() string {
	return " " + tabLabel(LayoutBrowser, b.Active) + "  " + tabLabel(LayoutConnections, b.Active)
}

func tabLabel(l, active Layout) string {
	if l == active {
		return "[" + l.String() + "]"
	}
	return " " + l.String() + " "
}

// View renders the bar padded to the full width.
func (b *LayoutBar) View() string {
	out := " "
	for i, l := range []Layout{LayoutBrowser, LayoutConnections} {
		if i > 0 {
			out += "  "
		}
		style := b.theme.Tab
		if l == b.Active {
			style = b.theme.TabActive
		}
		out += style.Render(tabLabel(l, b.Active))
	}
	bar := b.theme.StatusBar.Padding(0)
	if b.width > 0 {
		bar = bar.Width(b.width)
	}
	return bar.Render(out)
}
