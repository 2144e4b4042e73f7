// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/loom/internal/ui/styles"
	"github.com/jeranaias/loom/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is one key hint shown on the right of the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the browser's main key hints.
var DefaultShortcuts = []Shortcut{
	{"e", "export"},
	{"p", "preview"},
	{"tab", "layout"},
	{"?", "help"},
	{"q", "quit"},
}

// StatusBar is the bottom line: source and position on the left (or the
// newest toast), key hints on the right.
type StatusBar struct {
	Source    string
	Offline   bool
	Count     int
	Position  int // zero-based cursor, -1 when nothing is selected
	Loading   bool
	Shortcuts []Shortcut

	toasts *ToastManager
	theme  *styles.Theme
	width  int
}

// NewStatusBar creates a status bar reading toasts from m.
func NewStatusBar(theme *styles.Theme, m *ToastManager) *StatusBar {
	return &StatusBar{
		Position:  -1,
		Shortcuts: DefaultShortcuts,
		toasts:    m,
		theme:     theme,
	}
}

// SetWidth sets the render width.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// Summary is the left-hand text when no toast is active.
func (s *StatusBar) Summary() string {
	var parts []string
	if s.Source != "" {
		src := s.Source
		if s.Offline {
			src += " (offline)"
		}
		parts = append(parts, src)
	}
	switch {
	case s.Loading:
		parts = append(parts, "loading...")
	case s.Count == 1:
		parts = append(parts, "1 entry")
	default:
		parts = append(parts, fmt.Sprintf("%d entries", s.Count))
	}
	if s.Position >= 0 && s.Count > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", s.Position+1, s.Count))
	}
	return strings.Join(parts, " | ")
}

func (s *StatusBar) hints() string {
	items := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		items = append(items, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(items, "  ")
}

// View renders the status bar.
func (s *StatusBar) View() string {
	width := s.width
	if width <= 0 {
		width = 80
	}
	inner := width - 2 // StatusBar style padding

	right := s.hints()
	rightW := lipgloss.Width(right)
	leftW := inner - rightW - 2
	if leftW < inner/2 {
		right, rightW = "", 0
		leftW = inner
	}

	var left string
	if t, ok := s.toasts.Latest(); ok {
		left = RenderToast(t, leftW)
	} else {
		left = util.TruncateWidth(s.Summary(), leftW)
	}

	gap := inner - lipgloss.Width(left) - rightW
	if gap < 0 {
		gap = 0
	}
	return s.theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
