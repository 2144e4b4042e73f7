// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted in the [ui] config section.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	Mode         string
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// LAYOUT STYLES
	// ==========================================================================

	App       lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Pane      lipgloss.Style
	PaneTitle lipgloss.Style

	// ==========================================================================
	// ENTRY LIST AND DETAIL STYLES
	// ==========================================================================

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	DN               lipgloss.Style
	AttrName         lipgloss.Style
	AttrValue        lipgloss.Style

	// ==========================================================================
	// DIALOG STYLES
	// ==========================================================================

	Dialog            lipgloss.Style
	DialogTitle       lipgloss.Style
	FieldLabel        lipgloss.Style
	FieldLabelFocused lipgloss.Style
	Hint              lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	SuccessText  lipgloss.Style
	ErrorText    lipgloss.Style
	InfoText     lipgloss.Style
}

// NewTheme creates a theme for mode (auto, dark or light). Unknown modes
// behave like auto, which asks the terminal for its background.
func NewTheme(mode string) *Theme {
	mode = strings.ToLower(strings.TrimSpace(mode))
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		mode = ModeAuto
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// Apply makes lipgloss resolve AdaptiveColor values for this theme's
// background. Call once before the program starts rendering.
func (t *Theme) Apply() {
	lipgloss.SetHasDarkBackground(t.IsDark)
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	// Layout
	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.TabActive = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PaneTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Entries
	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.ListItemSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary).
		Bold(true).
		Padding(0, 1)

	t.DN = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.AttrName = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.AttrValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Dialogs
	t.Dialog = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.DialogTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true).
		MarginBottom(1)

	t.FieldLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FieldLabelFocused = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SuccessText = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.InfoText = lipgloss.NewStyle().
		Foreground(Cyan)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, detail pane hidden
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
