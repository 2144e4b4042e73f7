// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the loom browser.

All colors use Lip Gloss AdaptiveColor so one palette serves light and dark
terminals. The Theme picks which side applies.

# Color System (colors.go)

  - Purple - Active tab, dialog borders
  - Cyan - Distinguished names, shortcut keys
  - Emerald - Success messages
  - Amber - Warnings, offline snapshots
  - Rose - Errors

Status messages always carry an ASCII indicator ([OK], [X], [!], [i]) so
meaning never depends on color alone.

# Theme System (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme) // "auto", "dark" or "light"
	theme.Apply()
	title := theme.PaneTitle.Render("Entries")

In auto mode termenv queries the terminal background.
*/
package styles
