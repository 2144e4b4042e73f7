// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/loom/internal/ui/styles"
)

// Checklist is a cursor-driven list of checkboxes, all checked initially.
type Checklist struct {
	labels  []string
	checked []bool
	cursor  int
}

// NewChecklist creates a list with every item checked.
func NewChecklist(labels []string) Checklist {
	checked := make([]bool, len(labels))
	for i := range checked {
		checked[i] = true
	}
	return Checklist{labels: append([]string(nil), labels...), checked: checked}
}

// HandleKey applies list navigation and toggling. It reports whether the
// key was consumed.
func (c *Checklist) HandleKey(key string) bool {
	switch key {
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor+1 < len(c.labels) {
			c.cursor++
		}
	case " ":
		if c.cursor < len(c.checked) {
			c.checked[c.cursor] = !c.checked[c.cursor]
		}
	case "a":
		c.ToggleAll()
	default:
		return false
	}
	return true
}

// ToggleAll checks everything, or unchecks everything when all are checked.
func (c *Checklist) ToggleAll() {
	all := true
	for _, v := range c.checked {
		all = all && v
	}
	for i := range c.checked {
		c.checked[i] = !all
	}
}

// Cursor returns the highlighted index.
func (c *Checklist) Cursor() int {
	return c.cursor
}

// Len returns the number of items.
func (c *Checklist) Len() int {
	return len(c.labels)
}

// Selected returns the indexes of checked items in list order.
func (c *Checklist) Selected() []int {
	var out []int
	for i, v := range c.checked {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// View renders the list. The cursor row is marked only when active.
func (c *Checklist) View(theme *styles.Theme, active bool) string {
	if len(c.labels) == 0 {
		return theme.Hint.Render("  (none)")
	}
	lines := make([]string, len(c.labels))
	for i, label := range c.labels {
		prefix := "  "
		style := theme.ListItem.Padding(0)
		if active && i == c.cursor {
			prefix = "> "
			style = theme.ListItemSelected.Padding(0)
		} else if !c.checked[i] {
			style = theme.Hint
		}
		lines[i] = style.Render(prefix + styles.Checkbox(c.checked[i]) + " " + label)
	}
	return strings.Join(lines, "\n")
}
