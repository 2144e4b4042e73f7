// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestLayoutBar_Text(t *testing.T) {
	b := NewLayoutBar(testTheme)
	if got, want := b.Text(), " [Browser]   Connections "; got != want {
		t.Errorf("browser active: got %q, want %q", got, want)
	}

	b.Active = b.Active.Next()
	if got, want := b.Text(), "  Browser   [Connections]"; got != want {
		t.Errorf("connections active: got %q, want %q", got, want)
	}
	if b.Active.Next() != LayoutBrowser {
		t.Error("Next should cycle back to the browser")
	}
}

func TestLayoutBar_ViewWidth(t *testing.T) {
	b := NewLayoutBar(testTheme)
	b.SetWidth(50)
	v := b.View()
	if lipgloss.Width(v) != 50 {
		t.Errorf("width = %d, want 50", lipgloss.Width(v))
	}
	if !strings.Contains(v, "[Browser]") {
		t.Errorf("view %q missing active tab", v)
	}
}

func TestStatusBar_Summary(t *testing.T) {
	s := NewStatusBar(testTheme, NewToastManager())
	s.Source = "corp"
	s.Count = 12
	s.Position = 2
	if got, want := s.Summary(), "corp | 12 entries | 3/12"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	s.Offline = true
	s.Count = 1
	s.Position = -1
	if got, want := s.Summary(), "corp (offline) | 1 entry"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	s.Loading = true
	if got := s.Summary(); !strings.Contains(got, "loading") {
		t.Errorf("got %q, want loading", got)
	}
}

func TestStatusBar_ShowsLatestToast(t *testing.T) {
	m := NewToastManager()
	s := NewStatusBar(testTheme, m)
	s.SetWidth(120)
	s.Source = "corp"

	if v := s.View(); !strings.Contains(v, "corp") || !strings.Contains(v, "quit") {
		t.Errorf("view %q should show summary and hints", v)
	}

	m.AddSuccess("Exported 3 entries to out.csv")
	v := s.View()
	if !strings.Contains(v, "[OK] Exported 3 entries to out.csv") {
		t.Errorf("view %q should show the toast", v)
	}
	if lipgloss.Width(v) != 120 {
		t.Errorf("width = %d, want 120", lipgloss.Width(v))
	}
}

func TestStatusBar_NarrowDropsHints(t *testing.T) {
	s := NewStatusBar(testTheme, NewToastManager())
	s.SetWidth(40)
	s.Source = "corp"
	if v := s.View(); strings.Contains(v, "quit") {
		t.Errorf("narrow view %q should drop key hints", v)
	}
}
