// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the mention composer.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/ui/styles"
	"github.com/jeranaias/rigrun-mentions/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status classifies the transient message shown on the left of the bar.
type Status int

const (
	StatusReady Status = iota
	StatusSaved
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusSaved:
		return "Saved"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// StatusBar shows document counters, the last status message and shortcut
// hints taken from key bindings.
type StatusBar struct {
	Width     int
	Status    Status
	Message   string
	Chars     int
	Mentions  int
	Shortcuts []key.Binding

	theme *styles.Theme
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetSnapshot updates the counters from a document snapshot.
func (s *StatusBar) SetSnapshot(snap mention.Snapshot) {
	s.Chars = len([]rune(snap.Plain))
	s.Mentions = len(snap.Mentions)
}

// SetMessage sets the status message.
func (s *StatusBar) SetMessage(status Status, msg string) {
	s.Status = status
	s.Message = msg
}

// View renders the status bar.
func (s *StatusBar) View() string {
	left := s.renderLeft()
	right := s.renderShortcuts()

	inner := s.Width - 2 // padding
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Narrow terminal: drop the hints first.
		right = ""
		gap = inner - lipgloss.Width(left)
		if gap < 0 {
			left = util.TruncateWidth(s.counters(), inner)
			gap = inner - lipgloss.Width(left)
		}
	}
	return s.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) counters() string {
	return strconv.Itoa(s.Mentions) + " mentions, " + strconv.Itoa(s.Chars) + " chars"
}

func (s *StatusBar) renderLeft() string {
	left := s.counters()
	if s.Message == "" {
		return left
	}
	msgStyle := s.theme.Success
	if s.Status == StatusError {
		msgStyle = s.theme.Error
	}
	return left + " | " + msgStyle.Render(s.Message)
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	var parts []string
	for _, b := range s.Shortcuts {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, s.theme.ShortcutKey.Render(h.Key)+" "+s.theme.ShortcutDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
