// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the mention composer.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-mentions/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the one-line application header: title, the configured trigger
// characters and a disabled badge.
type Header struct {
	Title    string
	Triggers []string
	Disabled bool
	DraftID  string
	Width    int

	theme *styles.Theme
}

// NewHeader creates a new header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "rigrun mentions",
		Width: 80,
		theme: theme,
	}
}

// View renders the header.
func (h *Header) View() string {
	parts := []string{h.Title}
	if len(h.Triggers) > 0 {
		parts = append(parts, "triggers "+strings.Join(h.Triggers, " "))
	}
	if h.DraftID != "" {
		id := h.DraftID
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, "draft "+id)
	}
	line := strings.Join(parts, " | ")

	if h.Disabled {
		badge := lipgloss.NewStyle().
			Foreground(styles.TextInverse).
			Background(styles.Amber).
			Bold(true).
			Padding(0, 1).
			Render("DISABLED")
		line += " " + badge
	}

	return h.theme.Header.Width(h.Width).MaxWidth(h.Width).Render(line)
}
