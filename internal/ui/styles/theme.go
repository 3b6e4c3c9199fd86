// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the mention composer.
package styles

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// LAYOUT
	// ==========================================================================

	App       lipgloss.Style
	Header    lipgloss.Style
	StatusBar lipgloss.Style

	// ==========================================================================
	// HISTORY
	// ==========================================================================

	SentMeta lipgloss.Style

	// ==========================================================================
	// INPUT AREA
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputFocused     lipgloss.Style
	InputDisabled    lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	Caret            lipgloss.Style

	// ==========================================================================
	// MENTIONS
	// ==========================================================================

	Mention lipgloss.Style

	// ==========================================================================
	// SUGGESTION POPUP
	// ==========================================================================

	PopupBox      lipgloss.Style
	PopupTitle    lipgloss.Style
	PopupItem     lipgloss.Style
	PopupSelected lipgloss.Style
	PopupValue    lipgloss.Style
	PopupEmpty    lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Success      lipgloss.Style
	Error        lipgloss.Style
}

// NewTheme creates a theme for the current terminal.
func NewTheme() *Theme {
	return NewThemeWithProfile(termenv.ColorProfile(), termenv.HasDarkBackground())
}

// NewThemeWithProfile creates a theme for an explicit color profile, as used
// when output is not a terminal.
func NewThemeWithProfile(profile termenv.Profile, isDark bool) *Theme {
	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Padding(0, 1)

	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.SentMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputFocused = t.InputContainer.
		BorderForeground(Cyan)

	t.InputDisabled = t.InputContainer.
		BorderForeground(Amber).
		Foreground(TextMuted)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Caret = lipgloss.NewStyle().
		Reverse(true)

	t.Mention = lipgloss.NewStyle().
		Foreground(MentionFg).
		Background(MentionBg).
		Bold(true)

	// Suggestion popup
	t.PopupBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.PopupTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.PopupItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.PopupSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true)

	t.PopupValue = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.PopupEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Success = lipgloss.NewStyle().Foreground(Emerald)
	t.Error = lipgloss.NewStyle().Foreground(Rose)
}

// MentionStyle returns the token style for a mention, layering its CSS-like
// style hints (color, background-color, font-weight, font-style,
// text-decoration) over the theme default. Unknown properties are ignored.
func (t *Theme) MentionStyle(style map[string]string) lipgloss.Style {
	s := t.Mention
	for k, v := range style {
		v = strings.ToLower(strings.TrimSpace(v))
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "color":
			if c, ok := CSSColor(v); ok {
				s = s.Foreground(c)
			}
		case "background", "background-color":
			if c, ok := CSSColor(v); ok {
				s = s.Background(c)
			}
		case "font-weight":
			n, err := strconv.Atoi(v)
			s = s.Bold(v == "bold" || v == "bolder" || (err == nil && n >= 600))
		case "font-style":
			s = s.Italic(v == "italic" || v == "oblique")
		case "text-decoration":
			s = s.Underline(strings.Contains(v, "underline")).
				Strikethrough(strings.Contains(v, "line-through"))
		}
	}
	return s
}
