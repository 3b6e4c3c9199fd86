// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the mention composer.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-mentions/internal/editor"
	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/ui/styles"
	"github.com/jeranaias/rigrun-mentions/internal/util"
)

// =============================================================================
// SUGGESTION POPUP COMPONENT
// =============================================================================

// SuggestionPopup renders the candidate list of an open trigger window.
// It holds no selection logic of its own: Sync copies the controller state
// in before every render.
type SuggestionPopup struct {
	open       bool
	title      string
	trigger    string
	query      string
	items      []mention.Item
	selected   int
	maxVisible int
	width      int
	theme      *styles.Theme
}

// DefaultMaxVisible is the row limit when the terminal has room for it.
const DefaultMaxVisible = 6

// NewSuggestionPopup creates a new suggestion popup.
func NewSuggestionPopup(theme *styles.Theme) *SuggestionPopup {
	return &SuggestionPopup{
		maxVisible: DefaultMaxVisible,
		width:      32,
		theme:      theme,
	}
}

// Sync copies the controller's interaction state into the popup.
func (p *SuggestionPopup) Sync(s editor.State) {
	p.open = s.IsOpen()
	p.items = s.Candidates
	p.selected = s.Selected
	p.query = s.Query
	p.title = ""
	p.trigger = ""
	if s.OpenTrigger != nil {
		p.title = s.OpenTrigger.SuggestionTitle
		p.trigger = s.OpenTrigger.TriggerString()
	}
}

// Visible reports whether the popup should be drawn.
func (p *SuggestionPopup) Visible() bool {
	return p.open
}

// SetWidth sets the popup width, border included.
func (p *SuggestionPopup) SetWidth(width int) {
	if width < 12 {
		width = 12
	}
	p.width = width
}

// FitHeight limits the visible rows so the popup is at most height rows
// tall. It reports false when not even one row fits.
func (p *SuggestionPopup) FitHeight(height int) bool {
	p.maxVisible = DefaultMaxVisible
	rows := height - p.headerRows() - 1 // bottom border
	if rows < 1 {
		return false
	}
	if rows < p.maxVisible {
		p.maxVisible = rows
	}
	return true
}

// window returns the visible [start, end) range, keeping the selection
// centered once the list scrolls.
func (p *SuggestionPopup) window() (int, int) {
	start, end := 0, len(p.items)
	if len(p.items) > p.maxVisible {
		start = p.selected - p.maxVisible/2
		if start < 0 {
			start = 0
		}
		end = start + p.maxVisible
		if end > len(p.items) {
			end = len(p.items)
			start = end - p.maxVisible
		}
	}
	return start, end
}

// headerRows is the number of rows above the first item, border included.
func (p *SuggestionPopup) headerRows() int {
	if p.title != "" {
		return 3 // border, title, divider
	}
	return 1
}

// View renders the popup, or "" when no trigger is open.
func (p *SuggestionPopup) View() string {
	if !p.open {
		return ""
	}

	inner := p.width - 4 // border and padding
	var lines []string
	if p.title != "" {
		lines = append(lines,
			p.theme.PopupTitle.Render(util.TruncateWidth(p.title, inner)),
			p.renderDivider(inner))
	}

	if len(p.items) == 0 {
		empty := "No matches"
		if p.query != "" {
			empty += " for " + p.trigger + p.query
		}
		lines = append(lines, p.theme.PopupEmpty.Render(util.TruncateWidth(empty, inner)))
	} else {
		start, end := p.window()
		for i := start; i < end; i++ {
			lines = append(lines, p.renderItem(p.items[i], i == p.selected, inner))
		}
	}

	return p.theme.PopupBox.
		Width(p.width - 2).
		Render(strings.Join(lines, "\n"))
}

// renderItem renders one candidate row: indicator and display on the left,
// the inserted value on the right when it differs and fits.
func (p *SuggestionPopup) renderItem(item mention.Item, isSelected bool, inner int) string {
	indicator := "  "
	if isSelected {
		indicator = "> "
	}
	left := indicator + util.TruncateWidth(item.Display, inner-2)

	right := ""
	if item.Value != "" && item.Value != item.Display {
		v := p.trigger + item.Value
		if lipgloss.Width(left)+1+lipgloss.Width(v) <= inner {
			right = v
		}
	}
	pad := strings.Repeat(" ", inner-lipgloss.Width(left)-lipgloss.Width(right))

	if isSelected {
		return p.theme.PopupSelected.Render(left + pad + right)
	}
	return p.theme.PopupItem.Render(left+pad) + p.theme.PopupValue.Render(right)
}

// renderDivider renders a divider line.
func (p *SuggestionPopup) renderDivider(width int) string {
	return lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(strings.Repeat("-", width))
}

// Size returns the rendered popup size in cells, as reported back to the
// positioner after the first paint.
func (p *SuggestionPopup) Size() (width, height int) {
	v := p.View()
	if v == "" {
		return 0, 0
	}
	return lipgloss.Width(v), lipgloss.Height(v)
}

// IndexAtRow maps a row of the rendered popup (0 is the top border) to the
// index of the candidate drawn there.
func (p *SuggestionPopup) IndexAtRow(row int) (int, bool) {
	if !p.open || len(p.items) == 0 {
		return 0, false
	}
	start, end := p.window()
	i := start + row - p.headerRows()
	if i < start || i >= end {
		return 0, false
	}
	return i, true
}

// ViewCompact renders a one-line hint for terminals too small for the box.
func (p *SuggestionPopup) ViewCompact() string {
	if !p.open || len(p.items) == 0 {
		return ""
	}
	item, ok := editor.State{Candidates: p.items, Selected: p.selected}.SelectedItem()
	if !ok {
		return ""
	}
	hint := "Tab: " + p.trigger + item.Display
	if n := len(p.items); n > 1 {
		hint += " (" + strconv.Itoa(p.selected+1) + "/" + strconv.Itoa(n) + ")"
	}
	return p.theme.PopupEmpty.Render(hint)
}
