// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the mention composer.
package components

import (
	"strings"

	"github.com/jeranaias/rigrun-mentions/internal/editor"
	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/position"
	"github.com/jeranaias/rigrun-mentions/internal/ui/styles"
	"github.com/jeranaias/rigrun-mentions/internal/util"
)

// =============================================================================
// MENTION INPUT COMPONENT - Bordered editing box over a MemorySurface
// =============================================================================

// MentionInput paints a MemorySurface: text runs, mention tokens and a block
// caret inside a rounded box that grows between a minimum and maximum number
// of lines and scrolls to keep the caret visible.
type MentionInput struct {
	surface     *editor.MemorySurface
	placeholder string
	width       int
	minHeight   int
	maxHeight   int
	offset      int
	focused     bool
	disabled    bool
	theme       *styles.Theme
}

// NewMentionInput creates an input over surface.
func NewMentionInput(surface *editor.MemorySurface, theme *styles.Theme) *MentionInput {
	return &MentionInput{
		surface:   surface,
		width:     80,
		minHeight: 1,
		maxHeight: 6,
		focused:   true,
		theme:     theme,
	}
}

// Focus focuses the input.
func (i *MentionInput) Focus() {
	i.focused = true
	i.surface.Focus()
}

// Blur removes focus from the input.
func (i *MentionInput) Blur() {
	i.focused = false
	i.surface.Blur()
}

// Focused returns whether the input is focused.
func (i *MentionInput) Focused() bool {
	return i.focused
}

// SetDisabled greys the input out and hides the caret.
func (i *MentionInput) SetDisabled(disabled bool) {
	i.disabled = disabled
}

// SetWidth sets the input width, border included.
func (i *MentionInput) SetWidth(width int) {
	if width < 10 {
		width = 10
	}
	i.width = width
}

// SetPlaceholder sets the text shown while the document is empty.
func (i *MentionInput) SetPlaceholder(placeholder string) {
	i.placeholder = placeholder
}

// SetHeights bounds the number of visible lines.
func (i *MentionInput) SetHeights(min, max int) {
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}
	i.minHeight, i.maxHeight = min, max
}

// InnerWidth is the number of cells available for text.
func (i *MentionInput) InnerWidth() int {
	return i.width - 4
}

// visibleLines clamps a document's line count to the height bounds.
func (i *MentionInput) visibleLines(n int) int {
	if n < i.minHeight {
		return i.minHeight
	}
	if n > i.maxHeight {
		return i.maxHeight
	}
	return n
}

// Height returns the rendered height, border included.
func (i *MentionInput) Height() int {
	return i.visibleLines(lineCount(i.surface.Document())) + 2
}

// Bounds returns the surface's content rectangle when the box is drawn with
// its top-left corner at (top, left). Scrolled-off lines sit above Top.
func (i *MentionInput) Bounds(top, left int) position.Rect {
	return position.Rect{
		Top:    float64(top + 1 - i.offset),
		Left:   float64(left + 2),
		Width:  float64(i.InnerWidth()),
		Height: float64(i.Height() - 2),
	}
}

// ScrollToCaret updates the first visible line so the caret is in view.
// View calls it; hosts call it before Bounds when laying out ahead of a
// render.
func (i *MentionInput) ScrollToCaret() {
	doc := i.surface.Document()
	caretLine := 0
	if caret, ok := i.surface.Caret(); ok {
		caretLine, _, _ = editor.CaretCell(doc, caret)
	}
	i.scroll(lineCount(doc), caretLine)
}

// scroll adjusts the first visible line so the caret stays in view.
func (i *MentionInput) scroll(total, caretLine int) {
	visible := i.visibleLines(total)
	if caretLine < i.offset {
		i.offset = caretLine
	}
	if caretLine >= i.offset+visible {
		i.offset = caretLine - visible + 1
	}
	if i.offset > total-visible {
		i.offset = total - visible
	}
	if i.offset < 0 {
		i.offset = 0
	}
}

// View renders the input box.
func (i *MentionInput) View() string {
	doc := i.surface.Document()
	caret, hasCaret := i.surface.Caret()
	showCaret := i.focused && hasCaret && !i.disabled

	var lines []string
	if doc.IsEmpty() {
		ph := i.theme.InputPlaceholder.Render(util.TruncateWidth(i.placeholder, i.InnerWidth()-1))
		if showCaret {
			ph = i.theme.Caret.Render(" ") + ph
		}
		lines = []string{ph}
	} else {
		lines = RenderDocument(doc, caret, showCaret, i.theme)
	}

	i.ScrollToCaret()

	visible := i.visibleLines(len(lines))
	end := i.offset + visible
	if end > len(lines) {
		end = len(lines)
	}
	shown := append([]string(nil), lines[i.offset:end]...)
	for len(shown) < visible {
		shown = append(shown, "")
	}

	style := i.theme.InputContainer
	switch {
	case i.disabled:
		style = i.theme.InputDisabled
	case i.focused:
		style = i.theme.InputFocused
	}
	return style.Width(i.width - 2).Render(strings.Join(shown, "\n"))
}

// =============================================================================
// DOCUMENT RENDERING
// =============================================================================

// RenderDocument paints a document line by line. Mentions render as their
// styled label; when showCaret is set the cell under the caret is drawn in
// reverse video, with a blank block at line ends.
func RenderDocument(doc mention.Document, caret mention.Position, showCaret bool, theme *styles.Theme) []string {
	lines := []string{""}
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			lines[len(lines)-1] += theme.InputText.Render(run.String())
			run.Reset()
		}
	}

	for _, seg := range doc.Segments() {
		if !seg.IsText() {
			flush()
			lines[len(lines)-1] += theme.MentionStyle(seg.Mention.Style).Render(seg.Mention.Label())
			continue
		}

		runes := []rune(seg.Text)
		caretAt := -1
		if showCaret && seg.ID == caret.Segment {
			caretAt = caret.Offset
		}
		for j := 0; j <= len(runes); j++ {
			if j == caretAt {
				flush()
				if j < len(runes) && runes[j] != '\n' {
					lines[len(lines)-1] += theme.Caret.Render(string(runes[j]))
					continue
				}
				lines[len(lines)-1] += theme.Caret.Render(" ")
			}
			if j == len(runes) {
				break
			}
			if runes[j] == '\n' {
				flush()
				lines = append(lines, "")
				continue
			}
			run.WriteRune(runes[j])
		}
	}
	flush()
	return lines
}

// lineCount returns the number of hard lines in a document.
func lineCount(doc mention.Document) int {
	n := 1
	for _, seg := range doc.Segments() {
		if seg.IsText() {
			n += strings.Count(seg.Text, "\n")
		}
	}
	return n
}
