// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor drives mention authoring on top of a text input surface.
package editor

import (
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/position"
)

// =============================================================================
// SURFACE INTERFACE
// =============================================================================

// Surface is the text input the controller edits. It owns the document and
// caret; the controller only reads them and hands back whole mutations.
type Surface interface {
	// Document returns the current content.
	Document() mention.Document

	// Caret returns the live caret, if the surface has one.
	Caret() (mention.Position, bool)

	// Apply replaces the content and caret in one step.
	Apply(m mention.Mutation)

	// CaretRect returns the caret's on-screen rectangle.
	CaretRect() (position.Rect, bool)

	// Bounds returns the surface's own on-screen rectangle.
	Bounds() position.Rect
}

// =============================================================================
// MEMORY SURFACE
// =============================================================================

// MemorySurface is an in-memory Surface laid out on a monospace cell grid.
// Hosts feed keystrokes through its editing methods and then notify the
// controller with HandleInput.
type MemorySurface struct {
	doc      mention.Document
	caret    mention.Position
	hasCaret bool
	bounds   position.Rect
}

// NewMemorySurface returns an empty, focused surface.
func NewMemorySurface() *MemorySurface {
	doc := mention.NewDocument()
	return &MemorySurface{
		doc:      doc,
		caret:    doc.Start(),
		hasCaret: true,
		bounds:   position.Rect{Width: 80, Height: 3},
	}
}

// Document returns the current content.
func (s *MemorySurface) Document() mention.Document { return s.doc }

// Caret returns the caret unless the surface is blurred.
func (s *MemorySurface) Caret() (mention.Position, bool) {
	if !s.hasCaret {
		return mention.Position{}, false
	}
	return s.caret, true
}

// Apply installs a mutation and focuses the surface.
func (s *MemorySurface) Apply(m mention.Mutation) {
	s.doc = m.Doc
	s.caret = m.Cursor
	s.hasCaret = true
}

// CaretRect returns the caret's cell, offset by the surface bounds.
func (s *MemorySurface) CaretRect() (position.Rect, bool) {
	if !s.hasCaret {
		return position.Rect{}, false
	}
	line, col, ok := CaretCell(s.doc, s.caret)
	if !ok {
		return position.Rect{}, false
	}
	return position.Rect{
		Top:    s.bounds.Top + float64(line),
		Left:   s.bounds.Left + float64(col),
		Width:  1,
		Height: 1,
	}, true
}

// Bounds returns the surface rectangle.
func (s *MemorySurface) Bounds() position.Rect { return s.bounds }

// SetBounds updates the surface rectangle after a layout change.
func (s *MemorySurface) SetBounds(r position.Rect) { s.bounds = r }

// Blur drops the caret, as when focus moves to the suggestion popup.
func (s *MemorySurface) Blur() { s.hasCaret = false }

// Focus restores the caret at its last position.
func (s *MemorySurface) Focus() { s.hasCaret = true }

// SetCaret moves the caret if p is valid for the current document.
func (s *MemorySurface) SetCaret(p mention.Position) bool {
	if _, ok := s.doc.Resolve(p); !ok {
		return false
	}
	s.caret = p
	s.hasCaret = true
	return true
}

// Type inserts text at the caret.
func (s *MemorySurface) Type(text string) bool {
	return s.edit(func(d mention.Document, p mention.Position) (mention.Document, mention.Position, bool) {
		return d.InsertText(p, text)
	})
}

// Backspace deletes the rune (or whole mention) before the caret.
func (s *MemorySurface) Backspace() bool {
	return s.edit(mention.Document.DeleteBackward)
}

// Delete deletes the rune (or whole mention) after the caret.
func (s *MemorySurface) Delete() bool {
	return s.edit(mention.Document.DeleteForward)
}

// Left moves the caret one unit left.
func (s *MemorySurface) Left() bool {
	p, ok := s.doc.MoveLeft(s.caret)
	if ok {
		s.caret = p
	}
	return ok
}

// Right moves the caret one unit right.
func (s *MemorySurface) Right() bool {
	p, ok := s.doc.MoveRight(s.caret)
	if ok {
		s.caret = p
	}
	return ok
}

// Home moves the caret to the start of the document.
func (s *MemorySurface) Home() { s.caret = s.doc.Start() }

// End moves the caret to the end of the document.
func (s *MemorySurface) End() { s.caret = s.doc.End() }

func (s *MemorySurface) edit(fn func(mention.Document, mention.Position) (mention.Document, mention.Position, bool)) bool {
	if !s.hasCaret {
		return false
	}
	doc, caret, ok := fn(s.doc, s.caret)
	if !ok {
		return false
	}
	s.doc = doc
	s.caret = caret
	return true
}

// =============================================================================
// CELL LAYOUT
// =============================================================================

// CaretCell lays the document out on a monospace grid (mentions render as
// their label, newlines start a new line) and returns the caret's cell.
func CaretCell(doc mention.Document, caret mention.Position) (line, col int, ok bool) {
	if _, ok := doc.Resolve(caret); !ok {
		return 0, 0, false
	}
	for _, seg := range doc.Segments() {
		if !seg.IsText() {
			col += runewidth.StringWidth(seg.Mention.Label())
			continue
		}
		runes := []rune(seg.Text)
		limit := len(runes)
		if seg.ID == caret.Segment {
			limit = caret.Offset
		}
		for _, r := range runes[:limit] {
			if r == '\n' {
				line++
				col = 0
				continue
			}
			col += runewidth.RuneWidth(r)
		}
		if seg.ID == caret.Segment {
			return line, col, true
		}
	}
	return line, col, true
}
