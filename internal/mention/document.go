// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the mention authoring core: trigger detection,
// suggestion filtering, token insertion and document serialization.
package mention

import (
	"strings"
	"unicode/utf8"
)

// =============================================================================
// SEGMENTS
// =============================================================================

// SegmentID identifies a segment within one document. Zero is never assigned.
type SegmentID uint64

// SegmentKind distinguishes text runs from mention tokens.
type SegmentKind int

const (
	SegmentText    SegmentKind = iota // run of plain characters
	SegmentMention                    // atomic mention token
)

// String returns the string representation of the segment kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentText:
		return "text"
	case SegmentMention:
		return "mention"
	default:
		return "unknown"
	}
}

// Mention is the payload of a mention segment.
type Mention struct {
	Trigger rune
	Display string
	Value   string
	ID      string

	// Presentation hints copied from the trigger config.
	ClassName string
	Style     map[string]string
}

// Label is what a surface renders for the token: trigger followed by display.
func (m Mention) Label() string {
	return string(m.Trigger) + m.Display
}

func (m Mention) same(o Mention) bool {
	return m.Trigger == o.Trigger && m.Display == o.Display && m.Value == o.Value && m.ID == o.ID
}

// Segment is either a text run or an atomic mention.
type Segment struct {
	ID      SegmentID
	Kind    SegmentKind
	Text    string
	Mention Mention
}

// Text builds a text segment.
func Text(s string) Segment {
	return Segment{Kind: SegmentText, Text: s}
}

// stripNUL drops NUL runes, which markup cannot carry.
func stripNUL(s Segment) Segment {
	s.Text = strings.ReplaceAll(s.Text, "\x00", "")
	s.Mention.Display = strings.ReplaceAll(s.Mention.Display, "\x00", "")
	s.Mention.Value = strings.ReplaceAll(s.Mention.Value, "\x00", "")
	s.Mention.ID = strings.ReplaceAll(s.Mention.ID, "\x00", "")
	return s
}

// MentionSegment builds a mention segment.
func MentionSegment(m Mention) Segment {
	return Segment{Kind: SegmentMention, Mention: m}
}

// IsText reports whether the segment is a text run.
func (s Segment) IsText() bool {
	return s.Kind == SegmentText
}

// =============================================================================
// POSITIONS
// =============================================================================

// Position is a caret token: a text segment and a rune offset inside it.
// Positions are validated with Resolve before use; a token whose segment no
// longer exists simply fails to resolve.
type Position struct {
	Segment SegmentID
	Offset  int
}

// Mutation is the result of an edit: the new document and the caret.
type Mutation struct {
	Doc    Document
	Cursor Position
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is an ordered list of segments. Documents are values: every edit
// returns a new Document and never touches the receiver's segments.
//
// Canonical form: text runs and mentions alternate, starting and ending with
// a (possibly empty) text run, so every caret slot is a text position.
type Document struct {
	segments []Segment
	nextID   SegmentID
}

// NewDocument builds a canonical document from segments. Segment IDs are
// always reassigned.
func NewDocument(segments ...Segment) Document {
	d := Document{nextID: 1}
	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		s = stripNUL(s)
		s.ID = d.alloc()
		out = append(out, s)
	}
	doc, _ := d.with(out, Position{})
	return doc
}

// Segments returns a copy of the segment list.
func (d Document) Segments() []Segment {
	out := make([]Segment, len(d.segments))
	copy(out, d.segments)
	return out
}

// IsEmpty reports whether the document has no mentions and no text.
func (d Document) IsEmpty() bool {
	for _, s := range d.segments {
		if !s.IsText() || s.Text != "" {
			return false
		}
	}
	return true
}

// Start returns the caret position at the beginning of the document.
func (d Document) Start() Position {
	if len(d.segments) == 0 {
		return Position{}
	}
	return Position{Segment: d.segments[0].ID}
}

// End returns the caret position at the end of the document.
func (d Document) End() Position {
	if len(d.segments) == 0 {
		return Position{}
	}
	last := d.segments[len(d.segments)-1]
	return Position{Segment: last.ID, Offset: runeLen(last.Text)}
}

// Resolve validates a position and returns the index of its text segment.
func (d Document) Resolve(p Position) (int, bool) {
	if p.Segment == 0 || p.Offset < 0 {
		return -1, false
	}
	for i, s := range d.segments {
		if s.ID != p.Segment {
			continue
		}
		if !s.IsText() || p.Offset > runeLen(s.Text) {
			return -1, false
		}
		return i, true
	}
	return -1, false
}

// TextAt returns the text run containing p.
func (d Document) TextAt(p Position) (string, bool) {
	idx, ok := d.Resolve(p)
	if !ok {
		return "", false
	}
	return d.segments[idx].Text, true
}

// Equal compares documents modulo run coalescing and empty runs.
func (d Document) Equal(o Document) bool {
	a, b := d.visible(), o.visible()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind {
			return false
		}
		if a[i].IsText() {
			if a[i].Text != b[i].Text {
				return false
			}
			continue
		}
		if !a[i].Mention.same(b[i].Mention) {
			return false
		}
	}
	return true
}

func (d Document) visible() []Segment {
	var out []Segment
	for _, s := range d.segments {
		if s.IsText() && s.Text == "" {
			continue
		}
		if s.IsText() && len(out) > 0 && out[len(out)-1].IsText() {
			out[len(out)-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

// =============================================================================
// COMMAND ALGEBRA
// =============================================================================

// ReplaceRange replaces runes [from, to) of the text run containing at with
// the given segments. The returned caret sits right after the inserted
// content. Invalid ranges leave the document untouched and report false.
func (d Document) ReplaceRange(at Position, from, to int, with ...Segment) (Document, Position, bool) {
	idx, ok := d.Resolve(at)
	if !ok {
		return d, at, false
	}
	run := []rune(d.segments[idx].Text)
	if from < 0 || to > len(run) || from > to {
		return d, at, false
	}

	next := d.clone()
	left := next.segments[idx]
	left.Text = string(run[:from])
	right := Segment{ID: next.alloc(), Kind: SegmentText, Text: string(run[to:])}

	middle := make([]Segment, 0, len(with))
	for _, s := range with {
		s = stripNUL(s)
		s.ID = next.alloc()
		middle = append(middle, s)
	}

	cursor := Position{Segment: right.ID}
	if n := len(middle); n > 0 && middle[n-1].IsText() {
		cursor = Position{Segment: middle[n-1].ID, Offset: runeLen(middle[n-1].Text)}
	}

	segs := make([]Segment, 0, len(next.segments)+len(middle)+1)
	segs = append(segs, next.segments[:idx]...)
	segs = append(segs, left)
	segs = append(segs, middle...)
	segs = append(segs, right)
	segs = append(segs, next.segments[idx+1:]...)

	doc, cur := next.with(segs, cursor)
	return doc, cur, true
}

// InsertAtomic inserts a mention token at the caret. The caret lands
// immediately after the token.
func (d Document) InsertAtomic(at Position, m Mention) (Document, Position, bool) {
	return d.ReplaceRange(at, at.Offset, at.Offset, MentionSegment(m))
}

// InsertText inserts plain text at the caret.
func (d Document) InsertText(at Position, s string) (Document, Position, bool) {
	if s == "" {
		_, ok := d.Resolve(at)
		return d, at, ok
	}
	return d.ReplaceRange(at, at.Offset, at.Offset, Text(s))
}

// DeleteBackward removes the rune before the caret, or the whole mention
// when the caret sits right after one.
func (d Document) DeleteBackward(at Position) (Document, Position, bool) {
	idx, ok := d.Resolve(at)
	if !ok {
		return d, at, false
	}
	if at.Offset > 0 {
		return d.ReplaceRange(at, at.Offset-1, at.Offset)
	}
	if idx == 0 {
		return d, at, false
	}
	return d.removeSegment(idx-1, at)
}

// DeleteForward removes the rune after the caret, or the whole mention
// when the caret sits right before one.
func (d Document) DeleteForward(at Position) (Document, Position, bool) {
	idx, ok := d.Resolve(at)
	if !ok {
		return d, at, false
	}
	if at.Offset < runeLen(d.segments[idx].Text) {
		return d.ReplaceRange(at, at.Offset, at.Offset+1)
	}
	if idx+1 >= len(d.segments) {
		return d, at, false
	}
	return d.removeSegment(idx+1, at)
}

// DeleteRange removes everything between two carets. Mentions between them
// are removed whole; a caret can never split one.
func (d Document) DeleteRange(a, b Position) (Document, Position, bool) {
	ia, okA := d.Resolve(a)
	ib, okB := d.Resolve(b)
	if !okA || !okB {
		return d, a, false
	}
	if ib < ia || (ia == ib && b.Offset < a.Offset) {
		ia, ib = ib, ia
		a, b = b, a
	}
	if ia == ib {
		return d.ReplaceRange(a, a.Offset, b.Offset)
	}

	next := d.clone()
	left := next.segments[ia]
	left.Text = string([]rune(left.Text)[:a.Offset])
	right := next.segments[ib]
	right.Text = string([]rune(right.Text)[b.Offset:])

	segs := make([]Segment, 0, len(next.segments))
	segs = append(segs, next.segments[:ia]...)
	segs = append(segs, left, right)
	segs = append(segs, next.segments[ib+1:]...)

	doc, cur := next.with(segs, Position{Segment: left.ID, Offset: a.Offset})
	return doc, cur, true
}

// MoveLeft moves the caret one unit left; a mention counts as one unit.
func (d Document) MoveLeft(at Position) (Position, bool) {
	idx, ok := d.Resolve(at)
	if !ok {
		return at, false
	}
	if at.Offset > 0 {
		return Position{Segment: at.Segment, Offset: at.Offset - 1}, true
	}
	if idx < 2 {
		return at, false
	}
	prev := d.segments[idx-2]
	return Position{Segment: prev.ID, Offset: runeLen(prev.Text)}, true
}

// MoveRight moves the caret one unit right; a mention counts as one unit.
func (d Document) MoveRight(at Position) (Position, bool) {
	idx, ok := d.Resolve(at)
	if !ok {
		return at, false
	}
	if at.Offset < runeLen(d.segments[idx].Text) {
		return Position{Segment: at.Segment, Offset: at.Offset + 1}, true
	}
	if idx+2 >= len(d.segments) {
		return at, false
	}
	return Position{Segment: d.segments[idx+2].ID}, true
}

// =============================================================================
// INTERNALS
// =============================================================================

func (d *Document) alloc() SegmentID {
	if d.nextID == 0 {
		d.nextID = 1
	}
	id := d.nextID
	d.nextID++
	return id
}

func (d Document) clone() Document {
	return Document{segments: d.Segments(), nextID: d.nextID}
}

func (d Document) removeSegment(idx int, cursor Position) (Document, Position, bool) {
	next := d.clone()
	segs := append(next.segments[:idx:idx], next.segments[idx+1:]...)
	doc, cur := next.with(segs, cursor)
	return doc, cur, true
}

// with installs segs in canonical form, carrying cursor through any merge.
func (d Document) with(segs []Segment, cursor Position) (Document, Position) {
	out := Document{nextID: d.nextID}
	norm := make([]Segment, 0, len(segs)+2)
	for _, s := range segs {
		if s.IsText() {
			if n := len(norm); n > 0 && norm[n-1].IsText() {
				prev := &norm[n-1]
				if cursor.Segment == s.ID {
					cursor = Position{Segment: prev.ID, Offset: runeLen(prev.Text) + cursor.Offset}
				}
				prev.Text += s.Text
				continue
			}
			norm = append(norm, s)
			continue
		}
		if n := len(norm); n == 0 || !norm[n-1].IsText() {
			norm = append(norm, Segment{ID: out.alloc(), Kind: SegmentText})
		}
		norm = append(norm, s)
	}
	if n := len(norm); n == 0 || !norm[n-1].IsText() {
		norm = append(norm, Segment{ID: out.alloc(), Kind: SegmentText})
	}
	out.segments = norm
	return out, cursor
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// String renders a debug view of the document, e.g. `"hi "[@Alice]" "`.
func (d Document) String() string {
	var sb strings.Builder
	for _, s := range d.segments {
		if s.IsText() {
			sb.WriteString(`"` + s.Text + `"`)
			continue
		}
		sb.WriteString("[" + s.Mention.Label() + "]")
	}
	return sb.String()
}
