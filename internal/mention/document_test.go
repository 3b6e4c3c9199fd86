// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = Mention{Trigger: '@', Display: "Alice", Value: "u1", ID: "1"}

func kinds(d Document) []SegmentKind {
	var out []SegmentKind
	for _, s := range d.Segments() {
		out = append(out, s.Kind)
	}
	return out
}

func TestNewDocument_Canonical(t *testing.T) {
	tests := []struct {
		name string
		in   []Segment
		want []SegmentKind
	}{
		{"empty", nil, []SegmentKind{SegmentText}},
		{"text coalesced", []Segment{Text("a"), Text("b")}, []SegmentKind{SegmentText}},
		{"lone mention", []Segment{MentionSegment(alice)}, []SegmentKind{SegmentText, SegmentMention, SegmentText}},
		{
			"adjacent mentions",
			[]Segment{MentionSegment(alice), MentionSegment(alice)},
			[]SegmentKind{SegmentText, SegmentMention, SegmentText, SegmentMention, SegmentText},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(NewDocument(tt.in...)))
		})
	}
}

func TestDocument_Equal(t *testing.T) {
	a := NewDocument(Text("hi "), MentionSegment(alice))
	b := NewDocument(Text("h"), Text("i "), MentionSegment(alice), Text(""))
	assert.True(t, a.Equal(b))

	other := alice
	other.Value = "u2"
	c := NewDocument(Text("hi "), MentionSegment(other))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(NewDocument(Text("hi "))))
}

func TestDocument_InsertText(t *testing.T) {
	doc := NewDocument()
	doc, cur, ok := doc.InsertText(doc.Start(), "héllo")
	require.True(t, ok)
	assert.Equal(t, 5, cur.Offset)

	doc, cur, ok = doc.InsertText(cur, "!")
	require.True(t, ok)
	text, ok := doc.TextAt(cur)
	require.True(t, ok)
	assert.Equal(t, "héllo!", text)
	assert.Equal(t, 6, cur.Offset)
}

func TestDocument_InsertTextDropsNUL(t *testing.T) {
	doc := NewDocument(Text("x\x00y"))
	assert.Equal(t, "xy", PlainText(doc))

	doc, cur, ok := doc.InsertText(doc.End(), "\x00z")
	require.True(t, ok)
	assert.Equal(t, "xyz", PlainText(doc))
	assert.Equal(t, 3, cur.Offset)
}

func TestDocument_InsertAtomic(t *testing.T) {
	doc := NewDocument(Text("hi there"))
	at := Position{Segment: doc.Start().Segment, Offset: 3}

	doc, cur, ok := doc.InsertAtomic(at, Mention{Trigger: '@', Display: "Bob", Value: "u2"})
	require.True(t, ok)
	assert.Equal(t, `"hi "[@Bob]"there"`, doc.String())
	assert.Equal(t, 0, cur.Offset)
	text, ok := doc.TextAt(cur)
	require.True(t, ok)
	assert.Equal(t, "there", text)

	_, _, ok = doc.InsertAtomic(Position{Segment: 999}, Mention{Trigger: '@'})
	assert.False(t, ok)
}

func TestDocument_DeleteBackwardRemovesMentionWhole(t *testing.T) {
	doc := NewDocument(Text("hi "), MentionSegment(alice), Text(" there"))
	segs := doc.Segments()
	after := Position{Segment: segs[2].ID, Offset: 0}

	next, cur, ok := doc.DeleteBackward(after)
	require.True(t, ok)
	assert.Equal(t, "hi  there", PlainText(next))
	assert.Empty(t, ParsedMentions(next))

	text, ok := next.TextAt(cur)
	require.True(t, ok)
	assert.Equal(t, "hi  there", text)
	assert.Equal(t, 3, cur.Offset)

	// The receiver is untouched.
	assert.Len(t, ParsedMentions(doc), 1)
}

func TestDocument_DeleteForwardRemovesMentionWhole(t *testing.T) {
	doc := NewDocument(Text("a"), MentionSegment(alice), Text("b"))
	before := Position{Segment: doc.Segments()[0].ID, Offset: 1}

	next, cur, ok := doc.DeleteForward(before)
	require.True(t, ok)
	assert.Equal(t, "ab", PlainText(next))
	assert.Equal(t, 1, cur.Offset)
}

func TestDocument_DeleteBackwardAtStart(t *testing.T) {
	doc := NewDocument(Text("abc"))
	_, _, ok := doc.DeleteBackward(doc.Start())
	assert.False(t, ok)
}

func TestDocument_DeleteRangeNeverSplitsMention(t *testing.T) {
	doc := NewDocument(Text("one "), MentionSegment(alice), Text(" two"))
	segs := doc.Segments()
	from := Position{Segment: segs[0].ID, Offset: 2}
	to := Position{Segment: segs[2].ID, Offset: 2}

	next, cur, ok := doc.DeleteRange(to, from)
	require.True(t, ok)
	assert.Equal(t, "onwo", PlainText(next))
	assert.Equal(t, 2, cur.Offset)
}

func TestDocument_MoveSkipsMention(t *testing.T) {
	doc := NewDocument(Text("a"), MentionSegment(alice), Text("b"))
	segs := doc.Segments()

	right, ok := doc.MoveRight(Position{Segment: segs[0].ID, Offset: 1})
	require.True(t, ok)
	assert.Equal(t, Position{Segment: segs[2].ID, Offset: 0}, right)

	left, ok := doc.MoveLeft(right)
	require.True(t, ok)
	assert.Equal(t, Position{Segment: segs[0].ID, Offset: 1}, left)

	_, ok = doc.MoveLeft(doc.Start())
	assert.False(t, ok)
	_, ok = doc.MoveRight(doc.End())
	assert.False(t, ok)
}

func TestDocument_ResolveRejectsStalePositions(t *testing.T) {
	doc := NewDocument(Text("abc"))
	_, ok := doc.Resolve(Position{Segment: 99})
	assert.False(t, ok)
	_, ok = doc.Resolve(Position{Segment: doc.Start().Segment, Offset: 4})
	assert.False(t, ok)

	mentionDoc := NewDocument(MentionSegment(alice))
	_, ok = mentionDoc.Resolve(Position{Segment: mentionDoc.Segments()[1].ID})
	assert.False(t, ok, "a caret can never sit inside a mention")
}

func TestDocument_IsEmpty(t *testing.T) {
	assert.True(t, NewDocument().IsEmpty())
	assert.True(t, Document{}.IsEmpty())
	assert.False(t, NewDocument(Text("x")).IsEmpty())
	assert.False(t, NewDocument(MentionSegment(alice)).IsEmpty())
}
