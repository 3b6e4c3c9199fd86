// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsert_ReplacesTriggerSpan(t *testing.T) {
	cfg := TriggerConfig{Trigger: '@'}
	item := Item{ID: "1", Display: "Alice", Value: "u1"}

	doc := NewDocument(Text("hello @al"))
	caret := doc.End()

	mut, ok := Insert(doc, caret, cfg, item)
	require.True(t, ok)

	want := NewDocument(
		Text("hello "),
		MentionSegment(Mention{Trigger: '@', Display: "Alice", Value: "u1", ID: "1"}),
		Text(" "),
	)
	assert.True(t, want.Equal(mut.Doc), "got %s", mut.Doc)

	// Caret sits right after the separator, at the end of the trailing run.
	segs := mut.Doc.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, Position{Segment: segs[2].ID, Offset: 1}, mut.Cursor)
	assert.Equal(t, mut.Doc.End(), mut.Cursor)

	// Backspace from the caret eats the separator, then the whole mention.
	d, cur, ok := mut.Doc.DeleteBackward(mut.Cursor)
	require.True(t, ok)
	d, _, ok = d.DeleteBackward(cur)
	require.True(t, ok)
	assert.Equal(t, "hello ", PlainText(d))
	assert.Empty(t, ParsedMentions(d))
}

func TestInsert_KeepsTextAfterCaret(t *testing.T) {
	doc := NewDocument(Text("hi @bo and more"))
	caret := Position{Segment: doc.Start().Segment, Offset: 6}

	mut, ok := Insert(doc, caret, TriggerConfig{Trigger: '@'}, Item{Display: "Bob", Value: "u2"})
	require.True(t, ok)
	assert.Equal(t, "hi @u2  and more", PlainText(mut.Doc))

	text, ok := mut.Doc.TextAt(mut.Cursor)
	require.True(t, ok)
	assert.Equal(t, "  and more", text)
	assert.Equal(t, 1, mut.Cursor.Offset)
}

func TestInsert_CopiesPresentation(t *testing.T) {
	cfg := TriggerConfig{Trigger: '#', ClassName: "tag", Style: map[string]string{"color": "green"}}
	doc := NewDocument(Text("#g"))

	mut, ok := Insert(doc, doc.End(), cfg, Item{Display: "golang", Value: "go"})
	require.True(t, ok)
	segs := mut.Doc.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, "tag", segs[1].Mention.ClassName)
	assert.Equal(t, "green", segs[1].Mention.Style["color"])
}

func TestInsert_NoOp(t *testing.T) {
	cfg := TriggerConfig{Trigger: '@'}
	item := Item{Display: "Alice", Value: "u1"}
	doc := NewDocument(Text("hello al"))

	t.Run("trigger gone", func(t *testing.T) {
		_, ok := Insert(doc, doc.End(), cfg, item)
		assert.False(t, ok)
	})

	t.Run("stale position", func(t *testing.T) {
		_, ok := Insert(doc, Position{Segment: 42, Offset: 1}, cfg, item)
		assert.False(t, ok)
	})

	t.Run("zero position", func(t *testing.T) {
		_, ok := Insert(doc, Position{}, cfg, item)
		assert.False(t, ok)
	})

	t.Run("trigger after caret is ignored", func(t *testing.T) {
		d := NewDocument(Text("ab @c"))
		_, ok := Insert(d, Position{Segment: d.Start().Segment, Offset: 2}, cfg, item)
		assert.False(t, ok)
	})
}
