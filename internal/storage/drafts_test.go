// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-mentions/internal/mention"
)

func openTestStore(t *testing.T) *DraftStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// Deterministic, strictly increasing clock.
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return s
}

func sampleSnapshot() mention.Snapshot {
	doc := mention.NewDocument(
		mention.Text("ping "),
		mention.MentionSegment(mention.Mention{Trigger: '@', Display: "Alice", Value: "u1", ID: "1"}),
		mention.Text(" about #go"),
	)
	return mention.Snap(doc)
}

func TestDraftStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	snap := sampleSnapshot()
	id, err := s.SaveSnapshot(ctx, "", snap)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err, "ids are UUIDs")

	d, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, snap, d.Snapshot())
	assert.Equal(t, "ping @u1 about #go", d.Plain)

	// The stored markup rehydrates to the same document.
	doc := mention.DecodeMarkup(d.Markup)
	assert.Equal(t, snap.Mentions, mention.ParsedMentions(doc))
}

func TestDraftStore_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.Save(ctx, &Draft{Title: "standup", Markup: "a", Plain: "a"})
	require.NoError(t, err)
	first, err := s.Load(ctx, id)
	require.NoError(t, err)

	_, err = s.SaveSnapshot(ctx, id, sampleSnapshot())
	require.NoError(t, err)
	second, err := s.Load(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "standup", second.Title)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Len(t, second.Mentions, 1)
}

func TestDraftStore_EmptyMentions(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.SaveSnapshot(ctx, "", mention.Snap(mention.NewDocument()))
	require.NoError(t, err)

	d, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, d.Mentions)
	assert.Empty(t, d.Mentions)
	assert.True(t, d.Snapshot().IsEmpty())
}

func TestDraftStore_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	a, err := s.Save(ctx, &Draft{Plain: "first draft 100%"})
	require.NoError(t, err)
	b, err := s.SaveSnapshot(ctx, "", sampleSnapshot())
	require.NoError(t, err)

	metas, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, b, metas[0].ID, "most recent first")
	assert.Equal(t, 1, metas[0].MentionCount)
	assert.Equal(t, a, metas[1].ID)

	found, err := s.Search(ctx, "@U1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, b, found[0].ID)

	found, err = s.Search(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a, found[0].ID)

	found, err = s.Search(ctx, "%")
	require.NoError(t, err)
	assert.Len(t, found, 1, "wildcards are literal")
}

func TestDraftStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.SaveSnapshot(ctx, "", sampleSnapshot())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Load(ctx, id)
	assert.True(t, errors.Is(err, ErrDraftNotFound))

	err = s.Delete(ctx, id)
	assert.True(t, errors.Is(err, ErrDraftNotFound))
}

func TestDraftStore_MaxDrafts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	s.MaxDrafts = 2

	first, err := s.Save(ctx, &Draft{Plain: "one"})
	require.NoError(t, err)
	_, err = s.Save(ctx, &Draft{Plain: "two"})
	require.NoError(t, err)
	_, err = s.Save(ctx, &Draft{Plain: "three"})
	require.NoError(t, err)

	metas, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, metas, 2)

	_, err = s.Load(ctx, first)
	assert.True(t, errors.Is(err, ErrDraftNotFound), "oldest draft pruned")
}

func TestDraftStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "drafts.db")

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.SaveSnapshot(ctx, "", sampleSnapshot())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	d, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ping @u1 about #go", d.Plain)
}

func TestFormatDraftList(t *testing.T) {
	assert.Equal(t, "No drafts found.", FormatDraftList(nil))

	out := FormatDraftList([]DraftMeta{{
		ID:           "0123456789abcdef",
		Preview:      "hello @u1",
		MentionCount: 1,
		UpdatedAt:    time.Date(2025, 3, 4, 5, 6, 0, 0, time.UTC),
	}})
	assert.Contains(t, out, "01234567 ")
	assert.Contains(t, out, "2025-03-04 05:06")
	assert.Contains(t, out, "hello @u1")
	assert.Equal(t, 5, strings.Count(out, "\n"))
}
