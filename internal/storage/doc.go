// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides draft persistence for rigrun-mentions.
//
// Drafts are composed documents saved in all three projections (markup,
// plain text and parsed mentions) so they can be rehydrated into the editor
// with DecodeMarkup or consumed directly by downstream tools.
//
// # Key Types
//
//   - DraftStore: SQLite-backed store (pure Go driver, WAL mode)
//   - Draft: a persisted composition
//   - DraftMeta: lightweight metadata for listing
//
// # Usage
//
//	store, err := storage.Open(path)
//	id, err := store.SaveSnapshot(ctx, "", ctrl.Snapshot())
//	draft, err := store.Load(ctx, id)
//	metas, err := store.Search(ctx, "@alice")
//
// # Storage Location
//
// Drafts are stored in ~/.rigrun-mentions/drafts.db unless configured
// otherwise.
package storage
