// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides draft persistence for rigrun-mentions.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/util"
)

// =============================================================================
// DRAFT TYPES
// =============================================================================

// Draft is a persisted composition.
type Draft struct {
	ID        string                  `json:"id"`
	Title     string                  `json:"title,omitempty"`
	Markup    string                  `json:"markup"`
	Plain     string                  `json:"plain_text"`
	Mentions  []mention.ParsedMention `json:"mentions"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// Snapshot returns the draft's projections.
func (d *Draft) Snapshot() mention.Snapshot {
	return mention.Snapshot{Markup: d.Markup, Plain: d.Plain, Mentions: d.Mentions}
}

// DraftMeta contains metadata for listing drafts.
type DraftMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	Preview      string    `json:"preview"`
	MentionCount int       `json:"mention_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// =============================================================================
// DRAFT STORE
// =============================================================================

// DraftStore keeps drafts in a SQLite database.
type DraftStore struct {
	db   *sql.DB
	path string

	// MaxDrafts limits stored drafts, oldest first (0 = unlimited).
	MaxDrafts int

	now func() time.Time
}

// Open opens (creating if needed) the draft database at path.
func Open(path string) (*DraftStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DraftStore{db: db, path: path, MaxDrafts: 100, now: time.Now}, nil
}

// Path returns the database file.
func (s *DraftStore) Path() string {
	return s.path
}

// Close releases the database.
func (s *DraftStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save upserts a draft and returns its ID. An empty ID gets a fresh UUID;
// CreatedAt is kept across updates.
func (s *DraftStore) Save(ctx context.Context, d *Draft) (string, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Mentions == nil {
		d.Mentions = []mention.ParsedMention{}
	}
	mentions, err := json.Marshal(d.Mentions)
	if err != nil {
		return "", fmt.Errorf("failed to encode mentions: %w", err)
	}

	now := s.now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (id, title, markup, plain_text, mentions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			markup = excluded.markup,
			plain_text = excluded.plain_text,
			mentions = excluded.mentions,
			updated_at = excluded.updated_at
	`, d.ID, d.Title, d.Markup, d.Plain, string(mentions), d.CreatedAt.UnixNano(), d.UpdatedAt.UnixNano())
	if err != nil {
		return "", fmt.Errorf("failed to save draft: %w", err)
	}

	if err := s.enforceLimit(ctx); err != nil {
		return d.ID, err
	}
	return d.ID, nil
}

// SaveSnapshot stores a controller snapshot under id (empty = new draft).
func (s *DraftStore) SaveSnapshot(ctx context.Context, id string, snap mention.Snapshot) (string, error) {
	d := &Draft{ID: id, Markup: snap.Markup, Plain: snap.Plain, Mentions: snap.Mentions}
	if id != "" {
		if prev, err := s.Load(ctx, id); err == nil {
			d.Title = prev.Title
			d.CreatedAt = prev.CreatedAt
		}
	}
	return s.Save(ctx, d)
}

func (s *DraftStore) enforceLimit(ctx context.Context) error {
	if s.MaxDrafts <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM drafts WHERE id NOT IN (
			SELECT id FROM drafts ORDER BY updated_at DESC, id LIMIT ?
		)
	`, s.MaxDrafts)
	if err != nil {
		return fmt.Errorf("failed to prune drafts: %w", err)
	}
	return nil
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load returns a draft by ID.
func (s *DraftStore) Load(ctx context.Context, id string) (*Draft, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, markup, plain_text, mentions, created_at, updated_at
		FROM drafts WHERE id = ?
	`, id)

	var (
		d                Draft
		mentions         string
		created, updated int64
	)
	if err := row.Scan(&d.ID, &d.Title, &d.Markup, &d.Plain, &mentions, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if err := json.Unmarshal([]byte(mentions), &d.Mentions); err != nil {
		return nil, fmt.Errorf("failed to decode mentions: %w", err)
	}
	if d.Mentions == nil {
		d.Mentions = []mention.ParsedMention{}
	}
	d.CreatedAt = time.Unix(0, created)
	d.UpdatedAt = time.Unix(0, updated)
	return &d, nil
}

// List returns draft metadata, most recently updated first.
func (s *DraftStore) List(ctx context.Context) ([]DraftMeta, error) {
	return s.query(ctx, "", nil)
}

// Search returns drafts whose plain text contains query, case-insensitively.
func (s *DraftStore) Search(ctx context.Context, query string) ([]DraftMeta, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	return s.query(ctx, `WHERE plain_text LIKE ? ESCAPE '\' OR title LIKE ? ESCAPE '\'`,
		[]any{"%" + escaped + "%", "%" + escaped + "%"})
}

func (s *DraftStore) query(ctx context.Context, where string, args []any) ([]DraftMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, plain_text, mentions, created_at, updated_at
		FROM drafts `+where+`
		ORDER BY updated_at DESC, id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	metas := []DraftMeta{}
	for rows.Next() {
		var (
			m                DraftMeta
			plain, mentions  string
			created, updated int64
		)
		if err := rows.Scan(&m.ID, &m.Title, &plain, &mentions, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		var parsed []mention.ParsedMention
		if err := json.Unmarshal([]byte(mentions), &parsed); err == nil {
			m.MentionCount = len(parsed)
		}
		m.Preview = util.TruncateRunes(strings.ReplaceAll(plain, "\n", " "), 60)
		m.CreatedAt = time.Unix(0, created)
		m.UpdatedAt = time.Unix(0, updated)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a draft.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrDraftNotFound is returned when a draft doesn't exist.
// Use errors.Is(err, ErrDraftNotFound) to check for this error.
var ErrDraftNotFound = &DraftError{Message: "draft not found"}

// DraftError represents a draft-related error.
type DraftError struct {
	Message string
}

// Error implements the error interface.
func (e *DraftError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing draft errors.
func (e *DraftError) Is(target error) bool {
	t, ok := target.(*DraftError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// LIST FORMATTING
// =============================================================================

// FormatDraftList renders drafts as a fixed-width table.
func FormatDraftList(drafts []DraftMeta) string {
	if len(drafts) == 0 {
		return "No drafts found."
	}

	var sb strings.Builder
	sb.WriteString("Drafts:\n")
	sb.WriteString("-----------------------------------------------------\n")
	sb.WriteString(util.PadRight("ID", 8) + " " + util.PadRight("Updated", 16) + " " + util.PadRight("@", 3) + " Preview\n")
	sb.WriteString("-----------------------------------------------------\n")

	for _, d := range drafts {
		id := d.ID
		if len(id) > 8 {
			id = id[:8]
		}
		preview := d.Preview
		if d.Title != "" {
			preview = d.Title
		}
		sb.WriteString(util.PadRight(id, 8) + " " +
			util.PadRight(d.UpdatedAt.Format("2006-01-02 15:04"), 16) + " " +
			util.PadRight(strconv.Itoa(d.MentionCount), 3) + " " +
			util.TruncateRunes(preview, 30) + "\n")
	}
	return sb.String()
}
