// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the command-line surface of rigrun-mentions.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/storage"
)

// =============================================================================
// DRAFTS COMMAND
// =============================================================================

// HandleDrafts runs "drafts [list|search|show|delete]".
func HandleDrafts(ctx context.Context, store *storage.DraftStore, args Args, out io.Writer) error {
	p := args.Parser
	action := p.Positional(1)
	if action == "" {
		action = "list"
	}

	switch action {
	case "list", "ls":
		metas, err := store.List(ctx)
		if err != nil {
			return NewCommandError("drafts", action, "could not list drafts", err)
		}
		return writeDraftList(out, "drafts list", metas, args.JSON)

	case "search", "find":
		query := strings.Join(p.PositionalFrom(2), " ")
		if query == "" {
			return ErrMissingArgument("query", "rigrun-mentions drafts search ada")
		}
		metas, err := store.Search(ctx, query)
		if err != nil {
			return NewCommandError("drafts", action, "could not search drafts", err)
		}
		return writeDraftList(out, "drafts search", metas, args.JSON)

	case "show", "cat":
		id, err := ResolveDraftID(ctx, store, p.Positional(2))
		if err != nil {
			return err
		}
		d, err := store.Load(ctx, id)
		if err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse("drafts show", d).Write(out)
		}
		WriteDraft(out, d)
		return nil

	case "delete", "rm":
		id, err := ResolveDraftID(ctx, store, p.Positional(2))
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, id); err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse("drafts delete", map[string]string{"id": id}).Write(out)
		}
		fmt.Fprintln(out, SuccessStyle.Render("Deleted draft "+id))
		return nil

	default:
		return &ValidationError{
			Field:   "drafts action",
			Value:   action,
			Reason:  "expected list, search, show or delete",
			Example: "rigrun-mentions drafts show 1b9d6bcd",
		}
	}
}

func writeDraftList(out io.Writer, command string, metas []storage.DraftMeta, jsonMode bool) error {
	if jsonMode {
		if metas == nil {
			metas = []storage.DraftMeta{}
		}
		return NewJSONResponse(command, metas).Write(out)
	}
	fmt.Fprintln(out, storage.FormatDraftList(metas))
	return nil
}

// ResolveDraftID expands a draft ID prefix, as printed by the draft list,
// to the full ID.
func ResolveDraftID(ctx context.Context, store *storage.DraftStore, prefix string) (string, error) {
	if prefix == "" {
		return "", ErrMissingArgument("draft id", "rigrun-mentions drafts show 1b9d6bcd")
	}
	if _, err := store.Load(ctx, prefix); err == nil {
		return prefix, nil
	} else if !errors.Is(err, storage.ErrDraftNotFound) {
		return "", err
	}

	metas, err := store.List(ctx)
	if err != nil {
		return "", NewCommandError("drafts", "resolve", "could not list drafts", err)
	}
	var matches []string
	for _, m := range metas {
		if strings.HasPrefix(m.ID, prefix) {
			matches = append(matches, m.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Resource: "draft", ID: prefix}
	case 1:
		return matches[0], nil
	default:
		return "", &ValidationError{
			Field:  "draft id",
			Value:  prefix,
			Reason: fmt.Sprintf("matches %d drafts", len(matches)),
		}
	}
}

// WriteDraft prints a draft for humans.
func WriteDraft(out io.Writer, d *storage.Draft) {
	fmt.Fprintln(out, TitleStyle.Render("Draft "+d.ID))
	if d.Title != "" {
		fmt.Fprintln(out, LabelStyle.Render("Title")+ValueStyle.Render(d.Title))
	}
	fmt.Fprintln(out, LabelStyle.Render("Updated")+ValueStyle.Render(d.UpdatedAt.Format("2006-01-02 15:04:05")))
	fmt.Fprintln(out)
	WriteDocument(out, mention.DecodeMarkup(d.Markup), d.Mentions)
}

// WriteDocument prints a document's text with mentions highlighted,
// followed by the mention records.
func WriteDocument(out io.Writer, doc mention.Document, mentions []mention.ParsedMention) {
	var sb strings.Builder
	for _, seg := range doc.Segments() {
		if seg.IsText() {
			sb.WriteString(seg.Text)
			continue
		}
		sb.WriteString(MentionStyle.Render(seg.Mention.Label()))
	}
	fmt.Fprintln(out, sb.String())

	if len(mentions) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("Mentions (%d)", len(mentions))))
	for _, m := range mentions {
		fmt.Fprintf(out, "  %s%s  %s\n", m.Type, m.Display, ValueStyle.Render("id="+m.ID+" value="+m.Value))
	}
}
