// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composer provides the terminal mention composer.
package composer

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/rigrun-mentions/internal/mention"
	"github.com/jeranaias/rigrun-mentions/internal/ui/styles"
)

// =============================================================================
// SENT HISTORY
// =============================================================================

// Entry is one sent message.
type Entry struct {
	Doc      mention.Document
	Snapshot mention.Snapshot
	SentAt   time.Time
}

// History keeps sent messages and renders them as markdown, mentions in
// bold. Rendered output is cached per width.
type History struct {
	entries []Entry
	width   int
	render  func(string) (string, error)
	cache   []string
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Add appends a sent message.
func (h *History) Add(e Entry) {
	h.entries = append(h.entries, e)
}

// Len returns the number of sent messages.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns the sent messages in order.
func (h *History) Entries() []Entry {
	return h.entries
}

// renderer returns a glamour renderer wrapping at width, rebuilding it and
// dropping the cache when the width changes.
func (h *History) renderer(width int) func(string) (string, error) {
	if h.render != nil && h.width == width {
		return h.render
	}
	h.width = width
	h.cache = nil

	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		h.render = func(md string) (string, error) { return md, nil }
		return h.render
	}
	h.render = r.Render
	return h.render
}

// View renders every entry with a timestamp line.
func (h *History) View(width int, theme *styles.Theme) string {
	if len(h.entries) == 0 {
		return theme.SentMeta.Render("Nothing sent yet.")
	}

	render := h.renderer(width)
	for i := len(h.cache); i < len(h.entries); i++ {
		e := h.entries[i]
		body, err := render(Markdown(e.Doc))
		if err != nil {
			body = e.Snapshot.Plain
		}
		meta := e.SentAt.Format("15:04:05")
		if n := len(e.Snapshot.Mentions); n > 0 {
			meta += " | " + strconv.Itoa(n) + " mentions"
		}
		h.cache = append(h.cache, theme.SentMeta.Render(meta)+"\n"+strings.TrimRight(body, "\n"))
	}
	return strings.Join(h.cache, "\n\n")
}

// Markdown converts a document to markdown: text is escaped so it renders
// literally, line breaks are kept and mentions render bold.
func Markdown(doc mention.Document) string {
	var sb strings.Builder
	for _, seg := range doc.Segments() {
		if !seg.IsText() {
			sb.WriteString("**" + escapeMarkdown(seg.Mention.Label()) + "**")
			continue
		}
		sb.WriteString(escapeMarkdown(seg.Text))
	}
	return sb.String()
}

// escapeMarkdown backslash-escapes ASCII punctuation, which CommonMark
// allows for every such character, and turns newlines into hard breaks.
func escapeMarkdown(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\n':
			sb.WriteString("  \n")
		case r < utf8.RuneSelf && (unicode.IsPunct(r) || unicode.IsSymbol(r)):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
