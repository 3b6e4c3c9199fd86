// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the mention authoring core: trigger detection,
// suggestion filtering, token insertion and document serialization.
package mention

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attribute names carried by every encoded mention.
const (
	AttrType    = "data-mention-type"
	AttrValue   = "data-mention-value"
	AttrDisplay = "data-mention-display"
	AttrID      = "data-mention-id"
)

// =============================================================================
// ENCODING
// =============================================================================

// EncodeMarkup renders doc as attributed markup. Text is escaped and newlines
// become <br>; each mention becomes a non-editable span carrying its
// trigger, value, display and optional id.
func EncodeMarkup(doc Document) string {
	var sb strings.Builder
	for _, s := range doc.segments {
		if s.IsText() {
			writeText(&sb, s.Text)
			continue
		}
		writeMention(&sb, s.Mention)
	}
	return sb.String()
}

func writeText(sb *strings.Builder, text string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("<br>")
		}
		sb.WriteString(html.EscapeString(line))
	}
}

func writeMention(sb *strings.Builder, m Mention) {
	sb.WriteString(`<span contenteditable="false"`)
	writeAttr(sb, AttrType, string(m.Trigger))
	writeAttr(sb, AttrValue, m.Value)
	writeAttr(sb, AttrDisplay, m.Display)
	if m.ID != "" {
		writeAttr(sb, AttrID, m.ID)
	}
	if m.ClassName != "" {
		writeAttr(sb, "class", m.ClassName)
	}
	if len(m.Style) > 0 {
		writeAttr(sb, "style", encodeStyle(m.Style))
	}
	sb.WriteString(">")
	sb.WriteString(html.EscapeString(m.Label()))
	sb.WriteString("</span>")
}

func writeAttr(sb *strings.Builder, key, val string) {
	sb.WriteString(" " + key + `="` + html.EscapeString(val) + `"`)
}

func encodeStyle(style map[string]string) string {
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+style[k])
	}
	return strings.Join(parts, "; ")
}

func decodeStyle(s string) map[string]string {
	style := map[string]string{}
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" {
			style[k] = v
		}
	}
	if len(style) == 0 {
		return nil
	}
	return style
}

// =============================================================================
// DECODING
// =============================================================================

// DecodeMarkup rebuilds a document from markup produced by EncodeMarkup (or
// by a browser editing surface). It never fails: elements without the
// required mention attributes contribute their text content instead.
func DecodeMarkup(markup string) Document {
	if markup == "" {
		return NewDocument()
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return NewDocument(Text(markup))
	}

	b := &markupBuilder{}
	for _, n := range nodes {
		b.walk(n)
	}
	b.flush()
	return NewDocument(b.segments...)
}

type markupBuilder struct {
	segments []Segment
	text     strings.Builder
	started  bool
}

func (b *markupBuilder) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.addText(n.Data)
		return
	case html.ElementNode:
		if m, ok := mentionFromNode(n); ok {
			b.flush()
			b.segments = append(b.segments, MentionSegment(m))
			b.started = true
			return
		}
		switch n.DataAtom {
		case atom.Br:
			b.addText("\n")
			return
		case atom.Script, atom.Style:
			return
		case atom.Div, atom.P:
			// Editable surfaces wrap each new line in a block element.
			if b.started && !b.endsWithNewline() {
				b.addText("\n")
			}
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *markupBuilder) addText(s string) {
	if s == "" {
		return
	}
	b.text.WriteString(s)
	b.started = true
}

func (b *markupBuilder) endsWithNewline() bool {
	if b.text.Len() > 0 {
		return strings.HasSuffix(b.text.String(), "\n")
	}
	if n := len(b.segments); n > 0 && b.segments[n-1].IsText() {
		return strings.HasSuffix(b.segments[n-1].Text, "\n")
	}
	return false
}

func (b *markupBuilder) flush() {
	if b.text.Len() == 0 {
		return
	}
	b.segments = append(b.segments, Text(b.text.String()))
	b.text.Reset()
}

func mentionFromNode(n *html.Node) (Mention, bool) {
	var (
		m                 Mention
		hasType, hasValue bool
		display           string
		hasDisplay        bool
	)
	for _, a := range n.Attr {
		switch a.Key {
		case AttrType:
			r, size := utf8.DecodeRuneInString(a.Val)
			if r == utf8.RuneError || size != len(a.Val) {
				return Mention{}, false
			}
			m.Trigger = r
			hasType = true
		case AttrValue:
			m.Value = a.Val
			hasValue = true
		case AttrDisplay:
			display = a.Val
			hasDisplay = true
		case AttrID:
			m.ID = a.Val
		case "class":
			m.ClassName = a.Val
		case "style":
			m.Style = decodeStyle(a.Val)
		}
	}
	if !hasType || !hasValue {
		return Mention{}, false
	}
	m.Display = m.Value
	if hasDisplay {
		m.Display = display
	}
	return m, true
}
