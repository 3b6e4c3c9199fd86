// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the mention authoring core: trigger detection,
// suggestion filtering, token insertion and document serialization.
package mention

import "strings"

// =============================================================================
// PROJECTIONS
// =============================================================================

// ParsedMentions lists the mentions of doc in document order. Index is the
// ordinal among mentions only.
func ParsedMentions(doc Document) []ParsedMention {
	mentions := []ParsedMention{}
	for _, s := range doc.segments {
		if s.IsText() {
			continue
		}
		mentions = append(mentions, ParsedMention{
			Type:    string(s.Mention.Trigger),
			Value:   s.Mention.Value,
			Display: s.Mention.Display,
			Index:   len(mentions),
			ID:      s.Mention.ID,
		})
	}
	return mentions
}

// PlainText flattens doc. Mentions become trigger+value, never display:
// downstream consumers parse mentions back out of plain text this way.
func PlainText(doc Document) string {
	var sb strings.Builder
	for _, s := range doc.segments {
		if s.IsText() {
			sb.WriteString(s.Text)
			continue
		}
		sb.WriteRune(s.Mention.Trigger)
		sb.WriteString(s.Mention.Value)
	}
	return sb.String()
}

// Snap computes all three projections of doc.
func Snap(doc Document) Snapshot {
	return Snapshot{
		Markup:   EncodeMarkup(doc),
		Plain:    PlainText(doc),
		Mentions: ParsedMentions(doc),
	}
}
