// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the mention authoring core: trigger detection,
// suggestion filtering, token insertion and document serialization.
package mention

// Separator follows every inserted mention.
const Separator = " "

// =============================================================================
// MENTION INSERTER
// =============================================================================

// Insert replaces the span from the open trigger through at with a mention
// token for item, followed by Separator. The caret ends right after the
// separator.
//
// The trigger is located again at commit time. If at no longer resolves or
// the trigger is gone from its run, nothing changes and ok is false.
func Insert(doc Document, at Position, trigger TriggerConfig, item Item) (m Mutation, ok bool) {
	text, ok := doc.TextAt(at)
	if !ok {
		return Mutation{}, false
	}

	p := findTrigger([]rune(text), at.Offset, trigger.Trigger)
	if p < 0 {
		return Mutation{}, false
	}

	next, cursor, ok := doc.ReplaceRange(at, p, at.Offset)
	if !ok {
		return Mutation{}, false
	}
	next, cursor, ok = next.InsertAtomic(cursor, Mention{
		Trigger:   trigger.Trigger,
		Display:   item.Display,
		Value:     item.Value,
		ID:        item.ID,
		ClassName: trigger.ClassName,
		Style:     trigger.Style,
	})
	if !ok {
		return Mutation{}, false
	}
	next, cursor, ok = next.InsertText(cursor, Separator)
	if !ok {
		return Mutation{}, false
	}
	return Mutation{Doc: next, Cursor: cursor}, true
}
