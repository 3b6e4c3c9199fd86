// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the mention authoring core: trigger detection,
// suggestion filtering, token insertion and document serialization.
package mention

// DefaultMaxSuggestions is used when a non-positive limit is supplied.
const DefaultMaxSuggestions = 10

// =============================================================================
// SUGGESTION DATA
// =============================================================================

// Item is a single suggestion supplied by the host for a trigger.
// IDs are unique per trigger data source, not globally.
type Item struct {
	ID      string            `toml:"id" json:"id"`
	Display string            `toml:"display" json:"display"`
	Value   string            `toml:"value" json:"value"`
	Extra   map[string]string `toml:"extra,omitempty" json:"extra,omitempty"`
}

// TriggerConfig binds a trigger character to its suggestion source.
type TriggerConfig struct {
	// Trigger is the rune that opens suggestion mode (e.g. '@').
	Trigger rune

	// Data is the ordered suggestion source.
	Data []Item

	// ClassName and Style are carried into the encoded markup of every
	// mention inserted for this trigger.
	ClassName string
	Style     map[string]string

	// SuggestionTitle is an optional popup header.
	SuggestionTitle string
}

// TriggerString returns the trigger as a string.
func (c TriggerConfig) TriggerString() string {
	return string(c.Trigger)
}

// =============================================================================
// SERIALIZATION RECORDS
// =============================================================================

// ParsedMention is the structured record emitted for each mention in a
// document, in document order.
type ParsedMention struct {
	Type    string `json:"type"`
	Value   string `json:"value"`
	Display string `json:"display"`
	Index   int    `json:"index"`
	ID      string `json:"id"`
}

// Snapshot bundles the three projections of a document that consumers
// receive on every content change.
type Snapshot struct {
	Markup   string          `json:"markup"`
	Plain    string          `json:"plain_text"`
	Mentions []ParsedMention `json:"mentions"`
}

// IsEmpty reports whether the snapshot describes an empty document.
func (s Snapshot) IsEmpty() bool {
	return s.Markup == "" && s.Plain == "" && len(s.Mentions) == 0
}
