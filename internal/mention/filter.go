// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the mention authoring core: trigger detection,
// suggestion filtering, token insertion and document serialization.
package mention

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// SUGGESTION FILTER
// =============================================================================

// Filter returns the candidates for query. An empty query yields the first
// max items in source order. Otherwise items whose Display or Value contains
// the query (case-insensitively) are kept in source order. No ranking is
// applied; the order is part of the observable behavior.
func Filter(cfg TriggerConfig, query string, max int) []Item {
	if max <= 0 {
		max = DefaultMaxSuggestions
	}

	if query == "" {
		n := len(cfg.Data)
		if n > max {
			n = max
		}
		out := make([]Item, n)
		copy(out, cfg.Data[:n])
		return out
	}

	// cases.Caser is stateful, so one per call.
	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	out := make([]Item, 0, max)
	for _, item := range cfg.Data {
		if strings.Contains(lower.String(item.Display), needle) ||
			strings.Contains(lower.String(item.Value), needle) {
			out = append(out, item)
			if len(out) == max {
				break
			}
		}
	}
	return out
}
