// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the mention authoring core: trigger detection,
// suggestion filtering, token insertion and document serialization.
package mention

import "strings"

// =============================================================================
// TRIGGER SCANNER
// =============================================================================

// ScanAction is the outcome of scanning the text before the caret.
type ScanAction int

const (
	ScanNone   ScanAction = iota // nothing to do
	ScanOpen                     // a trigger was just typed
	ScanUpdate                   // the open trigger's query changed
	ScanClose                    // the open trigger window ended
)

// String returns the string representation of the scan action.
func (a ScanAction) String() string {
	switch a {
	case ScanNone:
		return "none"
	case ScanOpen:
		return "open"
	case ScanUpdate:
		return "update"
	case ScanClose:
		return "close"
	default:
		return "unknown"
	}
}

// ScanResult describes what the controller should do after a content change.
type ScanResult struct {
	Action  ScanAction
	Trigger TriggerConfig
	Query   string
}

// Scan inspects the text run holding the caret. cursor is a rune offset.
//
// With no trigger open, only the rune right before the caret is examined.
// With a trigger open, the run is scanned backward for that trigger; the
// query is everything between it and the caret, and the window closes if
// the query holds a space or newline or the trigger is gone.
func Scan(text string, cursor int, open *TriggerConfig, reg *Registry) ScanResult {
	runes := []rune(text)
	if cursor > len(runes) {
		cursor = len(runes)
	}

	if open == nil {
		if cfg, ok := Classify(runes, cursor, reg); ok {
			return ScanResult{Action: ScanOpen, Trigger: cfg}
		}
		return ScanResult{Action: ScanNone}
	}

	p := findTrigger(runes, cursor, open.Trigger)
	if p < 0 {
		return ScanResult{Action: ScanClose}
	}

	query := string(runes[p+1 : cursor])
	if strings.ContainsAny(query, " \n") {
		return ScanResult{Action: ScanClose}
	}
	return ScanResult{Action: ScanUpdate, Trigger: *open, Query: query}
}

// Classify reports the trigger config for the rune just before the caret.
// Only a bare character match is required.
func Classify(runes []rune, cursor int, reg *Registry) (TriggerConfig, bool) {
	if cursor <= 0 || cursor > len(runes) {
		return TriggerConfig{}, false
	}
	return reg.Lookup(runes[cursor-1])
}

// findTrigger scans backward from cursor and returns the index of the
// trigger rune, or -1.
func findTrigger(runes []rune, cursor int, trigger rune) int {
	if cursor > len(runes) {
		cursor = len(runes)
	}
	for p := cursor - 1; p >= 0; p-- {
		if runes[p] == trigger {
			return p
		}
	}
	return -1
}
