// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the mention authoring core: trigger detection,
// suggestion filtering, token insertion and document serialization.
//
// Everything in this package is a pure function over the Document value, so
// it can be tested without any rendering surface.
//
// # Key Types
//
//   - Document: ordered text runs and atomic mention tokens
//   - Position: caret token (segment id + rune offset), validated on use
//   - Registry: trigger character to TriggerConfig, first match wins
//   - ScanResult: outcome of scanning the text before the caret
//   - ParsedMention / Snapshot: serialized projections of a document
//
// # Usage
//
//	reg := mention.NewRegistry(mention.TriggerConfig{Trigger: '@', Data: users})
//	res := mention.Scan(text, offset, nil, reg)          // ScanOpen
//	items := mention.Filter(res.Trigger, "al", 10)
//	mut, ok := mention.Insert(doc, caret, res.Trigger, items[0])
//	plain := mention.PlainText(mut.Doc)                 // "hello @u1 "
//
// Plain text uses trigger+value for every mention; the encoded markup keeps
// trigger, value, display and id so DecodeMarkup(EncodeMarkup(d)) equals d.
package mention
