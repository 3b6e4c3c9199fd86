// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// rigrun-mentions.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: popup placement, input box sizing and the trigger list
//   - TriggerConfig: one trigger character with inline data or a data_file
//   - DataWatcher: fsnotify watcher that reloads data files on change
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RIGRUN_MENTIONS_*)
//   - ~/.rigrun-mentions/config.toml
//   - ~/.rigrun-mentions/config.json
//   - Built-in defaults
//
// # Example
//
//	max_suggestions = 8
//	suggestion_position = "inputTopLeft"
//
//	[[triggers]]
//	trigger = "@"
//	suggestion_title = "People"
//	data_file = "people.json"
//
//	[[triggers]]
//	trigger = "#"
//	class_name = "tag"
//	[[triggers.data]]
//	id = "go"
//	display = "golang"
//	value = "go"
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	triggers, err := cfg.Mentions()
package config
