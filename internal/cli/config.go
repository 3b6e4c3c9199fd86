// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the command-line surface of rigrun-mentions.
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rigrun-mentions/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

// HandleConfig runs "config [show|path|init|check]". cfg is the loaded
// configuration; init ignores it and writes defaults.
func HandleConfig(cfg *config.Config, args Args, out io.Writer) error {
	p := args.Parser
	action := p.Positional(1)
	if action == "" {
		action = "show"
	}

	switch action {
	case "show":
		if args.JSON {
			return NewJSONResponse("config show", cfg).Write(out)
		}
		if err := toml.NewEncoder(out).Encode(cfg); err != nil {
			return NewCommandError("config", action, "could not encode config", err)
		}
		return nil

	case "path":
		path := configPath(cfg, args)
		if args.JSON {
			return NewJSONResponse("config path", map[string]string{"path": path}).Write(out)
		}
		fmt.Fprintln(out, path)
		return nil

	case "init":
		path := args.ConfigPath
		if path == "" {
			var err error
			if path, err = config.ConfigPathTOML(); err != nil {
				return NewCommandError("config", action, "no config directory", err)
			}
		}
		if _, err := os.Stat(path); err == nil && !p.BoolFlag("force") {
			return &ValidationError{
				Field:   "config",
				Value:   path,
				Reason:  "already exists (use --force to overwrite)",
				Example: "rigrun-mentions config init --force",
			}
		}
		save := config.SaveTOML
		if isJSONPath(path) {
			save = config.SaveJSON
		}
		if err := save(config.Default(), path); err != nil {
			return NewCommandError("config", action, "could not write config", err)
		}
		fmt.Fprintln(out, SuccessStyle.Render("Wrote "+path))
		return nil

	case "check":
		triggers, err := cfg.Mentions()
		if err != nil {
			return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		if args.JSON {
			counts := make(map[string]int, len(triggers))
			for _, t := range triggers {
				counts[t.TriggerString()] += len(t.Data)
			}
			return NewJSONResponse("config check", counts).Write(out)
		}
		fmt.Fprintln(out, TitleStyle.Render("Triggers"))
		for _, t := range triggers {
			title := t.SuggestionTitle
			if title == "" {
				title = "-"
			}
			fmt.Fprintln(out, "  "+LabelStyle.Render(t.TriggerString())+
				ValueStyle.Render(strconv.Itoa(len(t.Data))+" items, "+title))
		}
		return nil

	default:
		return &ValidationError{
			Field:   "config action",
			Value:   action,
			Reason:  "expected show, path, init or check",
			Example: "rigrun-mentions config check",
		}
	}
}

func configPath(cfg *config.Config, args Args) string {
	if args.ConfigPath != "" {
		return args.ConfigPath
	}
	if cfg != nil && cfg.Path() != "" {
		return cfg.Path()
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return ""
	}
	return path
}

func isJSONPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}
