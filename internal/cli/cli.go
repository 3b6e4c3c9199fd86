// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the command-line surface of rigrun-mentions.
package cli

import (
	"fmt"
	"io"
	"runtime"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the command to execute.
type Command int

const (
	CmdCompose Command = iota
	CmdDrafts
	CmdParse
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command's name.
func (c Command) String() string {
	switch c {
	case CmdCompose:
		return "compose"
	case CmdDrafts:
		return "drafts"
	case CmdParse:
		return "parse"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	Command Command

	// Global flags
	ConfigPath string // --config
	DBPath     string // --db
	DraftID    string // --draft
	LogLevel   string // --log-level
	LogFile    string // --log-file
	Debug      bool
	JSON       bool

	// Parser keeps the command's own arguments; Positional(0) is the
	// command name.
	Parser *ArgParser
}

const usageText = `rigrun-mentions - compose messages with @mentions in the terminal

Usage:
  rigrun-mentions [compose]         Start the composer (default)
  rigrun-mentions drafts [list]     List saved drafts
  rigrun-mentions drafts search Q   Search drafts by text
  rigrun-mentions drafts show ID    Show a draft (ID may be a prefix)
  rigrun-mentions drafts delete ID  Delete a draft
  rigrun-mentions parse [MARKUP]    Decode markup (stdin when omitted)
  rigrun-mentions config [show]     Print the effective configuration
  rigrun-mentions config path       Print the configuration file path
  rigrun-mentions config init       Write a default configuration file
  rigrun-mentions config check      Load trigger data and report counts
  rigrun-mentions version           Show version information

Global flags:
  --config PATH      Configuration file (.toml or .json)
  --db PATH          Draft database
  --draft ID         Resume a draft in the composer
  --log-level LEVEL  debug, info, warn or error
  --log-file PATH    Write logs to PATH instead of stderr
  --debug            Shorthand for --log-level debug
  --json             Machine-readable output

Composer keys:
  Tab / Enter        Insert the highlighted suggestion
  Up / Down          Move through suggestions
  Esc                Dismiss suggestions
  Enter              Send (when no suggestions are shown)
  Alt+Enter, Ctrl+J  New line
  Ctrl+S             Save draft
  Ctrl+L             Clear
  Ctrl+C             Quit
`

// Parse parses os.Args[1:].
func Parse(argv []string) (Args, error) {
	p := NewArgParser(argv)
	args := Args{
		ConfigPath: p.Flag("config"),
		DBPath:     p.Flag("db"),
		DraftID:    p.Flag("draft"),
		LogLevel:   p.Flag("log-level"),
		LogFile:    p.Flag("log-file"),
		Debug:      p.BoolFlag("debug"),
		JSON:       p.BoolFlag("json"),
		Parser:     p,
	}
	if args.Debug && args.LogLevel == "" {
		args.LogLevel = "debug"
	}

	switch {
	case p.BoolFlag("help") || p.BoolFlag("h"):
		args.Command = CmdHelp
		return args, nil
	case p.BoolFlag("version"):
		args.Command = CmdVersion
		return args, nil
	}

	switch name := p.Subcommand(); name {
	case "", "compose":
		args.Command = CmdCompose
	case "drafts", "draft":
		args.Command = CmdDrafts
	case "parse":
		args.Command = CmdParse
	case "config":
		args.Command = CmdConfig
	case "version":
		args.Command = CmdVersion
	case "help":
		args.Command = CmdHelp
	default:
		return args, &ValidationError{
			Field:   "command",
			Value:   name,
			Reason:  "unknown command",
			Example: "rigrun-mentions help",
		}
	}
	return args, nil
}

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information, as JSON in JSON mode.
func PrintVersion(w io.Writer, jsonMode bool) error {
	if jsonMode {
		return NewJSONResponse("version", map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go":         runtime.Version(),
			"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		}).Write(w)
	}
	fmt.Fprintf(w, "rigrun-mentions %s\n", Version)
	fmt.Fprintf(w, "  Commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Built:  %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
