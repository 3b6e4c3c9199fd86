// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the command-line surface of rigrun-mentions.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/rigrun-mentions/internal/mention"
)

// HandleParse runs "parse [MARKUP]": it decodes markup given as arguments,
// or read from in when none (or "-") is given, and prints its projections.
// --plain prints only the plain text.
func HandleParse(args Args, in io.Reader, out io.Writer) error {
	p := args.Parser
	rest := p.PositionalFrom(1)

	var markup string
	if len(rest) == 0 || (len(rest) == 1 && rest[0] == "-") {
		data, err := io.ReadAll(in)
		if err != nil {
			return NewCommandError("parse", "read", "could not read stdin", err)
		}
		markup = strings.TrimRight(string(data), "\r\n")
	} else {
		markup = strings.Join(rest, " ")
	}

	doc := mention.DecodeMarkup(markup)
	snap := mention.Snap(doc)

	switch {
	case args.JSON:
		return NewJSONResponse("parse", snap).Write(out)
	case p.BoolFlag("plain"):
		fmt.Fprintln(out, snap.Plain)
		return nil
	default:
		WriteDocument(out, doc, snap.Mentions)
		return nil
	}
}
