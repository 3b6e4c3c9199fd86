// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the command-line surface of rigrun-mentions.

# Commands

	rigrun-mentions [compose]          terminal composer (main.go)
	rigrun-mentions drafts [list|search|show|delete]
	rigrun-mentions parse [MARKUP]     decode markup into its projections
	rigrun-mentions config [show|path|init|check]
	rigrun-mentions version

Parse turns os.Args into Args; the Handle* functions take their output
writer so they can be tested without a terminal.

# Errors and Exit Codes

Handlers return errors and never exit. GetExitCode maps them:

	ValidationError                      ExitUsageError (2)
	config.ErrInvalidConfig              ExitConfigError (3)
	CommandError from "storage"          ExitStorageError (4)
	NotFoundError, ErrDraftNotFound      ExitNotFoundError (7)
	context.DeadlineExceeded             ExitTimeoutError (8)

With --json, output and errors are wrapped in a JSONResponse envelope.
*/
package cli
