// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package composer provides the terminal mention composer.

The composer hosts an editor.Controller on an editor.MemorySurface inside a
Bubble Tea program:

	+---------------------------------+
	| header                          |
	| sent history (viewport)         |
	| [popup, for top corners]        |
	| input box                       |
	| [popup, for bottom corners]     |
	| status bar                      |
	+---------------------------------+

Printable keys are typed into the surface and followed by HandleInput, so
the trigger scan runs on every edit. Navigation and commit keys are offered
to the controller first and fall through to editing when it declines them.
After each event the popup is synced with the controller state and its
rendered size is reported back to the positioner.

Trigger data reloads arrive from config.DataWatcher as DataReloadMsg; drafts
are saved with Ctrl+S through storage.DraftStore.
*/
package composer
