// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composer provides the terminal mention composer.
package composer

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-mentions/internal/config"
)

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// DataReloadMsg delivers fresh trigger data from the config watcher.
type DataReloadMsg struct {
	config.Reload
}

// watcherClosedMsg signals that the watcher's event channel closed.
type watcherClosedMsg struct{}

// waitForReload blocks on the watcher for the next reload.
func waitForReload(w *config.DataWatcher) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-w.Events()
		if !ok {
			return watcherClosedMsg{}
		}
		return DataReloadMsg{Reload: r}
	}
}

// =============================================================================
// DRAFT MESSAGES
// =============================================================================

// DraftSavedMsg reports the outcome of a draft save.
type DraftSavedMsg struct {
	ID  string
	Err error
}

// DraftDeletedMsg reports the removal of a sent draft.
type DraftDeletedMsg struct {
	ID  string
	Err error
}
