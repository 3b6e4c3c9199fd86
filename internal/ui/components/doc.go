// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the UI components of the mention composer.

Components are plain structs with a View method; the composer model owns
them and feeds them state before each render.

# Input

MentionInput (input.go) paints an editor.MemorySurface: text runs, styled
mention tokens and a reverse-video caret inside a rounded box bounded by a
minimum and maximum line count. RenderDocument is the line renderer it uses.

# Suggestions

SuggestionPopup (suggestion.go) renders the candidates of an open trigger
window with an optional title, a scrolling window and a "No matches" state.
Size reports the rendered size back to the positioner; IndexAtRow maps mouse
rows to candidates. FitHeight shrinks the row window to the space left, and
ViewCompact is the one-line form used when even that is too much.

# Chrome

Header (header.go) and StatusBar (statusbar.go) frame the composer.

# Usage

	popup := components.NewSuggestionPopup(theme)
	popup.Sync(ctrl.State())
	w, h := popup.Size()
	ctrl.ReportPopupSize(float64(w), float64(h))
*/
package components
