// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the mention composer.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection; the Theme records the termenv color profile it was built for.

# Color System (colors.go)

  - Purple, Cyan - popup title and selection highlight
  - Emerald, Rose, Amber - saved, error and disabled states
  - MentionFg / MentionBg - default mention token colors

CSSColor maps the color values found in per-trigger style hints ("#0a0",
"#00aa00", "green") to terminal colors.

# Theme (theme.go)

	theme := styles.NewTheme()
	label := theme.MentionStyle(m.Style).Render(m.Label())
*/
package styles
