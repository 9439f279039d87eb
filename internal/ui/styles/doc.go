// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the color palette and Lip Gloss styles for the
Skybot terminal UI.

All colors are Lip Gloss AdaptiveColor values. NewTheme resolves the
background once: "dark" and "light" force it, "auto" asks the terminal
through termenv.

# Color System (colors.go)

  - Cyan: brand, the user label, the input prompt
  - Purple: the Skybot label and selections
  - Emerald: upload success
  - Amber: uploads in progress and pending channels
  - Rose: errors

# Theme (theme.go)

	theme := styles.NewTheme("auto")
	header := theme.Header.Render("Skybot")
*/
package styles
