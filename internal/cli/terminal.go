// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Wrap widths for rendered answers when stdout is a terminal.
const (
	DefaultTerminalWidth = 80
	MinTerminalWidth     = 40
)

// IsTTY reports whether stdin is interactive; the REPL and TUI need it.
func IsTTY() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// IsStdoutTTY reports whether stdout is a terminal. Piped output gets no
// colors and no Markdown styling.
func IsStdoutTTY() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// GetTerminalWidth is the stdout width clamped to MinTerminalWidth, or
// DefaultTerminalWidth when it cannot be read.
func GetTerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return DefaultTerminalWidth
	}
	return max(w, MinTerminalWidth)
}

// ColorsEnabled settles fatih/color's global switch. The library already
// honors NO_COLOR and a non-terminal stdout; FORCE_COLOR overrides the
// latter.
func ColorsEnabled() bool {
	if os.Getenv("FORCE_COLOR") != "" && os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
	return !color.NoColor
}
