// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/jeranaias/skybot-tui/internal/render"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	successLabel = color.New(color.FgGreen).SprintFunc()
	warningLabel = color.New(color.FgYellow).SprintFunc()
	infoLabel    = color.New(color.FgCyan).SprintFunc()
	dim          = color.New(color.FgHiBlack).SprintFunc()
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownWriter prints answers, rendered with glamour when the output is a
// terminal and raw otherwise.
type markdownWriter struct {
	w        io.Writer
	renderer *render.TerminalRenderer
}

// newMarkdownWriter renders for w when tty is set. style is a glamour style
// name or "auto".
func newMarkdownWriter(w io.Writer, tty bool, style string, width int) *markdownWriter {
	mw := &markdownWriter{w: w}
	if tty {
		mw.renderer = render.NewTerminalRenderer(style, width)
	}
	return mw
}

// Print writes markdown followed by a newline.
func (m *markdownWriter) Print(markdown string) {
	if m.renderer != nil {
		markdown = m.renderer.Render(markdown)
	}
	fmt.Fprintln(m.w, markdown)
}

// glamourStyle maps the ui.theme setting to a glamour style.
func glamourStyle(theme string) string {
	switch theme {
	case "dark", "light":
		return theme
	default:
		return "auto"
	}
}
