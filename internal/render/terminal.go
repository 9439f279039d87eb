// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// TerminalRenderer renders markdown as ANSI text with glamour.
// A renderer that failed to initialize passes markdown through unchanged.
type TerminalRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	style    string
	width    int
}

// NewTerminalRenderer creates a renderer wrapping at width. style is a
// glamour standard style name ("dark", "light", "notty", ...) or "auto".
func NewTerminalRenderer(style string, width int) *TerminalRenderer {
	t := &TerminalRenderer{style: style}
	t.SetWidth(width)
	return t
}

// SetWidth rebuilds the renderer for a new wrap width.
func (t *TerminalRenderer) SetWidth(width int) {
	if width <= 0 {
		width = 80
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.renderer != nil && t.width == width {
		return
	}

	styleOpt := glamour.WithAutoStyle()
	if t.style != "" && t.style != "auto" {
		styleOpt = glamour.WithStandardStyle(t.style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		r = nil
	}
	t.renderer = r
	t.width = width
}

// Render renders markdown, returning it unchanged if rendering fails.
func (t *TerminalRenderer) Render(markdown string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.renderer == nil {
		return markdown
	}
	out, err := t.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(out, "\n")
}
