// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/skybot-tui/internal/commands"
	"github.com/jeranaias/skybot-tui/internal/ui/styles"
	"github.com/jeranaias/skybot-tui/internal/util"
)

const (
	completionValueWidth = 24
	completionRows       = 8
)

// CompletionPopup lists suggestions under the composer. The cursor wraps
// at both ends and the visible rows scroll to keep it centered.
type CompletionPopup struct {
	items  []commands.Completion
	cursor int
	width  int
	theme  *styles.Theme
}

func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{width: 60, theme: theme}
}

// SetCompletions replaces the suggestions and moves the cursor to the top.
func (c *CompletionPopup) SetCompletions(items []commands.Completion) {
	c.items, c.cursor = items, 0
}

func (c *CompletionPopup) Next() { c.move(1) }
func (c *CompletionPopup) Prev() { c.move(-1) }

func (c *CompletionPopup) move(delta int) {
	if n := len(c.items); n > 0 {
		c.cursor = ((c.cursor+delta)%n + n) % n
	}
}

// Selected returns the suggestion under the cursor, or nil when empty.
func (c *CompletionPopup) Selected() *commands.Completion {
	if c.cursor >= len(c.items) {
		return nil
	}
	return &c.items[c.cursor]
}

func (c *CompletionPopup) Visible() bool { return len(c.items) > 0 }

func (c *CompletionPopup) Clear() { c.SetCompletions(nil) }

func (c *CompletionPopup) SetWidth(width int) { c.width = width }

// window returns the [lo, hi) slice of n items to draw around cursor.
func window(n, cursor, rows int) (lo, hi int) {
	if n <= rows {
		return 0, n
	}
	lo = min(max(cursor-rows/2, 0), n-rows)
	return lo, lo + rows
}

func (c *CompletionPopup) View() string {
	if !c.Visible() {
		return ""
	}
	lo, hi := window(len(c.items), c.cursor, completionRows)

	lines := make([]string, 0, hi-lo+1)
	for i := lo; i < hi; i++ {
		lines = append(lines, c.row(c.items[i], i == c.cursor))
	}
	if rest := len(c.items) - (hi - lo); rest > 0 {
		lines = append(lines, c.theme.CompletionDesc.Render("  "+strconv.Itoa(rest)+" more"))
	}
	return c.theme.CompletionPopup.Width(c.width).Render(strings.Join(lines, "\n"))
}

func (c *CompletionPopup) row(item commands.Completion, current bool) string {
	label := item.Display
	if label == "" {
		label = item.Value
	}
	label = util.PadRight(util.TruncateWidth(label, completionValueWidth), completionValueWidth)
	desc := util.TruncateWidth(item.Description, c.width-completionValueWidth-6)

	marker, style := "  ", c.theme.CompletionItem
	if current {
		marker, style = "> ", c.theme.CompletionSelected
	}
	return lipgloss.JoinHorizontal(lipgloss.Left,
		marker, style.Render(label), " ", c.theme.CompletionDesc.Render(desc))
}
