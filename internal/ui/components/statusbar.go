// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/skybot-tui/internal/channels"
	"github.com/jeranaias/skybot-tui/internal/ui/styles"
	"github.com/jeranaias/skybot-tui/internal/upload"
)

// =============================================================================
// CHANNEL BAR
// =============================================================================

// Focus selects which channel list the channel keys cycle through.
type Focus int

const (
	FocusTarget Focus = iota
	FocusFilter
)

// ChannelBar shows the upload target and the chat filter.
type ChannelBar struct {
	Target channels.Entry
	Filter channels.Entry
	Focus  Focus
	Width  int
	theme  *styles.Theme
}

// NewChannelBar creates a channel bar.
func NewChannelBar(theme *styles.Theme) *ChannelBar {
	return &ChannelBar{
		Target: channels.Entry{Name: channels.General, Label: channels.DisplayName(channels.General)},
		Filter: channels.Entry{Name: channels.Wildcard, Label: channels.WildcardLabel},
		Width:  80,
		theme:  theme,
	}
}

// Sync copies the current selections from the registry.
func (c *ChannelBar) Sync(reg *channels.Registry) {
	target, filter := reg.Target(), reg.Filter()
	for _, e := range reg.Targets() {
		if e.Name == target {
			c.Target = e
		}
	}
	for _, e := range reg.Filters() {
		if e.Name == filter {
			c.Filter = e
		}
	}
}

// View renders the bar on one line.
func (c *ChannelBar) View() string {
	target := c.renderEntry("Upload to", c.Target, c.Focus == FocusTarget)
	filter := c.renderEntry("Ask in", c.Filter, c.Focus == FocusFilter)
	return c.theme.ChannelBar.MaxWidth(c.Width).Render(target + "   " + filter)
}

func (c *ChannelBar) renderEntry(label string, e channels.Entry, focused bool) string {
	value := c.theme.ChannelValue.Render(e.Label)
	if focused {
		value = c.theme.ChannelFocused.Render(" " + e.Label + " ")
	}
	out := c.theme.ChannelLabel.Render(label+": ") + value
	if e.Pending {
		out += " " + c.theme.ChannelPending.Render("(new)")
	}
	return out
}

// =============================================================================
// UPLOAD STATUS LINE
// =============================================================================

// UploadStatus shows the last upload status and the queue summary.
type UploadStatus struct {
	Status  upload.Status
	Summary string
	Width   int
	theme   *styles.Theme
}

// NewUploadStatus creates an empty status line.
func NewUploadStatus(theme *styles.Theme) *UploadStatus {
	return &UploadStatus{Width: 80, theme: theme}
}

// View renders the status line, or "" when there is nothing to report.
func (u *UploadStatus) View() string {
	var parts []string
	switch u.Status.Kind {
	case upload.StatusLoading:
		parts = append(parts, u.theme.StatusLoading.Render(styles.StatusIndicators.Pending+" "+u.Status.Text))
	case upload.StatusSuccess:
		parts = append(parts, u.theme.StatusSuccess.Render(styles.StatusIndicators.Success+" "+u.Status.Text))
	case upload.StatusError:
		parts = append(parts, u.theme.StatusError.Render(styles.StatusIndicators.Error+" "+u.Status.Text))
	}
	if len(parts) == 0 {
		return ""
	}
	if u.Summary != "" {
		parts = append(parts, u.theme.StatusQueue.Render(u.Summary))
	}
	return lipgloss.NewStyle().Padding(0, 1).MaxWidth(u.Width).Render(strings.Join(parts, "  "))
}
