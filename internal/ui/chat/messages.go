// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/skybot-tui/internal/app"
	"github.com/jeranaias/skybot-tui/internal/upload"
)

// channelRefreshTimeout bounds a channel listing triggered by the screen.
const channelRefreshTimeout = 10 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// replyMsg carries the outcome of a question back to Update.
type replyMsg struct {
	pending *app.PendingSend
	reply   app.Reply
}

// channelsMsg carries a channel listing. show asks Update to print the
// channel list once it is applied.
type channelsMsg struct {
	names []string
	show  bool
}

// uploadDoneMsg reports a finished upload job.
type uploadDoneMsg struct {
	notification upload.Notification
}

// =============================================================================
// COMMANDS
// =============================================================================

// fetchReply asks the question held by p. It runs off the Update goroutine
// and touches nothing but the network.
func fetchReply(ctx context.Context, a *app.App, p *app.PendingSend) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{pending: p, reply: a.Fetch(ctx, p)}
	}
}

// fetchChannels lists the backend channels.
func fetchChannels(a *app.App, show bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), channelRefreshTimeout)
		defer cancel()
		return channelsMsg{names: a.FetchChannels(ctx), show: show}
	}
}

// waitForUpload blocks until the next upload job finishes.
func waitForUpload(a *app.App) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-a.Notifications()
		if !ok {
			return nil
		}
		return uploadDoneMsg{notification: n}
	}
}
