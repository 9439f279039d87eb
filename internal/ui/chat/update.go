// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/skybot-tui/internal/app"
	"github.com/jeranaias/skybot-tui/internal/channels"
	"github.com/jeranaias/skybot-tui/internal/commands"
	"github.com/jeranaias/skybot-tui/internal/skybot"
	"github.com/jeranaias/skybot-tui/internal/ui/components"
	"github.com/jeranaias/skybot-tui/internal/upload"
)

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.markdown.SetWidth(m.width - 6)
	m.refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.fetch.cancel()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel):
		switch {
		case m.popup.Visible():
			m.popup.Clear()
		case m.fetch.cancel():
			// The reply arrives as a cancelled connection error.
		default:
			m.input.Reset()
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.Complete):
		m.complete(false)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.CompletePrev):
		m.complete(true)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if sel := m.popup.Selected(); sel != nil {
			m.acceptCompletion(sel.Value)
			m.refresh()
			return m, nil
		}
		return m.submit(m.input.Value())

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.SwitchFocus):
		if m.channelBar.Focus == components.FocusTarget {
			m.channelBar.Focus = components.FocusFilter
		} else {
			m.channelBar.Focus = components.FocusTarget
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.NextChannel):
		m.cycleChannel(1)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.PrevChannel):
		m.cycleChannel(-1)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.popup.Visible() {
		m.popup.SetCompletions(m.completer.Complete(m.input.Value(), m.input.Position()))
	}
	m.refresh()
	return m, cmd
}

// handleTick drives the spinner and the cursor blink.
func (m Model) handleTick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.spinner.IsActive() {
			m.refreshContent()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	m.fetch.cancel()
	m.app.FinishSend(msg.pending, msg.reply)
	if m.pending == msg.pending {
		m.pending = nil
	}
	if !m.app.Busy() {
		m.spinner.Stop()
	}
	m.refresh()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleChannels(msg channelsMsg) (tea.Model, tea.Cmd) {
	m.app.ApplyChannels(msg.names)
	if msg.show {
		m.notice = &notice{text: commands.FormatChannels(m.app.Channels())}
	}
	m.refresh()
	return m, nil
}

func (m Model) handleUpload(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForUpload(m.app)}
	if m.app.FinishUpload(msg.notification) != nil {
		cmds = append(cmds, fetchChannels(m.app, false))
	}
	m.refresh()
	m.viewport.GotoBottom()
	return m, tea.Batch(cmds...)
}

// =============================================================================
// INPUT
// =============================================================================

// submit runs a slash command or asks a question.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.popup.Clear()

	if commands.IsCommand(text) {
		return m.runCommand(text)
	}

	p, err := m.app.BeginSend(text)
	switch {
	case errors.Is(err, skybot.ErrEmptyQuery):
		return m, nil
	case errors.Is(err, app.ErrBusy):
		m.notice = &notice{text: "Still waiting for the last answer. Press Esc to cancel it.", isError: true}
		m.refresh()
		return m, nil
	case err != nil:
		m.notice = &notice{text: err.Error(), isError: true}
		m.refresh()
		return m, nil
	}

	m.pending = p
	m.notice = nil
	m.input.Reset()
	ctx := m.fetch.begin(context.Background())
	spin := m.spinner.Start()
	m.refresh()
	m.viewport.GotoBottom()
	return m, tea.Batch(fetchReply(ctx, m.app, p), spin)
}

func (m Model) runCommand(text string) (tea.Model, tea.Cmd) {
	res, _ := m.registry.Execute(m.cmdCtx, text)
	m.input.Reset()

	switch {
	case res.Err != nil:
		m.notice = &notice{text: res.Err.Error(), isError: true}
	case res.Output != "":
		m.notice = &notice{text: res.Output}
	default:
		m.notice = nil
	}

	if res.Quit {
		m.fetch.cancel()
		m.quitting = true
		return m, tea.Quit
	}

	m.refresh()
	m.viewport.GotoBottom()
	if res.RefreshChannels {
		return m, fetchChannels(m.app, res.ShowChannels)
	}
	return m, nil
}

// complete shows completions for the current input, or moves through the
// ones already shown. A single match is applied directly.
func (m *Model) complete(reverse bool) {
	if m.popup.Visible() {
		if reverse {
			m.popup.Prev()
		} else {
			m.popup.Next()
		}
		return
	}

	comps := m.completer.Complete(m.input.Value(), m.input.Position())
	switch len(comps) {
	case 0:
	case 1:
		m.acceptCompletion(comps[0].Value)
	default:
		m.popup.SetCompletions(comps)
	}
}

func (m *Model) acceptCompletion(value string) {
	m.input.SetValue(commands.ApplyCompletion(m.input.Value(), value))
	m.input.CursorEnd()
	m.popup.Clear()
}

// cycleChannel moves the focused selection through its list.
func (m *Model) cycleChannel(delta int) {
	reg := m.app.Channels()

	var entries []channels.Entry
	var current string
	var selectFn func(string) error
	if m.channelBar.Focus == components.FocusTarget {
		entries, current, selectFn = reg.Targets(), reg.Target(), reg.SelectTarget
	} else {
		entries, current, selectFn = reg.Filters(), reg.Filter(), reg.SelectFilter
	}
	if len(entries) == 0 {
		return
	}

	idx := 0
	for i, e := range entries {
		if e.Name == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(entries)) % len(entries)
	_ = selectFn(entries[idx].Name)
}

// =============================================================================
// STATUS
// =============================================================================

func (m *Model) syncStatus() {
	m.channelBar.Sync(m.app.Channels())
	m.status.Status = m.app.Status()
	if m.status.Status.Kind != upload.StatusNone {
		m.status.Summary = m.app.Queue().Summary()
	}
}
