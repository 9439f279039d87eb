// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/skybot-tui/internal/ui/components"
	"github.com/jeranaias/skybot-tui/internal/ui/styles"
)

// =============================================================================
// LAYOUT
// =============================================================================

// refresh syncs the status widgets and re-renders the conversation.
func (m *Model) refresh() {
	m.syncStatus()
	m.layout()
	m.refreshContent()
}

// layout gives the viewport whatever height the chrome leaves over.
func (m *Model) layout() {
	width := m.width
	if width < 20 {
		width = 20
	}
	m.channelBar.Width = width
	m.status.Width = width
	m.popup.SetWidth(minInt(width-2, 80))
	m.input.Width = width - 6 - lipgloss.Width(m.input.Prompt)

	chrome := lipgloss.Height(m.renderHeader()) +
		lipgloss.Height(m.renderFooter())
	height := m.height - chrome
	if height < 3 {
		height = 3
	}
	m.viewport.Width = width
	m.viewport.Height = height
}

// refreshContent re-renders the conversation into the viewport, keeping the
// bottom pinned when it was already showing.
func (m *Model) refreshContent() {
	atBottom := m.viewport.AtBottom()

	body := components.RenderConversation(
		m.app.Conversation().Messages(),
		m.viewport.Width,
		m.theme,
		m.markdown,
		m.spinner.Frame(),
	)
	if body == "" {
		body = m.renderWelcome()
	}
	if m.notice != nil {
		body += "\n\n" + m.renderNotice()
	}
	m.viewport.SetContent(body)

	if atBottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// RENDERING
// =============================================================================

func (m Model) renderScreen() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Skybot")
	info := ""
	if m.opts.BackendURL != "" {
		info = m.theme.HeaderInfo.Render(" " + m.opts.BackendURL)
	}
	return m.theme.Header.Width(maxInt(m.width, 20)).Render(title + info)
}

// renderFooter stacks everything below the conversation.
func (m Model) renderFooter() string {
	parts := []string{}
	if m.popup.Visible() {
		parts = append(parts, m.popup.View())
	}
	if status := m.status.View(); status != "" {
		parts = append(parts, status)
	}
	parts = append(parts,
		m.channelBar.View(),
		m.theme.InputContainer.Width(maxInt(m.width-2, 18)).Render(m.input.View()),
		m.renderHelp(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHelp() string {
	if !m.showHelp {
		return m.theme.Help.Render(helpLine(m.keyMap.ShortHelp(), m.theme.ShortcutKey.Render, m.theme.ShortcutDesc.Render))
	}
	rows := make([]string, 0, 4)
	for _, group := range m.keyMap.FullHelp() {
		rows = append(rows, helpLine(group, m.theme.ShortcutKey.Render, m.theme.ShortcutDesc.Render))
	}
	return m.theme.Help.Render(strings.Join(rows, "\n"))
}

func (m Model) renderWelcome() string {
	lines := []string{
		"Ask a question about the documents in your knowledge base.",
		"Upload more with /upload <path> [channel], or type /help for every command.",
	}
	return m.theme.LoadingText.Render(strings.Join(lines, "\n"))
}

func (m Model) renderNotice() string {
	if m.notice.isError {
		return m.theme.ErrorBubble.Render(styles.StatusIndicators.Error + " " + m.notice.text)
	}
	return m.theme.NoticeBubble.Render(m.markdown.Render(m.notice.text))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
