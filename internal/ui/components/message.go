// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/skybot-tui/internal/model"
	"github.com/jeranaias/skybot-tui/internal/render"
	"github.com/jeranaias/skybot-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one chat message.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool

	// SpinnerFrame is drawn in front of the loading placeholder.
	SpinnerFrame string

	theme    *styles.Theme
	markdown *render.TerminalRenderer
}

// NewMessageBubble creates a bubble. markdown may be nil, in which case
// answers are shown as plain wrapped text.
func NewMessageBubble(msg *model.Message, theme *styles.Theme, markdown *render.TerminalRenderer) *MessageBubble {
	if msg == nil {
		msg = model.NewSystemMessage("")
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
		markdown:      markdown,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble with its header line.
func (b *MessageBubble) View() string {
	msg := b.Message
	switch {
	case msg.IsLoading:
		return b.renderLoading()
	case msg.IsUser():
		return b.renderUser()
	case msg.IsError:
		return b.renderError()
	default:
		return b.renderAnswer()
	}
}

func (b *MessageBubble) contentWidth() int {
	w := b.Width - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (b *MessageBubble) header(label lipgloss.Style) string {
	parts := []string{label.Render(b.Message.Type.DisplayName())}
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		parts = append(parts, b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04")))
	}
	return strings.Join(parts, " ")
}

func (b *MessageBubble) renderUser() string {
	content := wordWrap(b.Message.Content, b.contentWidth())
	bubble := b.theme.UserBubble.Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, b.header(b.theme.UserLabel), bubble)
}

func (b *MessageBubble) renderAnswer() string {
	var content string
	if b.markdown != nil {
		content = b.markdown.Render(b.Message.Content)
	} else {
		content = wordWrap(b.Message.Content, b.contentWidth())
	}
	bubble := b.theme.AnswerBubble.Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, b.header(b.theme.AnswerLabel), bubble)
}

func (b *MessageBubble) renderError() string {
	content := wordWrap(b.Message.Content, b.contentWidth())
	bubble := b.theme.ErrorBubble.Render(styles.StatusIndicators.Error + " " + content)
	return lipgloss.JoinVertical(lipgloss.Left, b.header(b.theme.AnswerLabel), bubble)
}

func (b *MessageBubble) renderLoading() string {
	frame := b.SpinnerFrame
	if frame == "" {
		frame = "..."
	}
	line := b.theme.Spinner.Render(frame) + " " + b.theme.LoadingText.Render("Searching the documents")
	return lipgloss.JoinVertical(lipgloss.Left, b.header(b.theme.AnswerLabel), b.theme.NoticeBubble.Render(line))
}

// RenderConversation renders every message separated by a blank line.
func RenderConversation(msgs []*model.Message, width int, theme *styles.Theme, markdown *render.TerminalRenderer, spinnerFrame string) string {
	if len(msgs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		bubble := NewMessageBubble(msg, theme, markdown)
		bubble.SetWidth(width)
		bubble.SpinnerFrame = spinnerFrame
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// wordWrap wraps text at word boundaries using display width, so wide
// characters count as two columns.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= width {
				current += " " + word
			} else {
				result.WriteString(current)
				result.WriteString("\n")
				current = word
			}
		}
		result.WriteString(current)
	}
	return result.String()
}
