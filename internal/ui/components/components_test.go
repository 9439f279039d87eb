// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/skybot-tui/internal/channels"
	"github.com/jeranaias/skybot-tui/internal/commands"
	"github.com/jeranaias/skybot-tui/internal/model"
	"github.com/jeranaias/skybot-tui/internal/ui/styles"
	"github.com/jeranaias/skybot-tui/internal/upload"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

func TestMessageBubbleKinds(t *testing.T) {
	theme := testTheme()

	user := NewMessageBubble(model.NewUserMessage("what is the torque spec?"), theme, nil).View()
	require.Contains(t, user, "You")
	require.Contains(t, user, "torque spec")

	answer := NewMessageBubble(model.NewSystemMessage("Use 12 Nm."), theme, nil).View()
	require.Contains(t, answer, "Skybot")
	require.Contains(t, answer, "Use 12 Nm.")

	failed := NewMessageBubble(model.NewErrorMessage("Error: boom"), theme, nil).View()
	require.Contains(t, failed, styles.StatusIndicators.Error)
	require.Contains(t, failed, "Error: boom")

	loading := NewMessageBubble(model.NewLoadingMessage(), theme, nil)
	loading.SpinnerFrame = "|"
	require.Contains(t, loading.View(), "Searching the documents")
}

func TestRenderConversation(t *testing.T) {
	require.Empty(t, RenderConversation(nil, 80, testTheme(), nil, ""))

	msgs := []*model.Message{model.NewUserMessage("first"), model.NewSystemMessage("second")}
	out := RenderConversation(msgs, 80, testTheme(), nil, "")
	require.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"one two three", 7, "one two\nthree"},
		{"one\n\ntwo", 10, "one\n\ntwo"},
		{"日本語 テキスト", 6, "日本語\nテキスト"},
		{"anything", 0, "anything"},
	}
	for _, tc := range tests {
		if got := wordWrap(tc.text, tc.width); got != tc.want {
			t.Errorf("wordWrap(%q, %d) = %q, want %q", tc.text, tc.width, got, tc.want)
		}
	}
}

func TestChannelBarSync(t *testing.T) {
	reg := channels.New()
	reg.Refresh([]string{"general", "ops"})
	_, err := reg.Add("Project X")
	require.NoError(t, err)
	require.NoError(t, reg.SelectFilter("ops"))

	bar := NewChannelBar(testTheme())
	bar.Width = 200
	bar.Sync(reg)

	require.Equal(t, "project_x", bar.Target.Name)
	require.True(t, bar.Target.Pending)
	require.Equal(t, "ops", bar.Filter.Name)

	view := bar.View()
	require.Contains(t, view, "Project X")
	require.Contains(t, view, "(new)")
	require.Contains(t, view, "Ops")
}

func TestUploadStatusView(t *testing.T) {
	line := NewUploadStatus(testTheme())
	line.Width = 200
	require.Empty(t, line.View())

	line.Status = upload.StatusUploading("report.pdf")
	line.Summary = "Uploading: 1 | Waiting: 0 | Done: 0 | Failed: 0"
	view := line.View()
	require.Contains(t, view, "Uploading report.pdf...")
	require.Contains(t, view, "Waiting: 0")
}

func TestCompletionPopup(t *testing.T) {
	popup := NewCompletionPopup(testTheme())
	require.False(t, popup.Visible())
	require.Nil(t, popup.Selected())
	require.Empty(t, popup.View())

	var comps []commands.Completion
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		comps = append(comps, commands.Completion{Value: v, Description: "channel " + v})
	}
	popup.SetCompletions(comps)
	require.True(t, popup.Visible())
	require.Equal(t, "a", popup.Selected().Value)

	popup.Prev()
	require.Equal(t, "j", popup.Selected().Value)
	popup.Next()
	require.Equal(t, "a", popup.Selected().Value)

	view := popup.View()
	require.Contains(t, view, "2 more")
	require.Contains(t, view, "> ")

	popup.Clear()
	require.False(t, popup.Visible())
}

func TestSpinnerFrameOnlyWhenActive(t *testing.T) {
	s := NewSpinner()
	require.Empty(t, s.Frame())
	require.NotNil(t, s.Start())
	require.Nil(t, s.Start())
	require.NotEmpty(t, s.Frame())
	s.Stop()
	require.Empty(t, s.Frame())
}
