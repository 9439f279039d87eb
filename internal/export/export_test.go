// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/skybot-tui/internal/model"
)

func sampleConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.AddUser("What is the <torque> spec?")
	conv.AddSystem("Use **25 Nm**.\n\n**Sources:**\n- [guide.pdf (Page 3)](http://localhost:8000/static/documents/guide.pdf#page=3)")
	conv.AddError("Error: backend down")
	conv.AddLoading()
	return conv
}

func TestSnapshotSkipsPlaceholder(t *testing.T) {
	tr := Snapshot(sampleConversation())
	require.Len(t, tr.Messages, 3)
	require.Equal(t, "What is the <torque> spec?", tr.Title)
	for _, msg := range tr.Messages {
		require.False(t, msg.IsLoading)
	}
}

func TestMarkdownExport(t *testing.T) {
	e := NewMarkdownExporter(&Options{IncludeMetadata: true})
	out, err := e.Export(Snapshot(sampleConversation()))
	require.NoError(t, err)

	s := string(out)
	require.True(t, strings.HasPrefix(s, "---\n"))
	require.Contains(t, s, "messages: 3\n")
	require.Contains(t, s, "### You\n\nWhat is the <torque> spec?")
	require.Contains(t, s, "### Skybot\n\nUse **25 Nm**.")
	require.Contains(t, s, "### Skybot (error)\n\nError: backend down")
	require.NotContains(t, s, model.LoadingText)
}

func TestHTMLExportEscapesUserAndRendersAnswers(t *testing.T) {
	e := NewHTMLExporter(&Options{Theme: "light"})
	out, err := e.Export(Snapshot(sampleConversation()))
	require.NoError(t, err)

	s := string(out)
	require.Contains(t, s, `<body class="light-theme">`)
	require.Contains(t, s, "What is the &lt;torque&gt; spec?")
	require.Contains(t, s, "<strong>25 Nm</strong>")
	require.Contains(t, s, `target="_blank"`)
	require.Contains(t, s, "error-message")
}

func TestHTMLExportSanitizesAnswers(t *testing.T) {
	conv := model.NewConversation()
	conv.AddSystem("hi <script>alert(1)</script>")

	out, err := NewHTMLExporter(nil).Export(Snapshot(conv))
	require.NoError(t, err)
	require.NotContains(t, string(out), "<script>")
}

func TestJSONExport(t *testing.T) {
	out, err := NewJSONExporter().Export(Snapshot(sampleConversation()))
	require.NoError(t, err)

	var decoded struct {
		Title    string `json:"title"`
		Messages []struct {
			Type    string `json:"type"`
			IsError bool   `json:"is_error"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded.Messages, 3)
	require.Equal(t, "user", decoded.Messages[0].Type)
	require.True(t, decoded.Messages[2].IsError)
}

func TestConversationWritesFile(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{"md", "html", "json"} {
		path, err := Conversation(sampleConversation(), format, &Options{OutputDir: dir})
		require.NoError(t, err, format)
		require.Equal(t, dir, filepath.Dir(path))
		require.True(t, strings.HasPrefix(filepath.Base(path), "skybot_What_is_the_-torque-_spec-_"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NotEmpty(t, data)
	}
}

func TestConversationErrors(t *testing.T) {
	_, err := Conversation(model.NewConversation(), "md", &Options{OutputDir: t.TempDir()})
	require.ErrorIs(t, err, ErrEmpty)

	_, err = Conversation(sampleConversation(), "pdf", nil)
	require.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello world", "hello_world"},
		{"a/b:c", "a-b-c"},
		{"", "conversation"},
		{"tab\there", "tab_here"},
	}
	for _, tc := range tests {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
