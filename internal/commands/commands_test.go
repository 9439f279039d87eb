// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/skybot-tui/internal/app"
	"github.com/jeranaias/skybot-tui/internal/channels"
	"github.com/jeranaias/skybot-tui/internal/fakebackend"
	"github.com/jeranaias/skybot-tui/internal/skybot"
	"github.com/jeranaias/skybot-tui/internal/upload"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/upload a.pdf", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		got := IsCommand(tc.input)
		if got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/channel add ops", []string{"/channel", "add", "ops"}},
		{`/channel add "Project X"`, []string{"/channel", "add", "Project X"}},
		{`/upload 'my file.pdf' hr`, []string{"/upload", "my file.pdf", "hr"}},
		{`/channel add "Équipe Nord"`, []string{"/channel", "add", "Équipe Nord"}},
		{`/x "a \"b\""`, []string{"/x", `a "b"`}},
		{`/upload C:\docs\a.pdf`, []string{"/upload", `C:\docs\a.pdf`}},
		{`/channel add ""`, []string{"/channel", "add", ""}},
		{"   ", nil},
	}

	for _, tc := range tests {
		got := splitCommandLine(tc.input)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitCommandLine(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	p := NewParser(NewRegistry())

	res := p.Parse("/h")
	require.True(t, res.IsCommand)
	require.NotNil(t, res.Command)
	require.Equal(t, "/help", res.Command.Name)

	res = p.Parse(`/upload "a b.pdf" ops`)
	require.Equal(t, []string{"a b.pdf", "ops"}, res.Args)
	require.Equal(t, `"a b.pdf" ops`, res.RawArgs)

	res = p.Parse("what is this?")
	require.False(t, res.IsCommand)

	res = p.Parse("/nope")
	require.True(t, res.IsCommand)
	require.Nil(t, res.Command)
}

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()

	err := ValidateArgs(r.Get("/upload"), nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "path", verr.Arg)

	err = ValidateArgs(r.Get("/export"), []string{"pdf"})
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "pdf", verr.Got)

	require.Contains(t, err.Error(), "want one of: md, html, json")

	require.NoError(t, ValidateArgs(r.Get("/export"), []string{"HTML"}))
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

func newCommandContext(t *testing.T) (*Registry, *Context, *fakebackend.Server) {
	t.Helper()
	fb := fakebackend.New()
	ts := httptest.NewServer(fb)
	t.Cleanup(ts.Close)

	a := app.New(skybot.NewClient(ts.URL), app.Options{})
	a.Start()
	t.Cleanup(a.Stop)

	r := NewRegistry()
	ctx := NewContext(a, r)
	ctx.ExportDir = t.TempDir()
	return r, ctx, fb
}

func TestExecutePlainTextIsNotCommand(t *testing.T) {
	r, ctx, _ := newCommandContext(t)
	_, ok := r.Execute(ctx, "how do I reset the unit?")
	require.False(t, ok)
}

func TestExecuteUnknown(t *testing.T) {
	r, ctx, _ := newCommandContext(t)
	res, ok := r.Execute(ctx, "/frobnicate")
	require.True(t, ok)
	var unknown *UnknownCommandError
	require.True(t, errors.As(res.Err, &unknown))
	require.Equal(t, "/frobnicate", unknown.Name)
}

func TestHelpAndQuit(t *testing.T) {
	r, ctx, _ := newCommandContext(t)

	res, _ := r.Execute(ctx, "/help")
	require.Contains(t, res.Output, "/upload <path> [channel]")
	require.Contains(t, res.Output, "**Channels**")

	res, _ = r.Execute(ctx, "/exit")
	require.True(t, res.Quit)
}

func TestChannelAddAndUse(t *testing.T) {
	r, ctx, _ := newCommandContext(t)
	reg := ctx.App.Channels()

	res, _ := r.Execute(ctx, `/channel add "Project X"`)
	require.NoError(t, res.Err)
	require.Contains(t, res.Output, "Project X")
	require.Equal(t, "project_x", reg.Target())
	require.True(t, reg.IsPending("project_x"))

	res, _ = r.Execute(ctx, "/channel add project x")
	require.NoError(t, res.Err)
	require.Contains(t, res.Output, "already exists")

	res, _ = r.Execute(ctx, "/channel use general")
	require.NoError(t, res.Err)
	require.Equal(t, channels.General, reg.Target())

	res, _ = r.Execute(ctx, "/channel use missing")
	require.ErrorIs(t, res.Err, channels.ErrUnknown)
}

func TestFilter(t *testing.T) {
	r, ctx, _ := newCommandContext(t)
	reg := ctx.App.Channels()

	res, _ := r.Execute(ctx, "/filter general")
	require.NoError(t, res.Err)
	require.Equal(t, channels.General, reg.Filter())

	res, _ = r.Execute(ctx, "/filter all")
	require.NoError(t, res.Err)
	require.Equal(t, channels.Wildcard, reg.Filter())
	require.Contains(t, res.Output, channels.WildcardLabel)

	res, _ = r.Execute(ctx, "/filter nowhere")
	require.Error(t, res.Err)
}

func TestChannelsRequestsRefresh(t *testing.T) {
	r, ctx, _ := newCommandContext(t)
	res, _ := r.Execute(ctx, "/channels")
	require.True(t, res.RefreshChannels)
	require.True(t, res.ShowChannels)
}

func TestUploadQueuesJob(t *testing.T) {
	r, ctx, fb := newCommandContext(t)
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# checklist"), 0o644))

	res, _ := r.Execute(ctx, "/upload "+path+" ops")
	require.NoError(t, res.Err)
	require.Contains(t, res.Output, "**notes.md**")
	require.Contains(t, res.Output, "**ops**")

	select {
	case n := <-ctx.App.Notifications():
		require.Equal(t, upload.StateSuccess, n.State)
	case <-time.After(5 * time.Second):
		t.Fatal("upload did not finish")
	}
	require.Len(t, fb.Documents(), 1)
}

func TestUploadRejectsLocally(t *testing.T) {
	r, ctx, fb := newCommandContext(t)
	path := filepath.Join(t.TempDir(), "report.exe")
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0o644))

	res, _ := r.Execute(ctx, "/upload "+path)
	require.Error(t, res.Err)
	require.Empty(t, fb.Requests())
}

func TestExportAndClear(t *testing.T) {
	r, ctx, _ := newCommandContext(t)
	_, err := ctx.App.Send(context.Background(), "hello")
	require.NoError(t, err)

	res, _ := r.Execute(ctx, "/export json")
	require.NoError(t, res.Err)
	require.Contains(t, res.Output, ".json")

	res, _ = r.Execute(ctx, "/clear")
	require.NoError(t, res.Err)
	require.True(t, ctx.App.Conversation().IsEmpty())

	res, _ = r.Execute(ctx, "/export")
	require.Error(t, res.Err)
}

func TestFormatChannels(t *testing.T) {
	reg := channels.New()
	reg.Refresh([]string{"general", "ops"})
	_, err := reg.Add("Project X")
	require.NoError(t, err)

	out := FormatChannels(reg)
	require.Contains(t, out, "- General (`general`)\n")
	require.Contains(t, out, "- Project X (`project_x`) *upload target, pending*")
	require.Contains(t, out, "Questions search All Channels.")
}

// =============================================================================
// COMPLETION TESTS
// =============================================================================

func TestCompleteCommands(t *testing.T) {
	c := NewCompleter(NewRegistry())
	comps := c.Complete("/ch", 3)
	var values []string
	for _, comp := range comps {
		values = append(values, comp.Value)
	}
	require.Contains(t, values, "/channel")
	require.Contains(t, values, "/channels")
	require.Contains(t, values, "/ch")
}

func TestCompleteArguments(t *testing.T) {
	c := NewCompleter(NewRegistry())
	c.ChannelsFn = func() []string { return []string{"general", "ops", "hr"} }

	comps := c.Complete("/filter ", 8)
	require.NotEmpty(t, comps)

	comps = c.Complete("/filter o", 9)
	require.Len(t, comps, 1)
	require.Equal(t, "ops", comps[0].Value)

	comps = c.Complete("/export h", 9)
	require.Len(t, comps, 1)
	require.Equal(t, "html", comps[0].Value)

	require.Nil(t, c.Complete("plain text", 10))
}

func TestCompleteFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))

	c := NewCompleter(NewRegistry())
	input := "/upload " + dir + string(os.PathSeparator)
	comps := c.Complete(input, len(input))
	require.Len(t, comps, 1)
	require.Equal(t, filepath.Join(dir, "report.pdf"), comps[0].Value)
	require.Equal(t, "1 B", comps[0].Description)
}

func TestLineCompletions(t *testing.T) {
	c := NewCompleter(NewRegistry())
	c.ChannelsFn = func() []string { return []string{"general", "ops"} }

	got := c.LineCompletions("/channel use o")
	require.Equal(t, []string{"/channel use ops"}, got)

	require.Equal(t, "/filter all", ApplyCompletion("/filter ", "all"))
	require.True(t, strings.HasPrefix(ApplyCompletion("/he", "/help"), "/help"))
}
