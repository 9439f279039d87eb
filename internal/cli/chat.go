// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat with input history.
//
// The REPL shares the slash commands of the terminal UI:
//
//	/help                      Show available commands
//	/upload <path> [channel]   Upload a document
//	/channel add|use <name>    Create or select the upload channel
//	/filter <name|all>         Restrict questions to one channel
//	/channels                  List channels
//	/export [md|html|json]     Save the transcript
//	/clear                     Clear the conversation
//	/quit                      Exit
//
// Anything else is sent as a question. Ctrl+C cancels a question in flight;
// at the prompt it exits, as does Ctrl+D.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/skybot-tui/internal/commands"
	"github.com/jeranaias/skybot-tui/internal/config"
	"github.com/jeranaias/skybot-tui/internal/model"
)

const chatPrompt = "skybot> "

// =============================================================================
// LINE EDITOR
// =============================================================================

// LineEditor provides input history and line editing for the REPL.
type LineEditor struct {
	line        *liner.State
	historyFile string
}

// NewLineEditor creates an editor with tab completion from complete and
// history loaded from the config directory.
func NewLineEditor(complete func(line string) []string) *LineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	if complete != nil {
		line.SetCompleter(complete)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	e := &LineEditor{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	e.loadHistory()
	return e
}

func (e *LineEditor) loadHistory() {
	if f, err := os.Open(e.historyFile); err == nil {
		_, _ = e.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line. Non-empty input is added to history.
func (e *LineEditor) ReadInput(prompt string) (string, error) {
	input, err := e.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		e.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists history readable only by the owner.
func (e *LineEditor) saveHistory() {
	if err := os.MkdirAll(filepath.Dir(e.historyFile), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = e.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (e *LineEditor) Close() {
	e.saveHistory()
	e.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// lineReader is the part of LineEditor the REPL uses.
type lineReader interface {
	ReadInput(prompt string) (string, error)
}

// ChatSession is the state of one REPL run.
type ChatSession struct {
	s         *Session
	registry  *commands.Registry
	cmdCtx    *commands.Context
	completer *commands.Completer
	markdown  *markdownWriter
}

// NewChatSession wires the slash commands to s.
func NewChatSession(s *Session) *ChatSession {
	registry := commands.NewRegistry()
	cmdCtx := commands.NewContext(s.App, registry)
	if s.Config.UI.Theme == "light" {
		cmdCtx.Theme = "light"
	}

	completer := commands.NewCompleter(registry)
	completer.ChannelsFn = s.App.Channels().Names

	return &ChatSession{
		s:         s,
		registry:  registry,
		cmdCtx:    cmdCtx,
		completer: completer,
		markdown:  s.Markdown(),
	}
}

// HandleChat runs the interactive line-mode chat.
func HandleChat(ctx context.Context, s *Session, _ Args) error {
	s.SyncChannels(ctx)

	cs := NewChatSession(s)
	editor := NewLineEditor(cs.completer.LineCompletions)
	defer editor.Close()

	return cs.Run(ctx, editor)
}

// Run reads lines from in until /quit, EOF or an interrupt at the prompt.
func (cs *ChatSession) Run(ctx context.Context, in lineReader) error {
	cs.printWelcome()

	for {
		cs.drainUploads()

		input, err := in.ReadInput(chatPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(cs.s.Out)
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		if res, ok := cs.registry.Execute(cs.cmdCtx, input); ok {
			if !cs.handleResult(ctx, res) {
				return nil
			}
			continue
		}

		cs.ask(ctx, input)
	}
}

// ask sends one question. Ctrl+C cancels it without leaving the REPL.
func (cs *ChatSession) ask(ctx context.Context, query string) {
	qctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintln(cs.s.Err, dim("Searching the documents..."))
	msg, err := cs.s.App.Send(qctx, query)
	if err != nil {
		fmt.Fprintf(cs.s.Err, "%s %v\n", errorLabel("[ERROR]"), err)
		return
	}
	cs.printMessage(msg)
}

// handleResult shows command output. It returns false when the REPL
// should exit.
func (cs *ChatSession) handleResult(ctx context.Context, res commands.Result) bool {
	if res.Err != nil {
		fmt.Fprintf(cs.s.Err, "%s %v\n", errorLabel("[ERROR]"), res.Err)
	} else if res.Output != "" {
		cs.markdown.Print(res.Output)
	}

	if res.RefreshChannels {
		rctx, cancel := context.WithTimeout(ctx, cs.s.Config.ListTimeout())
		cs.s.App.RefreshChannels(rctx)
		cancel()
		if res.ShowChannels {
			cs.markdown.Print(commands.FormatChannels(cs.s.App.Channels()))
		}
	}
	return !res.Quit
}

// drainUploads reports uploads that finished since the last prompt.
func (cs *ChatSession) drainUploads() {
	for {
		select {
		case n := <-cs.s.App.Notifications():
			if msg := cs.s.App.FinishUpload(n); msg != nil {
				fmt.Fprintf(cs.s.Out, "%s %s\n", successLabel("[OK]"), msg.Content)
				cs.s.App.RefreshChannels(context.Background())
			} else {
				fmt.Fprintf(cs.s.Err, "%s %s\n", errorLabel("[FAIL]"), cs.s.App.Status().Text)
			}
		default:
			return
		}
	}
}

func (cs *ChatSession) printMessage(msg *model.Message) {
	if msg.IsError {
		fmt.Fprintf(cs.s.Err, "%s %s\n", errorLabel("[ERROR]"), msg.Content)
		return
	}
	fmt.Fprintln(cs.s.Out, infoLabel(msg.Type.DisplayName()+":"))
	cs.markdown.Print(msg.Content)
}

func (cs *ChatSession) printWelcome() {
	fmt.Fprintf(cs.s.Out, "%s %s\n", infoLabel("Skybot"), dim(cs.s.Client.BaseURL()))
	fmt.Fprintln(cs.s.Out, dim("Ask a question about your documents. /help lists commands, Ctrl+D exits."))
}
