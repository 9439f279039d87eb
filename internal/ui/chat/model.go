// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/skybot-tui/internal/app"
	"github.com/jeranaias/skybot-tui/internal/commands"
	"github.com/jeranaias/skybot-tui/internal/render"
	"github.com/jeranaias/skybot-tui/internal/ui/components"
	"github.com/jeranaias/skybot-tui/internal/ui/styles"
)

// Options configures the chat screen.
type Options struct {
	// Theme is required.
	Theme *styles.Theme

	// BackendURL is shown in the header.
	BackendURL string

	// ExportDir is the default /export destination.
	ExportDir string

	// ShowTimestamps adds the time to every message header.
	ShowTimestamps bool
}

// notice is command output shown after the conversation.
type notice struct {
	text    string
	isError bool
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	app  *app.App
	opts Options

	theme    *styles.Theme
	keyMap   KeyMap
	markdown *render.TerminalRenderer

	registry  *commands.Registry
	cmdCtx    *commands.Context
	completer *commands.Completer

	input      textinput.Model
	viewport   viewport.Model
	spinner    components.Spinner
	channelBar *components.ChannelBar
	status     *components.UploadStatus
	popup      *components.CompletionPopup

	pending *app.PendingSend
	fetch   *inflight
	notice  *notice

	width    int
	height   int
	showHelp bool
	quitting bool
}

// New creates the chat screen for a. The app must already be started.
func New(a *app.App, opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme("auto")
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your documents, or type /help"
	ti.CharLimit = 4096
	ti.Focus()

	registry := commands.NewRegistry()
	cmdCtx := commands.NewContext(a, registry)
	if opts.ExportDir != "" {
		cmdCtx.ExportDir = opts.ExportDir
	}
	if !opts.Theme.IsDark {
		cmdCtx.Theme = "light"
	}

	completer := commands.NewCompleter(registry)
	completer.ChannelsFn = a.Channels().Names

	m := Model{
		app:        a,
		opts:       opts,
		theme:      opts.Theme,
		keyMap:     DefaultKeyMap(),
		markdown:   render.NewTerminalRenderer(opts.Theme.GlamourStyle(), 80),
		registry:   registry,
		cmdCtx:     cmdCtx,
		completer:  completer,
		input:      ti,
		viewport:   viewport.New(80, 20),
		spinner:    components.NewSpinner(),
		channelBar: components.NewChannelBar(opts.Theme),
		status:     components.NewUploadStatus(opts.Theme),
		popup:      components.NewCompletionPopup(opts.Theme),
		fetch:      new(inflight),
		width:      80,
		height:     24,
	}
	m.refresh()
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor, the upload listener and the first channel listing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForUpload(m.app),
		fetchChannels(m.app, false),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case replyMsg:
		return m.handleReply(msg)

	case channelsMsg:
		return m.handleChannels(msg)

	case uploadDoneMsg:
		return m.handleUpload(msg)

	default:
		return m.handleTick(msg)
	}
}

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderScreen()
}

// Quitting reports whether the user asked to exit.
func (m Model) Quitting() bool {
	return m.quitting
}
