// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"slices"
	"strings"

	"github.com/jeranaias/skybot-tui/internal/app"
)

// Command is one slash command. Name and every alias start with "/".
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string // e.g. "/upload <path> [channel]"
	Args        []ArgDef
	Handler     func(ctx *Context, args []string) Result
	Hidden      bool   // omitted from /help and completion
	Category    string // /help section; "General" when empty
}

// ArgDef describes one positional argument.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string
	Values      []string // ArgTypeEnum only
}

// ArgType selects validation and completion for an argument.
type ArgType int

const (
	ArgTypeString ArgType = iota
	ArgTypeFile
	ArgTypeEnum
	ArgTypeChannel // a known channel name
	ArgTypeFilter  // a channel name or "all"
)

// Result tells the front end what to do after a command ran.
type Result struct {
	Output string // Markdown
	Err    error  // shown instead of Output
	Quit   bool

	// RefreshChannels asks for a channel reload. With ShowChannels the
	// front end prints FormatChannels once the reload finishes.
	RefreshChannels bool
	ShowChannels    bool
}

// Context is the state command handlers act on.
type Context struct {
	App       *app.App
	ExportDir string // default /export destination
	Theme     string // HTML export theme

	registry *Registry
}

func NewContext(a *app.App, r *Registry) *Context {
	return &Context{App: a, ExportDir: ".", Theme: "dark", registry: r}
}

// Registry resolves command names and aliases.
type Registry struct {
	byName map[string]*Command // names and aliases
	cmds   []*Command          // sorted by Name
	parser *Parser
}

// NewRegistry returns a registry holding the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Command)}
	r.parser = NewParser(r)
	for _, cmd := range builtins() {
		r.Register(cmd)
	}
	return r
}

// Register adds cmd, replacing any command of the same name.
func (r *Registry) Register(cmd *Command) {
	if old, ok := r.byName[cmd.Name]; ok && old.Name == cmd.Name {
		r.cmds = slices.DeleteFunc(r.cmds, func(c *Command) bool { return c == old })
	}
	r.byName[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.byName[alias] = cmd
	}
	i, _ := slices.BinarySearchFunc(r.cmds, cmd.Name, func(c *Command, name string) int {
		return strings.Compare(c.Name, name)
	})
	r.cmds = slices.Insert(r.cmds, i, cmd)
}

// Get finds a command by name or alias.
func (r *Registry) Get(name string) *Command {
	return r.byName[name]
}

// All returns every command sorted by name.
func (r *Registry) All() []*Command {
	return slices.Clone(r.cmds)
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// Execute runs input when it is a slash command. ok is false for plain
// chat text, which the caller should send as a query instead.
func (r *Registry) Execute(ctx *Context, input string) (res Result, ok bool) {
	parsed := r.parser.Parse(input)
	if !parsed.IsCommand {
		return Result{}, false
	}
	if parsed.Command == nil {
		return Result{Err: &UnknownCommandError{Name: parsed.CommandName}}, true
	}
	if err := ValidateArgs(parsed.Command, parsed.Args); err != nil {
		return Result{Err: err}, true
	}
	if ctx.registry == nil {
		ctx.registry = r
	}
	return parsed.Command.Handler(ctx, parsed.Args), true
}

func builtins() []*Command {
	return []*Command{
		{
			Name:        "/help",
			Aliases:     []string{"/h", "/?"},
			Description: "Show available commands",
			Usage:       "/help",
			Category:    "General",
			Handler:     HandleHelp,
		},
		{
			Name:        "/quit",
			Aliases:     []string{"/q", "/exit"},
			Description: "Exit Skybot",
			Category:    "General",
			Handler:     HandleQuit,
		},
		{
			Name:        "/clear",
			Aliases:     []string{"/c"},
			Description: "Clear the chat history",
			Category:    "Conversation",
			Handler:     HandleClear,
		},
		{
			Name:        "/export",
			Aliases:     []string{"/e"},
			Description: "Save the chat history to a file",
			Usage:       "/export [md|html|json] [dir]",
			Args: []ArgDef{
				{Name: "format", Type: ArgTypeEnum, Values: []string{"md", "html", "json"}, Description: "Output format"},
				{Name: "dir", Type: ArgTypeFile, Description: "Destination directory"},
			},
			Category: "Conversation",
			Handler:  HandleExport,
		},
		{
			Name:        "/upload",
			Aliases:     []string{"/u", "/ingest"},
			Description: "Upload a document",
			Usage:       "/upload <path> [channel]",
			Args: []ArgDef{
				{Name: "path", Required: true, Type: ArgTypeFile, Description: "Document to upload"},
				{Name: "channel", Type: ArgTypeChannel, Description: "Target channel (default: selected target)"},
			},
			Category: "Documents",
			Handler:  HandleUpload,
		},
		{
			Name:        "/channel",
			Aliases:     []string{"/ch"},
			Description: "Create a channel or choose the upload target",
			Usage:       "/channel add|use <name>",
			Args: []ArgDef{
				{Name: "action", Required: true, Type: ArgTypeEnum, Values: []string{"add", "use"}, Description: "add or use"},
				{Name: "name", Required: true, Type: ArgTypeChannel, Description: "Channel name"},
			},
			Category: "Channels",
			Handler:  HandleChannel,
		},
		{
			Name:        "/filter",
			Aliases:     []string{"/f"},
			Description: "Limit questions to one channel",
			Usage:       "/filter <name|all>",
			Args: []ArgDef{
				{Name: "channel", Required: true, Type: ArgTypeFilter, Description: "Channel name or all"},
			},
			Category: "Channels",
			Handler:  HandleFilter,
		},
		{
			Name:        "/channels",
			Aliases:     []string{"/ls"},
			Description: "Reload and list channels",
			Category:    "Channels",
			Handler:     HandleChannels,
		},
	}
}

// Completion is one suggestion. Higher Score ranks first.
type Completion struct {
	Value       string // inserted text
	Display     string
	Description string
	Score       int
}
