// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeranaias/skybot-tui/internal/channels"
	"github.com/jeranaias/skybot-tui/internal/export"
)

// UnknownCommandError is returned for a slash command that is not registered.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %s (try /help)", e.Name)
}

// =============================================================================
// HANDLERS
// =============================================================================

// HandleHelp lists the commands.
func HandleHelp(ctx *Context, _ []string) Result {
	return Result{Output: GenerateHelpText(ctx.registry)}
}

// HandleQuit asks the front end to exit.
func HandleQuit(_ *Context, _ []string) Result {
	return Result{Quit: true}
}

// HandleClear empties the conversation.
func HandleClear(ctx *Context, _ []string) Result {
	ctx.App.Clear()
	return Result{Output: "Chat history cleared."}
}

// HandleExport writes the conversation to a file.
func HandleExport(ctx *Context, args []string) Result {
	format := "md"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}
	dir := ctx.ExportDir
	if len(args) > 1 {
		dir = expandHome(args[1])
	}

	opts := export.DefaultOptions()
	opts.OutputDir = dir
	if ctx.Theme == "light" {
		opts.Theme = "light"
	}

	path, err := export.Conversation(ctx.App.Conversation(), format, opts)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Output: "Exported to `" + path + "`"}
}

// HandleUpload queues a document for ingestion.
func HandleUpload(ctx *Context, args []string) Result {
	channel := ""
	if len(args) > 1 {
		channel = args[1]
	}
	job, err := ctx.App.Upload(expandHome(args[0]), channel)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Output: fmt.Sprintf("Queued **%s** for the **%s** channel.", job.Name, job.Channel)}
}

// HandleChannel creates a channel or selects the ingest target.
func HandleChannel(ctx *Context, args []string) Result {
	action, raw := strings.ToLower(args[0]), strings.Join(args[1:], " ")

	switch action {
	case "add":
		name, err := ctx.App.AddChannel(raw)
		if errors.Is(err, channels.ErrDuplicate) {
			return Result{Output: fmt.Sprintf("Channel **%s** already exists.", name)}
		}
		if err != nil {
			return Result{Err: err}
		}
		return Result{Output: fmt.Sprintf("Created **%s**. Uploads now go there; it is saved on the server with the first document.", channels.DisplayName(name))}

	case "use":
		name := channels.Normalize(raw)
		if err := ctx.App.Channels().SelectTarget(name); err != nil {
			return Result{Err: fmt.Errorf("%w: %s", err, name)}
		}
		return Result{Output: fmt.Sprintf("Uploads now go to **%s**.", channels.DisplayName(name))}
	}
	return Result{Err: fmt.Errorf("unknown action %q: use add or use", action)}
}

// HandleFilter selects the chat filter.
func HandleFilter(ctx *Context, args []string) Result {
	raw := strings.Join(args, " ")
	name := channels.Normalize(raw)
	if strings.EqualFold(raw, "all") || name == "*" {
		name = channels.Wildcard
	}
	if err := ctx.App.Channels().SelectFilter(name); err != nil {
		return Result{Err: fmt.Errorf("%w: %s", err, name)}
	}
	if name == channels.Wildcard {
		return Result{Output: "Questions now search **" + channels.WildcardLabel + "**."}
	}
	return Result{Output: fmt.Sprintf("Questions now search **%s** only.", channels.DisplayName(name))}
}

// HandleChannels reloads and prints the channel list.
func HandleChannels(_ *Context, _ []string) Result {
	return Result{RefreshChannels: true, ShowChannels: true}
}

// =============================================================================
// TEXT
// =============================================================================

// FormatChannels renders the channel lists with the current selections.
func FormatChannels(reg *channels.Registry) string {
	var sb strings.Builder
	target, filter := reg.Target(), reg.Filter()

	sb.WriteString("**Channels**\n\n")
	for _, e := range reg.Targets() {
		marks := []string{}
		if e.Name == target {
			marks = append(marks, "upload target")
		}
		if e.Name == filter {
			marks = append(marks, "chat filter")
		}
		if e.Pending {
			marks = append(marks, "pending")
		}
		line := fmt.Sprintf("- %s (`%s`)", e.Label, e.Name)
		if len(marks) > 0 {
			line += " *" + strings.Join(marks, ", ") + "*"
		}
		sb.WriteString(line + "\n")
	}
	if filter == channels.Wildcard {
		sb.WriteString("\nQuestions search " + channels.WildcardLabel + ".\n")
	}
	return sb.String()
}

// GenerateHelpText renders the command list grouped by category.
func GenerateHelpText(r *Registry) string {
	if r == nil {
		return ""
	}
	groups := r.ByCategory()
	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	order := map[string]int{"General": 0, "Conversation": 1, "Documents": 2, "Channels": 3}
	sort.Slice(categories, func(i, j int) bool {
		return order[categories[i]] < order[categories[j]]
	})

	var sb strings.Builder
	sb.WriteString("Type a question and press Enter to ask it.\n\n")
	for _, category := range categories {
		fmt.Fprintf(&sb, "**%s**\n\n", category)
		for _, cmd := range groups[category] {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			fmt.Fprintf(&sb, "- `%s` %s\n", usage, cmd.Description)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
