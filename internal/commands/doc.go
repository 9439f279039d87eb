// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash commands shared by the TUI and the
// line-mode chat.
//
// # Key Types
//
//   - Registry: the built-in commands, keyed by name and alias
//   - Parser: splits input into a command and quoted arguments
//   - Result: what the front end should do once a handler returns
//   - Completer: tab completion for commands, files and channel names
//
// # Built-in Commands
//
//   - /help, /quit, /clear
//   - /upload <path> [channel]
//   - /channel add|use <name>, /filter <name|all>, /channels
//   - /export [md|html|json] [dir]
//
// # Usage
//
//	reg := commands.NewRegistry()
//	ctx := commands.NewContext(a, reg)
//	if res, ok := reg.Execute(ctx, input); ok {
//	    // show res.Output or res.Err
//	}
package commands
