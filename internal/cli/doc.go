// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and execution for skybot.
//
// With no arguments skybot starts the terminal UI. The other commands are
// line oriented and suit scripts:
//
//   - ask: one question, answer and sources printed as markdown
//   - chat: REPL with history and the same slash commands as the UI
//   - ingest: upload one document and wait for indexing
//   - channels: list backend channels
//   - watch: upload documents as they land in a directory
//   - config: show, create or edit ~/.skybot/config.toml
//
// # Usage
//
//	os.Exit(cli.Run(os.Args[1:]))
//
// ask, channels, ingest and version accept --json and then write a single
// JSONResponse to stdout. Exit codes follow the error category; see
// GetExitCode.
package cli
