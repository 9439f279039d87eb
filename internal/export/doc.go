// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to disk.
//
// # Supported Formats
//
//   - Markdown: the messages as written, with a YAML front matter header
//   - HTML: a standalone page; answers are rendered and sanitized
//   - JSON: the transcript structure, for scripting
//
// # Usage
//
//	path, err := export.Conversation(conv, "md", export.DefaultOptions())
package export
