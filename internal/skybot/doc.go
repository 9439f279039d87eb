// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package skybot provides the HTTP client for the Skybot document Q&A backend.
//
// The backend owns ingestion, retrieval and answer generation. This package
// only marshals the three calls the clients need and maps their payloads to
// typed results.
//
// # Key Types
//
//   - Client: HTTP client for /chat, /ingest and /channels
//   - ChatResponse: answer text with optional citations and image URLs
//   - IngestResponse: status and chunk count for an uploaded document
//   - APIError, ConnectionError, FileTooLargeError: error taxonomy
//
// # Usage
//
//	client := skybot.NewClient("http://localhost:8000")
//	resp, err := client.Chat(ctx, "What is the etch rate?", skybot.Channel("process"))
//
// Pass a nil channel to query every channel; the request then carries no
// channel field at all.
package skybot
