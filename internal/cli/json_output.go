// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/skybot-tui/internal/skybot"
)

// JSONResponse is the single object --json writes to stdout. Error is null
// on success and Data is null on failure.
type JSONResponse struct {
	Success   bool    `json:"success"`
	Data      any     `json:"data"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"` // RFC 3339, UTC
	Command   string  `json:"command,omitempty"`
}

func newEnvelope(command string) *JSONResponse {
	return &JSONResponse{Command: command, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

func NewJSONResponse(command string, data any) *JSONResponse {
	r := newEnvelope(command)
	r.Success, r.Data = true, data
	return r
}

func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	r := newEnvelope(command)
	r.Error = &msg
	return r
}

// Write encodes r to w, indented, with a trailing newline.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// AskData is returned by ask.
type AskData struct {
	Query      string               `json:"query"`
	Channel    *string              `json:"channel"`
	Response   *skybot.ChatResponse `json:"response"`
	DurationMs int64                `json:"duration_ms"`
}

// ChannelsData is returned by channels.
type ChannelsData struct {
	Channels []string `json:"channels"`
	Backend  string   `json:"backend"`
}

// IngestData is returned by ingest.
type IngestData struct {
	File       string                 `json:"file"`
	Channel    string                 `json:"channel"`
	Response   *skybot.IngestResponse `json:"response,omitempty"`
	DurationMs int64                  `json:"duration_ms"`
}

// VersionData is returned by version.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}
