// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide slog logger.
//
// The terminal UI owns stdout and stderr, so logs go to a file by default.
// Components obtain a scoped logger with For, which tags every record with
// a "component" attribute.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Stderr is the File value that sends logs to standard error.
const Stderr = "-"

// Options controls Init.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string

	// File is the log destination. Empty discards logs; Stderr writes to
	// standard error.
	File string
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init installs the default logger. The returned closer releases the log
// file and must be called on exit.
func Init(opts Options) (io.Closer, error) {
	var (
		w      io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)

	switch opts.File {
	case "":
	case Stderr:
		w = os.Stderr
	default:
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	slog.SetDefault(slog.New(handler))
	return closer, nil
}

// For returns a logger scoped to a component.
func For(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

// DefaultFile returns ~/.skybot/skybot.log, or an empty string when the home
// directory is unknown.
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".skybot", "skybot.log")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
