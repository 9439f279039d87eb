// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jeranaias/skybot-tui/internal/app"
	"github.com/jeranaias/skybot-tui/internal/config"
	"github.com/jeranaias/skybot-tui/internal/logging"
	"github.com/jeranaias/skybot-tui/internal/render"
	"github.com/jeranaias/skybot-tui/internal/skybot"
)

// Session is everything a command needs: the loaded config, a client for
// the backend and a started controller.
type Session struct {
	Config *config.Config
	Client *skybot.Client
	App    *app.App

	// Out and Err default to os.Stdout and os.Stderr.
	Out io.Writer
	Err io.Writer

	// TTY reports whether Out is an interactive terminal.
	TTY bool

	logCloser io.Closer
	logger    *slog.Logger
}

// LoadConfig loads the file named by --config, or the default location, and
// applies --backend.
func LoadConfig(args Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if cfg == nil {
		return nil, err
	}
	if err != nil {
		// A broken file falls back to defaults; say so and carry on.
		fmt.Fprintf(os.Stderr, "%s %v\n", warningLabel("[WARN]"), err)
	}

	if args.Backend != "" {
		cfg.Backend.URL = strings.TrimRight(args.Backend, "/")
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// NewSession loads configuration, sets up logging and starts the
// controller. Call Close when done.
func NewSession(args Args) (*Session, error) {
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}
	return NewSessionWithConfig(cfg, args.Verbose)
}

// NewSessionWithConfig builds a session from an already loaded config.
func NewSessionWithConfig(cfg *config.Config, verbose bool) (*Session, error) {
	logOpts := logging.Options{Level: cfg.Logging.Level, File: cfg.LogFile()}
	if verbose {
		logOpts = logging.Options{Level: "debug", File: logging.Stderr}
	}
	closer, err := logging.Init(logOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	client := skybot.NewClient(cfg.Backend.URL).
		WithTimeouts(cfg.ChatTimeout(), cfg.IngestTimeout(), cfg.ListTimeout()).
		WithMaxUploadSize(cfg.MaxUploadBytes())
	if cfg.Backend.RequestsPerSecond > 0 {
		client = client.WithRateLimit(cfg.Backend.RequestsPerSecond, 1)
	}

	s := &Session{
		Config:    cfg,
		Client:    client,
		Out:       os.Stdout,
		Err:       os.Stderr,
		TTY:       IsStdoutTTY(),
		logCloser: closer,
		logger:    logging.For("cli"),
	}
	s.App = app.New(client, app.Options{
		Render:        s.RenderOptions(),
		MaxUploadSize: cfg.MaxUploadBytes(),
	})
	s.App.Start()
	s.logger.Debug("session started", "backend", client.BaseURL())
	return s, nil
}

// SyncChannels loads the channel list and selects the configured default
// ingest channel when the backend knows it.
func (s *Session) SyncChannels(ctx context.Context) {
	s.App.RefreshChannels(ctx)
	if def := s.Config.Upload.DefaultChannel; def != "" {
		if err := s.App.Channels().SelectTarget(def); err != nil {
			s.logger.Debug("default channel not on backend", "channel", def)
		}
	}
}

// RenderOptions returns how answers link back to source documents.
func (s *Session) RenderOptions() render.Options {
	return render.Options{
		BaseURL:       s.Client.BaseURL(),
		DocumentsPath: s.Config.Backend.DocumentsPath,
	}
}

// Markdown returns a writer that renders answers for Out.
func (s *Session) Markdown() *markdownWriter {
	width := s.Config.UI.WordWrap
	if s.TTY {
		width = min(width, GetTerminalWidth())
	}
	return newMarkdownWriter(s.Out, s.TTY, glamourStyle(s.Config.UI.Theme), width)
}

// Close stops the controller and flushes the log.
func (s *Session) Close() {
	s.App.Stop()
	if s.logCloser != nil {
		_ = s.logCloser.Close()
	}
}
