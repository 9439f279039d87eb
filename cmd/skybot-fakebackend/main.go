// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main runs an in-memory Skybot backend for demos and manual testing.
//
//	skybot-fakebackend [--addr 127.0.0.1:8000] [--web ./web] [--latency 500ms] [--seed dir]
//
// --web serves the browser client under /app/. --seed ingests every
// supported file in a directory into the "general" channel at startup.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jeranaias/skybot-tui/internal/cli"
	"github.com/jeranaias/skybot-tui/internal/fakebackend"
	"github.com/jeranaias/skybot-tui/internal/logging"
	"github.com/jeranaias/skybot-tui/internal/upload"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "skybot-fakebackend: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	args := cli.NewArgParser(argv, "verbose", "v")
	addr := args.FlagOrDefault("addr", "127.0.0.1:8000")

	level := "info"
	if args.BoolFlag("verbose", "v") {
		level = "debug"
	}
	closer, err := logging.Init(logging.Options{Level: level, File: logging.Stderr})
	if err != nil {
		return err
	}
	defer closer.Close()
	logger := logging.For("main")

	fb := fakebackend.New()
	if d := args.Flag("latency"); d != "" {
		latency, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("invalid --latency: %w", err)
		}
		fb.SetLatency(latency)
	}
	if dir := args.Flag("seed"); dir != "" {
		if err := seed(fb, dir); err != nil {
			return err
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if web := args.Flag("web"); web != "" {
		r.Handle("/app/*", http.StripPrefix("/app/", http.FileServer(http.Dir(web))))
		logger.Info("serving browser client", "dir", web, "path", "/app/")
	}
	r.Mount("/", fb)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seed ingests the supported files directly inside dir.
func seed(fb *fakebackend.Server, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot seed from %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !upload.IsAllowed(e.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		fb.AddDocument(e.Name(), "general", data)
	}
	return nil
}
