// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch uploads documents as they appear in a directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/skybot-tui/internal/logging"
	"github.com/jeranaias/skybot-tui/internal/upload"
)

// DefaultSettle is how long a file must stay unchanged before upload.
const DefaultSettle = 2 * time.Second

// Submitter queues a file for upload.
type Submitter func(path, channel string) error

// Event reports what happened to a file the watcher picked up.
type Event struct {
	Path string
	// Err is set when the submitter rejected the file.
	Err error
}

// Watcher submits new or changed documents in one directory. It does not
// descend into subdirectories.
type Watcher struct {
	dir     string
	channel string
	settle  time.Duration
	submit  Submitter

	watcher *fsnotify.Watcher
	events  chan Event

	mu        sync.Mutex
	pending   map[string]time.Time
	submitted map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

// New creates a watcher for dir. A settle of zero uses DefaultSettle.
func New(dir, channel string, settle time.Duration, submit Submitter) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		dir:       dir,
		channel:   channel,
		settle:    settle,
		submit:    submit,
		watcher:   fw,
		events:    make(chan Event, 64),
		pending:   make(map[string]time.Time),
		submitted: make(map[string]time.Time),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logging.For("watch"),
	}, nil
}

// Events delivers one event per submitted file.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("cannot watch %s: %w", w.dir, err)
	}
	w.wg.Add(2)
	go w.processEvents()
	go w.processPending()
	w.logger.Info("watching", "dir", w.dir, "channel", w.channel, "settle", w.settle)
	return nil
}

// Close stops watching. Files still settling are dropped.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.touch(event.Name)
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.forget(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// touch restarts the settle timer for path.
func (w *Watcher) touch(path string) {
	if !Eligible(path) {
		return
	}
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	delete(w.submitted, path)
	w.mu.Unlock()
}

func (w *Watcher) processPending() {
	defer w.wg.Done()

	tick := w.settle / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			for _, path := range w.settled(time.Now()) {
				w.flush(path)
			}
		}
	}
}

func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, changed := range w.pending {
		if now.Sub(changed) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

// flush submits path unless it is gone, a directory, or unchanged since the
// last submission.
func (w *Watcher) flush(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	last, seen := w.submitted[path]
	if seen && !info.ModTime().After(last) {
		w.mu.Unlock()
		return
	}
	w.submitted[path] = info.ModTime()
	w.mu.Unlock()

	err = w.submit(path, w.channel)
	if err != nil {
		w.logger.Warn("upload rejected", "file", path, "error", err)
	} else {
		w.logger.Info("upload queued", "file", path, "channel", w.channel)
	}

	select {
	case w.events <- Event{Path: path, Err: err}:
	case <-w.ctx.Done():
	}
}

// Eligible reports whether a file name looks like a finished document:
// a supported extension and not an editor or download temp file.
func Eligible(path string) bool {
	name := filepath.Base(path)
	switch {
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "~$"):
		return false
	case strings.HasSuffix(name, "~"):
		return false
	}
	return upload.IsAllowed(name)
}
