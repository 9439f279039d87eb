// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ingest.go - Document upload commands.

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jeranaias/skybot-tui/internal/upload"
	"github.com/jeranaias/skybot-tui/internal/watch"
)

// HandleIngest uploads one file and waits for the backend to finish
// indexing it.
func HandleIngest(ctx context.Context, s *Session, args Args) error {
	if args.Path == "" {
		return ErrMissingArgument("file", "skybot ingest ./manual.pdf --channel maintenance")
	}
	channel := args.Channel
	if channel == "" {
		channel = s.Config.Upload.DefaultChannel
	}

	job, err := s.App.Upload(args.Path, channel)
	if err != nil {
		return err
	}
	if !args.JSON {
		fmt.Fprintln(s.Err, dim(upload.StatusUploading(job.Name).Text))
	}

	n, err := waitForJob(ctx, s, job.ID)
	if err != nil {
		return err
	}
	msg := s.App.FinishUpload(n)
	if msg == nil {
		if n.Err != nil {
			return n.Err
		}
		return errors.New("upload failed")
	}

	if args.JSON {
		return NewJSONResponse(CmdIngest.String(), IngestData{
			File:       n.Name,
			Channel:    n.Channel,
			Response:   n.Response,
			DurationMs: n.Duration.Milliseconds(),
		}).Write(s.Out)
	}
	fmt.Fprintf(s.Out, "%s %s\n", successLabel("[OK]"), msg.Content)
	return nil
}

// waitForJob blocks until the queue reports on the job with id.
func waitForJob(ctx context.Context, s *Session, id string) (upload.Notification, error) {
	for {
		select {
		case n := <-s.App.Notifications():
			if n.JobID == id {
				return n, nil
			}
			s.App.FinishUpload(n)
		case <-ctx.Done():
			return upload.Notification{}, ctx.Err()
		}
	}
}

// HandleWatch uploads supported documents as they appear in a directory
// until interrupted. Uploads go through the queue one at a time.
func HandleWatch(ctx context.Context, s *Session, args Args) error {
	if args.Path == "" {
		return ErrMissingArgument("directory", "skybot watch ~/Documents/inbox --channel general")
	}
	channel := args.Channel
	if channel == "" {
		channel = s.Config.WatchChannel()
	}

	w, err := watch.New(args.Path, channel, s.Config.SettleDelay(), func(path, ch string) error {
		_, err := s.App.Upload(path, ch)
		return err
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(s.Err, "%s Watching %s for %s uploads to %q. Press Ctrl+C to stop.\n",
		infoLabel("[WATCH]"), args.Path, upload.SupportedTypes(), channel)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.Err, dim(s.App.Queue().Summary()))
			return nil

		case ev := <-w.Events():
			name := filepath.Base(ev.Path)
			if ev.Err != nil {
				fmt.Fprintf(s.Err, "%s %s: %v\n", warningLabel("[SKIP]"), name, ev.Err)
				continue
			}
			fmt.Fprintln(s.Err, dim(upload.StatusUploading(name).Text))

		case n := <-s.App.Notifications():
			if msg := s.App.FinishUpload(n); msg != nil {
				fmt.Fprintf(s.Out, "%s %s\n", successLabel("[OK]"), msg.Content)
			} else {
				fmt.Fprintf(s.Err, "%s %s\n", errorLabel("[FAIL]"), s.App.Status().Text)
			}
		}
	}
}
