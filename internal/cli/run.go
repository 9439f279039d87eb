// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jeranaias/skybot-tui/internal/upload"
)

// Run parses argv (without the program name), executes the command and
// returns the process exit code.
func Run(argv []string) int {
	cmd, args := Parse(argv)
	ColorsEnabled()

	ctx := context.Background()
	// The interactive front ends read Ctrl+C as a key and cancel single
	// questions themselves.
	if cmd != CmdTUI && cmd != CmdChat {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	err := Execute(ctx, cmd, args, os.Stdout, os.Stderr)
	if err != nil {
		out := io.Writer(os.Stderr)
		if args.JSON {
			out = os.Stdout
		}
		DisplayError(out, cmd.String(), err, args.JSON)
	}
	return GetExitCode(err)
}

// Execute runs one command, writing results to stdout and progress and
// diagnostics to stderr.
func Execute(ctx context.Context, cmd Command, args Args, stdout, stderr io.Writer) error {
	switch cmd {
	case CmdHelp:
		if args.Subcommand != "" {
			PrintUsage(stderr, upload.SupportedTypes())
			return &ValidationError{Field: "command", Value: args.Subcommand, Reason: "unknown command"}
		}
		PrintUsage(stdout, upload.SupportedTypes())
		return nil

	case CmdVersion:
		if args.JSON {
			return NewJSONResponse(cmd.String(), VersionData{
				Version:   Version,
				GitCommit: GitCommit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
			}).Write(stdout)
		}
		PrintVersion(stdout)
		return nil

	case CmdConfig:
		return HandleConfig(stdout, args)
	}

	s, err := NewSession(args)
	if err != nil {
		return err
	}
	defer s.Close()

	s.Out, s.Err = stdout, stderr
	if stdout != io.Writer(os.Stdout) {
		s.TTY = false
	}

	switch cmd {
	case CmdAsk:
		return HandleAsk(ctx, s, args)
	case CmdChat:
		return HandleChat(ctx, s, args)
	case CmdIngest:
		return HandleIngest(ctx, s, args)
	case CmdChannels:
		return HandleChannels(ctx, s, args)
	case CmdWatch:
		return HandleWatch(ctx, s, args)
	default:
		return HandleTUI(ctx, s, args)
	}
}
