// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question and channel listing commands.

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/skybot-tui/internal/channels"
	"github.com/jeranaias/skybot-tui/internal/render"
	"github.com/jeranaias/skybot-tui/internal/skybot"
)

// HandleAsk sends one question and prints the answer with its sources.
//
// With --channel the question is restricted to that channel; otherwise all
// channels are searched. --json prints the backend response unchanged.
func HandleAsk(ctx context.Context, s *Session, args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return ErrMissingArgument("question", `skybot ask "What is the torque spec for the rotor?"`)
	}

	var channel *string
	if name := channels.Normalize(args.Channel); name != "" {
		channel = skybot.Channel(name)
	}

	start := time.Now()
	resp, err := s.Client.Chat(ctx, query, channel)
	if err != nil {
		return err
	}
	s.logger.Info("answered", "channel", args.Channel, "citations", len(resp.Citations), "duration", time.Since(start))

	if args.JSON {
		return NewJSONResponse(CmdAsk.String(), AskData{
			Query:      query,
			Channel:    channel,
			Response:   resp,
			DurationMs: time.Since(start).Milliseconds(),
		}).Write(s.Out)
	}

	s.Markdown().Print(render.Compose(resp, s.RenderOptions()))
	return nil
}

// HandleChannels lists the channels the backend knows about. An unreachable
// backend lists nothing.
func HandleChannels(ctx context.Context, s *Session, args Args) error {
	names := s.Client.ListChannels(ctx)

	if args.JSON {
		return NewJSONResponse(CmdChannels.String(), ChannelsData{
			Channels: names,
			Backend:  s.Client.BaseURL(),
		}).Write(s.Out)
	}

	if len(names) == 0 {
		fmt.Fprintln(s.Out, dim("No channels found at "+s.Client.BaseURL()))
		return nil
	}
	for _, name := range names {
		fmt.Fprintf(s.Out, "%-24s %s\n", name, dim(channels.DisplayName(name)))
	}
	return nil
}
