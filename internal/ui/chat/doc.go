// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive Bubble Tea screen.
//
// The screen is a thin view over app.App. All conversation and channel
// mutation happens inside Update; network calls run as tea.Cmd functions
// that only return data, which Update then applies:
//
//	Enter     -> app.BeginSend  -> fetchReply (goroutine) -> replyMsg  -> app.FinishSend
//	upload    -> queue worker   -> uploadDoneMsg          -> app.FinishUpload -> fetchChannels
//	refresh   -> fetchChannels (goroutine) -> channelsMsg -> app.ApplyChannels
//
// Lines starting with "/" are slash commands handled by the commands
// package. Their output is shown in a notice area above the input and is not
// part of the conversation.
package chat
