// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual building blocks of the chat screen:
// message bubbles, the channel bar, the upload status line, the completion
// popup and the loading spinner.
//
// Components hold no application state of their own beyond what they need to
// draw. The chat model feeds them snapshots from the app controller on every
// render.
package components
