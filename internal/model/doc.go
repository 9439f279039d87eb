// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the chat view-model: messages and the ordered
// conversation that holds them.
//
// # Key Types
//
//   - Conversation: ordered message list for one session
//   - Message: a user question or a system reply, possibly a loading placeholder
//   - MessageType: user or system
//
// # Usage
//
// A send appends the question and a placeholder, then swaps the placeholder
// for the answer once it arrives:
//
//	conv := model.NewConversation()
//	conv.AddUser("What is the onboarding process?")
//	placeholder := conv.AddLoading()
//	// ... request completes ...
//	conv.Remove(placeholder.ID)
//	conv.AddSystem(answerMarkdown)
//
// Nothing in this package is persisted between runs.
package model
