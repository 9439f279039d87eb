// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// LoadingText is the content of a loading placeholder.
const LoadingText = "Thinking"

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// MessageType identifies who a message is from.
type MessageType string

const (
	TypeUser   MessageType = "user"
	TypeSystem MessageType = "system"
)

// String returns the string representation of the type.
func (t MessageType) String() string {
	return string(t)
}

// DisplayName returns a human-readable sender name.
func (t MessageType) DisplayName() string {
	switch t {
	case TypeUser:
		return "You"
	case TypeSystem:
		return "Skybot"
	default:
		return string(t)
	}
}

// =============================================================================
// MESSAGE
// =============================================================================

// Message is one entry in the chat history.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`

	// IsLoading marks the placeholder shown while a chat request is in flight.
	IsLoading bool `json:"-"`

	// IsError marks a system message that reports a failed request.
	IsError bool `json:"is_error,omitempty"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(t MessageType, content string) *Message {
	return &Message{
		ID:        generateID(),
		Type:      t,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return NewMessage(TypeUser, content)
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(TypeSystem, content)
}

// NewErrorMessage creates a system message describing a failure.
func NewErrorMessage(content string) *Message {
	msg := NewMessage(TypeSystem, content)
	msg.IsError = true
	return msg
}

// NewLoadingMessage creates a loading placeholder.
func NewLoadingMessage() *Message {
	msg := NewMessage(TypeSystem, LoadingText)
	msg.IsLoading = true
	return msg
}

// Preview returns a truncated preview of the content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsUser reports whether the message came from the user.
func (m *Message) IsUser() bool {
	return m.Type == TypeUser
}

func generateID() string {
	return "msg_" + uuid.NewString()
}
