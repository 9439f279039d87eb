// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"sync"
	"time"
)

// MaxMessages is the maximum number of messages kept in a conversation.
// When exceeded, the oldest messages are pruned.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered message history of one session.
// All methods are safe for concurrent use.
type Conversation struct {
	mu        sync.RWMutex
	messages  []*Message
	createdAt time.Time
	updatedAt time.Time
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		messages:  make([]*Message, 0),
		createdAt: now,
		updatedAt: now,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Add appends a message.
func (c *Conversation) Add(msg *Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msg)
	c.updatedAt = time.Now()
	c.pruneOldMessages()
}

// AddUser creates and appends a user message.
func (c *Conversation) AddUser(content string) *Message {
	msg := NewUserMessage(content)
	c.Add(msg)
	return msg
}

// AddSystem creates and appends a system message.
func (c *Conversation) AddSystem(content string) *Message {
	msg := NewSystemMessage(content)
	c.Add(msg)
	return msg
}

// AddError creates and appends a system error message.
func (c *Conversation) AddError(content string) *Message {
	msg := NewErrorMessage(content)
	c.Add(msg)
	return msg
}

// AddLoading creates and appends a loading placeholder.
func (c *Conversation) AddLoading() *Message {
	msg := NewLoadingMessage()
	c.Add(msg)
	return msg
}

// Remove deletes the message with the given ID.
// Returns false if no such message exists.
func (c *Conversation) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, msg := range c.messages {
		if msg.ID == id {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			c.updatedAt = time.Now()
			return true
		}
	}
	return false
}

// Get returns the message with the given ID, or nil.
func (c *Conversation) Get(id string) *Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, msg := range c.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// Messages returns a snapshot of the history in insertion order.
func (c *Conversation) Messages() []*Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message, or nil if empty.
func (c *Conversation) Last() *Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// IsEmpty reports whether the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return c.Len() == 0
}

// IsLoading reports whether a loading placeholder is present.
func (c *Conversation) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, msg := range c.messages {
		if msg.IsLoading {
			return true
		}
	}
	return false
}

// Clear removes all messages.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = make([]*Message, 0)
	c.updatedAt = time.Now()
}

// =============================================================================
// METADATA
// =============================================================================

// Title derives a title from the first user message.
func (c *Conversation) Title() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, msg := range c.messages {
		if msg.Type == TypeUser {
			title := strings.Join(strings.Fields(msg.Content), " ")
			if runes := []rune(title); len(runes) > 50 {
				title = string(runes[:47]) + "..."
			}
			return title
		}
	}
	return "Skybot conversation"
}

// CreatedAt returns when the conversation started.
func (c *Conversation) CreatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.createdAt
}

// UpdatedAt returns when the history last changed.
func (c *Conversation) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// pruneOldMessages drops the oldest messages beyond MaxMessages.
// Caller must hold the write lock.
func (c *Conversation) pruneOldMessages() {
	if len(c.messages) <= MaxMessages {
		return
	}
	excess := len(c.messages) - MaxMessages
	kept := make([]*Message, MaxMessages)
	copy(kept, c.messages[excess:])
	c.messages = kept
}
