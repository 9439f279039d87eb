// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_IDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		msg := NewUserMessage("q")
		require.False(t, seen[msg.ID], "duplicate id %s", msg.ID)
		seen[msg.ID] = true
	}
}

func TestMessage_Constructors(t *testing.T) {
	loading := NewLoadingMessage()
	require.Equal(t, TypeSystem, loading.Type)
	require.True(t, loading.IsLoading)
	require.Equal(t, LoadingText, loading.Content)

	errMsg := NewErrorMessage("Error: boom")
	require.True(t, errMsg.IsError)
	require.False(t, errMsg.IsLoading)

	require.True(t, NewUserMessage("x").IsUser())
	require.Equal(t, "Skybot", TypeSystem.DisplayName())
	require.Equal(t, "You", TypeUser.DisplayName())
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("héllo wörld")
	require.Equal(t, "héllo wörld", msg.Preview(20))
	require.Equal(t, "héllo...", msg.Preview(8))
	require.Equal(t, "hé", msg.Preview(2))
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_PlaceholderSwap(t *testing.T) {
	conv := NewConversation()
	user := conv.AddUser("question")
	placeholder := conv.AddLoading()
	require.True(t, conv.IsLoading())
	require.Equal(t, 2, conv.Len())

	require.True(t, conv.Remove(placeholder.ID))
	require.False(t, conv.Remove(placeholder.ID))
	answer := conv.AddSystem("answer")

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, user.ID, msgs[0].ID)
	require.Equal(t, answer.ID, msgs[1].ID)
	require.False(t, conv.IsLoading())
	require.Nil(t, conv.Get(placeholder.ID))
	require.Equal(t, answer, conv.Last())
}

func TestConversation_RemoveKeepsOrder(t *testing.T) {
	conv := NewConversation()
	a := conv.AddUser("a")
	b := conv.AddLoading()
	c := conv.AddSystem("c")

	require.True(t, conv.Remove(b.ID))
	msgs := conv.Messages()
	require.Equal(t, []string{a.ID, c.ID}, []string{msgs[0].ID, msgs[1].ID})
}

func TestConversation_MessagesIsSnapshot(t *testing.T) {
	conv := NewConversation()
	conv.AddUser("a")
	snap := conv.Messages()
	conv.AddUser("b")
	require.Len(t, snap, 1)
}

func TestConversation_Clear(t *testing.T) {
	conv := NewConversation()
	conv.AddUser("a")
	conv.Clear()
	require.True(t, conv.IsEmpty())
	require.Nil(t, conv.Last())
}

func TestConversation_Title(t *testing.T) {
	conv := NewConversation()
	require.Equal(t, "Skybot conversation", conv.Title())

	conv.AddSystem("welcome")
	conv.AddUser("  what   is\nthe process?  ")
	require.Equal(t, "what is the process?", conv.Title())

	long := NewConversation()
	long.AddUser(strings.Repeat("x", 80))
	require.Len(t, long.Title(), 50)
}

func TestConversation_Prune(t *testing.T) {
	conv := NewConversation()
	first := conv.AddUser("first")
	for i := 0; i < MaxMessages; i++ {
		conv.AddSystem("m")
	}
	require.Equal(t, MaxMessages, conv.Len())
	require.Nil(t, conv.Get(first.ID))
}

func TestConversation_ConcurrentAccess(t *testing.T) {
	conv := NewConversation()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			msg := conv.AddLoading()
			conv.Remove(msg.ID)
		}()
		go func() {
			defer wg.Done()
			_ = conv.Messages()
			_ = conv.Title()
		}()
	}
	wg.Wait()
	require.False(t, conv.IsLoading())
}
