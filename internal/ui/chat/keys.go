// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat screen.
type KeyMap struct {
	Submit       key.Binding
	Cancel       key.Binding
	Quit         key.Binding
	Complete     key.Binding
	CompletePrev key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	SwitchFocus  key.Binding
	NextChannel  key.Binding
	PrevChannel  key.Binding
	Help         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("Esc/C-c", "cancel question"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+d"),
			key.WithHelp("C-q", "quit"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "complete"),
		),
		CompletePrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous completion"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("Up", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("Down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "switch upload/ask"),
		),
		NextChannel: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "next channel"),
		),
		PrevChannel: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "previous channel"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.SwitchFocus, k.NextChannel, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped by row.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Cancel, k.Complete, k.CompletePrev},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown},
		{k.SwitchFocus, k.NextChannel, k.PrevChannel},
		{k.Help, k.Quit},
	}
}

// helpLine formats bindings as "Key desc" pairs.
func helpLine(bindings []key.Binding, keyStyle, descStyle func(...string) string) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, keyStyle(h.Key)+" "+descStyle(h.Desc))
	}
	return strings.Join(parts, "  ")
}
