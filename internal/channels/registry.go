// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package channels mirrors the backend's channel list into the two selectable
// lists shown by every front end: the ingest target and the chat filter.
//
// Channels created locally are pending until the backend knows about them.
// A pending channel is confirmed by a successful ingest or by appearing in a
// refreshed backend list.
package channels

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// General is the default ingest target and is always listed first.
	General = "general"

	// Wildcard is the chat filter value meaning "all channels".
	Wildcard = ""

	// WildcardLabel is the display label of Wildcard.
	WildcardLabel = "All Channels"
)

var (
	// ErrEmptyName is returned when a new channel name normalizes to nothing.
	ErrEmptyName = errors.New("channel name is empty")

	// ErrDuplicate is returned when a new channel is already an ingest target.
	ErrDuplicate = errors.New("channel already exists")

	// ErrUnknown is returned when selecting a channel that is not listed.
	ErrUnknown = errors.New("unknown channel")
)

// Entry is one option in a channel list.
type Entry struct {
	Name    string
	Label   string
	Pending bool
}

// Normalize converts user input into a channel name: lowercase with spaces
// replaced by underscores.
func Normalize(raw string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
}

// DisplayName converts a channel name into its label.
func DisplayName(name string) string {
	if name == Wildcard {
		return WildcardLabel
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds both channel lists and their selections.
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	names   []string
	pending map[string]bool
	target  string
	filter  string
}

// New creates a registry containing only General.
func New() *Registry {
	return &Registry{
		names:   []string{General},
		pending: make(map[string]bool),
		target:  General,
		filter:  Wildcard,
	}
}

// Refresh rebuilds both lists from the backend sequence. An empty sequence
// leaves the registry unchanged and Refresh returns false.
//
// Selections survive when still listed and otherwise fall back to General
// and Wildcard. Pending names found in the sequence are confirmed. A pending
// name missing from it survives only while it is the ingest target.
func (r *Registry) Refresh(backend []string) bool {
	if len(backend) == 0 {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := []string{General}
	seen := map[string]bool{General: true}
	for _, name := range backend {
		if name == Wildcard || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	// Keep pending names in their original relative order.
	for _, name := range r.names {
		if !r.pending[name] {
			continue
		}
		switch {
		case seen[name]:
			delete(r.pending, name)
		case name == r.target:
			seen[name] = true
			names = append(names, name)
		default:
			delete(r.pending, name)
		}
	}

	r.names = names
	if !seen[r.target] {
		r.target = General
	}
	if r.filter != Wildcard && !seen[r.filter] {
		r.filter = Wildcard
	}
	return true
}

// Add creates a channel locally, appends it to both lists and selects it as
// the ingest target. The new channel is pending.
func (r *Registry) Add(raw string) (string, error) {
	name := Normalize(raw)
	if name == "" {
		return "", ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(name) >= 0 {
		return name, ErrDuplicate
	}
	r.names = append(r.names, name)
	r.pending[name] = true
	r.target = name
	return name, nil
}

// Confirm marks a channel as known to the backend.
func (r *Registry) Confirm(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, name)
}

// IsPending reports whether name was created locally and not yet confirmed.
func (r *Registry) IsPending(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pending[name]
}

// =============================================================================
// SELECTION
// =============================================================================

// SelectTarget sets the ingest target.
func (r *Registry) SelectTarget(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(name) < 0 {
		return ErrUnknown
	}
	r.target = name
	return nil
}

// SelectFilter sets the chat filter. Wildcard selects all channels.
func (r *Registry) SelectFilter(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name != Wildcard && r.indexOf(name) < 0 {
		return ErrUnknown
	}
	r.filter = name
	return nil
}

// Target returns the selected ingest target.
func (r *Registry) Target() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.target
}

// Filter returns the selected chat filter, possibly Wildcard.
func (r *Registry) Filter() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter
}

// ChatChannel returns the channel to send with a chat request. ok is false
// when the filter is Wildcard, meaning the channel must be omitted.
func (r *Registry) ChatChannel() (name string, ok bool) {
	f := r.Filter()
	return f, f != Wildcard
}

// =============================================================================
// LISTS
// =============================================================================

// Targets returns the ingest-target list, General first.
func (r *Registry) Targets() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.entry(name))
	}
	return out
}

// Filters returns the chat-filter list, Wildcard first.
func (r *Registry) Filters() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.names)+1)
	out = append(out, Entry{Name: Wildcard, Label: WildcardLabel})
	for _, name := range r.names {
		out = append(out, r.entry(name))
	}
	return out
}

// Names returns the channel names without the wildcard.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Registry) entry(name string) Entry {
	return Entry{Name: name, Label: DisplayName(name), Pending: r.pending[name]}
}

// indexOf returns the position of name in the ingest-target list.
// Caller must hold the lock.
func (r *Registry) indexOf(name string) int {
	for i, n := range r.names {
		if n == name {
			return i
		}
	}
	return -1
}
