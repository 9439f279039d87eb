// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// inflight owns the cancel func of the question being fetched. The fetch
// runs as a tea.Cmd on another goroutine, so access is locked, and Model
// holds it by pointer because Bubble Tea copies the model on every update.
type inflight struct {
	mu   sync.Mutex
	stop context.CancelFunc
}

// begin returns the context for a new fetch, aborting any earlier one.
func (f *inflight) begin(parent context.Context) context.Context {
	ctx, stop := context.WithCancel(parent)
	f.mu.Lock()
	prev := f.stop
	f.stop = stop
	f.mu.Unlock()
	if prev != nil {
		prev()
	}
	return ctx
}

// cancel aborts the fetch, reporting whether one was running. It also
// releases the context once a reply has arrived.
func (f *inflight) cancel() bool {
	f.mu.Lock()
	stop := f.stop
	f.stop = nil
	f.mu.Unlock()
	if stop == nil {
		return false
	}
	stop()
	return true
}
