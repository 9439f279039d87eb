// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// asciiSpin renders on any terminal font.
var asciiSpin = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}

// Spinner animates the loading placeholder while a question is in flight.
// The zero since means stopped.
type Spinner struct {
	model spinner.Model
	since time.Time
}

func NewSpinner() Spinner {
	return Spinner{model: spinner.New(spinner.WithSpinner(asciiSpin))}
}

// Start begins a wait and returns the first tick, or nil if one is already
// running.
func (s *Spinner) Start() tea.Cmd {
	if s.IsActive() {
		return nil
	}
	s.since = time.Now()
	return s.model.Tick
}

// Stop ends the wait. Ticks already in flight are ignored by Update.
func (s *Spinner) Stop() { s.since = time.Time{} }

func (s *Spinner) IsActive() bool { return !s.since.IsZero() }

// Elapsed is the time since Start, or zero when stopped.
func (s *Spinner) Elapsed() time.Duration {
	if !s.IsActive() {
		return 0
	}
	return time.Since(s.since)
}

func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.IsActive() {
		return s, nil
	}
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return s, cmd
}

// Frame is the current glyph, followed by whole seconds waited once the
// first second has passed. Empty when stopped.
func (s Spinner) Frame() string {
	if !s.IsActive() {
		return ""
	}
	secs := int(s.Elapsed() / time.Second)
	if secs == 0 {
		return s.model.View()
	}
	return fmt.Sprintf("%s %ds", s.model.View(), secs)
}
