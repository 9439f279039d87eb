// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Palette names colors by role. Each is adaptive so one palette serves both
// terminal backgrounds.
type Palette struct {
	Brand   lipgloss.AdaptiveColor // title, prompt, user label
	Answer  lipgloss.AdaptiveColor // assistant label, spinner
	Success lipgloss.AdaptiveColor
	Pending lipgloss.AdaptiveColor // uploads in flight, unsaved channels
	Danger  lipgloss.AdaptiveColor

	Bar       lipgloss.AdaptiveColor // header background
	Rule      lipgloss.AdaptiveColor // separators
	Frame     lipgloss.AdaptiveColor // popup borders
	Selection lipgloss.AdaptiveColor

	Text      lipgloss.AdaptiveColor
	TextDim   lipgloss.AdaptiveColor
	TextFaint lipgloss.AdaptiveColor // timestamps, hints, placeholders

	QuestionFg     lipgloss.AdaptiveColor
	QuestionBorder lipgloss.AdaptiveColor
	AnswerBorder   lipgloss.AdaptiveColor
	NoticeBorder   lipgloss.AdaptiveColor
}

// SkybotPalette is the default color set.
var SkybotPalette = Palette{
	Brand:   lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#38BDF8"},
	Answer:  lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#C4B5FD"},
	Success: lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"},
	Pending: lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FCD34D"},
	Danger:  lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"},

	Bar:       lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#0F172A"},
	Rule:      lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#1E293B"},
	Frame:     lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"},
	Selection: lipgloss.AdaptiveColor{Light: "#BAE6FD", Dark: "#0C4A6E"},

	Text:      lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#E2E8F0"},
	TextDim:   lipgloss.AdaptiveColor{Light: "#475569", Dark: "#94A3B8"},
	TextFaint: lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#64748B"},

	QuestionFg:     lipgloss.AdaptiveColor{Light: "#075985", Dark: "#E0F2FE"},
	QuestionBorder: lipgloss.AdaptiveColor{Light: "#0EA5E9", Dark: "#0EA5E9"},
	AnswerBorder:   lipgloss.AdaptiveColor{Light: "#A78BFA", Dark: "#8B5CF6"},
	NoticeBorder:   lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#D97706"},
}

// StatusIndicatorSet holds the ASCII markers printed next to colored
// status text so states stay readable without color.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Pending string
}

var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Pending: "[..]",
}
