// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Name is the configured theme: "dark", "light" or "auto".
	Name string

	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderInfo  lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel    lipgloss.Style
	AnswerLabel  lipgloss.Style
	UserBubble   lipgloss.Style
	AnswerBubble lipgloss.Style
	NoticeBubble lipgloss.Style
	ErrorBubble  lipgloss.Style
	LoadingText  lipgloss.Style
	Timestamp    lipgloss.Style

	// ==========================================================================
	// CHANNEL BAR STYLES
	// ==========================================================================

	ChannelBar     lipgloss.Style
	ChannelLabel   lipgloss.Style
	ChannelValue   lipgloss.Style
	ChannelFocused lipgloss.Style
	ChannelPending lipgloss.Style

	// ==========================================================================
	// UPLOAD STATUS STYLES
	// ==========================================================================

	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusError   lipgloss.Style
	StatusQueue   lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// COMPLETION POPUP STYLES
	// ==========================================================================

	CompletionPopup    lipgloss.Style
	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style
	CompletionDesc     lipgloss.Style

	// ==========================================================================
	// HELP STYLES
	// ==========================================================================

	Help         lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style
}

// NewTheme creates a theme. "dark" and "light" force the background; any
// other value asks the terminal.
func NewTheme(name string) *Theme {
	isDark := true
	switch name {
	case "light":
		isDark = false
	case "dark":
	default:
		name = "auto"
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Name:         name,
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles(SkybotPalette)
	return t
}

// GlamourStyle returns the glamour standard style matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.Name == "auto" {
		return "auto"
	}
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// initStyles builds every style from p.
func (t *Theme) initStyles(p Palette) {
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	framed := func(border lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)
	}

	t.Header = lipgloss.NewStyle().Background(p.Bar).Padding(0, 1)
	t.HeaderTitle = fg(p.Brand).Bold(true)
	t.HeaderInfo = fg(p.TextDim)

	t.UserLabel = fg(p.Brand).Bold(true)
	t.AnswerLabel = fg(p.Answer).Bold(true)
	t.UserBubble = framed(p.QuestionBorder).Foreground(p.QuestionFg)
	t.AnswerBubble = framed(p.AnswerBorder)
	t.NoticeBubble = framed(p.NoticeBorder)
	t.ErrorBubble = framed(p.Danger).Foreground(p.Danger)
	t.LoadingText = fg(p.TextFaint).Italic(true)
	t.Timestamp = fg(p.TextFaint)

	t.ChannelBar = lipgloss.NewStyle().Padding(0, 1)
	t.ChannelLabel = fg(p.TextDim)
	t.ChannelValue = fg(p.Text).Bold(true)
	t.ChannelFocused = t.ChannelValue.Background(p.Selection)
	t.ChannelPending = fg(p.Pending).Italic(true)

	t.StatusLoading = fg(p.Pending)
	t.StatusSuccess = fg(p.Success).Bold(true)
	t.StatusError = fg(p.Danger).Bold(true)
	t.StatusQueue = fg(p.TextFaint)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Rule).
		Padding(0, 1)
	t.InputPrompt = fg(p.Brand).Bold(true)
	t.InputPlaceholder = fg(p.TextFaint).Italic(true)

	t.CompletionPopup = framed(p.Frame)
	t.CompletionItem = fg(p.Text)
	t.CompletionSelected = t.CompletionItem.Background(p.Selection).Bold(true)
	t.CompletionDesc = fg(p.TextFaint)

	t.Help = fg(p.TextDim).Padding(0, 1)
	t.ShortcutKey = fg(p.Brand).Bold(true)
	t.ShortcutDesc = fg(p.TextFaint)
	t.Spinner = fg(p.Answer)
}
