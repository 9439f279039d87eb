// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/skybot-tui/internal/ui/chat"
	"github.com/jeranaias/skybot-tui/internal/ui/styles"
)

// HandleTUI runs the full-screen terminal UI until the user quits.
func HandleTUI(ctx context.Context, s *Session, _ Args) error {
	if !IsTTY() || !s.TTY {
		return fmt.Errorf("the terminal UI needs an interactive terminal; try `skybot chat` or `skybot ask`")
	}

	s.SyncChannels(ctx)

	m := chat.New(s.App, chat.Options{
		Theme:          styles.NewTheme(s.Config.UI.Theme),
		BackendURL:     s.Client.BaseURL(),
		ExportDir:      ".",
		ShowTimestamps: s.Config.UI.ShowTimestamps,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
