// Package tui is the interactive full-screen view of the shopping list.
package tui

import (
	"context"
	"io"
	"log/slog"

	"shoplist-cli/internal/session"
	"shoplist-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Session *session.Session

	// KV is read by the startup backup.
	KV store.KV

	// Dir holds tui_state.json and backups/. Empty disables both.
	Dir string

	Config store.Config
}

// DiscardLogger is used for sessions driven by the TUI; log lines would
// corrupt the alt screen.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	applyColorProfilePreference()
	applyThemePreference(opts.Config.TUI.Theme)
	applyGlyphPreference(opts.Config.TUI.Glyphs)

	ts, err := store.LoadTUIState(opts.Dir)
	if err != nil {
		ts = nil
	}

	m := newAppModel(ctx, opts.Session, opts, ts)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(appModel); ok {
		// Best effort.
		_ = store.SaveTUIState(opts.Dir, fm.tuiState())
	}
	return nil
}
