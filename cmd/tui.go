package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodify/internal/playlist"
	"github.com/desertthunder/moodify/internal/seeds"
	"github.com/desertthunder/moodify/internal/shared"
	"github.com/desertthunder/moodify/internal/stats"
	"github.com/desertthunder/moodify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the dashboard and playlist builder.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	u, err := r.user()
	if err != nil {
		return err
	}
	history, err := r.history()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.TUIFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.Options{
		Loader:    stats.NewLoader(u.api, u.store, fileLogger, stats.Options{}),
		Searcher:  seeds.NewSearcher(u.api),
		Defaults:  u.api,
		Submitter: playlist.NewSubmitter(u.api, history, u.deviceID, u.userID, fileLogger),
		Logger:    fileLogger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return model.Err()
}
