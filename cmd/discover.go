package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sift/internal/engine"
	"github.com/desertthunder/sift/internal/shared"
	"github.com/desertthunder/sift/internal/ui"
	"github.com/urfave/cli/v3"
)

// Discover launches the interactive swipe surface.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	if r.discovery == nil {
		return fmt.Errorf("%w: discovery service not initialized, check config.toml credentials", shared.ErrServiceUnavailable)
	}

	if err := r.adoptStoredToken(ctx); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/sift-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	opts := engine.SessionOpts{
		Queue:   engine.NewTrackQueue(r.config.Discovery.QueueCapacity, r.config.Discovery.LowWaterMark, r.logger),
		Store:   engine.NewPreferenceStore(r.discovery, r.logger),
		Service: r.discovery,
		Logger:  r.logger,
	}
	if millis := r.config.Discovery.AnimationMillis; millis > 0 {
		opts.ExitDuration = time.Duration(millis) * time.Millisecond
	}

	var history ui.HistoryLister
	if !cmd.Bool("no-history") {
		db, repo, err := r.openHistory()
		if err != nil {
			r.logger.Warn("swipe history unavailable", "error", err)
		} else {
			defer db.Close()
			opts.Recorder = repo
			history = repo
		}
	}

	session := engine.NewSession(opts)
	defer opts.Store.Flush()

	model := ui.NewModel(ctx, session, opts.Store, history)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// adoptStoredToken authenticates the discovery service with the token persisted in config.
func (r *Runner) adoptStoredToken(ctx context.Context) error {
	oauthSvc, err := r.oauthService()
	if err != nil {
		return err
	}

	token := r.config.Credentials.Discovery.Token()
	if token == nil {
		return fmt.Errorf("%w: run 'sift auth login' first", shared.ErrNotAuthenticated)
	}

	if err := oauthSvc.OAuthenticate(ctx, token); err != nil {
		return fmt.Errorf("failed to adopt stored token: %w", err)
	}

	return nil
}
