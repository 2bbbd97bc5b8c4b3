package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/moodify/internal/server"
	"github.com/desertthunder/moodify/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web client until interrupted.
//
// /callback completes the login on the server: the code is exchanged with the recommendation
// API and the page redirects to the main page or back to /login.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}

	staticDir := cfg.StaticDir
	if cmd.IsSet("static") {
		staticDir = cmd.String("static")
	}

	root, err := web.Static(staticDir)
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}
	templates, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	authorizer, err := r.spotifyAuth()
	if err != nil {
		return err
	}
	ctrl, err := r.controller()
	if err != nil {
		return err
	}

	authURL := func() string {
		u, err := ctrl.Begin("")
		if err != nil {
			r.logger.Error("failed to prepare login", "err", err)
			return authorizer.AuthURL("")
		}
		return u
	}
	complete := func(ctx context.Context, code string) (string, error) {
		result, err := ctrl.Complete(ctx, code)
		return result.Redirect, err
	}

	site := server.NewStaticSite(root, templates, authURL, complete, r.logger)

	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.AccessLog(r.logger))
	router.Handler(site)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.writePlain("Serving moodify on http://localhost:%d (Ctrl+C to stop)\n", cfg.Port)
	return server.NewServer(cfg.Addr(), router, r.logger).Run(ctx)
}
