package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/desertthunder/moodify/internal/server"
	"github.com/desertthunder/moodify/internal/services"
	"github.com/desertthunder/moodify/internal/shared"
	"github.com/desertthunder/moodify/internal/web"
	"github.com/urfave/cli/v3"
)

// Login signs in through the Spotify authorization code flow.
//
// A one-shot listener on the redirect URI's host:port receives the provider redirect and the
// code is exchanged with the recommendation API for a user id.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	ctrl, err := r.controller()
	if err != nil {
		return err
	}
	authorizer, err := r.spotifyAuth()
	if err != nil {
		return err
	}

	addr, err := callbackAddr(authorizer.RedirectURI())
	if err != nil {
		return err
	}

	templates, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	state := shared.GenerateID()
	authURL, err := ctrl.Begin(state)
	if err != nil {
		return err
	}

	handler := server.NewCallbackHandler(state, func(ctx context.Context, code string) (string, error) {
		result, err := ctrl.Complete(ctx, code)
		return result.Redirect, err
	}, func(ctx context.Context, cause error) (string, error) {
		result, err := ctrl.Fail(cause)
		return result.Redirect, err
	}, templates)

	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger))
	router.Handler(handler)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s (is 'moodify serve' running on the same port?): %w", addr, err)
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	srv := server.NewServer(addr, router, r.logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL to sign in:\n\n%s\n\n", authURL)
	} else {
		r.writePlain("Opening your browser to sign in...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser", "err", err)
			r.writePlain("Open this URL to sign in:\n\n%s\n\n", authURL)
		}
	}
	r.writePlain("Waiting for Spotify to redirect to %s ...\n", authorizer.RedirectURI())

	var result server.CallbackResult
	select {
	case result = <-handler.Result():
	case err := <-errCh:
		if err == nil {
			err = errors.New("callback server stopped")
		}
		return err
	case <-ctx.Done():
		<-errCh
		return fmt.Errorf("%w: no redirect received before timeout", shared.ErrAuthFailed)
	}

	cancel()
	if err := <-errCh; err != nil {
		r.logger.Warn("callback server shutdown", "err", err)
	}

	if result.Err != nil {
		return result.Err
	}

	store, err := r.session()
	if err != nil {
		return err
	}
	_, userID, err := store.Identities()
	if err != nil {
		return err
	}
	r.writePlain("✓ Logged in as %s\n", userID)
	return nil
}

// Logout forgets the user id. --forget-device also drops the device id.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	store, err := r.session()
	if err != nil {
		return err
	}

	if cmd.Bool("forget-device") {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		r.writePlain("✓ Logged out and forgot this device\n")
		return nil
	}

	if err := store.ClearUser(); err != nil {
		return fmt.Errorf("failed to clear user: %w", err)
	}
	r.writePlain("✓ Logged out\n")
	return nil
}

// Status prints the stored identities.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	store, err := r.session()
	if err != nil {
		return err
	}

	deviceID, err := store.DeviceID()
	if err != nil {
		return err
	}
	userID, ok, err := store.UserID()
	if err != nil {
		return err
	}

	r.writePlainHeader("Session")
	r.writePlain("Device:   %s\n", deviceID)
	if ok {
		r.writePlain("User:     %s\n", userID)
	} else {
		r.writePlain("User:     not logged in\n")
	}
	r.writePlain("API:      %s\n", r.api.BaseURL())
	r.writePlain("Scopes:   %s\n", services.ScopeString())
	return nil
}

// callbackAddr is the address to listen on for redirectURI, which must use the /callback path.
func callbackAddr(redirectURI string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("%w: redirect_uri: %v", shared.ErrInvalidConfig, err)
	}
	if u.Path != "/callback" {
		return "", fmt.Errorf("%w: redirect_uri path must be /callback, got %q", shared.ErrInvalidConfig, u.Path)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		default:
			return "", fmt.Errorf("%w: redirect_uri scheme %q", shared.ErrInvalidConfig, u.Scheme)
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
