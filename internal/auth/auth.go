// Package auth drives the login flow: provider redirect, code capture, and code exchange.
//
// The flow moves through [State] values:
//
//	Unauthenticated → AwaitingProviderRedirect → ExchangingCode → Authenticated | Failed
//
// Success stores the user id in the session and targets the main page. Failure clears the
// user id and targets the login page.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodify/internal/shared"
)

// State is a step of the login flow.
type State int

const (
	Unauthenticated State = iota
	AwaitingProviderRedirect
	ExchangingCode
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AwaitingProviderRedirect:
		return "awaiting-provider-redirect"
	case ExchangingCode:
		return "exchanging-code"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Exchanger trades an authorization code for a user id.
type Exchanger interface {
	Authenticate(ctx context.Context, deviceID, code string) (string, error)
}

// Session is the part of the session store the flow writes to.
type Session interface {
	DeviceID() (string, error)
	UserID() (string, bool, error)
	SetUserID(id string) error
	ClearUser() error
}

// Authorizer builds the provider's authorization URL.
type Authorizer interface {
	AuthURL(state string) string
}

// Result is the outcome of a completed flow.
type Result struct {
	UserID   string
	Redirect string // page the user lands on next
}

// Controller runs the login flow for one client.
type Controller struct {
	session    Session
	exchanger  Exchanger
	authorizer Authorizer
	loginPage  string
	mainPage   string
	logger     *log.Logger

	mu    sync.Mutex
	state State
}

// Options configures a [Controller].
type Options struct {
	Session    Session
	Exchanger  Exchanger
	Authorizer Authorizer
	LoginPage  string
	MainPage   string
	Logger     *log.Logger
}

// NewController creates a [Controller], starting in [Authenticated] when the session already has a user.
func NewController(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	c := &Controller{
		session:    opts.Session,
		exchanger:  opts.Exchanger,
		authorizer: opts.Authorizer,
		loginPage:  opts.LoginPage,
		mainPage:   opts.MainPage,
		logger:     shared.WithLogger(opts.Logger, "component", "auth"),
		state:      Unauthenticated,
	}

	if _, ok, err := opts.Session.UserID(); err == nil && ok {
		c.state = Authenticated
	}

	return c
}

// State returns the current step.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Debug("state change", "from", c.state, "to", s)
	c.state = s
}

// Begin makes sure a device id exists and returns the provider URL to send the user to.
func (c *Controller) Begin(state string) (string, error) {
	if _, err := c.session.DeviceID(); err != nil {
		return "", fmt.Errorf("failed to prepare device id: %w", err)
	}

	c.setState(AwaitingProviderRedirect)
	c.logger.Debug("login-button-click")
	return c.authorizer.AuthURL(state), nil
}

// Complete exchanges code through the remote API.
//
// An empty code fails without contacting the API. On failure the user id is cleared and
// the returned Result still carries the login page as its redirect.
func (c *Controller) Complete(ctx context.Context, code string) (Result, error) {
	if code == "" {
		return c.Fail(shared.ErrMissingCode)
	}

	deviceID, err := c.session.DeviceID()
	if err != nil {
		return c.Fail(err)
	}

	c.setState(ExchangingCode)
	userID, err := c.exchanger.Authenticate(ctx, deviceID, code)
	if err != nil {
		return c.Fail(err)
	}

	if err := c.session.SetUserID(userID); err != nil {
		return c.Fail(err)
	}

	c.setState(Authenticated)
	c.logger.Info("login", "user", userID)
	return Result{UserID: userID, Redirect: c.mainPage}, nil
}

// CompleteURL extracts the code from a callback URL and completes the flow.
func (c *Controller) CompleteURL(ctx context.Context, callbackURL string) (Result, error) {
	return c.Complete(ctx, CodeFromURL(callbackURL))
}

// Fail abandons the flow: the user id is cleared and the state becomes [Failed].
// The returned error always wraps [shared.ErrAuthFailed].
func (c *Controller) Fail(cause error) (Result, error) {
	if err := c.session.ClearUser(); err != nil {
		c.logger.Warn("failed to clear user id", "err", err)
	}
	c.setState(Failed)
	c.logger.Warn("authentication failed", "err", cause)
	if !errors.Is(cause, shared.ErrAuthFailed) {
		cause = fmt.Errorf("%w: %w", shared.ErrAuthFailed, cause)
	}
	return Result{Redirect: c.loginPage}, cause
}

// CodeFromURL returns the code query parameter of raw, or "" when absent or unparsable.
func CodeFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("code")
}
