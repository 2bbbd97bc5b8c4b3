package shared

import "errors"

var (
	// Configuration errors
	ErrMissingConfig      = errors.New("configuration not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")

	// Authentication errors
	ErrAuthFailed           = errors.New("authentication failed")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrAuthorizationExpired = errors.New("authorization expired")
	ErrMissingCode          = errors.New("missing authorization code")

	// API and service errors
	ErrAPIRequest         = errors.New("API request failed")
	ErrServiceUnavailable = errors.New("service unavailable")

	// Seed selection and playlist validation errors
	ErrEmptySelection = errors.New("you should specify at least one artist or track")
	ErrTooManySeeds   = errors.New("you can specify at most five artists and tracks")
	ErrSelectionFull  = errors.New("selection already holds five artists and tracks")
	ErrSuperseded     = errors.New("superseded by a newer search")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)
