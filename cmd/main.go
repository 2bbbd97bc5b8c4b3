package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodify/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigEnv names the environment variable pointing at an alternative config file.
const ConfigEnv = "MOODIFY_CONFIG"

func main() {
	logger := shared.NewLogger(nil)

	config, err := loadConfig(os.Getenv)
	if err != nil {
		logger.Fatalf("configuration error: %v", err)
	}

	if level, err := log.ParseLevel(config.Log.Level); err == nil {
		shared.SetLogLevel(logger, level)
	} else {
		logger.Warn("unknown log level, keeping info", "level", config.Log.Level)
	}

	runner := NewRunner(RunnerOpts{Config: config, Logger: logger})
	defer runner.Close()

	app := &cli.Command{
		Name:     "moodify",
		Usage:    "Spotify listening statistics and mood based playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrAuthorizationExpired):
			fmt.Fprintf(os.Stderr, "%v\nRun 'moodify login' to sign in.\n", err)
			runner.Close()
			os.Exit(1)
		case errors.Is(err, shared.ErrEmptySelection), errors.Is(err, shared.ErrTooManySeeds),
			errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrMissingArgument):
			fmt.Fprintln(os.Stderr, err)
			runner.Close()
			os.Exit(2)
		default:
			runner.Close()
			logger.Fatalf("application error: %v", err)
		}
	}
}

// loadConfig reads $MOODIFY_CONFIG or ./config.toml when present, falling back to the
// embedded defaults, then applies the environment overrides.
func loadConfig(getenv func(string) string) (*shared.Config, error) {
	path := getenv(ConfigEnv)
	if path == "" {
		path = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return nil, err
		}
	} else if getenv(ConfigEnv) != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}

	if err := config.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
