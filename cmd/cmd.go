// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/stats"
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
		Commands: []*cli.Command{
			{
				Name:   "rollback",
				Usage:  "Revert the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// serveCommand runs the web client.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web client: /login, /callback and the static assets",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config and $FRONTEND_PORT)",
			},
			&cli.StringFlag{
				Name:  "static",
				Usage: "Directory to serve instead of the embedded assets",
			},
		},
		Action: r.Serve,
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with Spotify through the recommendation API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL instead of opening a browser",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the Spotify redirect",
				Value: 2 * time.Minute,
			},
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the signed-in user",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "forget-device",
				Usage: "Also remove the device identifier",
			},
		},
		Action: r.Logout,
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the stored device and user identities",
		Action: r.Status,
	}
}

// statsCommand loads the listening statistics.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show profile, audio feature trendlines and top tracks",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Top items per term",
				Value: stats.DefaultLimit,
			},
			&cli.BoolFlag{
				Name:  "artists",
				Usage: "Also show top artists",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Stats,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search artists and tracks to use as seeds",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Only show artists or tracks",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// playlistCommand handles recommendation playlists.
func playlistCommand(r *Runner) *cli.Command {
	createFlags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "artist",
			Aliases: []string{"a"},
			Usage:   "Seed artist ID (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "track",
			Aliases: []string{"t"},
			Usage:   "Seed track ID (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "defaults",
			Usage: "Add the default seed artists",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the request without sending it",
		},
	}
	for _, f := range models.FeatureNames {
		createFlags = append(createFlags, &cli.FloatFlag{
			Name:  string(f),
			Usage: "Target " + string(f) + " in [0,1] (default: your last 3 tracks)",
		})
	}

	return &cli.Command{
		Name:  "playlist",
		Usage: "Create recommendation playlists",
		Commands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Create a Discover Moodify playlist from up to five seeds",
				Flags:  createFlags,
				Action: r.PlaylistCreate,
			},
			{
				Name:  "history",
				Usage: "List or export the playlists requested from this machine",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Show only the most recent requests (0 for all)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, csv or markdown",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
				},
				Action: r.PlaylistHistory,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive dashboard and playlist builder",
		Action:  r.TUI,
	}
}

// apiCommand handles direct calls to the recommendation API
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the recommendation API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the raw response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "user",
						Usage: "Add the signed-in userId query parameter",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "user",
						Usage: "Add the signed-in userId query parameter",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
