package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodify/internal/auth"
	"github.com/desertthunder/moodify/internal/repositories"
	"github.com/desertthunder/moodify/internal/services"
	"github.com/desertthunder/moodify/internal/session"
	"github.com/desertthunder/moodify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	api     *services.APIService
	moodify *services.MoodifyService
	spotify *services.SpotifyAuth
	db      *sql.DB
	store   *session.Store
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	API     *services.APIService
	Spotify *services.SpotifyAuth
	DB      *sql.DB // opened from Config.Database on first use when nil
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.API == nil {
		moodify := opts.Config.Credentials.Moodify
		opts.API = services.NewAPIService(moodify.APIURL, nil, moodify.RateLimit)
	}

	return &Runner{
		config:  opts.Config,
		api:     opts.API,
		moodify: services.NewMoodifyService(opts.API),
		spotify: opts.Spotify,
		db:      opts.DB,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, loginCommand, logoutCommand, statusCommand,
		statsCommand, searchCommand, playlistCommand, tuiCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.store = nil
	return err
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
	}
	r.db = db
	return db, nil
}

func (r *Runner) session() (*session.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}
	r.store = session.NewStore(repositories.NewStorageRepository(db), shared.GenerateID)
	return r.store, nil
}

func (r *Runner) history() (*repositories.RecommendationRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewRecommendationRepository(db), nil
}

func (r *Runner) spotifyAuth() (*services.SpotifyAuth, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}

	creds := r.config.Credentials.Spotify
	svc, err := services.NewSpotifyAuth(creds.ClientID, creds.RedirectURI)
	if err != nil {
		return nil, err
	}
	r.spotify = svc
	return svc, nil
}

func (r *Runner) controller() (*auth.Controller, error) {
	store, err := r.session()
	if err != nil {
		return nil, err
	}
	authorizer, err := r.spotifyAuth()
	if err != nil {
		return nil, err
	}

	return auth.NewController(auth.Options{
		Session:    store,
		Exchanger:  r.moodify,
		Authorizer: authorizer,
		LoginPage:  r.config.LoginPage(),
		MainPage:   r.config.MainPage(),
		Logger:     r.logger,
	}), nil
}

// signedIn is one signed-in user: the identities and an API client bound to them.
type signedIn struct {
	store    *session.Store
	deviceID string
	userID   string
	api      *services.UserAPI
}

// user resolves the stored identities. Missing identities yield [shared.ErrNotAuthenticated].
func (r *Runner) user() (*signedIn, error) {
	store, err := r.session()
	if err != nil {
		return nil, err
	}

	deviceID, userID, err := store.Identities()
	if err != nil {
		return nil, err
	}

	return &signedIn{
		store:    store,
		deviceID: deviceID,
		userID:   userID,
		api:      r.moodify.User(deviceID, userID),
	}, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
