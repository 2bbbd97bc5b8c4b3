package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// PortEnv names the environment variable that overrides [ServerConfig.Port].
const PortEnv = "FRONTEND_PORT"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Moodify MoodifyConfig `toml:"moodify"`
}

// SpotifyConfig contains the public half of the Spotify OAuth client.
//
// The secret lives with the remote API, which performs the token exchange.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
}

// MoodifyConfig locates the remote recommendation API and the web client.
type MoodifyConfig struct {
	APIURL    string  `toml:"api_url"`
	ClientURL string  `toml:"client_url"`
	RateLimit float64 `toml:"rate_limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	StaticDir string `toml:"static_dir"` // empty serves the embedded assets
}

// LogConfig controls log verbosity and the TUI log destination.
type LogConfig struct {
	Level   string `toml:"level"`
	TUIFile string `toml:"tui_file"`
}

// Addr returns the host:port the static server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoginPage returns the URL of the login entry point.
func (c *Config) LoginPage() string {
	return strings.TrimRight(c.Credentials.Moodify.ClientURL, "/") + "/login"
}

// MainPage returns the URL of the main application page.
func (c *Config) MainPage() string {
	return strings.TrimRight(c.Credentials.Moodify.ClientURL, "/") + "/"
}

// ApplyEnv overlays environment-provided settings. Only the server port is read from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	raw := getenv(PortEnv)
	if raw == "" {
		return nil
	}

	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, PortEnv, raw)
	}
	c.Server.Port = port
	return nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Credentials.Moodify.APIURL); err != nil {
		return fmt.Errorf("%w: credentials.moodify.api_url: %v", ErrInvalidConfig, err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Credentials.Moodify.RateLimit < 0 {
		return fmt.Errorf("%w: credentials.moodify.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads path on top of the embedded defaults, so omitted keys keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
