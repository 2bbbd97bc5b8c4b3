package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./moodify.db" {
			t.Errorf("expected database path ./moodify.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8000 {
			t.Errorf("expected server port 8000, got %d", config.Server.Port)
		}

		if config.Credentials.Moodify.APIURL != "http://localhost:9000" {
			t.Errorf("expected api url http://localhost:9000, got %s", config.Credentials.Moodify.APIURL)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
port = 8081
static_dir = "./web"

[credentials.spotify]
client_id = "test_client_id"

[credentials.moodify]
api_url = "https://api.moodify.app"
client_url = "https://moodify.app"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Port != 8081 {
			t.Errorf("expected server port 8081, got %d", config.Server.Port)
		}
		if config.Server.StaticDir != "./web" {
			t.Errorf("expected static dir ./web, got %s", config.Server.StaticDir)
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Database.Path != "./moodify.db" {
			t.Errorf("omitted keys should keep defaults, got database path %s", config.Database.Path)
		}
		if got := config.LoginPage(); got != "https://moodify.app/login" {
			t.Errorf("expected login page https://moodify.app/login, got %s", got)
		}
		if got := config.MainPage(); got != "https://moodify.app/" {
			t.Errorf("expected main page https://moodify.app/, got %s", got)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		tc := []struct {
			name    string
			value   string
			want    int
			wantErr bool
		}{
			{name: "unset keeps config", value: "", want: 8000},
			{name: "valid port", value: "9100", want: 9100},
			{name: "not a number", value: "http", want: 8000, wantErr: true},
			{name: "out of range", value: "70000", want: 8000, wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				err := config.ApplyEnv(func(key string) string {
					if key == PortEnv {
						return tt.value
					}
					return ""
				})

				if tt.wantErr {
					if !errors.Is(err, ErrInvalidConfig) {
						t.Errorf("expected ErrInvalidConfig, got %v", err)
					}
				} else if err != nil {
					t.Errorf("unexpected error: %v", err)
				}

				if config.Server.Port != tt.want {
					t.Errorf("expected port %d, got %d", tt.want, config.Server.Port)
				}
			})
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.Credentials.Moodify.APIURL = "not a url"
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for bad api url, got %v", err)
		}

		config = DefaultConfig()
		config.Credentials.Moodify.RateLimit = -1
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for negative rate limit, got %v", err)
		}
	})
}
