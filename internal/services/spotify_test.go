package services

import (
	"net/url"
	"strings"
	"testing"
)

func TestSpotifyAuth(t *testing.T) {
	t.Run("Requires Client And Redirect", func(t *testing.T) {
		if _, err := NewSpotifyAuth("", "http://localhost:8000/callback"); err == nil {
			t.Error("expected error for missing client id")
		}
		if _, err := NewSpotifyAuth("client", ""); err == nil {
			t.Error("expected error for missing redirect uri")
		}
	})

	t.Run("AuthURL", func(t *testing.T) {
		auth, err := NewSpotifyAuth("client-123", "http://localhost:8000/callback")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		raw := auth.AuthURL("")
		if !strings.HasPrefix(raw, "https://accounts.spotify.com/authorize?") {
			t.Fatalf("unexpected endpoint %s", raw)
		}

		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("invalid url: %v", err)
		}

		q := u.Query()
		checks := map[string]string{
			"client_id":     "client-123",
			"redirect_uri":  "http://localhost:8000/callback",
			"response_type": "code",
			"show_dialog":   "true",
			"scope":         ScopeString(),
		}
		for key, want := range checks {
			if got := q.Get(key); got != want {
				t.Errorf("%s = %q, want %q", key, got, want)
			}
		}
		if q.Has("state") {
			t.Error("expected no state parameter for empty state")
		}

		if got := auth.AuthURL("xyz"); !strings.Contains(got, "state=xyz") {
			t.Errorf("expected state in %s", got)
		}
	})
}
