package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/shared"
	tu "github.com/desertthunder/moodify/internal/testing"
)

func newService(t *testing.T, routes map[string]http.HandlerFunc) (*MoodifyService, *tu.RemoteAPI) {
	t.Helper()
	remote := tu.NewRemoteAPI(t, routes)
	return NewMoodifyService(NewAPIService(remote.URL, nil, 0)), remote
}

func TestMoodifyService(t *testing.T) {
	ctx := context.Background()

	t.Run("Authenticate", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			svc, _ := newService(t, map[string]http.HandlerFunc{
				"GET /authenticate": func(w http.ResponseWriter, r *http.Request) {
					if r.URL.Query().Get("udid") != "device" || r.URL.Query().Get("code") != "c0de" {
						t.Errorf("unexpected query %s", r.URL.RawQuery)
					}
					tu.WriteData(w, map[string]string{"userId": "abc"})
				},
			})

			userID, err := svc.Authenticate(ctx, "device", "c0de")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if userID != "abc" {
				t.Errorf("expected abc, got %s", userID)
			}
		})

		t.Run("Remote Failure", func(t *testing.T) {
			svc, _ := newService(t, map[string]http.HandlerFunc{
				"GET /authenticate": tu.Failure("bad code"),
			})

			_, err := svc.Authenticate(ctx, "device", "nope")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("Missing User ID", func(t *testing.T) {
			svc, _ := newService(t, map[string]http.HandlerFunc{
				"GET /authenticate": tu.Data(map[string]string{}),
			})

			_, err := svc.Authenticate(ctx, "device", "c0de")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("Unreachable", func(t *testing.T) {
			svc := NewMoodifyService(NewAPIService("http://127.0.0.1:1", nil, 0))

			_, err := svc.Authenticate(ctx, "device", "c0de")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Profile", func(t *testing.T) {
		svc, _ := newService(t, map[string]http.HandlerFunc{
			"GET /user/device/profile/": func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("userId") != "abc" {
					t.Errorf("expected userId=abc, got %s", r.URL.RawQuery)
				}
				tu.WriteData(w, map[string]string{"name": "Ada", "imageUrl": "http://img"})
			},
		})

		profile, err := svc.User("device", "abc").Profile(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Name != "Ada" || profile.ImageURL != "http://img" {
			t.Errorf("unexpected profile %+v", profile)
		}
	})

	t.Run("Profile Authorization Failure", func(t *testing.T) {
		svc, _ := newService(t, map[string]http.HandlerFunc{
			"GET /user/device/profile/": tu.Failure("Spotify authorization revoked"),
		})

		_, err := svc.User("device", "abc").Profile(ctx)
		if !IsAuthorizationError(err) {
			t.Errorf("expected authorization error, got %v", err)
		}
	})

	t.Run("Unauthorized Status", func(t *testing.T) {
		svc, _ := newService(t, map[string]http.HandlerFunc{
			"GET /user/device/profile/": func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusUnauthorized)
			},
		})

		_, err := svc.User("device", "abc").Profile(ctx)
		if !errors.Is(err, shared.ErrAuthorizationExpired) {
			t.Errorf("expected ErrAuthorizationExpired, got %v", err)
		}
	})

	t.Run("Server Error", func(t *testing.T) {
		svc, _ := newService(t, map[string]http.HandlerFunc{
			"GET /user/device/trendline/15": func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		})

		_, err := svc.User("device", "abc").Trendline(ctx, 15)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if IsAuthorizationError(err) {
			t.Error("a 500 must not be treated as an authorization problem")
		}
	})

	t.Run("Gateway Error Is Unavailable", func(t *testing.T) {
		svc, _ := newService(t, map[string]http.HandlerFunc{
			"GET /user/device/trendline/15": func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream down", http.StatusBadGateway)
			},
		})

		_, err := svc.User("device", "abc").Trendline(ctx, 15)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Trendline", func(t *testing.T) {
		svc, _ := newService(t, map[string]http.HandlerFunc{
			"GET /user/device/trendline/3": tu.Data(map[string]float64{"energy": 0.734, "valence": 0.2}),
		})

		features, err := svc.User("device", "abc").Trendline(ctx, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if features.Energy != 0.734 || features.Valence != 0.2 {
			t.Errorf("unexpected features %+v", features)
		}

		if _, err := svc.User("device", "abc").Trendline(ctx, 0); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("TopItems", func(t *testing.T) {
		svc, remote := newService(t, map[string]http.HandlerFunc{
			"GET /user/device/top-tracks/short_term": tu.Data([]map[string]any{
				{"id": "t1", "name": "Song", "imageUrl": "http://img", "artists": []map[string]string{{"name": "A"}, {"name": "B"}}},
			}),
		})

		items, err := svc.User("device", "abc").TopItems(ctx, models.KindTrack, models.TermShort)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].ArtistNames() != "A, B" {
			t.Errorf("unexpected items %+v", items)
		}
		if remote.Hits("GET /user/device/top-tracks/short_term") != 1 {
			t.Error("expected top-tracks endpoint to be hit once")
		}
	})

	t.Run("Search", func(t *testing.T) {
		svc, _ := newService(t, map[string]http.HandlerFunc{
			"GET /user/device/search": func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("query") != "daft punk" {
					t.Errorf("expected query 'daft punk', got %q", r.URL.Query().Get("query"))
				}
				tu.WriteData(w, []map[string]string{
					{"itemType": "artist", "id": "a1", "name": "Daft Punk"},
					{"itemType": "track", "id": "t1", "name": "One More Time", "extra": "Daft Punk"},
				})
			},
		})

		items, err := svc.User("device", "abc").Search(ctx, "daft punk")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 || items[0].Kind != models.KindArtist || items[1].Kind != models.KindTrack {
			t.Errorf("unexpected items %+v", items)
		}
	})

	t.Run("DefaultArtists Defaults Kind", func(t *testing.T) {
		svc, _ := newService(t, map[string]http.HandlerFunc{
			"GET /user/device/default-artists": tu.Data([]map[string]string{{"id": "a1", "name": "Daft Punk"}}),
		})

		items, err := svc.User("device", "abc").DefaultArtists(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].Kind != models.KindArtist {
			t.Errorf("unexpected items %+v", items)
		}
	})

	t.Run("CreateRecommendation", func(t *testing.T) {
		var got models.RecommendationRequest
		svc, _ := newService(t, map[string]http.HandlerFunc{
			"POST /user/device/recommendation": func(w http.ResponseWriter, r *http.Request) {
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("failed to decode body: %v", err)
				}
				w.WriteHeader(http.StatusOK)
			},
		})

		req := models.RecommendationRequest{
			SeedArtistIDs: []string{"a1"},
			SeedTrackIDs:  []string{"t1"},
			AudioFeatures: models.AudioFeatures{Energy: 0.7},
		}
		if err := svc.User("device", "abc").CreateRecommendation(ctx, req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Energy != 0.7 || len(got.SeedArtistIDs) != 1 || got.SeedTrackIDs[0] != "t1" {
			t.Errorf("unexpected request body %+v", got)
		}
	})

	t.Run("CreateRecommendation Failure", func(t *testing.T) {
		svc, _ := newService(t, map[string]http.HandlerFunc{
			"POST /user/device/recommendation": tu.Failure("no seeds"),
		})

		err := svc.User("device", "abc").CreateRecommendation(ctx, models.RecommendationRequest{})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestIsAuthorizationMessage(t *testing.T) {
	tc := []struct {
		msg  string
		want bool
	}{
		{"Authorization failed", true},
		{"The access token expired", true},
		{"Unauthorized", true},
		{"rate limited", false},
		{"", false},
	}

	for _, tt := range tc {
		if got := IsAuthorizationMessage(tt.msg); got != tt.want {
			t.Errorf("IsAuthorizationMessage(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}
