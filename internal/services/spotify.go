// Spotify authorization for the recommendation client
package services

import (
	"fmt"
	"strings"

	"github.com/desertthunder/moodify/internal/shared"
	"golang.org/x/oauth2"
)

const spotifyAuthURL = "https://accounts.spotify.com/authorize"

// Scopes requested from Spotify. The remote API needs all of them to read history and write playlists.
var Scopes = []string{
	"user-read-recently-played",
	"playlist-modify-public",
	"user-top-read",
	"user-read-private",
	"ugc-image-upload",
}

// SpotifyAuth builds authorization URLs for the code flow.
//
// The client never holds the client secret: the code is exchanged by the remote API.
type SpotifyAuth struct {
	config *oauth2.Config
}

// NewSpotifyAuth creates a [SpotifyAuth] for clientID redirecting to redirectURI.
func NewSpotifyAuth(clientID, redirectURI string) (*SpotifyAuth, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: spotify client_id", shared.ErrMissingCredentials)
	}
	if redirectURI == "" {
		return nil, fmt.Errorf("%w: spotify redirect_uri", shared.ErrMissingCredentials)
	}

	return &SpotifyAuth{config: &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      Scopes,
		Endpoint:    oauth2.Endpoint{AuthURL: spotifyAuthURL},
	}}, nil
}

// RedirectURI returns the configured callback URL.
func (s *SpotifyAuth) RedirectURI() string {
	return s.config.RedirectURL
}

// AuthURL returns the provider URL the user is sent to. The consent dialog is always shown.
//
// state may be empty when the callback is not validated.
func (s *SpotifyAuth) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// ScopeString returns the requested scopes as sent to the provider.
func ScopeString() string {
	return strings.Join(Scopes, " ")
}
