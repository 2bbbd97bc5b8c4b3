// package models defines the data model for the moodify client
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ItemKind discriminates artist and track seeds.
type ItemKind string

const (
	KindArtist ItemKind = "artist"
	KindTrack  ItemKind = "track"
)

// ParseItemKind accepts "artist" or "track".
func ParseItemKind(s string) (ItemKind, error) {
	switch k := ItemKind(s); k {
	case KindArtist, KindTrack:
		return k, nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// Term is a time window label for top-items statistics.
type Term string

const (
	TermShort  Term = "short"
	TermMedium Term = "medium"
	TermLong   Term = "long"
)

// Terms lists the windows in the order panels are laid out.
var Terms = []Term{TermLong, TermMedium, TermShort}

// Envelope wraps every remote API response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Decode unmarshals Data into v.
func (e Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("envelope has no data")
	}
	return json.Unmarshal(e.Data, v)
}

// SeedItem is an artist or track from search results or the default seeds.
type SeedItem struct {
	Kind     ItemKind `json:"itemType"`
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Extra    string   `json:"extra,omitempty"` // comma separated artist names of a track
}

// Key is the identity of a seed.
func (s SeedItem) Key() string {
	return string(s.Kind) + ":" + s.ID
}

// Label is the display text of a seed: "name" or "name, artists" for tracks.
func (s SeedItem) Label() string {
	if s.Kind == KindTrack && s.Extra != "" {
		return s.Name + ", " + s.Extra
	}
	return s.Name
}

// Profile is the signed-in user's public profile.
type Profile struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Artist is the short artist reference attached to top items.
type Artist struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// TopItem is one entry of a top artists or top tracks panel.
type TopItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ImageURL string   `json:"imageUrl"`
	Artists  []Artist `json:"artists"`
}

// ArtistNames joins the artist names with ", ".
func (t TopItem) ArtistNames() string {
	var out string
	for i, a := range t.Artists {
		if i > 0 {
			out += ", "
		}
		out += a.Name
	}
	return out
}

// OpenURL links the item on the Spotify web player.
func (t TopItem) OpenURL(kind ItemKind) string {
	return fmt.Sprintf("https://open.spotify.com/%s/%s", kind, t.ID)
}

// RecommendationRequest is the body of a playlist creation call.
type RecommendationRequest struct {
	SeedArtistIDs []string `json:"seedArtistIdList"`
	SeedTrackIDs  []string `json:"seedTrackIdList"`
	AudioFeatures
}

// SeedCount is the number of seeds in the request.
func (r RecommendationRequest) SeedCount() int {
	return len(r.SeedArtistIDs) + len(r.SeedTrackIDs)
}

// Recommendation is a submitted playlist request kept in local history.
type Recommendation struct {
	ID        string
	DeviceID  string
	UserID    string
	Request   RecommendationRequest
	CreatedAt time.Time
}
