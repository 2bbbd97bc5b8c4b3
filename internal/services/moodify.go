package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/shared"
)

// MoodifyService calls the remote recommendation API.
type MoodifyService struct {
	api *APIService
}

// NewMoodifyService wraps api.
func NewMoodifyService(api *APIService) *MoodifyService {
	return &MoodifyService{api: api}
}

type authenticateData struct {
	UserID string `json:"userId"`
}

// Authenticate exchanges an authorization code for the user's identifier.
//
// A response with success=false, or without a user id, is reported as [shared.ErrAuthFailed].
func (s *MoodifyService) Authenticate(ctx context.Context, deviceID, code string) (string, error) {
	resp, err := s.api.Get(ctx, "/authenticate", url.Values{"udid": {deviceID}, "code": {code}})
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	env := resp.Envelope
	if env == nil {
		return "", fmt.Errorf("%w: status %d, unexpected body", shared.ErrAuthFailed, resp.StatusCode)
	}
	if !env.Success {
		return "", fmt.Errorf("%w: %s", shared.ErrAuthFailed, messageOr(env, "remote reported failure"))
	}

	var data authenticateData
	if err := env.Decode(&data); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if data.UserID == "" {
		return "", fmt.Errorf("%w: response carried no user id", shared.ErrAuthFailed)
	}

	return data.UserID, nil
}

// User returns a client bound to a device and user identity.
func (s *MoodifyService) User(deviceID, userID string) *UserAPI {
	return &UserAPI{api: s.api, deviceID: deviceID, userID: userID}
}

// UserAPI calls the per-user endpoints, /user/{deviceID}/...?userId={userID}.
type UserAPI struct {
	api      *APIService
	deviceID string
	userID   string
}

func (u *UserAPI) path(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return "/user/" + url.PathEscape(u.deviceID) + "/" + strings.Join(escaped, "/")
}

func (u *UserAPI) query(extra ...string) url.Values {
	q := url.Values{"userId": {u.userID}}
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	return q
}

func (u *UserAPI) get(ctx context.Context, path string, q url.Values, v any) error {
	resp, err := u.api.Get(ctx, path, q)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return decodeResponse(resp, v)
}

// Profile fetches the user's profile.
func (u *UserAPI) Profile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := u.get(ctx, u.path("profile")+"/", u.query(), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Trendline fetches the average audio features of the last n played tracks.
func (u *UserAPI) Trendline(ctx context.Context, n int) (*models.AudioFeatures, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: trendline window must be positive", shared.ErrInvalidArgument)
	}

	var features models.AudioFeatures
	if err := u.get(ctx, u.path("trendline", strconv.Itoa(n)), u.query(), &features); err != nil {
		return nil, err
	}
	return &features, nil
}

// TopItems fetches the user's top artists or tracks for a term.
func (u *UserAPI) TopItems(ctx context.Context, kind models.ItemKind, term models.Term) ([]models.TopItem, error) {
	var items []models.TopItem
	endpoint := u.path(fmt.Sprintf("top-%ss", kind), string(term)+"_term")
	if err := u.get(ctx, endpoint, u.query(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Search looks up artists and tracks matching query.
func (u *UserAPI) Search(ctx context.Context, query string) ([]models.SeedItem, error) {
	var items []models.SeedItem
	if err := u.get(ctx, u.path("search"), u.query("query", query), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DefaultArtists fetches the seeds preselected for a new playlist.
func (u *UserAPI) DefaultArtists(ctx context.Context) ([]models.SeedItem, error) {
	var items []models.SeedItem
	if err := u.get(ctx, u.path("default-artists"), u.query(), &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Kind == "" {
			items[i].Kind = models.KindArtist
		}
	}
	return items, nil
}

// CreateRecommendation asks the remote API to build a playlist from req.
//
// Only the status code decides success; the remote may answer with an empty body.
func (u *UserAPI) CreateRecommendation(ctx context.Context, req models.RecommendationRequest) error {
	resp, err := u.api.PostJSON(ctx, u.path("recommendation"), u.query(), req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return statusError(resp)
	}
	if resp.Envelope != nil && !resp.Envelope.Success {
		return envelopeError(resp.Envelope)
	}
	return nil
}

func decodeResponse(resp *APIResponse, v any) error {
	if !resp.OK() {
		return statusError(resp)
	}
	if resp.Envelope == nil {
		return fmt.Errorf("%w: status %d, body is not an envelope", shared.ErrAPIRequest, resp.StatusCode)
	}
	if !resp.Envelope.Success {
		return envelopeError(resp.Envelope)
	}
	if err := resp.Envelope.Decode(v); err != nil {
		return fmt.Errorf("%w: failed to decode data: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

func statusError(resp *APIResponse) error {
	msg := strings.TrimSpace(string(resp.Body))
	if resp.Envelope != nil && resp.Envelope.Message != "" {
		msg = resp.Envelope.Message
	}
	if resp.StatusCode == http.StatusUnauthorized || IsAuthorizationMessage(msg) {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAuthorizationExpired, resp.StatusCode, msg)
	}
	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %w: status %d: %s", shared.ErrAPIRequest, shared.ErrServiceUnavailable, resp.StatusCode, msg)
	}
	return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, msg)
}

func envelopeError(env *models.Envelope) error {
	msg := messageOr(env, "remote reported failure")
	if IsAuthorizationMessage(msg) {
		return fmt.Errorf("%w: %s", shared.ErrAuthorizationExpired, msg)
	}
	return fmt.Errorf("%w: %s", shared.ErrAPIRequest, msg)
}

func messageOr(env *models.Envelope, fallback string) string {
	if env.Message != "" {
		return env.Message
	}
	return fallback
}

// IsAuthorizationMessage reports whether a remote error message describes a revoked or expired authorization.
func IsAuthorizationMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, needle := range []string{"authoriz", "token expired", "access token", "invalid_grant"} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}

// IsAuthorizationError reports whether err means the user must log in again.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, shared.ErrAuthorizationExpired)
}
