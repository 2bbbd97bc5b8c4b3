// Package playlist builds and submits recommendation requests.
package playlist

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/seeds"
	"github.com/desertthunder/moodify/internal/shared"
)

// Build assembles a request from the selected seeds and the slider targets.
//
// It fails with [shared.ErrEmptySelection] without seeds and [shared.ErrTooManySeeds] above
// [seeds.MaxSeeds]. Seed ids keep their selection order within each kind.
func Build(selected []models.SeedItem, targets models.AudioFeatures) (models.RecommendationRequest, error) {
	switch {
	case len(selected) == 0:
		return models.RecommendationRequest{}, shared.ErrEmptySelection
	case len(selected) > seeds.MaxSeeds:
		return models.RecommendationRequest{}, shared.ErrTooManySeeds
	}

	req := models.RecommendationRequest{
		SeedArtistIDs: []string{},
		SeedTrackIDs:  []string{},
	}
	for _, it := range selected {
		switch it.Kind {
		case models.KindArtist:
			req.SeedArtistIDs = append(req.SeedArtistIDs, it.ID)
		case models.KindTrack:
			req.SeedTrackIDs = append(req.SeedTrackIDs, it.ID)
		default:
			return models.RecommendationRequest{}, fmt.Errorf("%w: seed %q has kind %q", shared.ErrInvalidInput, it.ID, it.Kind)
		}
	}

	for _, f := range models.FeatureNames {
		if err := req.Set(f, targets.Get(f)); err != nil {
			return models.RecommendationRequest{}, err
		}
	}
	return req, nil
}

// Creator posts a recommendation request. [services.UserAPI] implements it.
type Creator interface {
	CreateRecommendation(ctx context.Context, req models.RecommendationRequest) error
}

// History records submitted requests. [repositories.RecommendationRepository] implements it.
type History interface {
	Create(rec *models.Recommendation) error
}

// Submitter sends requests for one signed-in user.
type Submitter struct {
	creator  Creator
	history  History
	deviceID string
	userID   string
	logger   *log.Logger
}

// NewSubmitter creates a [Submitter]. history may be nil.
func NewSubmitter(creator Creator, history History, deviceID, userID string, logger *log.Logger) *Submitter {
	return &Submitter{creator: creator, history: history, deviceID: deviceID, userID: userID, logger: logger}
}

// Submit posts req and calls done on success. Failures are logged and returned; done is not called.
func (s *Submitter) Submit(ctx context.Context, req models.RecommendationRequest, done func()) error {
	s.logger.Debug("submitting recommendation", "artists", len(req.SeedArtistIDs), "tracks", len(req.SeedTrackIDs))

	if err := s.creator.CreateRecommendation(ctx, req); err != nil {
		s.logger.Error("failed to create playlist", "err", err)
		return err
	}

	if s.history != nil {
		rec := &models.Recommendation{DeviceID: s.deviceID, UserID: s.userID, Request: req}
		if err := s.history.Create(rec); err != nil {
			s.logger.Warn("failed to record playlist request", "err", err)
		}
	}

	if done != nil {
		done()
	}
	return nil
}

// ResetDelay is how long the button shows [Done] before returning to [Idle].
const ResetDelay = 500 * time.Millisecond

// Phase is the state of the create button.
type Phase int

const (
	Idle Phase = iota
	Waiting
	Done
)

// Label is the button text for the phase.
func (p Phase) Label() string {
	switch p {
	case Waiting:
		return "PLEASE WAIT"
	case Done:
		return "CHECK SPOTIFY"
	}
	return "CREATE PLAYLIST"
}

// Button tracks the create button through Idle, Waiting, Done and back to Idle.
type Button struct {
	phase Phase
}

// Phase returns the current phase.
func (b *Button) Phase() Phase { return b.phase }

// Label returns the current button text.
func (b *Button) Label() string { return b.phase.Label() }

// Press moves an idle button to [Waiting]. It reports false when a request is already running.
func (b *Button) Press() bool {
	if b.phase != Idle {
		return false
	}
	b.phase = Waiting
	return true
}

// Succeed moves a waiting button to [Done].
func (b *Button) Succeed() {
	if b.phase == Waiting {
		b.phase = Done
	}
}

// Reset returns the button to [Idle].
func (b *Button) Reset() {
	b.phase = Idle
}
