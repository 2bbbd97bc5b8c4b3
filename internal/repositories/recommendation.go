package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/shared"
)

// RecommendationRepository records submitted playlist requests.
type RecommendationRepository struct {
	db *sql.DB
}

// NewRecommendationRepository creates a new [RecommendationRepository] with the given database connection
func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Create inserts rec, assigning an ID and creation time when unset.
func (r *RecommendationRepository) Create(rec *models.Recommendation) error {
	if rec.UserID == "" || rec.DeviceID == "" {
		return fmt.Errorf("%w: recommendation needs device and user ids", shared.ErrInvalidInput)
	}
	if rec.ID == "" {
		rec.ID = shared.GenerateID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	artists, err := json.Marshal(nonNil(rec.Request.SeedArtistIDs))
	if err != nil {
		return fmt.Errorf("failed to encode seed artists: %w", err)
	}
	tracks, err := json.Marshal(nonNil(rec.Request.SeedTrackIDs))
	if err != nil {
		return fmt.Errorf("failed to encode seed tracks: %w", err)
	}
	features, err := json.Marshal(rec.Request.AudioFeatures)
	if err != nil {
		return fmt.Errorf("failed to encode audio features: %w", err)
	}

	query := `
		INSERT INTO recommendations (id, device_id, user_id, seed_artists, seed_tracks, features, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, rec.ID, rec.DeviceID, rec.UserID, string(artists), string(tracks), string(features), rec.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}

	return nil
}

// List returns the latest limit requests submitted by userID, oldest first.
// limit <= 0 returns all of them.
func (r *RecommendationRepository) List(userID string, limit int) ([]*models.Recommendation, error) {
	// SQLite treats a negative LIMIT as no limit.
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, device_id, user_id, seed_artists, seed_tracks, features, created_at
		FROM (
			SELECT rowid AS seq, id, device_id, user_id, seed_artists, seed_tracks, features, created_at
			FROM recommendations
			WHERE user_id = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, seq ASC
	`
	args := []any{userID, limit}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var out []*models.Recommendation
	for rows.Next() {
		var (
			rec                       models.Recommendation
			artists, tracks, features string
		)

		if err := rows.Scan(&rec.ID, &rec.DeviceID, &rec.UserID, &artists, &tracks, &features, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		if err := json.Unmarshal([]byte(artists), &rec.Request.SeedArtistIDs); err != nil {
			return nil, fmt.Errorf("failed to decode seed artists: %w", err)
		}
		if err := json.Unmarshal([]byte(tracks), &rec.Request.SeedTrackIDs); err != nil {
			return nil, fmt.Errorf("failed to decode seed tracks: %w", err)
		}
		if err := json.Unmarshal([]byte(features), &rec.Request.AudioFeatures); err != nil {
			return nil, fmt.Errorf("failed to decode audio features: %w", err)
		}

		out = append(out, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
