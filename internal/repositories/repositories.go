// package repositories provides persistence layer implementations for client state.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StorageRepository is a durable string key/value store.
type StorageRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewStorageRepository creates a new [StorageRepository] with the given database connection
func NewStorageRepository(db *sql.DB) *StorageRepository {
	return &StorageRepository{db: db, now: time.Now}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (r *StorageRepository) Get(key string) (value string, ok bool, err error) {
	err = r.db.QueryRow("SELECT value FROM storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (r *StorageRepository) Set(key, value string) error {
	now := r.now()
	query := `
		INSERT INTO storage (key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, key, value, now, now); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// SetIfAbsent stores value under key only when the key is not present and reports the value now stored.
func (r *StorageRepository) SetIfAbsent(key, value string) (string, error) {
	now := r.now()
	if _, err := r.db.Exec(
		"INSERT OR IGNORE INTO storage (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)",
		key, value, now, now,
	); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}

	stored, ok, err := r.Get(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("value for %s vanished after write", key)
	}
	return stored, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *StorageRepository) Delete(keys ...string) error {
	for _, key := range keys {
		if _, err := r.db.Exec("DELETE FROM storage WHERE key = ?", key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}
