// Package session persists the device identifier and the authenticated user identifier.
//
// The device identifier is created once per installation and never regenerated. The user
// identifier exists only between a successful code exchange and a logout or failed
// authentication.
package session

import (
	"fmt"

	"github.com/desertthunder/moodify/internal/shared"
)

// Storage keys, shared with the web client.
const (
	DeviceKey = "moodify-udid"
	UserKey   = "moodify-spotifyId"
)

// Storage is durable string storage.
//
// [repositories.StorageRepository] is the production implementation.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	SetIfAbsent(key, value string) (string, error)
	Delete(keys ...string) error
}

// Store owns the two client identities.
type Store struct {
	storage Storage
	newID   func() string
}

// NewStore creates a [Store] over storage. newID defaults to [shared.GenerateID].
func NewStore(storage Storage, newID func() string) *Store {
	if newID == nil {
		newID = shared.GenerateID
	}
	return &Store{storage: storage, newID: newID}
}

// DeviceID returns the stored device identifier, creating and persisting one when absent.
func (s *Store) DeviceID() (string, error) {
	id, ok, err := s.storage.Get(DeviceKey)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}

	id, err = s.storage.SetIfAbsent(DeviceKey, s.newID())
	if err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}
	return id, nil
}

// UserID returns the authenticated user identifier, if any.
func (s *Store) UserID() (string, bool, error) {
	id, ok, err := s.storage.Get(UserKey)
	if err != nil {
		return "", false, err
	}
	return id, ok && id != "", nil
}

// SetUserID records a successful authentication.
func (s *Store) SetUserID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty user id", shared.ErrInvalidArgument)
	}
	return s.storage.Set(UserKey, id)
}

// ClearUser forgets the user identifier and keeps the device identifier.
func (s *Store) ClearUser() error {
	return s.storage.Delete(UserKey)
}

// Clear forgets both identities. The next [Store.DeviceID] call creates a new device identifier.
func (s *Store) Clear() error {
	return s.storage.Delete(DeviceKey, UserKey)
}

// Identities returns both identifiers or [shared.ErrNotAuthenticated] when either is missing.
func (s *Store) Identities() (deviceID, userID string, err error) {
	deviceID, ok, err := s.storage.Get(DeviceKey)
	if err != nil {
		return "", "", err
	}
	if !ok || deviceID == "" {
		return "", "", fmt.Errorf("%w: no device id", shared.ErrNotAuthenticated)
	}

	userID, ok, err = s.UserID()
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", fmt.Errorf("%w: no user id", shared.ErrNotAuthenticated)
	}

	return deviceID, userID, nil
}
