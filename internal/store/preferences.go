package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/readingorder/internal/domain"
)

var preferencesKey = []byte("preferences:global")

// GetPreferences returns the stored preferences, or defaults if none were saved.
func (s *Store) GetPreferences(_ context.Context) (*domain.Preferences, error) {
	var prefs domain.Preferences
	if err := s.get(preferencesKey, &prefs); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.NewPreferences(), nil
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &prefs, nil
}

// SavePreferences replaces the stored preferences.
func (s *Store) SavePreferences(_ context.Context, prefs *domain.Preferences) error {
	if prefs == nil {
		return ErrInvalidInput.WithMessage("preferences are required")
	}
	prefs.UpdatedAt = time.Now()
	if err := s.set(preferencesKey, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
