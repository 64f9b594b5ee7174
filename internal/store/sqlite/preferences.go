package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/listenupapp/readingorder/internal/domain"
	"github.com/listenupapp/readingorder/internal/store"
)

// GetPreferences loads every stored key on top of the defaults.
func (s *Store) GetPreferences(ctx context.Context) (*domain.Preferences, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value, updated_at FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := domain.NewPreferences()
	var latest time.Time
	for rows.Next() {
		var key, value, updatedAt string
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return nil, err
		}
		if err := prefs.Set(domain.PreferenceKey(key), value); err != nil {
			// A stale value for a known key falls back to its default.
			if s.logger != nil {
				s.logger.Warn("ignoring invalid stored preference", "key", key, "error", err)
			}
			continue
		}
		if t, err := parseTime(updatedAt); err == nil && t.After(latest) {
			latest = t
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !latest.IsZero() {
		prefs.UpdatedAt = latest
	}
	return prefs, nil
}

// SavePreferences replaces all stored preferences in one transaction.
func (s *Store) SavePreferences(ctx context.Context, prefs *domain.Preferences) error {
	if prefs == nil {
		return store.ErrInvalidInput.WithMessage("preferences are required")
	}
	prefs.UpdatedAt = time.Now()
	now := formatTime(prefs.UpdatedAt)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM preferences`); err != nil {
		return err
	}

	keys := domain.KnownPreferenceKeys()
	for key := range prefs.Extra {
		keys = append(keys, domain.PreferenceKey(key))
	}

	for _, key := range keys {
		value, ok := prefs.Get(key)
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)`,
			string(key), value, now); err != nil {
			return fmt.Errorf("save preference %s: %w", key, err)
		}
	}

	return tx.Commit()
}
