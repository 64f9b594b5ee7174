package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/listenupapp/readingorder/internal/domain"
	domainerrors "github.com/listenupapp/readingorder/internal/errors"
	"github.com/listenupapp/readingorder/internal/sse"
	"github.com/listenupapp/readingorder/internal/store"
	"github.com/listenupapp/readingorder/internal/validation"
)

// PreferencesStore persists the global preferences.
type PreferencesStore interface {
	GetPreferences(ctx context.Context) (*domain.Preferences, error)
	SavePreferences(ctx context.Context, prefs *domain.Preferences) error
}

// SettingsService manages the typed preferences.
type SettingsService struct {
	store     PreferencesStore
	events    store.EventEmitter
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(prefs PreferencesStore, events store.EventEmitter, logger *slog.Logger) *SettingsService {
	if events == nil {
		events = store.NewNoopEmitter()
	}
	return &SettingsService{
		store:     prefs,
		events:    events,
		validator: validation.New(),
		logger:    logger,
	}
}

// SettingsUpdate contains fields that can be updated. Nil fields are left unchanged.
type SettingsUpdate struct {
	DefaultReadingOrder        *string           `json:"default_reading_order,omitempty" validate:"omitempty,reading_order"`
	ShowChronologicalPositions *bool             `json:"show_chronological_positions,omitempty"`
	Extra                      map[string]string `json:"extra,omitempty" validate:"omitempty,dive,keys,required,endkeys"`
}

// GetPreferences returns the current preferences.
func (s *SettingsService) GetPreferences(ctx context.Context) (*domain.Preferences, error) {
	prefs, err := s.store.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return prefs, nil
}

// DefaultReadingOrder returns the mode new series start with.
func (s *SettingsService) DefaultReadingOrder(ctx context.Context) (domain.ReadingOrderMode, error) {
	prefs, err := s.GetPreferences(ctx)
	if err != nil {
		return "", err
	}
	if !prefs.DefaultReadingOrder.IsKnown() {
		return domain.ReadingOrderPublication, nil
	}
	return prefs.DefaultReadingOrder, nil
}

// UpdatePreferences validates and applies update, then saves the result.
func (s *SettingsService) UpdatePreferences(ctx context.Context, update *SettingsUpdate) (*domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if update == nil {
		return nil, domainerrors.Validation("update is required")
	}
	if err := s.validator.Validate(update); err != nil {
		return nil, err
	}

	current, err := s.store.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current preferences: %w", err)
	}
	next := current.Clone()

	if update.DefaultReadingOrder != nil {
		if err := next.Set(domain.PrefDefaultReadingOrder, *update.DefaultReadingOrder); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid preference")
		}
	}
	if update.ShowChronologicalPositions != nil {
		next.ShowChronologicalPositions = *update.ShowChronologicalPositions
	}
	for key, value := range update.Extra {
		if err := next.Set(domain.PreferenceKey(key), value); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid preference")
		}
	}

	if err := s.store.SavePreferences(ctx, next); err != nil {
		s.logger.Error("failed to save preferences", "error", err)
		return nil, fmt.Errorf("save preferences: %w", err)
	}

	s.events.Emit(sse.NewPreferencesUpdatedEvent(next))

	s.logger.Info("preferences updated",
		"default_reading_order", string(next.DefaultReadingOrder),
		"show_chronological_positions", next.ShowChronologicalPositions,
		"extra_keys", len(next.Extra),
	)

	return next, nil
}
