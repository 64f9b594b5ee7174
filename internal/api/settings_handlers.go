package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/readingorder/internal/domain"
	"github.com/listenupapp/readingorder/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Get settings",
		Description: "Returns the reading-order preferences",
		Tags:        []string{"Settings"},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/settings",
		Summary:     "Update settings",
		Description: "Updates reading-order preferences. Omitted fields are left unchanged.",
		Tags:        []string{"Settings"},
	}, s.handleUpdateSettings)
}

// === DTOs ===

// SettingsResponse is the API response for preferences.
type SettingsResponse struct {
	DefaultReadingOrder        string            `json:"default_reading_order" doc:"Mode given to newly created series"`
	ShowChronologicalPositions bool              `json:"show_chronological_positions" doc:"Whether clients display timeline positions"`
	Extra                      map[string]string `json:"extra,omitempty" doc:"Client-defined preferences"`
	UpdatedAt                  time.Time         `json:"updated_at" doc:"Last update time"`
}

// SettingsOutput wraps the settings response for Huma.
type SettingsOutput struct {
	Body SettingsResponse
}

// UpdateSettingsRequest is the request body for updating preferences.
type UpdateSettingsRequest struct {
	DefaultReadingOrder        *string           `json:"default_reading_order,omitempty" doc:"publication, chronological, or custom"`
	ShowChronologicalPositions *bool             `json:"show_chronological_positions,omitempty" doc:"Display timeline positions"`
	Extra                      map[string]string `json:"extra,omitempty" doc:"Client-defined preferences to set"`
}

// UpdateSettingsInput wraps the update request for Huma.
type UpdateSettingsInput struct {
	Body UpdateSettingsRequest
}

// === Handlers ===

func (s *Server) handleGetSettings(ctx context.Context, _ *struct{}) (*SettingsOutput, error) {
	prefs, err := s.services.Settings.GetPreferences(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get settings", err)
	}
	return &SettingsOutput{Body: toSettingsResponse(prefs)}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	prefs, err := s.services.Settings.UpdatePreferences(ctx, &service.SettingsUpdate{
		DefaultReadingOrder:        input.Body.DefaultReadingOrder,
		ShowChronologicalPositions: input.Body.ShowChronologicalPositions,
		Extra:                      input.Body.Extra,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to update settings", err)
	}
	return &SettingsOutput{Body: toSettingsResponse(prefs)}, nil
}

func toSettingsResponse(prefs *domain.Preferences) SettingsResponse {
	return SettingsResponse{
		DefaultReadingOrder:        prefs.DefaultReadingOrder.String(),
		ShowChronologicalPositions: prefs.ShowChronologicalPositions,
		Extra:                      prefs.Extra,
		UpdatedAt:                  prefs.UpdatedAt,
	}
}
