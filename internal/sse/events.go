// Package sse implements Server-Sent Events for real-time reading-order updates.
package sse

import (
	"time"

	"github.com/listenupapp/readingorder/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventSeriesReadingOrderUpdated is sent after a series' mode or custom order changes.
	EventSeriesReadingOrderUpdated EventType = "series.reading_order_updated"

	// EventPreferencesUpdated is sent after the preferences are saved.
	EventPreferencesUpdated EventType = "preferences.updated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// When set, only clients subscribed to this series (or to everything) receive the event.
	SeriesID string `json:"-"`
}

// ReadingOrderEventData is the data payload for reading-order events.
type ReadingOrderEventData struct {
	Series *domain.Series `json:"series"`
}

// PreferencesEventData is the data payload for preferences events.
type PreferencesEventData struct {
	Preferences *domain.Preferences `json:"preferences"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewReadingOrderUpdatedEvent creates a series.reading_order_updated event.
func NewReadingOrderUpdatedEvent(series *domain.Series) Event {
	return Event{
		Type:      EventSeriesReadingOrderUpdated,
		Data:      ReadingOrderEventData{Series: series},
		Timestamp: time.Now(),
		SeriesID:  series.ID,
	}
}

// NewPreferencesUpdatedEvent creates a preferences.updated event.
func NewPreferencesUpdatedEvent(prefs *domain.Preferences) Event {
	return Event{
		Type:      EventPreferencesUpdated,
		Data:      PreferencesEventData{Preferences: prefs},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
