// Package domain contains the core entities for series reading order management.
package domain

import (
	"math"
	"time"
)

// Book is a member of a series as seen by the reading order engine.
// Only the fields used for ordering are modeled here.
type Book struct {
	Syncable
	SeriesID string `json:"series_id"`
	Title    string `json:"title"`

	// PublishedAt is the real-world publication date, if known.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// ChronologicalPosition is the in-story timeline position, if known.
	// It is independent of PublishedAt: a prequel has a lower position but a later date.
	ChronologicalPosition *float64 `json:"chronological_position,omitempty"`
}

// HasPublicationDate reports whether the book carries a usable publication date.
func (b *Book) HasPublicationDate() bool {
	return b.PublishedAt != nil && !b.PublishedAt.IsZero()
}

// HasChronologicalPosition reports whether the book carries a usable timeline position.
// NaN is treated as absent.
func (b *Book) HasChronologicalPosition() bool {
	return b.ChronologicalPosition != nil && !math.IsNaN(*b.ChronologicalPosition)
}
