// Package store defines persistence for series, books and preferences,
// with a Badger implementation in this package and a SQLite one in store/sqlite.
package store

import (
	"context"

	"github.com/listenupapp/readingorder/internal/domain"
)

// Backend is implemented by every storage backend.
type Backend interface {
	// Lifecycle
	Close() error
	Ping() error

	// Series
	CreateSeries(ctx context.Context, series *domain.Series) error
	GetSeries(ctx context.Context, id string) (*domain.Series, error)
	ListSeries(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Series], error)
	UpdateSeriesReadingOrder(ctx context.Context, id string, mode domain.ReadingOrderMode, customOrder []string) (*domain.Series, error)

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBooksBySeries(ctx context.Context, seriesID string) ([]*domain.Book, error)

	// Preferences
	GetPreferences(ctx context.Context) (*domain.Preferences, error)
	SavePreferences(ctx context.Context, prefs *domain.Preferences) error
}

var _ Backend = (*Store)(nil)
