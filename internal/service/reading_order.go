// Package service implements the reading-order operations on top of the
// storage backends.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/listenupapp/readingorder/internal/domain"
	"github.com/listenupapp/readingorder/internal/readingorder"
	"github.com/listenupapp/readingorder/internal/sse"
	"github.com/listenupapp/readingorder/internal/store"
)

// SeriesStore reads series and persists their reading-order state.
// GetSeries returns store.ErrNotFound for unknown IDs. UpdateSeriesReadingOrder
// must write mode and custom order atomically.
type SeriesStore interface {
	GetSeries(ctx context.Context, id string) (*domain.Series, error)
	UpdateSeriesReadingOrder(ctx context.Context, id string, mode domain.ReadingOrderMode, customOrder []string) (*domain.Series, error)
}

// BookSource returns the books belonging to a series.
type BookSource interface {
	GetBooksBySeries(ctx context.Context, seriesID string) ([]*domain.Book, error)
}

// ReadingOrderService changes and resolves the reading order of series.
//
// Every mutation re-reads the series before writing. Without
// WithSerializedWrites two concurrent mutations of the same series are
// last-writer-wins on the whole custom order.
type ReadingOrderService struct {
	series SeriesStore
	books  BookSource
	events store.EventEmitter
	logger *slog.Logger
	locks  *keyedLock
}

// ReadingOrderOption configures a ReadingOrderService.
type ReadingOrderOption func(*ReadingOrderService)

// WithSerializedWrites serializes mutations of the same series within this process.
func WithSerializedWrites() ReadingOrderOption {
	return func(s *ReadingOrderService) {
		s.locks = newKeyedLock()
	}
}

// NewReadingOrderService creates a new reading-order service.
func NewReadingOrderService(series SeriesStore, books BookSource, events store.EventEmitter, logger *slog.Logger, opts ...ReadingOrderOption) *ReadingOrderService {
	if events == nil {
		events = store.NewNoopEmitter()
	}
	s := &ReadingOrderService{
		series: series,
		books:  books,
		events: events,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCustomOrder replaces the custom order of a series and switches it to custom mode.
// Returns (nil, nil) if the series does not exist.
func (s *ReadingOrderService) SetCustomOrder(ctx context.Context, seriesID string, bookIDs []string) (*domain.Series, error) {
	order := slices.Clone(bookIDs)
	return s.mutate(ctx, seriesID, "set custom order", func(*domain.Series) (domain.ReadingOrderMode, []string) {
		return domain.ReadingOrderCustom, order
	}, slog.Int("book_count", len(order)))
}

// ChangeMode switches the reading-order mode of a series.
// The first switch to custom seeds the custom order from the series'
// membership list. Otherwise the custom order is kept as is, so switching
// away from custom and back restores it.
// Returns (nil, nil) if the series does not exist.
func (s *ReadingOrderService) ChangeMode(ctx context.Context, seriesID string, mode domain.ReadingOrderMode) (*domain.Series, error) {
	return s.mutate(ctx, seriesID, "change reading order", func(series *domain.Series) (domain.ReadingOrderMode, []string) {
		if mode == domain.ReadingOrderCustom && !series.HasCustomOrder() {
			return mode, slices.Clone(series.BookIDs)
		}
		return mode, slices.Clone(series.CustomOrder)
	}, slog.String("mode", string(mode)))
}

// ReorderBook moves bookID to newIndex within the series' working order and
// switches the series to custom mode. The working order is the custom order
// if set, else the membership list. Only the first occurrence of bookID is
// moved. newIndex is clamped into [0, len] of the list without the book.
// Returns (nil, nil) if the series does not exist.
func (s *ReadingOrderService) ReorderBook(ctx context.Context, seriesID, bookID string, newIndex int) (*domain.Series, error) {
	return s.mutate(ctx, seriesID, "reorder book", func(series *domain.Series) (domain.ReadingOrderMode, []string) {
		return domain.ReadingOrderCustom, MoveBook(series.WorkingOrder(), bookID, newIndex)
	}, slog.String("book_id", bookID), slog.Int("index", newIndex))
}

// OrderedBooks resolves books in the series' current reading order.
func (s *ReadingOrderService) OrderedBooks(series *domain.Series, books []*domain.Book) []*domain.Book {
	return readingorder.Resolve(series, books)
}

// SeriesBooks loads a series and its books concurrently and returns the books
// in the series' reading order. Returns (nil, nil, nil) if the series does not exist.
func (s *ReadingOrderService) SeriesBooks(ctx context.Context, seriesID string) (*domain.Series, []*domain.Book, error) {
	series, books, err := s.load(ctx, seriesID)
	if series == nil || err != nil {
		return nil, nil, err
	}
	return series, s.OrderedBooks(series, books), nil
}

// PreviewOrder resolves the books of a series as if it used mode.
// Nothing is persisted. Returns (nil, nil, nil) if the series does not exist.
func (s *ReadingOrderService) PreviewOrder(ctx context.Context, seriesID string, mode domain.ReadingOrderMode) (*domain.Series, []*domain.Book, error) {
	series, books, err := s.load(ctx, seriesID)
	if series == nil || err != nil {
		return nil, nil, err
	}

	preview := *series
	preview.ReadingOrder = mode
	return series, s.OrderedBooks(&preview, books), nil
}

// load fetches a series and its books in membership order.
func (s *ReadingOrderService) load(ctx context.Context, seriesID string) (*domain.Series, []*domain.Book, error) {
	var (
		series *domain.Series
		books  []*domain.Book
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		series, err = s.series.GetSeries(gctx, seriesID)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = s.books.GetBooksBySeries(gctx, seriesID)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Debug("series not found", "series_id", seriesID)
			return nil, nil, nil
		}
		s.logger.Error("failed to load series books", "series_id", seriesID, "error", err)
		return nil, nil, fmt.Errorf("load series %s: %w", seriesID, err)
	}

	return series, books, nil
}

// MoveBook returns a copy of order with the first occurrence of bookID removed
// and bookID inserted at index, clamped into the valid range.
// A bookID not present in order is inserted.
func MoveBook(order []string, bookID string, index int) []string {
	moved := slices.Clone(order)
	if i := slices.Index(moved, bookID); i >= 0 {
		moved = slices.Delete(moved, i, i+1)
	}
	index = max(0, min(index, len(moved)))
	return slices.Insert(moved, index, bookID)
}

// mutate runs the read-modify-write cycle shared by every mutation.
func (s *ReadingOrderService) mutate(
	ctx context.Context,
	seriesID string,
	action string,
	next func(*domain.Series) (domain.ReadingOrderMode, []string),
	attrs ...any,
) (*domain.Series, error) {
	logger := s.logger.With("series_id", seriesID, "action", action)

	if s.locks != nil {
		unlock, err := s.locks.Lock(ctx, seriesID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		defer unlock()
	}

	current, err := s.series.GetSeries(ctx, seriesID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Debug("series not found")
			return nil, nil
		}
		logger.Error("failed to load series", "error", err)
		return nil, fmt.Errorf("%s: get series %s: %w", action, seriesID, err)
	}

	mode, customOrder := next(current)

	updated, err := s.series.UpdateSeriesReadingOrder(ctx, seriesID, mode, customOrder)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Deleted between read and write.
			logger.Debug("series not found")
			return nil, nil
		}
		logger.Error("failed to update series reading order", "error", err)
		return nil, fmt.Errorf("%s: update series %s: %w", action, seriesID, err)
	}

	s.events.Emit(sse.NewReadingOrderUpdatedEvent(updated))

	logger.Info("series reading order updated",
		append([]any{"reading_order", string(updated.ReadingOrder)}, attrs...)...)

	return updated, nil
}
