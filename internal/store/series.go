package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/readingorder/internal/domain"
)

const seriesPrefix = "series:"

// CreateSeries creates a new, empty series. Members are added with CreateBook.
// Returns ErrAlreadyExists if a series with the same ID is stored and
// ErrInvalidInput if BookIDs is not empty.
func (s *Store) CreateSeries(ctx context.Context, series *domain.Series) error {
	if series.ID == "" {
		return ErrInvalidInput.WithMessage("series id is required")
	}
	if len(series.BookIDs) > 0 {
		return ErrInvalidInput.WithMessage("series membership is set by creating books")
	}
	key := []byte(seriesPrefix + series.ID)

	if series.CreatedAt.IsZero() {
		series.InitTimestamps()
	}
	if series.ReadingOrder == "" {
		series.ReadingOrder = domain.ReadingOrderPublication
	}
	series.BookIDs = []string{}

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists.WithMessage("series already exists")
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return setTxn(txn, key, series)
	})
	if err != nil {
		return fmt.Errorf("create series: %w", err)
	}
	return nil
}

// GetSeries retrieves a series by ID.
// Returns ErrNotFound if the series does not exist or is soft-deleted.
func (s *Store) GetSeries(_ context.Context, id string) (*domain.Series, error) {
	var series domain.Series
	if err := s.get([]byte(seriesPrefix+id), &series); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound.WithMessage("series not found")
		}
		return nil, fmt.Errorf("get series: %w", err)
	}

	if series.IsDeleted() {
		return nil, ErrNotFound.WithMessage("series not found")
	}

	return &series, nil
}

// UpdateSeriesReadingOrder sets the reading-order mode and custom order of a
// series in one transaction. The stored series is returned.
func (s *Store) UpdateSeriesReadingOrder(_ context.Context, id string, mode domain.ReadingOrderMode, customOrder []string) (*domain.Series, error) {
	key := []byte(seriesPrefix + id)

	var updated domain.Series
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getTxn(txn, key, &updated); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound.WithMessage("series not found")
			}
			return err
		}
		if updated.IsDeleted() {
			return ErrNotFound.WithMessage("series not found")
		}

		updated.ReadingOrder = mode
		updated.CustomOrder = slices.Clone(customOrder)
		updated.Touch()

		return setTxn(txn, key, &updated)
	})
	if err != nil {
		return nil, fmt.Errorf("update series reading order: %w", err)
	}

	return &updated, nil
}

// ListSeries returns paginated series in key order.
func (s *Store) ListSeries(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Series], error) {
	params.Validate()

	startKey, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	prefix := []byte(seriesPrefix)
	seriesList := make([]*domain.Series, 0, params.Limit)
	var hasMore bool

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = params.Limit + 1

		it := txn.NewIterator(opts)
		defer it.Close()

		// Start from cursor or beginning
		if startKey != "" {
			it.Seek([]byte(startKey))
			// Skip the cursor key itself
			if it.Valid() && string(it.Item().Key()) == startKey {
				it.Next()
			}
		} else {
			it.Seek(prefix)
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var series domain.Series
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &series)
			}); err != nil {
				return err
			}

			if series.IsDeleted() {
				continue
			}

			if len(seriesList) == params.Limit {
				hasMore = true
				break
			}
			seriesList = append(seriesList, &series)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}

	result := &PaginatedResult[*domain.Series]{
		Items:   seriesList,
		HasMore: hasMore,
	}
	if hasMore && len(seriesList) > 0 {
		result.NextCursor = EncodeCursor(seriesPrefix + seriesList[len(seriesList)-1].ID)
	}

	return result, nil
}
