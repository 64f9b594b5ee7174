package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/readingorder/internal/domain"
)

const bookPrefix = "book:"

// CreateBook stores a book and appends its ID to the owning series'
// membership list in the same transaction.
// Returns ErrNotFound if the series does not exist and ErrAlreadyExists if the book does.
func (s *Store) CreateBook(_ context.Context, book *domain.Book) error {
	if book.ID == "" || book.SeriesID == "" {
		return ErrInvalidInput.WithMessage("book id and series id are required")
	}
	if book.CreatedAt.IsZero() {
		book.InitTimestamps()
	}

	bookKey := []byte(bookPrefix + book.ID)
	seriesKey := []byte(seriesPrefix + book.SeriesID)

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(bookKey); err == nil {
			return ErrAlreadyExists.WithMessage("book already exists")
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		var series domain.Series
		if err := getTxn(txn, seriesKey, &series); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound.WithMessage("series not found")
			}
			return err
		}

		if !series.HasBook(book.ID) {
			series.BookIDs = append(series.BookIDs, book.ID)
			series.Touch()
			if err := setTxn(txn, seriesKey, &series); err != nil {
				return err
			}
		}

		return setTxn(txn, bookKey, book)
	})
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(_ context.Context, id string) (*domain.Book, error) {
	var book domain.Book
	if err := s.get([]byte(bookPrefix+id), &book); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound.WithMessage("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	if book.IsDeleted() {
		return nil, ErrNotFound.WithMessage("book not found")
	}
	return &book, nil
}

// GetBooksBySeries returns the books of a series in membership order.
// An unknown series yields an empty list. Membership entries without a
// stored book are skipped.
func (s *Store) GetBooksBySeries(ctx context.Context, seriesID string) ([]*domain.Book, error) {
	books := []*domain.Book{}

	err := s.db.View(func(txn *badger.Txn) error {
		var series domain.Series
		if err := getTxn(txn, []byte(seriesPrefix+seriesID), &series); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		for _, bookID := range series.BookIDs {
			if err := ctx.Err(); err != nil {
				return err
			}

			var book domain.Book
			if err := getTxn(txn, []byte(bookPrefix+bookID), &book); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			if book.IsDeleted() {
				continue
			}
			books = append(books, &book)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get books by series: %w", err)
	}

	return books, nil
}
