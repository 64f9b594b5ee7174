package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/listenupapp/readingorder/internal/domain"
	"github.com/listenupapp/readingorder/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `b.id, b.created_at, b.updated_at, b.deleted_at, b.series_id, b.title,
	b.published_at, b.chronological_position`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt   string
		updatedAt   string
		deletedAt   sql.NullString
		publishedAt sql.NullString
		position    sql.NullFloat64
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&b.SeriesID,
		&b.Title,
		&publishedAt,
		&position,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	b.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}
	b.PublishedAt, err = parseNullableTime(publishedAt)
	if err != nil {
		return nil, err
	}
	if position.Valid {
		p := position.Float64
		b.ChronologicalPosition = &p
	}

	return &b, nil
}

// CreateBook inserts a book and appends it to its series' membership in one transaction.
// Returns store.ErrNotFound if the series does not exist and
// store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if book.ID == "" || book.SeriesID == "" {
		return store.ErrInvalidInput.WithMessage("book id and series id are required")
	}
	if book.CreatedAt.IsZero() {
		book.InitTimestamps()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM series WHERE id = ? AND deleted_at IS NULL`, book.SeriesID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound.WithMessage("series not found")
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, deleted_at, series_id, title,
			published_at, chronological_position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		nullTimeString(book.DeletedAt),
		book.SeriesID,
		book.Title,
		nullTimeString(book.PublishedAt),
		nullFloat64(book.ChronologicalPosition),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("book already exists")
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO series_books (series_id, book_id, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM series_books WHERE series_id = ?))`,
		book.SeriesID, book.ID, book.SeriesID)
	if err != nil {
		return fmt.Errorf("append series membership: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE series SET updated_at = ? WHERE id = ?`,
		formatTime(time.Now()), book.SeriesID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetBook retrieves a book by ID, excluding soft-deleted records.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.id = ? AND b.deleted_at IS NULL`, id)

	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("book not found")
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBooksBySeries returns the books of a series in membership order.
// An unknown series yields an empty list.
func (s *Store) GetBooksBySeries(ctx context.Context, seriesID string) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM series_books sb
		JOIN books b ON b.id = sb.book_id
		WHERE sb.series_id = ? AND b.deleted_at IS NULL
		ORDER BY sb.position ASC`, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
