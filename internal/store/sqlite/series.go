package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/listenupapp/readingorder/internal/domain"
	"github.com/listenupapp/readingorder/internal/store"
)

// seriesColumns is the ordered list of columns selected in series queries.
// Must match the scan order in scanSeries.
const seriesColumns = `id, created_at, updated_at, deleted_at, name, description, reading_order, custom_order`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanSeries scans a sql.Row (or sql.Rows via its Scan method) into a domain.Series.
// Membership is loaded separately by loadBookIDs.
func scanSeries(scanner interface{ Scan(dest ...any) error }) (*domain.Series, error) {
	var s domain.Series

	var (
		createdAt    string
		updatedAt    string
		deletedAt    sql.NullString
		description  sql.NullString
		readingOrder string
		customOrder  sql.NullString
	)

	err := scanner.Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&s.Name,
		&description,
		&readingOrder,
		&customOrder,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	s.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	s.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		s.Description = description.String
	}

	// Stored verbatim, including modes this build does not know.
	s.ReadingOrder = domain.ReadingOrderMode(readingOrder)

	if customOrder.Valid && customOrder.String != "" {
		if err := json.Unmarshal([]byte(customOrder.String), &s.CustomOrder); err != nil {
			return nil, fmt.Errorf("unmarshal custom_order: %w", err)
		}
	}

	return &s, nil
}

// seriesCursor is the position of the last series on a page.
// Names are free text, so both fields are JSON encoded rather than joined.
type seriesCursor struct {
	Name string `json:"n"`
	ID   string `json:"i"`
}

// encodeCustomOrder stores an empty custom order as NULL.
func encodeCustomOrder(order []string) (sql.NullString, error) {
	if len(order) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(order)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal custom_order: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// loadBookIDs returns a series' membership in insertion order.
func loadBookIDs(ctx context.Context, q querier, seriesID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT book_id FROM series_books WHERE series_id = ? ORDER BY position ASC`, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// getSeries loads a non-deleted series with its membership.
func getSeries(ctx context.Context, q querier, id string) (*domain.Series, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+seriesColumns+` FROM series WHERE id = ? AND deleted_at IS NULL`, id)

	series, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("series not found")
	}
	if err != nil {
		return nil, err
	}

	series.BookIDs, err = loadBookIDs(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("load series books: %w", err)
	}
	return series, nil
}

// CreateSeries inserts a new, empty series. Members are added with CreateBook.
// Returns store.ErrAlreadyExists on duplicate ID and store.ErrInvalidInput
// if BookIDs is not empty.
func (s *Store) CreateSeries(ctx context.Context, series *domain.Series) error {
	if series.ID == "" {
		return store.ErrInvalidInput.WithMessage("series id is required")
	}
	if len(series.BookIDs) > 0 {
		return store.ErrInvalidInput.WithMessage("series membership is set by creating books")
	}
	if series.CreatedAt.IsZero() {
		series.InitTimestamps()
	}
	if series.ReadingOrder == "" {
		series.ReadingOrder = domain.ReadingOrderPublication
	}

	customOrder, err := encodeCustomOrder(series.CustomOrder)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO series (
			id, created_at, updated_at, deleted_at, name, description, reading_order, custom_order
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		series.ID,
		formatTime(series.CreatedAt),
		formatTime(series.UpdatedAt),
		nullTimeString(series.DeletedAt),
		series.Name,
		nullString(series.Description),
		string(series.ReadingOrder),
		customOrder,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("series already exists")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	series.BookIDs = []string{}
	return nil
}

// GetSeries retrieves a series by ID, excluding soft-deleted records.
// Returns store.ErrNotFound if the series does not exist.
func (s *Store) GetSeries(ctx context.Context, id string) (*domain.Series, error) {
	return getSeries(ctx, s.db, id)
}

// UpdateSeriesReadingOrder sets mode and custom order in a single transaction
// and returns the stored series.
// Returns store.ErrNotFound if the series does not exist or is soft-deleted.
func (s *Store) UpdateSeriesReadingOrder(ctx context.Context, id string, mode domain.ReadingOrderMode, customOrder []string) (*domain.Series, error) {
	encoded, err := encodeCustomOrder(customOrder)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE series SET
			reading_order = ?,
			custom_order = ?,
			updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		string(mode),
		encoded,
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound.WithMessage("series not found")
	}

	updated, err := getSeries(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

// ListSeries returns paginated series ordered by name (case-insensitive) then id.
// Soft-deleted series are excluded.
func (s *Store) ListSeries(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Series], error) {
	params.Validate()

	var cursor seriesCursor
	if params.Cursor != "" {
		decoded, err := store.DecodeCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(decoded), &cursor); err != nil || cursor.ID == "" {
			return nil, store.ErrInvalidInput.WithMessage("invalid cursor format")
		}
	}
	cursorName, cursorID := cursor.Name, cursor.ID

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM series WHERE deleted_at IS NULL`).Scan(&total)
	if err != nil {
		return nil, err
	}

	// Fetch one extra to determine HasMore.
	fetchLimit := params.Limit + 1

	var rows *sql.Rows
	if params.Cursor != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+seriesColumns+` FROM series
			WHERE deleted_at IS NULL
				AND (name COLLATE NOCASE > ? OR (name COLLATE NOCASE = ? AND id > ?))
			ORDER BY name COLLATE NOCASE ASC, id ASC
			LIMIT ?`,
			cursorName, cursorName, cursorID, fetchLimit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+seriesColumns+` FROM series
			WHERE deleted_at IS NULL
			ORDER BY name COLLATE NOCASE ASC, id ASC
			LIMIT ?`,
			fetchLimit)
	}
	if err != nil {
		return nil, err
	}

	items := []*domain.Series{}
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, series)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	result := &store.PaginatedResult[*domain.Series]{
		Items: items,
		Total: total,
	}

	// If we got more than limit, there are more pages.
	if len(items) > params.Limit {
		result.HasMore = true
		result.Items = items[:params.Limit]
		last := result.Items[params.Limit-1]
		next, err := json.Marshal(seriesCursor{Name: last.Name, ID: last.ID})
		if err != nil {
			return nil, fmt.Errorf("encode cursor: %w", err)
		}
		result.NextCursor = store.EncodeCursor(string(next))
	}

	for _, series := range result.Items {
		series.BookIDs, err = loadBookIDs(ctx, s.db, series.ID)
		if err != nil {
			return nil, fmt.Errorf("load series books: %w", err)
		}
	}

	return result, nil
}
