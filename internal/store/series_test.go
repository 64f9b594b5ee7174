package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/readingorder/internal/domain"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "readingorder-test-*")
	require.NoError(t, err)

	s, err := New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func createTestSeries(t *testing.T, s *Store, seriesID string) *domain.Series {
	t.Helper()

	series := &domain.Series{
		Syncable:     domain.Syncable{ID: seriesID},
		Name:         "The Wheel of Time",
		ReadingOrder: domain.ReadingOrderPublication,
	}
	require.NoError(t, s.CreateSeries(context.Background(), series))
	return series
}

func TestCreateSeries(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	createTestSeries(t, s, "series-1")

	got, err := s.GetSeries(ctx, "series-1")
	require.NoError(t, err)
	assert.Equal(t, "The Wheel of Time", got.Name)
	assert.Equal(t, domain.ReadingOrderPublication, got.ReadingOrder)
	assert.Empty(t, got.BookIDs)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateSeries_AlreadyExists(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	createTestSeries(t, s, "series-1")

	err := s.CreateSeries(context.Background(), &domain.Series{Syncable: domain.Syncable{ID: "series-1"}})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateSeries_MissingID(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.CreateSeries(context.Background(), &domain.Series{Name: "No ID"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetSeries_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetSeries(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSeriesReadingOrder(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	original := createTestSeries(t, s, "series-1")
	time.Sleep(time.Millisecond)

	updated, err := s.UpdateSeriesReadingOrder(ctx, "series-1", domain.ReadingOrderCustom, []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingOrderCustom, updated.ReadingOrder)
	assert.Equal(t, []string{"b", "a"}, updated.CustomOrder)
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))

	got, err := s.GetSeries(ctx, "series-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingOrderCustom, got.ReadingOrder)
	assert.Equal(t, []string{"b", "a"}, got.CustomOrder)
	assert.Equal(t, original.Name, got.Name)
}

func TestUpdateSeriesReadingOrder_ClearsCustomOrder(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	createTestSeries(t, s, "series-1")

	_, err := s.UpdateSeriesReadingOrder(ctx, "series-1", domain.ReadingOrderCustom, []string{"a"})
	require.NoError(t, err)

	got, err := s.UpdateSeriesReadingOrder(ctx, "series-1", domain.ReadingOrderPublication, nil)
	require.NoError(t, err)
	assert.Empty(t, got.CustomOrder)
}

func TestUpdateSeriesReadingOrder_UnknownModeRoundTrips(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	createTestSeries(t, s, "series-1")

	_, err := s.UpdateSeriesReadingOrder(ctx, "series-1", "by-mood", nil)
	require.NoError(t, err)

	got, err := s.GetSeries(ctx, "series-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingOrderMode("by-mood"), got.ReadingOrder)
}

func TestUpdateSeriesReadingOrder_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.UpdateSeriesReadingOrder(context.Background(), "missing", domain.ReadingOrderCustom, []string{"a"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetSeries(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSeries_Pagination(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for _, id := range []string{"s-a", "s-b", "s-c", "s-d", "s-e"} {
		createTestSeries(t, s, id)
	}

	var seen []string
	params := PaginationParams{Limit: 2}
	for page := 0; ; page++ {
		require.Less(t, page, 5, "pagination did not terminate")

		result, err := s.ListSeries(ctx, params)
		require.NoError(t, err)
		for _, series := range result.Items {
			seen = append(seen, series.ID)
		}
		if !result.HasMore {
			assert.Empty(t, result.NextCursor)
			break
		}
		require.NotEmpty(t, result.NextCursor)
		params.Cursor = result.NextCursor
	}

	assert.Equal(t, []string{"s-a", "s-b", "s-c", "s-d", "s-e"}, seen)
}

func TestListSeries_Empty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	result, err := s.ListSeries(context.Background(), DefaultPaginationParams())
	require.NoError(t, err)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
	assert.False(t, result.HasMore)
}

func TestPing(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NoError(t, s.Ping())
}
