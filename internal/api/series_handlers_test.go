package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookIDsOf(books []BookResponse) []string {
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

func TestListSeries_Pagination(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	for i := range 3 {
		ts.seedSeries(t, fmt.Sprintf("s%d", i), fmt.Sprintf("Series %d", i))
	}

	resp := ts.api.Get("/api/v1/series?limit=2")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	page := decode[ListSeriesResponse](t, resp).Data
	require.Len(t, page.Series, 2)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextCursor)
	assert.Equal(t, "Series 0", page.Series[0].Name)

	resp = ts.api.Get("/api/v1/series?limit=2&cursor=" + page.NextCursor)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	page = decode[ListSeriesResponse](t, resp).Data
	require.Len(t, page.Series, 1)
	assert.False(t, page.HasMore)
	assert.Equal(t, "Series 2", page.Series[0].Name)
}

func TestListSeries_InvalidCursor(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	resp := ts.api.Get("/api/v1/series?cursor=%25%25%25")
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)
}

func TestGetSeries(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.seedS1(t)

	resp := ts.api.Get("/api/v1/series/S1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	series := decode[SeriesResponse](t, resp).Data
	assert.Equal(t, "S1", series.ID)
	assert.Equal(t, []string{"A", "B", "C"}, series.BookIDs)
	assert.Equal(t, "publication", series.ReadingOrder)
	assert.Empty(t, series.CustomOrder)
}

func TestGetSeries_NotFound(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	resp := ts.api.Get("/api/v1/series/missing")
	require.Equal(t, http.StatusNotFound, resp.Code)

	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "series not found", env.Message)
}

func TestGetSeriesBooks(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.seedS1(t)

	tests := []struct {
		name        string
		query       string
		wantMode    string
		wantPreview bool
		want        []string
	}{
		{name: "saved mode", query: "", wantMode: "publication", want: []string{"B", "A", "C"}},
		{name: "chronological falls back to publication", query: "?mode=chronological", wantMode: "chronological", wantPreview: true, want: []string{"B", "A", "C"}},
		{name: "uninitialized custom order", query: "?mode=custom", wantMode: "custom", wantPreview: true, want: []string{"B", "A", "C"}},
		{name: "unknown mode", query: "?mode=sideways", wantMode: "sideways", wantPreview: true, want: []string{"B", "A", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/series/S1/books" + tt.query)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			data := decode[SeriesBooksResponse](t, resp).Data
			assert.Equal(t, "S1", data.SeriesID)
			assert.Equal(t, tt.wantMode, data.Mode)
			assert.Equal(t, tt.wantPreview, data.Preview)
			assert.Equal(t, tt.want, bookIDsOf(data.Books))
			for i, b := range data.Books {
				assert.Equal(t, i, b.Index)
			}
		})
	}

	t.Run("preview does not persist", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/series/S1")
		assert.Equal(t, "publication", decode[SeriesResponse](t, resp).Data.ReadingOrder)
	})
}

func TestGetSeriesBooks_NotFound(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	resp := ts.api.Get("/api/v1/series/missing/books")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestChangeReadingOrder(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.seedS1(t)

	resp := ts.api.Put("/api/v1/series/S1/reading-order", map[string]any{"mode": "custom"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	series := decode[SeriesResponse](t, resp).Data
	assert.Equal(t, "custom", series.ReadingOrder)
	assert.Equal(t, []string{"A", "B", "C"}, series.CustomOrder, "first switch seeds from membership")

	resp = ts.api.Put("/api/v1/series/S1/reading-order", map[string]any{"mode": "chronological"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	series = decode[SeriesResponse](t, resp).Data
	assert.Equal(t, "chronological", series.ReadingOrder)
	assert.Equal(t, []string{"A", "B", "C"}, series.CustomOrder, "custom order survives mode switches")
}

func TestChangeReadingOrder_Invalid(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.seedS1(t)

	resp := ts.api.Put("/api/v1/series/S1/reading-order", map[string]any{"mode": "alphabetical"})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	env := decode[any](t, resp)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.NotNil(t, env.Details)

	resp = ts.api.Put("/api/v1/series/missing/reading-order", map[string]any{"mode": "custom"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSetCustomOrder(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.seedS1(t)

	resp := ts.api.Put("/api/v1/series/S1/custom-order", map[string]any{"book_ids": []string{"C", "A"}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	series := decode[SeriesResponse](t, resp).Data
	assert.Equal(t, "custom", series.ReadingOrder)
	assert.Equal(t, []string{"C", "A"}, series.CustomOrder)

	// B is missing from the custom order and is appended.
	resp = ts.api.Get("/api/v1/series/S1/books")
	assert.Equal(t, []string{"C", "A", "B"}, bookIDsOf(decode[SeriesBooksResponse](t, resp).Data.Books))
}

func TestSetCustomOrder_Invalid(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.seedS1(t)

	resp := ts.api.Put("/api/v1/series/S1/custom-order", map[string]any{"book_ids": []string{"A", "A"}})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	resp = ts.api.Put("/api/v1/series/missing/custom-order", map[string]any{"book_ids": []string{"A"}})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMoveBook(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.seedS1(t)

	// Publication order is B, A, C. Moving A to the front persists the membership list with A first.
	resp := ts.api.Post("/api/v1/series/S1/custom-order/move", map[string]any{"book_id": "A", "index": 0})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	series := decode[SeriesResponse](t, resp).Data
	assert.Equal(t, "custom", series.ReadingOrder)
	assert.Equal(t, []string{"A", "B", "C"}, series.CustomOrder)

	resp = ts.api.Get("/api/v1/series/S1/books")
	assert.Equal(t, []string{"A", "B", "C"}, bookIDsOf(decode[SeriesBooksResponse](t, resp).Data.Books))

	// Out-of-range index is clamped to the end.
	resp = ts.api.Post("/api/v1/series/S1/custom-order/move", map[string]any{"book_id": "A", "index": 99})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, []string{"B", "C", "A"}, decode[SeriesResponse](t, resp).Data.CustomOrder)

	resp = ts.api.Post("/api/v1/series/S1/custom-order/move", map[string]any{"book_id": "C", "index": -5})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, []string{"C", "B", "A"}, decode[SeriesResponse](t, resp).Data.CustomOrder)
}

func TestMoveBook_Invalid(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.seedS1(t)

	resp := ts.api.Post("/api/v1/series/S1/custom-order/move", map[string]any{"book_id": "", "index": 0})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/series/missing/custom-order/move", map[string]any{"book_id": "A", "index": 0})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMutationsEmitEvents(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.seedS1(t)

	client := ts.sseManager.Connect("S1")
	defer ts.sseManager.Disconnect(client.ID)

	ctx := t.Context()
	go ts.sseManager.Start(ctx)

	resp := ts.api.Put("/api/v1/series/S1/reading-order", map[string]any{"mode": "custom"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	select {
	case event := <-client.EventChan:
		assert.Equal(t, "series.reading_order_updated", string(event.Type))
		assert.Equal(t, "S1", event.SeriesID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reading order event")
	}
}
