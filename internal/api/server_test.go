package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/readingorder/internal/config"
	"github.com/listenupapp/readingorder/internal/domain"
	"github.com/listenupapp/readingorder/internal/service"
	"github.com/listenupapp/readingorder/internal/sse"
	"github.com/listenupapp/readingorder/internal/store/sqlite"
)

// testEnvelope decodes any response envelope.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api        humatest.TestAPI
	db         *sqlite.Store
	sseManager *sse.Manager
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
	}
}

// setupTestServer creates a server backed by a temporary SQLite database.
func setupTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sseManager := sse.NewManager(logger)

	services := &Services{
		ReadingOrder: service.NewReadingOrderService(db, db, sseManager, logger),
		Settings:     service.NewSettingsService(db, sseManager, logger),
	}

	s := NewServer(db, services, sseManager, cfg, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server:     s,
		api:        humatest.Wrap(t, s.API()),
		db:         db,
		sseManager: sseManager,
	}
}

// seedS1 creates series S1 with books A (2020), B (2019) and C (2021), added in that order.
func (ts *testServer) seedS1(t *testing.T) {
	t.Helper()
	ts.seedSeries(t, "S1", "S1")
	for _, b := range []struct {
		id   string
		year int
	}{{"A", 2020}, {"B", 2019}, {"C", 2021}} {
		published := time.Date(b.year, time.January, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, ts.db.CreateBook(context.Background(), &domain.Book{
			Syncable:    domain.Syncable{ID: b.id},
			SeriesID:    "S1",
			Title:       b.id,
			PublishedAt: &published,
		}))
	}
}

func (ts *testServer) seedSeries(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, ts.db.CreateSeries(context.Background(), &domain.Series{
		Syncable: domain.Syncable{ID: id},
		Name:     name,
	}))
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	return env
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	resp := ts.api.Get("/health")
	require.Equal(t, 200, resp.Code, resp.Body.String())

	env := decode[HealthResponse](t, resp)
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["database"].Status)
	assert.Equal(t, "no connected clients", env.Data.Components["sse"].Message)
}

func TestHealthCheck_DatabaseClosed(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	require.NoError(t, ts.db.Close())

	resp := ts.api.Get("/health")
	require.Equal(t, 200, resp.Code)

	env := decode[HealthResponse](t, resp)
	assert.Equal(t, "unhealthy", env.Data.Status)
	assert.Equal(t, "database ping failed", env.Data.Components["database"].Message)
}

func TestFormatSSEStatus(t *testing.T) {
	assert.Equal(t, "no connected clients", formatSSEStatus(0))
	assert.Equal(t, "1 connected client", formatSSEStatus(1))
	assert.Equal(t, "12 connected clients", formatSSEStatus(12))
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	resp := ts.api.Get("/api/v1/nothing-here")
	assert.Equal(t, 404, resp.Code)
}
