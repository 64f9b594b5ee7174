package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Writer: &buf})

	logger.Info("series reading order updated", "series_id", "S1")

	assert.Contains(t, buf.String(), `"msg":"series reading order updated"`)
	assert.Contains(t, buf.String(), `"series_id":"S1"`)
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		environment string
		wantJSON    bool
	}{
		{environment: "production", wantJSON: true},
		{environment: "development", wantJSON: false},
		{environment: "test", wantJSON: false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			New(Config{Environment: tt.environment, Writer: &buf}).Info("hello")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"hello"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
				assert.Contains(t, buf.String(), "hello")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WRN")
	assert.Contains(t, buf.String(), "shown")
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, nil)).
		With("series_id", "S1").
		WithGroup("order")

	logger.Info("moved", "book_id", "A", slog.Group("stats", slog.Int("index", 0)))

	out := buf.String()
	assert.Contains(t, out, "series_id=S1")
	assert.Contains(t, out, "order.book_id=A")
	assert.Contains(t, out, "order.stats.index=0")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_FormatsValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, nil))

	logger.Info("values",
		"took", 1500*time.Millisecond,
		"name", "The Eye of the World",
		"count", 3,
	)

	out := buf.String()
	assert.Contains(t, out, "took=1.5s")
	assert.Contains(t, out, `name="The Eye of the World"`)
	assert.Contains(t, out, "count=3")
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: FormatJSON, Writer: &buf})

	logger.WithError(errors.New("boom")).WithField("attempt", 2).Error("failed")
	logger.Component("store").Info("opened")

	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"attempt":2`)
	assert.Contains(t, out, `"component":"store"`)
}
