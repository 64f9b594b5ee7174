package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaginationParams(t *testing.T) {
	params := DefaultPaginationParams()
	assert.Equal(t, DefaultPageLimit, params.Limit)
	assert.Empty(t, params.Cursor)
}

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name          string
		input         PaginationParams
		expectedLimit int
	}{
		{name: "valid parameters", input: PaginationParams{Limit: 50}, expectedLimit: 50},
		{name: "zero limit defaults", input: PaginationParams{Limit: 0}, expectedLimit: DefaultPageLimit},
		{name: "negative limit defaults", input: PaginationParams{Limit: -10}, expectedLimit: DefaultPageLimit},
		{name: "limit over max is capped", input: PaginationParams{Limit: 5000}, expectedLimit: MaxPageLimit},
		{name: "limit at max stays", input: PaginationParams{Limit: MaxPageLimit}, expectedLimit: MaxPageLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.input
			params.Validate()
			assert.Equal(t, tt.expectedLimit, params.Limit)
		})
	}
}

func TestCursor_RoundTrip(t *testing.T) {
	assert.Empty(t, EncodeCursor(""))

	cursor := EncodeCursor("series:abc")
	assert.NotEqual(t, "series:abc", cursor)

	key, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, "series:abc", key)

	key, err = DecodeCursor("")
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	_, err := DecodeCursor("!!not-base64!!")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
