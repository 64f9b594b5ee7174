package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPreferences_Defaults(t *testing.T) {
	p := NewPreferences()

	assert.Equal(t, ReadingOrderPublication, p.DefaultReadingOrder)
	assert.False(t, p.ShowChronologicalPositions)
	assert.Nil(t, p.Extra)
	assert.False(t, p.UpdatedAt.IsZero())
}

func TestPreferences_SetKnownKeys(t *testing.T) {
	p := NewPreferences()

	require.NoError(t, p.Set(PrefDefaultReadingOrder, "chronological"))
	require.NoError(t, p.Set(PrefShowChronologicalPositions, "true"))

	assert.Equal(t, ReadingOrderChronological, p.DefaultReadingOrder)
	assert.True(t, p.ShowChronologicalPositions)

	v, ok := p.Get(PrefShowChronologicalPositions)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestPreferences_SetRejectsInvalidKnownValues(t *testing.T) {
	p := NewPreferences()

	assert.Error(t, p.Set(PrefDefaultReadingOrder, "alphabetical"))
	assert.Error(t, p.Set(PrefShowChronologicalPositions, "sometimes"))

	// Unchanged on failure.
	assert.Equal(t, ReadingOrderPublication, p.DefaultReadingOrder)
	assert.False(t, p.ShowChronologicalPositions)
}

func TestPreferences_UnknownKeysUseExtra(t *testing.T) {
	p := NewPreferences()

	_, ok := p.Get("shelf_theme")
	assert.False(t, ok)

	require.NoError(t, p.Set("shelf_theme", "walnut"))

	v, ok := p.Get("shelf_theme")
	assert.True(t, ok)
	assert.Equal(t, "walnut", v)
	assert.Equal(t, map[string]string{"shelf_theme": "walnut"}, p.Extra)

	assert.Error(t, p.Set("", "x"))
}

func TestPreferences_Clone(t *testing.T) {
	p := NewPreferences()
	require.NoError(t, p.Set("a", "1"))

	c := p.Clone()
	require.NoError(t, c.Set("a", "2"))

	v, _ := p.Get("a")
	assert.Equal(t, "1", v)
}
