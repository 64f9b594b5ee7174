package domain

import (
	"fmt"
	"maps"
	"strconv"
	"time"
)

// PreferenceKey names a reading order preference.
type PreferenceKey string

// Known preference keys. Anything else is kept in Preferences.Extra.
const (
	// PrefDefaultReadingOrder is the mode given to newly created series.
	PrefDefaultReadingOrder PreferenceKey = "default_reading_order"
	// PrefShowChronologicalPositions tells clients to display timeline positions next to titles.
	PrefShowChronologicalPositions PreferenceKey = "show_chronological_positions"
)

// KnownPreferenceKeys returns every typed preference key.
func KnownPreferenceKeys() []PreferenceKey {
	return []PreferenceKey{
		PrefDefaultReadingOrder,
		PrefShowChronologicalPositions,
	}
}

// IsKnown reports whether k is a typed preference key.
func (k PreferenceKey) IsKnown() bool {
	switch k {
	case PrefDefaultReadingOrder, PrefShowChronologicalPositions:
		return true
	default:
		return false
	}
}

// Preferences holds server-wide reading order preferences.
// Known keys are typed fields; unknown keys are preserved as strings in Extra
// so clients can store their own flags without a server release.
type Preferences struct {
	DefaultReadingOrder        ReadingOrderMode  `json:"default_reading_order"`
	ShowChronologicalPositions bool              `json:"show_chronological_positions"`
	Extra                      map[string]string `json:"extra,omitempty"`
	UpdatedAt                  time.Time         `json:"updated_at"`
}

// NewPreferences creates preferences with sensible defaults.
func NewPreferences() *Preferences {
	return &Preferences{
		DefaultReadingOrder: ReadingOrderPublication,
		UpdatedAt:           time.Now(),
	}
}

// Get returns the string form of a preference.
// The second return value is false for an unknown key that has never been set.
func (p *Preferences) Get(key PreferenceKey) (string, bool) {
	switch key {
	case PrefDefaultReadingOrder:
		return string(p.DefaultReadingOrder), true
	case PrefShowChronologicalPositions:
		return strconv.FormatBool(p.ShowChronologicalPositions), true
	default:
		v, ok := p.Extra[string(key)]
		return v, ok
	}
}

// Set parses raw into the preference named by key.
// Known keys are validated; unknown keys are stored verbatim in Extra.
func (p *Preferences) Set(key PreferenceKey, raw string) error {
	switch key {
	case PrefDefaultReadingOrder:
		mode, ok := ParseReadingOrderMode(raw)
		if !ok {
			return fmt.Errorf("invalid %s %q", key, raw)
		}
		p.DefaultReadingOrder = mode
	case PrefShowChronologicalPositions:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, raw, err)
		}
		p.ShowChronologicalPositions = v
	default:
		if key == "" {
			return fmt.Errorf("preference key cannot be empty")
		}
		if p.Extra == nil {
			p.Extra = make(map[string]string)
		}
		p.Extra[string(key)] = raw
	}
	return nil
}

// Clone returns a deep copy.
func (p *Preferences) Clone() *Preferences {
	c := *p
	c.Extra = maps.Clone(p.Extra)
	return &c
}
