package sqlite

import (
	"context"
	"testing"

	"github.com/listenupapp/readingorder/internal/domain"
)

func TestPreferences_Defaults(t *testing.T) {
	s := newTestStore(t)

	prefs, err := s.GetPreferences(context.Background())
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if prefs.DefaultReadingOrder != domain.ReadingOrderPublication {
		t.Errorf("DefaultReadingOrder: got %q", prefs.DefaultReadingOrder)
	}
	if prefs.ShowChronologicalPositions {
		t.Errorf("ShowChronologicalPositions: expected false")
	}
}

func TestPreferences_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	prefs := domain.NewPreferences()
	if err := prefs.Set(domain.PrefDefaultReadingOrder, "custom"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := prefs.Set(domain.PrefShowChronologicalPositions, "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := prefs.Set("theme", "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := s.SavePreferences(ctx, prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err := s.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got.DefaultReadingOrder != domain.ReadingOrderCustom {
		t.Errorf("DefaultReadingOrder: got %q, want custom", got.DefaultReadingOrder)
	}
	if !got.ShowChronologicalPositions {
		t.Errorf("ShowChronologicalPositions: expected true")
	}
	if got.Extra["theme"] != "dark" {
		t.Errorf("Extra: got %v", got.Extra)
	}

	// Saving again replaces the previous set of keys.
	if err := s.SavePreferences(ctx, domain.NewPreferences()); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	got, err = s.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if len(got.Extra) != 0 {
		t.Errorf("Extra: expected empty after replace, got %v", got.Extra)
	}
}

func TestPreferences_InvalidStoredValueIgnored(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.db.Exec(
		`INSERT INTO preferences (key, value, updated_at) VALUES ('default_reading_order', 'by-mood', ?)`,
		formatTime(domain.NewPreferences().UpdatedAt)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got.DefaultReadingOrder != domain.ReadingOrderPublication {
		t.Errorf("DefaultReadingOrder: got %q, want publication", got.DefaultReadingOrder)
	}
}
