// Package main seeds a database with demo series for trying out reading orders.
//
// It creates a three-book series whose publication order differs from insertion
// order, and a longer series with a prequel so chronological order differs
// from publication order. New series use the default_reading_order preference.
//
// Usage:
//
//	go run ./cmd/seed -data-path ~/ReadingOrder/data -store-backend sqlite
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/listenupapp/readingorder/internal/config"
	"github.com/listenupapp/readingorder/internal/di/providers"
	"github.com/listenupapp/readingorder/internal/domain"
	"github.com/listenupapp/readingorder/internal/id"
	"github.com/listenupapp/readingorder/internal/logger"
	"github.com/listenupapp/readingorder/internal/service"
	"github.com/listenupapp/readingorder/internal/store"
)

type seedBook struct {
	title     string
	published time.Time
	position  *float64
}

type seedSeries struct {
	name        string
	description string
	books       []seedBook
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func pos(p float64) *float64 { return &p }

var demoSeries = []seedSeries{
	{
		name:        "Sample Trilogy",
		description: "Added out of publication order",
		books: []seedBook{
			{title: "Second Light", published: date(2020, time.March, 1)},
			{title: "First Light", published: date(2019, time.June, 1)},
			{title: "Last Light", published: date(2021, time.September, 1)},
		},
	},
	{
		name:        "The Wheel of Time",
		description: "Includes a prequel written after the main sequence",
		books: []seedBook{
			{title: "The Eye of the World", published: date(1990, time.January, 15), position: pos(1)},
			{title: "The Great Hunt", published: date(1990, time.November, 15), position: pos(2)},
			{title: "The Dragon Reborn", published: date(1991, time.October, 15), position: pos(3)},
			{title: "New Spring", published: date(2004, time.January, 6), position: pos(0)},
			{title: "The Shadow Rising", published: date(1992, time.September, 15), position: pos(4)},
			// Companion book with no place on the timeline.
			{title: "The World of Robert Jordan's The Wheel of Time", published: date(1997, time.November, 15)},
		},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	backend, path, err := providers.OpenBackend(cfg, appLog)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer backend.Close()

	fmt.Printf("Seeding %s database at: %s\n", cfg.Store.Backend, path)

	ctx := context.Background()

	settings := service.NewSettingsService(backend, store.NewNoopEmitter(), appLog.Logger)
	mode, err := settings.DefaultReadingOrder(ctx)
	if err != nil {
		log.Fatalf("Failed to read preferences: %v", err)
	}

	for _, s := range demoSeries {
		if err := createSeries(ctx, backend, s, mode); err != nil {
			log.Fatalf("Failed to seed %q: %v", s.name, err)
		}
	}

	fmt.Printf("\nSeeded %d series (reading order: %s)\n", len(demoSeries), mode)
}

func createSeries(ctx context.Context, backend store.Backend, s seedSeries, mode domain.ReadingOrderMode) error {
	series := &domain.Series{
		Syncable:     domain.Syncable{ID: id.MustGenerate(id.PrefixSeries)},
		Name:         s.name,
		Description:  s.description,
		ReadingOrder: mode,
	}
	if err := backend.CreateSeries(ctx, series); err != nil {
		return err
	}

	fmt.Printf("\n%s (%s)\n", series.Name, series.ID)

	for _, b := range s.books {
		published := b.published
		book := &domain.Book{
			Syncable:              domain.Syncable{ID: id.MustGenerate(id.PrefixBook)},
			SeriesID:              series.ID,
			Title:                 b.title,
			PublishedAt:           &published,
			ChronologicalPosition: b.position,
		}
		if err := backend.CreateBook(ctx, book); err != nil {
			return fmt.Errorf("create book %q: %w", b.title, err)
		}
		fmt.Printf("  + %s\n", book.Title)
	}

	return nil
}
