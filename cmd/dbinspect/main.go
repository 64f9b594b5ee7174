// Package main prints every series with its stored reading-order state and
// the order the engine resolves for it.
//
// Usage:
//
//	go run ./cmd/dbinspect -data-path ~/ReadingOrder/data -store-backend badger
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/listenupapp/readingorder/internal/config"
	"github.com/listenupapp/readingorder/internal/di/providers"
	"github.com/listenupapp/readingorder/internal/domain"
	"github.com/listenupapp/readingorder/internal/logger"
	"github.com/listenupapp/readingorder/internal/readingorder"
	"github.com/listenupapp/readingorder/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.New(logger.Config{
		Level:       logger.ParseLevel("error"),
		Environment: cfg.App.Environment,
	})

	backend, path, err := providers.OpenBackend(cfg, appLog)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer backend.Close()

	fmt.Println("=== Reading Order Inspection ===")
	fmt.Printf("Backend: %s (%s)\n", cfg.Store.Backend, path)

	ctx := context.Background()

	prefs, err := backend.GetPreferences(ctx)
	if err != nil {
		log.Fatalf("Failed to read preferences: %v", err)
	}
	fmt.Printf("Default reading order: %s\n", prefs.DefaultReadingOrder)

	params := store.DefaultPaginationParams()
	total := 0
	for {
		page, err := backend.ListSeries(ctx, params)
		if err != nil {
			log.Fatalf("Failed to list series: %v", err)
		}

		for _, series := range page.Items {
			books, err := backend.GetBooksBySeries(ctx, series.ID)
			if err != nil {
				log.Fatalf("Failed to load books for %s: %v", series.ID, err)
			}
			printSeries(series, books)
			total++
		}

		if !page.HasMore {
			break
		}
		params.Cursor = page.NextCursor
	}

	fmt.Printf("\nTotal series: %d\n", total)
}

func printSeries(series *domain.Series, books []*domain.Book) {
	fmt.Printf("\n%s (%s)\n", series.Name, series.ID)

	mode := series.ReadingOrder.String()
	if !series.ReadingOrder.IsKnown() {
		mode += " (unknown, resolves as publication)"
	}
	fmt.Printf("  Mode:         %s\n", mode)
	fmt.Printf("  Members:      %s\n", strings.Join(series.BookIDs, ", "))

	if series.HasCustomOrder() {
		fmt.Printf("  Custom order: %s\n", strings.Join(series.CustomOrder, ", "))
	} else {
		fmt.Println("  Custom order: (not initialized)")
	}

	fmt.Println("  Resolved:")
	for i, book := range readingorder.Resolve(series, books) {
		fmt.Printf("    %2d. %s%s\n", i+1, book.Title, describe(book))
	}
}

func describe(book *domain.Book) string {
	var parts []string
	if book.HasPublicationDate() {
		parts = append(parts, book.PublishedAt.Format("2006-01-02"))
	}
	if book.HasChronologicalPosition() {
		parts = append(parts, fmt.Sprintf("timeline %g", *book.ChronologicalPosition))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}
