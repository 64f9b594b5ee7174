package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/listenupapp/readingorder/internal/domain"
	"github.com/listenupapp/readingorder/internal/store"
)

// fakeSeriesStore is an in-memory SeriesStore that counts calls.
type fakeSeriesStore struct {
	mu      sync.Mutex
	series  map[string]*domain.Series
	gets    int
	updates int

	getErr    error
	updateErr error
	// Runs inside UpdateSeriesReadingOrder before the write, without the lock held.
	beforeUpdate func()
}

func newFakeSeriesStore(series ...*domain.Series) *fakeSeriesStore {
	f := &fakeSeriesStore{series: make(map[string]*domain.Series)}
	for _, s := range series {
		f.series[s.ID] = cloneSeries(s)
	}
	return f
}

func cloneSeries(s *domain.Series) *domain.Series {
	c := *s
	c.BookIDs = slices.Clone(s.BookIDs)
	c.CustomOrder = slices.Clone(s.CustomOrder)
	return &c
}

func (f *fakeSeriesStore) GetSeries(_ context.Context, id string) (*domain.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.series[id]
	if !ok {
		return nil, store.ErrNotFound.WithMessage("series not found")
	}
	return cloneSeries(s), nil
}

func (f *fakeSeriesStore) UpdateSeriesReadingOrder(_ context.Context, id string, mode domain.ReadingOrderMode, customOrder []string) (*domain.Series, error) {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return nil, f.updateErr
	}
	s, ok := f.series[id]
	if !ok {
		return nil, store.ErrNotFound.WithMessage("series not found")
	}
	f.updates++
	s.ReadingOrder = mode
	s.CustomOrder = slices.Clone(customOrder)
	s.UpdatedAt = time.Now()
	return cloneSeries(s), nil
}

func (f *fakeSeriesStore) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

// fakeBookSource returns fixed books per series.
type fakeBookSource struct {
	books map[string][]*domain.Book
	err   error
}

func (f *fakeBookSource) GetBooksBySeries(_ context.Context, seriesID string) ([]*domain.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.books[seriesID]), nil
}

// recordingEmitter collects emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []any
}

func (r *recordingEmitter) Emit(event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func book(id string, year int) *domain.Book {
	b := &domain.Book{Syncable: domain.Syncable{ID: id}, Title: id}
	if year > 0 {
		t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		b.PublishedAt = &t
	}
	return b
}

func bookIDs(books []*domain.Book) []string {
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}
