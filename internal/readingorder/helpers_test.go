package readingorder

import (
	"time"

	"github.com/listenupapp/readingorder/internal/domain"
)

type bookOpt func(*domain.Book)

func published(year int) bookOpt {
	return func(b *domain.Book) {
		t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		b.PublishedAt = &t
	}
}

func position(p float64) bookOpt {
	return func(b *domain.Book) {
		b.ChronologicalPosition = &p
	}
}

func newBook(id, title string, opts ...bookOpt) *domain.Book {
	b := &domain.Book{Syncable: domain.Syncable{ID: id}, Title: title}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func ids(books []*domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}
