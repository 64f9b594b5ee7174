package readingorder

import (
	"slices"

	"github.com/listenupapp/readingorder/internal/domain"
)

// Publication orders books by publication date, falling back to title for any
// pair where a date is missing or equal.
func Publication(books []*domain.Book) []*domain.Book {
	return sortStable(books, publicationRule())
}

// Chronological orders books by in-story position, falling back to the
// publication rule for any pair where a position is missing or equal.
func Chronological(books []*domain.Book) []*domain.Book {
	return sortStable(books, chronologicalRule())
}

// Custom orders books by their index in order. Books not listed keep their
// input order after all listed books; IDs in order that match no book are
// ignored. An empty order means the custom order was never initialized, and
// publication order is used instead.
func Custom(books []*domain.Book, order []string) []*domain.Book {
	if len(order) == 0 {
		return Publication(books)
	}
	return sortStable(books, ByRank(Rank(order)))
}

// Rank maps each ID to its index in order. When an ID appears more than once
// the first occurrence wins.
func Rank(order []string) map[string]int {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, seen := rank[id]; !seen {
			rank[id] = i
		}
	}
	return rank
}

// sortStable returns a sorted copy; the input slice is never reordered.
func sortStable(books []*domain.Book, compare Comparator) []*domain.Book {
	out := slices.Clone(books)
	if out == nil {
		out = []*domain.Book{}
	}
	slices.SortStableFunc(out, compare)
	return out
}
