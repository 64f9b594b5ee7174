// Package readingorder computes the order in which the books of a series are presented.
//
// Every ordering is expressed as a chain of tie-break tiers. A tier returns zero
// when it cannot decide a pair (for example when one of the books has no
// publication date), and the next tier gets a chance. Sorting is always stable,
// so books that no tier can separate keep their input order.
package readingorder

import (
	"cmp"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/listenupapp/readingorder/internal/domain"
)

// Comparator orders two books. It returns a negative number when a comes first,
// a positive number when b comes first, and zero when it cannot decide.
type Comparator func(a, b *domain.Book) int

// Chain combines tiers into a single comparator that consults each tier in turn
// until one of them decides.
func Chain(tiers ...Comparator) Comparator {
	return func(a, b *domain.Book) int {
		for _, tier := range tiers {
			if c := tier(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// ByPublicationDate orders books by ascending publication date.
// Undecided unless both books have a date.
func ByPublicationDate(a, b *domain.Book) int {
	if !a.HasPublicationDate() || !b.HasPublicationDate() {
		return 0
	}
	return a.PublishedAt.Compare(*b.PublishedAt)
}

// ByChronologicalPosition orders books by ascending in-story position.
// Undecided unless both books have a position.
func ByChronologicalPosition(a, b *domain.Book) int {
	if !a.HasChronologicalPosition() || !b.HasChronologicalPosition() {
		return 0
	}
	return cmp.Compare(*a.ChronologicalPosition, *b.ChronologicalPosition)
}

// ByTitle returns a locale-aware title comparator.
//
// Collators keep internal buffers and must not be shared between goroutines,
// so every call builds its own.
func ByTitle() Comparator {
	c := collate.New(language.Und)
	return func(a, b *domain.Book) int {
		return c.CompareString(a.Title, b.Title)
	}
}

// ByRank orders books by their position in rank. Books missing from rank sort
// after every ranked book and are undecided among themselves.
func ByRank(rank map[string]int) Comparator {
	return func(a, b *domain.Book) int {
		ra, oka := rank[a.ID]
		rb, okb := rank[b.ID]
		switch {
		case oka && okb:
			return cmp.Compare(ra, rb)
		case oka:
			return -1
		case okb:
			return 1
		default:
			return 0
		}
	}
}

// publicationRule is date, then title.
func publicationRule() Comparator {
	return Chain(ByPublicationDate, ByTitle())
}

// chronologicalRule is timeline position, then the publication rule.
func chronologicalRule() Comparator {
	return Chain(ByChronologicalPosition, publicationRule())
}
