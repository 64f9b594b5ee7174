package readingorder

import "github.com/listenupapp/readingorder/internal/domain"

// Resolve orders books according to the series' reading order mode.
//
// Unknown modes, including the empty string, resolve as publication order.
// A nil series is treated the same way. Resolve performs no I/O; the caller
// supplies the current book set.
func Resolve(series *domain.Series, books []*domain.Book) []*domain.Book {
	if series == nil {
		return Publication(books)
	}
	return ResolveMode(series.ReadingOrder, series.CustomOrder, books)
}

// ResolveMode orders books as if the series were in mode, using customOrder
// when mode is custom.
func ResolveMode(mode domain.ReadingOrderMode, customOrder []string, books []*domain.Book) []*domain.Book {
	switch mode {
	case domain.ReadingOrderChronological:
		return Chronological(books)
	case domain.ReadingOrderCustom:
		return Custom(books, customOrder)
	default:
		return Publication(books)
	}
}
