package domain

import "slices"

// Series represents a sequence of related books and how they should be read.
// The wheel weaves as the wheel wills, and books flow in sequence.
type Series struct {
	Syncable
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// BookIDs is the membership list in insertion order. It is the default
	// arrangement, not necessarily the reading order.
	BookIDs []string `json:"book_ids"`

	ReadingOrder ReadingOrderMode `json:"reading_order"`

	// CustomOrder is the user-defined sequence of book IDs. Empty means the
	// custom order has not been initialized yet. It may reference books that
	// are no longer members of the series.
	CustomOrder []string `json:"custom_order,omitempty"`
}

// HasCustomOrder reports whether a custom order has been initialized.
func (s *Series) HasCustomOrder() bool {
	return len(s.CustomOrder) > 0
}

// WorkingOrder returns a copy of the list a reorder operates on:
// the custom order when initialized, otherwise the membership list.
func (s *Series) WorkingOrder() []string {
	if s.HasCustomOrder() {
		return slices.Clone(s.CustomOrder)
	}
	return slices.Clone(s.BookIDs)
}

// HasBook reports whether bookID is a member of the series.
func (s *Series) HasBook(bookID string) bool {
	return slices.Contains(s.BookIDs, bookID)
}
