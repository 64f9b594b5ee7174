package domain

// ReadingOrderMode selects how the books of a series are ordered for the reader.
//
// Values outside the known set are stored verbatim and resolve as publication order.
type ReadingOrderMode string

// Known reading order modes.
const (
	ReadingOrderPublication   ReadingOrderMode = "publication"
	ReadingOrderChronological ReadingOrderMode = "chronological"
	ReadingOrderCustom        ReadingOrderMode = "custom"
)

// ReadingOrderModes lists the known modes in display order.
func ReadingOrderModes() []ReadingOrderMode {
	return []ReadingOrderMode{
		ReadingOrderPublication,
		ReadingOrderChronological,
		ReadingOrderCustom,
	}
}

// IsKnown reports whether m is one of the known modes.
func (m ReadingOrderMode) IsKnown() bool {
	switch m {
	case ReadingOrderPublication, ReadingOrderChronological, ReadingOrderCustom:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (m ReadingOrderMode) String() string {
	return string(m)
}

// ParseReadingOrderMode converts s to a known mode.
// The second return value is false when s is not a known mode.
func ParseReadingOrderMode(s string) (ReadingOrderMode, bool) {
	m := ReadingOrderMode(s)
	return m, m.IsKnown()
}
