package domain

import "time"

// SearchHistory records one successful weather lookup. Rows are written
// exactly once and never mutated; City keeps the caller's spelling verbatim.
type SearchHistory struct {
	ID          string
	City        string
	SearchedAt  time.Time
	Temperature float64
	UserID      string
}
