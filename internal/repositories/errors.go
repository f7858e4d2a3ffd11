package repositories

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrStaleVersion is returned when a conditional update matched no row:
	// either the record moved to another state or the caller held a stale
	// version.
	ErrStaleVersion = errors.New("record was modified concurrently")
)
