package ledger

import "errors"

var (
	// ErrDuplicateID is returned when a prepend would collide with an
	// existing transaction id. The existing record is never overwritten.
	ErrDuplicateID = errors.New("transaction id already exists")

	// ErrNotFound is returned when a transaction id is not present in the
	// store.
	ErrNotFound = errors.New("transaction not found")

	// ErrRefreshInFlight is returned when a refresh is requested while one
	// is already running.
	ErrRefreshInFlight = errors.New("refresh already in progress")
)
