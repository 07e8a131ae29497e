package interfaces

import "errors"

// Store-level sentinel errors. Services translate these into the typed
// failures they expose to handlers.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSeatConflict is returned when an insert violates the partial
	// unique index over (trip_id, seats) for seat-holding bookings. It is
	// the storage-level realization of the no-double-booking invariant.
	ErrSeatConflict = errors.New("seat already held by another booking")

	// ErrDuplicate is returned when an insert violates any other unique
	// index, e.g. one review per (booking, user).
	ErrDuplicate = errors.New("duplicate record")

	// ErrPreconditionFailed is returned when a conditional update matched
	// no document because the status precondition no longer holds.
	ErrPreconditionFailed = errors.New("update precondition failed")
)
