package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure by the reaction expected from the caller:
// fix the request, re-query and retry with different seats, or back off.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindNotFound     ErrorKind = "not_found"
	KindInvalidState ErrorKind = "invalid_state"
	KindConflict     ErrorKind = "conflict"
	KindRejected     ErrorKind = "rejected"
	KindInternal     ErrorKind = "internal"
)

// Error is the typed failure every service operation returns. Code is the
// stable machine-readable identifier surfaced to clients.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match against the sentinel values below by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrSeatTaken         = &Error{Kind: KindConflict, Code: "SEAT_TAKEN", Message: "one or more requested seats are already booked"}
	ErrInsufficientSeats = &Error{Kind: KindConflict, Code: "INSUFFICIENT_SEATS", Message: "not enough free seats on this trip"}
	ErrBookingConflict   = &Error{Kind: KindConflict, Code: "BOOKING_CONFLICT", Message: "booking was modified by a concurrent request"}
	ErrTripConflict      = &Error{Kind: KindConflict, Code: "TRIP_CONFLICT", Message: "trip was modified by a concurrent request"}

	ErrInvalidSignature = &Error{Kind: KindRejected, Code: "INVALID_SIGNATURE", Message: "payment signature verification failed"}

	ErrTripNotFound    = &Error{Kind: KindNotFound, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
	ErrBookingNotFound = &Error{Kind: KindNotFound, Code: "BOOKING_NOT_FOUND", Message: "booking not found"}
	ErrVehicleNotFound = &Error{Kind: KindNotFound, Code: "VEHICLE_NOT_FOUND", Message: "vehicle not found"}
	ErrDriverNotFound  = &Error{Kind: KindNotFound, Code: "DRIVER_NOT_FOUND", Message: "driver not found"}
	ErrReviewNotFound  = &Error{Kind: KindNotFound, Code: "REVIEW_NOT_FOUND", Message: "review not found"}

	ErrTripNotBookable      = &Error{Kind: KindInvalidState, Code: "TRIP_NOT_BOOKABLE", Message: "trip is not open for booking"}
	ErrVehicleUnavailable   = &Error{Kind: KindInvalidState, Code: "VEHICLE_UNAVAILABLE", Message: "trip has no usable vehicle assigned"}
	ErrNotCancellable       = &Error{Kind: KindInvalidState, Code: "BOOKING_NOT_CANCELLABLE", Message: "booking can no longer be cancelled"}
	ErrInvalidTransition    = &Error{Kind: KindInvalidState, Code: "INVALID_TRANSITION", Message: "status transition not permitted"}
	ErrBookingNotCompleted  = &Error{Kind: KindInvalidState, Code: "BOOKING_NOT_COMPLETED", Message: "booking is not completed yet"}
	ErrAlreadyReviewed      = &Error{Kind: KindConflict, Code: "ALREADY_REVIEWED", Message: "booking already reviewed by this user"}
	ErrAssignmentNotAllowed = &Error{Kind: KindInvalidState, Code: "ASSIGNMENT_NOT_ALLOWED", Message: "assignment only permitted for pending or confirmed bookings"}
)

// NewInvalidInput builds an InvalidInput error for a specific field problem.
func NewInvalidInput(code, message string) *Error {
	return &Error{Kind: KindInvalidInput, Code: code, Message: message}
}

// NewInternal wraps an unexpected store or gateway failure. The cause is
// kept for logging, never surfaced verbatim to clients.
func NewInternal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL", Message: "internal error", cause: cause}
}

// KindOf extracts the kind from any error, defaulting to Internal for
// untyped failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
