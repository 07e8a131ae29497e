package utils

import "time"

// Application constants
const (
	AppName    = "ShuttleBook"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour

	// Booking constants
	MaxSeatsPerBooking = 6
	SeatLabelMaxLength = 4

	// Availability cache
	AvailabilityCacheTTL = 15 * time.Second

	// Rating bounds
	MinRating = 1.0
	MaxRating = 5.0

	// Response status strings
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common error messages
const (
	ErrValidationFailed = "validation failed"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "authentication required"
	ErrForbidden        = "insufficient permissions"
)
