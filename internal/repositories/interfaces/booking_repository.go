package interfaces

import (
	"context"

	"shuttlebook/internal/models"
	"shuttlebook/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	// Create inserts a new booking. The bookings collection carries a
	// unique index on (trip_id, seats) scoped to holds_seats documents,
	// so the insert itself is the atomic check-then-write: a conflicting
	// concurrent booking surfaces as ErrSeatConflict.
	Create(ctx context.Context, booking *models.Booking) error

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetByTrip(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)

	// GetSeatHolders returns every booking currently contributing to seat
	// occupancy on the trip: status not cancelled and payment not failed.
	GetSeatHolders(ctx context.Context, tripID primitive.ObjectID) ([]*models.Booking, error)

	// Cancel conditionally moves the booking to cancelled and releases its
	// seats. The filter requires the caller to own the booking and the
	// status to still permit cancellation; otherwise ErrPreconditionFailed.
	Cancel(ctx context.Context, id, userID primitive.ObjectID) error

	// MarkPaymentSuccess conditionally records a verified payment. The
	// filter requires payment_status to still be pending; a booking whose
	// payment already succeeded matches nothing and the caller treats the
	// retry as idempotent.
	MarkPaymentSuccess(ctx context.Context, id primitive.ObjectID, paymentID string, confirm bool) error

	// Assign sets the operational vehicle/driver while status is still
	// pending or confirmed; confirm requests the pending->confirmed side
	// transition in the same conditional write.
	Assign(ctx context.Context, id primitive.ObjectID, vehicleID, driverID *primitive.ObjectID, confirm bool) error

	// UpdateStatus applies a trip-lifecycle driven transition (ongoing,
	// completed) conditioned on the set of statuses it may come from.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus) error
}
