package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string
type PaymentStatus string
type PaymentMethod string
type Gender string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusOngoing   BookingStatus = "ongoing"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCash   PaymentMethod = "cash"

	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Passenger holds the per-seat attributes recorded at booking time. The
// gender marker feeds the female-only seat policy in availability queries.
type Passenger struct {
	Name      string `json:"name" bson:"name" validate:"required"`
	Age       int    `json:"age" bson:"age" validate:"required,min=1,max=120"`
	Gender    Gender `json:"gender" bson:"gender" validate:"required,oneof=male female"`
	SeatLabel string `json:"seat_label" bson:"seat_label" validate:"required"`
}

type ContactDetails struct {
	Phone string `json:"phone" bson:"phone" validate:"required"`
	Email string `json:"email" bson:"email" validate:"omitempty,email"`
}

type Booking struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	TripID          primitive.ObjectID `json:"trip_id" bson:"trip_id" validate:"required"`
	Seats           []string           `json:"seats" bson:"seats" validate:"required,min=1"`
	Passengers      []Passenger        `json:"passengers" bson:"passengers" validate:"required,min=1,dive"`
	Contact         ContactDetails     `json:"contact" bson:"contact"`
	BoardingPoint   string             `json:"boarding_point" bson:"boarding_point"`
	DeboardingPoint string             `json:"deboarding_point" bson:"deboarding_point"`
	Fare            float64            `json:"fare" bson:"fare" validate:"min=0"`
	PaymentMethod   PaymentMethod      `json:"payment_method" bson:"payment_method" validate:"required,oneof=online cash"`
	PaymentStatus   PaymentStatus      `json:"payment_status" bson:"payment_status" default:"pending"`
	Status          BookingStatus      `json:"status" bson:"status" default:"pending"`
	PaymentID       string             `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	OrderID         string             `json:"order_id,omitempty" bson:"order_id,omitempty"`
	// Operational assignment, set by administrators while the booking is
	// still pending or confirmed.
	AssignedVehicleID *primitive.ObjectID `json:"assigned_vehicle_id,omitempty" bson:"assigned_vehicle_id,omitempty"`
	AssignedDriverID  *primitive.ObjectID `json:"assigned_driver_id,omitempty" bson:"assigned_driver_id,omitempty"`
	// HoldsSeats is true while the booking counts toward seat occupancy.
	// The partial unique index on (trip_id, seats) is scoped to documents
	// where it is true; cancellation flips it to false and that alone
	// returns the seats to the free pool.
	HoldsSeats  bool       `json:"-" bson:"holds_seats"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// PaymentAssertion is the client-supplied claim of a successful gateway
// payment, verifiable against the shared secret.
type PaymentAssertion struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// bookingTransitions is the single source of truth for booking status
// changes. Completed and cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusOngoing, BookingStatusCancelled},
	BookingStatusOngoing:   {BookingStatusCompleted},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func CanTransitionBooking(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether a cancel request is permitted from the
// booking's current status.
func (b *Booking) Cancellable() bool {
	return CanTransitionBooking(b.Status, BookingStatusCancelled)
}

// IsActive reports whether the booking still counts toward seat occupancy.
// It is the predicate behind holds_seats, which both the uniqueness index
// and availability reads key on.
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled && b.PaymentStatus != PaymentStatusFailed
}
