package validators

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PassengerRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Age       int    `json:"age" validate:"required,min=1,max=120"`
	Gender    string `json:"gender" validate:"required,oneof=male female"`
	SeatLabel string `json:"seat_label" validate:"required,seat_label"`
}

type ContactRequest struct {
	Phone string `json:"phone" validate:"required,phone_number"`
	Email string `json:"email" validate:"omitempty,email"`
}

type PaymentAssertionRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type BookingCreateRequest struct {
	TripID          primitive.ObjectID       `json:"trip_id" validate:"required"`
	Seats           []string                 `json:"seats" validate:"required,min=1,max=6,dive,seat_label"`
	Passengers      []PassengerRequest       `json:"passengers" validate:"required,min=1,dive"`
	Contact         ContactRequest           `json:"contact" validate:"required"`
	BoardingPoint   string                   `json:"boarding_point" validate:"omitempty,max=100"`
	DeboardingPoint string                   `json:"deboarding_point" validate:"omitempty,max=100"`
	Fare            float64                  `json:"fare" validate:"min=0"`
	PaymentMethod   string                   `json:"payment_method" validate:"required,oneof=online cash"`
	Payment         *PaymentAssertionRequest `json:"payment" validate:"omitempty"`
}

func ValidateBookingCreate(req *BookingCreateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if len(req.Passengers) != len(req.Seats) {
		errors = append(errors, ValidationError{
			Field:   "passengers",
			Message: "passenger count must match seat count",
		})
	}

	seen := make(map[string]bool, len(req.Seats))
	for i, label := range req.Seats {
		if seen[label] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("seats[%d]", i),
				Message: fmt.Sprintf("duplicate seat label '%s'", label),
			})
		}
		seen[label] = true
	}
	for i, p := range req.Passengers {
		if p.SeatLabel != "" && !seen[p.SeatLabel] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("passengers[%d].seat_label", i),
				Message: fmt.Sprintf("seat '%s' is not among the requested seats", p.SeatLabel),
			})
		}
	}

	if req.PaymentMethod == "online" && req.Payment == nil {
		errors = append(errors, ValidationError{
			Field:   "payment",
			Message: "online bookings require a payment assertion",
		})
	}

	return errors
}
