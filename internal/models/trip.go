package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
	TripStatusDelayed   TripStatus = "delayed"
)

// StopPoint is a boarding or deboarding location on a trip's route.
type StopPoint struct {
	ID   string    `json:"id" bson:"id" validate:"required"`
	Name string    `json:"name" bson:"name" validate:"required"`
	Time time.Time `json:"time" bson:"time"`
}

type Trip struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Origin           string              `json:"origin" bson:"origin" validate:"required"`
	Destination      string              `json:"destination" bson:"destination" validate:"required"`
	DepartureTime    time.Time           `json:"departure_time" bson:"departure_time" validate:"required"`
	ArrivalTime      time.Time           `json:"arrival_time" bson:"arrival_time" validate:"required"`
	BoardingPoints   []StopPoint         `json:"boarding_points" bson:"boarding_points"`
	DeboardingPoints []StopPoint         `json:"deboarding_points" bson:"deboarding_points"`
	VehicleID        *primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	DriverID         *primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	Fare             float64             `json:"fare" bson:"fare" validate:"min=0"`
	Status           TripStatus          `json:"status" bson:"status" default:"scheduled"`
	NumReviews       int                 `json:"num_reviews" bson:"num_reviews" default:"0"`
	AverageRating    float64             `json:"average_rating" bson:"average_rating" default:"0"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at"`
}

var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusScheduled: {TripStatusActive, TripStatusDelayed, TripStatusCancelled},
	TripStatusDelayed:   {TripStatusScheduled, TripStatusActive, TripStatusCancelled},
	TripStatusActive:    {TripStatusCompleted, TripStatusCancelled},
	TripStatusCompleted: {},
	TripStatusCancelled: {},
}

func CanTransitionTrip(from, to TripStatus) bool {
	for _, next := range tripTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Bookable reports whether new bookings may be created against the trip.
// Seats can only be sold while the trip is still scheduled.
func (t *Trip) Bookable() bool {
	return t.Status == TripStatusScheduled
}
