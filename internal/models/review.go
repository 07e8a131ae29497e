package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingEntity identifies which aggregate a review contributes to.
type RatingEntity string

const (
	RatingEntityTrip   RatingEntity = "trip"
	RatingEntityDriver RatingEntity = "driver"
)

// Review references its booking and denormalizes the trip and driver at
// creation time so aggregates survive later trip reassignment. One review
// per (booking, user) is enforced by a unique index.
type Review struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	BookingID primitive.ObjectID  `json:"booking_id" bson:"booking_id" validate:"required"`
	UserID    primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	TripID    primitive.ObjectID  `json:"trip_id" bson:"trip_id" validate:"required"`
	DriverID  *primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	Rating    float64             `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment   string              `json:"comment" bson:"comment"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" bson:"updated_at"`
}

// RatingSummary is the freshly computed aggregate that overwrites the
// entity's stored fields.
type RatingSummary struct {
	NumReviews    int     `json:"num_reviews" bson:"num_reviews"`
	AverageRating float64 `json:"average_rating" bson:"average_rating"`
}
