package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverStatus string

const (
	DriverStatusActive    DriverStatus = "active"
	DriverStatusInactive  DriverStatus = "inactive"
	DriverStatusSuspended DriverStatus = "suspended"
)

type Driver struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name" validate:"required"`
	Phone         string             `json:"phone" bson:"phone" validate:"required"`
	LicenseNumber string             `json:"license_number" bson:"license_number" validate:"required"`
	Status        DriverStatus       `json:"status" bson:"status" default:"active"`
	NumReviews    int                `json:"num_reviews" bson:"num_reviews" default:"0"`
	AverageRating float64            `json:"average_rating" bson:"average_rating" default:"0"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
