package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusInactive    VehicleStatus = "inactive"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

// SeatSpec describes one physical seat position in the vehicle layout.
// FemaleOnly marks a static policy seat, independent of any booking.
type SeatSpec struct {
	Label      string `json:"label" bson:"label" validate:"required"`
	FemaleOnly bool   `json:"female_only" bson:"female_only"`
}

type Vehicle struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name               string             `json:"name" bson:"name" validate:"required"`
	RegistrationNumber string             `json:"registration_number" bson:"registration_number" validate:"required"`
	Capacity           int                `json:"capacity" bson:"capacity" validate:"required,min=1"`
	Seats              []SeatSpec         `json:"seats" bson:"seats"`
	Amenities          []string           `json:"amenities" bson:"amenities"`
	Status             VehicleStatus      `json:"status" bson:"status" default:"active"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

// Usable reports whether trips on this vehicle may sell seats.
func (v *Vehicle) Usable() bool {
	return v.Status == VehicleStatusActive
}

// SeatLabels returns the labels of the configured layout.
func (v *Vehicle) SeatLabels() []string {
	labels := make([]string, 0, len(v.Seats))
	for _, s := range v.Seats {
		labels = append(labels, s.Label)
	}
	return labels
}

// FemaleOnlySeats returns the labels carrying the static female-only policy.
func (v *Vehicle) FemaleOnlySeats() map[string]bool {
	out := make(map[string]bool)
	for _, s := range v.Seats {
		if s.FemaleOnly {
			out[s.Label] = true
		}
	}
	return out
}
