package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	UserRolePassenger UserRole = "passenger"
	UserRoleAdmin     UserRole = "admin"
)

// User is the minimal identity record the engine needs. Registration and
// OTP login live in the identity collaborator; the booking flows only ever
// read the authenticated id and role set by the auth middleware.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Phone     string             `json:"phone" bson:"phone" validate:"required"`
	Email     string             `json:"email" bson:"email" validate:"omitempty,email"`
	Role      UserRole           `json:"role" bson:"role" default:"passenger"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
