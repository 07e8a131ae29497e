package validators

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewCreateRequest struct {
	BookingID primitive.ObjectID `json:"booking_id" validate:"required"`
	Rating    float64            `json:"rating" validate:"required,rating_value"`
	Comment   string             `json:"comment" validate:"omitempty,max=500"`
}

func ValidateReviewCreate(req *ReviewCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}
