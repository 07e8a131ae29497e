package validators

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderCreateRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
}

type PaymentVerifyRequest struct {
	BookingID primitive.ObjectID `json:"booking_id" validate:"required"`
	OrderID   string             `json:"order_id" validate:"required"`
	PaymentID string             `json:"payment_id" validate:"required"`
	Signature string             `json:"signature" validate:"required"`
}

func ValidateOrderCreate(req *OrderCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidatePaymentVerify(req *PaymentVerifyRequest) ValidationErrors {
	return ValidateStruct(req)
}
