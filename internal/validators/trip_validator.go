package validators

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StopPointRequest struct {
	ID   string    `json:"id" validate:"required,max=50"`
	Name string    `json:"name" validate:"required,max=100"`
	Time time.Time `json:"time"`
}

type TripCreateRequest struct {
	Origin           string              `json:"origin" validate:"required,max=100"`
	Destination      string              `json:"destination" validate:"required,max=100"`
	DepartureTime    time.Time           `json:"departure_time" validate:"required"`
	ArrivalTime      time.Time           `json:"arrival_time" validate:"required,gtfield=DepartureTime"`
	BoardingPoints   []StopPointRequest  `json:"boarding_points" validate:"omitempty,dive"`
	DeboardingPoints []StopPointRequest  `json:"deboarding_points" validate:"omitempty,dive"`
	VehicleID        *primitive.ObjectID `json:"vehicle_id"`
	DriverID         *primitive.ObjectID `json:"driver_id"`
	Fare             float64             `json:"fare" validate:"min=0"`
}

type TripStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled active completed cancelled delayed"`
}

type TripAssignRequest struct {
	VehicleID *primitive.ObjectID `json:"vehicle_id"`
	DriverID  *primitive.ObjectID `json:"driver_id"`
}

func ValidateTripCreate(req *TripCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateTripStatusUpdate(req *TripStatusUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateTripAssign(req *TripAssignRequest) ValidationErrors {
	var errors ValidationErrors
	if req.VehicleID == nil && req.DriverID == nil {
		errors = append(errors, ValidationError{
			Field:   "vehicle_id",
			Message: "assignment requires a vehicle or a driver",
		})
	}
	return errors
}
