package validators

import "fmt"

type SeatSpecRequest struct {
	Label      string `json:"label" validate:"required,seat_label"`
	FemaleOnly bool   `json:"female_only"`
}

type VehicleCreateRequest struct {
	Name               string            `json:"name" validate:"required,max=100"`
	RegistrationNumber string            `json:"registration_number" validate:"required,max=20"`
	Capacity           int               `json:"capacity" validate:"required,min=1,max=60"`
	Seats              []SeatSpecRequest `json:"seats" validate:"required,min=1,dive"`
	Amenities          []string          `json:"amenities" validate:"omitempty,max=20"`
}

type VehicleStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive maintenance"`
}

type DriverCreateRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,phone_number"`
	LicenseNumber string `json:"license_number" validate:"required,max=30"`
}

func ValidateVehicleCreate(req *VehicleCreateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if len(req.Seats) != req.Capacity {
		errors = append(errors, ValidationError{
			Field:   "seats",
			Message: "seat layout size must equal capacity",
		})
	}
	seen := make(map[string]bool, len(req.Seats))
	for i, seat := range req.Seats {
		if seen[seat.Label] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("seats[%d].label", i),
				Message: fmt.Sprintf("duplicate seat label '%s'", seat.Label),
			})
		}
		seen[seat.Label] = true
	}

	return errors
}

func ValidateDriverCreate(req *DriverCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}
