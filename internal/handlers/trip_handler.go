package handlers

import (
	"time"

	"shuttlebook/internal/models"
	"shuttlebook/internal/repositories/interfaces"
	"shuttlebook/internal/services"
	"shuttlebook/internal/utils"
	"shuttlebook/internal/validators"

	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	tripService services.TripService
}

func NewTripHandler(tripService services.TripService) *TripHandler {
	return &TripHandler{
		tripService: tripService,
	}
}

// CreateTrip registers a new scheduled trip (admin)
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var request validators.TripCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateTripCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	trip := &models.Trip{
		Origin:        request.Origin,
		Destination:   request.Destination,
		DepartureTime: request.DepartureTime,
		ArrivalTime:   request.ArrivalTime,
		VehicleID:     request.VehicleID,
		DriverID:      request.DriverID,
		Fare:          request.Fare,
	}
	for _, p := range request.BoardingPoints {
		trip.BoardingPoints = append(trip.BoardingPoints, models.StopPoint{ID: p.ID, Name: p.Name, Time: p.Time})
	}
	for _, p := range request.DeboardingPoints {
		trip.DeboardingPoints = append(trip.DeboardingPoints, models.StopPoint{ID: p.ID, Name: p.Name, Time: p.Time})
	}

	created, err := h.tripService.CreateTrip(c.Request.Context(), trip)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Trip created successfully", created)
}

// GetTrip returns a single trip
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}

	trip, err := h.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip retrieved successfully", trip)
}

// ListTrips returns trips matching the query filters, paginated
func (h *TripHandler) ListTrips(c *gin.Context) {
	filter := &interfaces.TripFilter{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Status:      models.TripStatus(c.Query("status")),
	}
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		filter.Date = parsed
	}

	params := utils.GetPaginationParams(c)
	trips, total, err := h.tripService.ListTrips(c.Request.Context(), filter, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Trips retrieved successfully", map[string]interface{}{
		"trips": trips,
	}, meta)
}

// UpdateTripStatus applies a lifecycle transition to a trip (admin)
func (h *TripHandler) UpdateTripStatus(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request validators.TripStatusUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateTripStatusUpdate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	trip, err := h.tripService.UpdateTripStatus(c.Request.Context(), tripID, models.TripStatus(request.Status))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip status updated successfully", trip)
}

// AssignTripResources sets the vehicle/driver on a trip (admin)
func (h *TripHandler) AssignTripResources(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request validators.TripAssignRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateTripAssign(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	trip, err := h.tripService.AssignTripResources(c.Request.Context(), tripID, request.VehicleID, request.DriverID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip resources assigned successfully", trip)
}
