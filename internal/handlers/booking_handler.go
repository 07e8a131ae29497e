package handlers

import (
	"shuttlebook/internal/models"
	"shuttlebook/internal/services"
	"shuttlebook/internal/utils"
	"shuttlebook/internal/validators"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// GetSeatAvailability returns the derived seat occupancy view for a trip
func (h *BookingHandler) GetSeatAvailability(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}

	availability, err := h.bookingService.GetSeatAvailability(c.Request.Context(), tripID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Seat availability retrieved successfully", availability)
}

// CreateBooking commits a reservation for the requested seats
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var request validators.BookingCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateBookingCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	input := &services.CreateBookingInput{
		TripID:          request.TripID,
		Seats:           request.Seats,
		Contact:         models.ContactDetails{Phone: request.Contact.Phone, Email: request.Contact.Email},
		BoardingPoint:   request.BoardingPoint,
		DeboardingPoint: request.DeboardingPoint,
		Fare:            request.Fare,
		PaymentMethod:   models.PaymentMethod(request.PaymentMethod),
	}
	for _, p := range request.Passengers {
		input.Passengers = append(input.Passengers, models.Passenger{
			Name:      p.Name,
			Age:       p.Age,
			Gender:    models.Gender(p.Gender),
			SeatLabel: p.SeatLabel,
		})
	}
	if request.Payment != nil {
		input.Payment = &models.PaymentAssertion{
			OrderID:   request.Payment.OrderID,
			PaymentID: request.Payment.PaymentID,
			Signature: request.Payment.Signature,
		}
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking created successfully", booking)
}

// GetBooking returns one of the caller's bookings
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking retrieved successfully", booking)
}

// ListMyBookings returns the caller's bookings, paginated
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.ListUserBookings(c.Request.Context(), userID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Bookings retrieved successfully", map[string]interface{}{
		"bookings": bookings,
	}, meta)
}

// CancelBooking cancels one of the caller's bookings and frees its seats
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking cancelled successfully", booking)
}

// AssignBooking sets the operational vehicle/driver on a booking (admin)
func (h *BookingHandler) AssignBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
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

	booking, err := h.bookingService.AssignBooking(c.Request.Context(), bookingID, request.VehicleID, request.DriverID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking assignment updated successfully", booking)
}
