package handlers

import (
	"shuttlebook/internal/models"
	"shuttlebook/internal/services"
	"shuttlebook/internal/utils"
	"shuttlebook/internal/validators"

	"github.com/gin-gonic/gin"
)

type FleetHandler struct {
	fleetService services.FleetService
}

func NewFleetHandler(fleetService services.FleetService) *FleetHandler {
	return &FleetHandler{
		fleetService: fleetService,
	}
}

// CreateVehicle registers a vehicle with its seat layout (admin)
func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	var request validators.VehicleCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateVehicleCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	vehicle := &models.Vehicle{
		Name:               request.Name,
		RegistrationNumber: request.RegistrationNumber,
		Capacity:           request.Capacity,
		Amenities:          request.Amenities,
	}
	for _, seat := range request.Seats {
		vehicle.Seats = append(vehicle.Seats, models.SeatSpec{Label: seat.Label, FemaleOnly: seat.FemaleOnly})
	}

	created, err := h.fleetService.CreateVehicle(c.Request.Context(), vehicle)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Vehicle created successfully", created)
}

// GetVehicle returns a single vehicle
func (h *FleetHandler) GetVehicle(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	vehicle, err := h.fleetService.GetVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle retrieved successfully", vehicle)
}

// UpdateVehicleStatus changes a vehicle's operational status (admin)
func (h *FleetHandler) UpdateVehicleStatus(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request validators.VehicleStatusUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	vehicle, err := h.fleetService.UpdateVehicleStatus(c.Request.Context(), vehicleID, models.VehicleStatus(request.Status))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle status updated successfully", vehicle)
}

// ListVehicles returns the fleet, paginated (admin)
func (h *FleetHandler) ListVehicles(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	vehicles, total, err := h.fleetService.ListVehicles(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Vehicles retrieved successfully", map[string]interface{}{
		"vehicles": vehicles,
	}, meta)
}

// CreateDriver registers a driver (admin)
func (h *FleetHandler) CreateDriver(c *gin.Context) {
	var request validators.DriverCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateDriverCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	driver, err := h.fleetService.CreateDriver(c.Request.Context(), &models.Driver{
		Name:          request.Name,
		Phone:         request.Phone,
		LicenseNumber: request.LicenseNumber,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Driver created successfully", driver)
}

// GetDriver returns a single driver with rating aggregates
func (h *FleetHandler) GetDriver(c *gin.Context) {
	driverID, ok := pathID(c, "id")
	if !ok {
		return
	}

	driver, err := h.fleetService.GetDriver(c.Request.Context(), driverID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver retrieved successfully", driver)
}

// ListDrivers returns all drivers, paginated (admin)
func (h *FleetHandler) ListDrivers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	drivers, total, err := h.fleetService.ListDrivers(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Drivers retrieved successfully", map[string]interface{}{
		"drivers": drivers,
	}, meta)
}
