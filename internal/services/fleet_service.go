package services

import (
	"context"
	"errors"

	"shuttlebook/internal/models"
	"shuttlebook/internal/repositories/interfaces"
	"shuttlebook/internal/utils"
	"shuttlebook/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FleetService is the administrative surface for vehicles and drivers.
type FleetService interface {
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	UpdateVehicleStatus(ctx context.Context, id primitive.ObjectID, status models.VehicleStatus) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, params *utils.PaginationParams) ([]*models.Vehicle, int64, error)

	CreateDriver(ctx context.Context, driver *models.Driver) (*models.Driver, error)
	GetDriver(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	ListDrivers(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error)
}

type fleetService struct {
	vehicleRepo interfaces.VehicleRepository
	driverRepo  interfaces.DriverRepository
	log         *logger.Logger
}

func NewFleetService(vehicleRepo interfaces.VehicleRepository, driverRepo interfaces.DriverRepository, log *logger.Logger) FleetService {
	return &fleetService{
		vehicleRepo: vehicleRepo,
		driverRepo:  driverRepo,
		log:         log,
	}
}

func (s *fleetService) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if vehicle.Name == "" || vehicle.RegistrationNumber == "" {
		return nil, NewInvalidInput("MISSING_VEHICLE_FIELDS", "name and registration number are required")
	}
	if vehicle.Capacity < 1 {
		return nil, NewInvalidInput("INVALID_CAPACITY", "capacity must be at least 1")
	}
	// The seat chart is what the booking uniqueness index keys on; a
	// vehicle without one has no bookable seats, so the full layout is
	// required up front.
	if len(vehicle.Seats) != vehicle.Capacity {
		return nil, NewInvalidInput("INVALID_LAYOUT", "seat layout size must equal capacity")
	}
	seen := make(map[string]bool, len(vehicle.Seats))
	for _, seat := range vehicle.Seats {
		if seat.Label == "" || seen[seat.Label] {
			return nil, NewInvalidInput("INVALID_LAYOUT", "seat labels must be unique and non-empty")
		}
		seen[seat.Label] = true
	}
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusActive
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, &Error{Kind: KindConflict, Code: "VEHICLE_EXISTS", Message: "registration number already in use"}
		}
		return nil, NewInternal(err)
	}

	s.log.WithField("vehicle_id", vehicle.ID.Hex()).Info("vehicle created")
	return vehicle, nil
}

func (s *fleetService) GetVehicle(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, NewInternal(err)
	}
	return vehicle, nil
}

func (s *fleetService) UpdateVehicleStatus(ctx context.Context, id primitive.ObjectID, status models.VehicleStatus) (*models.Vehicle, error) {
	switch status {
	case models.VehicleStatusActive, models.VehicleStatusInactive, models.VehicleStatusMaintenance:
	default:
		return nil, NewInvalidInput("INVALID_STATUS", "unknown vehicle status")
	}

	if err := s.vehicleRepo.Update(ctx, id, map[string]interface{}{"status": status}); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, NewInternal(err)
	}

	return s.GetVehicle(ctx, id)
}

func (s *fleetService) ListVehicles(ctx context.Context, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	vehicles, total, err := s.vehicleRepo.List(ctx, params)
	if err != nil {
		return nil, 0, NewInternal(err)
	}
	return vehicles, total, nil
}

func (s *fleetService) CreateDriver(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	if driver.Name == "" || driver.Phone == "" || driver.LicenseNumber == "" {
		return nil, NewInvalidInput("MISSING_DRIVER_FIELDS", "name, phone and license number are required")
	}
	if driver.Status == "" {
		driver.Status = models.DriverStatusActive
	}
	driver.NumReviews = 0
	driver.AverageRating = 0

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, &Error{Kind: KindConflict, Code: "DRIVER_EXISTS", Message: "phone number already in use"}
		}
		return nil, NewInternal(err)
	}

	s.log.WithField("driver_id", driver.ID.Hex()).Info("driver created")
	return driver, nil
}

func (s *fleetService) GetDriver(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, NewInternal(err)
	}
	return driver, nil
}

func (s *fleetService) ListDrivers(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	drivers, total, err := s.driverRepo.List(ctx, params)
	if err != nil {
		return nil, 0, NewInternal(err)
	}
	return drivers, total, nil
}
