package services

import (
	"context"
	"errors"

	"shuttlebook/internal/models"
	"shuttlebook/internal/repositories/interfaces"
	"shuttlebook/internal/utils"
	"shuttlebook/pkg/cache"
	"shuttlebook/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripService interface {
	CreateTrip(ctx context.Context, trip *models.Trip) (*models.Trip, error)
	GetTrip(ctx context.Context, id primitive.ObjectID) (*models.Trip, error)
	ListTrips(ctx context.Context, filter *interfaces.TripFilter, params *utils.PaginationParams) ([]*models.Trip, int64, error)

	// UpdateTripStatus applies a guarded lifecycle transition and
	// propagates it to the trip's bookings (active -> ongoing,
	// completed -> completed, cancelled -> cancelled).
	UpdateTripStatus(ctx context.Context, id primitive.ObjectID, to models.TripStatus) (*models.Trip, error)

	// AssignTripResources sets the vehicle/driver while the trip has not
	// yet departed.
	AssignTripResources(ctx context.Context, id primitive.ObjectID, vehicleID, driverID *primitive.ObjectID) (*models.Trip, error)
}

type tripService struct {
	tripRepo    interfaces.TripRepository
	bookingRepo interfaces.BookingRepository
	vehicleRepo interfaces.VehicleRepository
	driverRepo  interfaces.DriverRepository
	cache       *cache.RedisCache
	log         *logger.Logger
}

func NewTripService(
	tripRepo interfaces.TripRepository,
	bookingRepo interfaces.BookingRepository,
	vehicleRepo interfaces.VehicleRepository,
	driverRepo interfaces.DriverRepository,
	cacheClient *cache.RedisCache,
	log *logger.Logger,
) TripService {
	return &tripService{
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		driverRepo:  driverRepo,
		cache:       cacheClient,
		log:         log,
	}
}

func (s *tripService) CreateTrip(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	if trip.Origin == "" || trip.Destination == "" {
		return nil, NewInvalidInput("MISSING_ROUTE", "origin and destination are required")
	}
	if trip.DepartureTime.IsZero() || trip.ArrivalTime.IsZero() || !trip.ArrivalTime.After(trip.DepartureTime) {
		return nil, NewInvalidInput("INVALID_SCHEDULE", "arrival must be after departure")
	}
	if trip.Fare < 0 {
		return nil, NewInvalidInput("INVALID_FARE", "fare must be non-negative")
	}

	if trip.VehicleID != nil {
		vehicle, err := s.vehicleRepo.GetByID(ctx, *trip.VehicleID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, ErrVehicleNotFound
			}
			return nil, NewInternal(err)
		}
		if !vehicle.Usable() {
			return nil, ErrVehicleUnavailable
		}
	}
	if trip.DriverID != nil {
		if _, err := s.driverRepo.GetByID(ctx, *trip.DriverID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, ErrDriverNotFound
			}
			return nil, NewInternal(err)
		}
	}

	trip.Status = models.TripStatusScheduled
	trip.NumReviews = 0
	trip.AverageRating = 0

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, NewInternal(err)
	}

	s.log.WithFields(map[string]interface{}{
		"trip_id":     trip.ID.Hex(),
		"origin":      trip.Origin,
		"destination": trip.Destination,
	}).Info("trip created")

	return trip, nil
}

func (s *tripService) GetTrip(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, NewInternal(err)
	}
	return trip, nil
}

func (s *tripService) ListTrips(ctx context.Context, filter *interfaces.TripFilter, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	trips, total, err := s.tripRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, NewInternal(err)
	}
	return trips, total, nil
}

func (s *tripService) UpdateTripStatus(ctx context.Context, id primitive.ObjectID, to models.TripStatus) (*models.Trip, error) {
	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionTrip(trip.Status, to) {
		return nil, ErrInvalidTransition
	}

	// Pin the current status so concurrent transitions conflict instead
	// of overwriting each other.
	if err := s.tripRepo.UpdateStatus(ctx, id, trip.Status, to); err != nil {
		if errors.Is(err, interfaces.ErrPreconditionFailed) {
			return nil, ErrTripConflict
		}
		return nil, NewInternal(err)
	}

	s.propagateToBookings(ctx, id, to)

	if s.cache != nil {
		if err := s.cache.Delete(ctx, availabilityCacheKey(id)); err != nil {
			s.log.WithError(err).WithField("trip_id", id.Hex()).Warn("failed to invalidate availability cache")
		}
	}

	return s.GetTrip(ctx, id)
}

// propagateToBookings carries a trip lifecycle change onto the trip's
// bookings. Individual failures are logged; they do not abort the trip
// transition, and the conditional per-booking updates never regress a
// booking that has already moved on.
func (s *tripService) propagateToBookings(ctx context.Context, tripID primitive.ObjectID, to models.TripStatus) {
	var from []models.BookingStatus
	var target models.BookingStatus

	switch to {
	case models.TripStatusActive:
		from = []models.BookingStatus{models.BookingStatusConfirmed}
		target = models.BookingStatusOngoing
	case models.TripStatusCompleted:
		from = []models.BookingStatus{models.BookingStatusOngoing}
		target = models.BookingStatusCompleted
	case models.TripStatusCancelled:
		from = []models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}
		target = models.BookingStatusCancelled
	default:
		return
	}

	// Seat holders cover every booking that can still transition; anything
	// cancelled or payment-failed has nothing left to propagate.
	bookings, err := s.bookingRepo.GetSeatHolders(ctx, tripID)
	if err != nil {
		s.log.WithError(err).WithField("trip_id", tripID.Hex()).Error("failed to load bookings for trip transition")
		return
	}

	for _, b := range bookings {
		if err := s.bookingRepo.UpdateStatus(ctx, b.ID, from, target); err != nil {
			if errors.Is(err, interfaces.ErrPreconditionFailed) {
				continue
			}
			s.log.WithError(err).WithFields(map[string]interface{}{
				"booking_id": b.ID.Hex(),
				"trip_id":    tripID.Hex(),
			}).Error("failed to propagate trip transition to booking")
		}
	}
}

func (s *tripService) AssignTripResources(ctx context.Context, id primitive.ObjectID, vehicleID, driverID *primitive.ObjectID) (*models.Trip, error) {
	if vehicleID == nil && driverID == nil {
		return nil, NewInvalidInput("EMPTY_ASSIGNMENT", "assignment requires a vehicle or a driver")
	}

	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip.Status != models.TripStatusScheduled && trip.Status != models.TripStatusDelayed {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{}
	if vehicleID != nil {
		vehicle, err := s.vehicleRepo.GetByID(ctx, *vehicleID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, ErrVehicleNotFound
			}
			return nil, NewInternal(err)
		}
		if !vehicle.Usable() {
			return nil, ErrVehicleUnavailable
		}
		updates["vehicle_id"] = *vehicleID
	}
	if driverID != nil {
		if _, err := s.driverRepo.GetByID(ctx, *driverID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, ErrDriverNotFound
			}
			return nil, NewInternal(err)
		}
		updates["driver_id"] = *driverID
	}

	if err := s.tripRepo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, NewInternal(err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, availabilityCacheKey(id)); err != nil {
			s.log.WithError(err).WithField("trip_id", id.Hex()).Warn("failed to invalidate availability cache")
		}
	}

	return s.GetTrip(ctx, id)
}
