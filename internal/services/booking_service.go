package services

import (
	"context"
	"errors"
	"fmt"

	"shuttlebook/internal/models"
	"shuttlebook/internal/repositories/interfaces"
	"shuttlebook/internal/utils"
	"shuttlebook/pkg/cache"
	"shuttlebook/pkg/logger"
	"shuttlebook/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OccupiedSeat is one currently held seat. FemaleOnly is set when a female
// passenger holds the seat or the vehicle layout restricts it statically.
type OccupiedSeat struct {
	Label      string `json:"label"`
	FemaleOnly bool   `json:"female_only"`
}

// SeatAvailability is the derived free-seat view of a trip. It is computed
// from the non-cancelled, non-failed bookings on every call; nothing about
// seat occupancy is stored independently.
type SeatAvailability struct {
	TripID          primitive.ObjectID `json:"trip_id"`
	Capacity        int                `json:"capacity"`
	OccupiedSeats   []OccupiedSeat     `json:"occupied_seats"`
	FemaleOnlySeats []string           `json:"female_only_seats"`
	AvailableSeats  int                `json:"available_seats"`
}

type CreateBookingInput struct {
	TripID          primitive.ObjectID       `json:"trip_id"`
	Seats           []string                 `json:"seats"`
	Passengers      []models.Passenger       `json:"passengers"`
	Contact         models.ContactDetails    `json:"contact"`
	BoardingPoint   string                   `json:"boarding_point"`
	DeboardingPoint string                   `json:"deboarding_point"`
	Fare            float64                  `json:"fare"`
	PaymentMethod   models.PaymentMethod     `json:"payment_method"`
	Payment         *models.PaymentAssertion `json:"payment,omitempty"`
}

type BookingService interface {
	GetSeatAvailability(ctx context.Context, tripID primitive.ObjectID) (*SeatAvailability, error)
	CreateBooking(ctx context.Context, userID primitive.ObjectID, input *CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id, userID primitive.ObjectID) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	CancelBooking(ctx context.Context, id, userID primitive.ObjectID) (*models.Booking, error)

	// AssignBooking is the administrative vehicle/driver assignment. A
	// pending booking is confirmed as a side effect of assignment.
	AssignBooking(ctx context.Context, id primitive.ObjectID, vehicleID, driverID *primitive.ObjectID) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo interfaces.BookingRepository
	tripRepo    interfaces.TripRepository
	vehicleRepo interfaces.VehicleRepository
	driverRepo  interfaces.DriverRepository
	gateway     *payment.Gateway
	cache       *cache.RedisCache
	log         *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	tripRepo interfaces.TripRepository,
	vehicleRepo interfaces.VehicleRepository,
	driverRepo interfaces.DriverRepository,
	gateway *payment.Gateway,
	cacheClient *cache.RedisCache,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		vehicleRepo: vehicleRepo,
		driverRepo:  driverRepo,
		gateway:     gateway,
		cache:       cacheClient,
		log:         log,
	}
}

func availabilityCacheKey(tripID primitive.ObjectID) string {
	return "availability:" + tripID.Hex()
}

func (s *bookingService) GetSeatAvailability(ctx context.Context, tripID primitive.ObjectID) (*SeatAvailability, error) {
	if s.cache != nil {
		var cached SeatAvailability
		if err := s.cache.Get(ctx, availabilityCacheKey(tripID), &cached); err == nil {
			return &cached, nil
		}
	}

	availability, err := s.computeAvailability(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, availabilityCacheKey(tripID), availability, utils.AvailabilityCacheTTL); err != nil {
			s.log.WithError(err).WithField("trip_id", tripID.Hex()).Warn("failed to cache seat availability")
		}
	}

	return availability, nil
}

// computeAvailability derives the occupancy view from the trip's bookings.
// Seat labels are folded into a set: even if a pre-commit race ever left
// two bookings claiming one seat, the seat counts once.
func (s *bookingService) computeAvailability(ctx context.Context, tripID primitive.ObjectID) (*SeatAvailability, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, NewInternal(err)
	}

	availability := &SeatAvailability{
		TripID:          tripID,
		OccupiedSeats:   []OccupiedSeat{},
		FemaleOnlySeats: []string{},
	}

	// A trip without a usable vehicle simply has nothing to sell.
	if trip.VehicleID == nil {
		return availability, nil
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, *trip.VehicleID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return availability, nil
		}
		return nil, NewInternal(err)
	}
	if !vehicle.Usable() {
		return availability, nil
	}
	// No seat chart means no bookable seats; mirrors the booking guard.
	if len(vehicle.Seats) == 0 {
		return availability, nil
	}

	holders, err := s.bookingRepo.GetSeatHolders(ctx, tripID)
	if err != nil {
		return nil, NewInternal(err)
	}

	occupied := make(map[string]bool)
	femaleHeld := make(map[string]bool)
	for _, b := range holders {
		for _, seat := range b.Seats {
			occupied[seat] = true
		}
		for _, p := range b.Passengers {
			if p.Gender == models.GenderFemale {
				femaleHeld[p.SeatLabel] = true
			}
		}
	}

	policy := vehicle.FemaleOnlySeats()
	for label := range policy {
		availability.FemaleOnlySeats = append(availability.FemaleOnlySeats, label)
	}

	for label := range occupied {
		availability.OccupiedSeats = append(availability.OccupiedSeats, OccupiedSeat{
			Label:      label,
			FemaleOnly: femaleHeld[label] || policy[label],
		})
	}

	availability.Capacity = vehicle.Capacity
	availability.AvailableSeats = vehicle.Capacity - len(occupied)
	if availability.AvailableSeats < 0 {
		availability.AvailableSeats = 0
	}

	return availability, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, userID primitive.ObjectID, input *CreateBookingInput) (*models.Booking, error) {
	if err := validateBookingInput(input); err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetByID(ctx, input.TripID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, NewInternal(err)
	}
	if !trip.Bookable() {
		return nil, ErrTripNotBookable
	}
	if trip.VehicleID == nil {
		return nil, ErrVehicleUnavailable
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, *trip.VehicleID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrVehicleUnavailable
		}
		return nil, NewInternal(err)
	}
	if !vehicle.Usable() {
		return nil, ErrVehicleUnavailable
	}

	if err := validateSeatsAgainstVehicle(input, vehicle); err != nil {
		return nil, err
	}

	// Online payments are verified before anything is written, so a forged
	// assertion never reaches the store.
	if input.PaymentMethod == models.PaymentMethodOnline {
		if !s.gateway.VerifySignature(input.Payment.OrderID, input.Payment.PaymentID, input.Payment.Signature) {
			return nil, ErrInvalidSignature
		}
	}

	// Commit-time recheck. Occupancy is recomputed here, never taken from
	// the availability cache; the insert below is conditioned on the seat
	// uniqueness index, so a racing committer that wins between this check
	// and our write surfaces as a seat conflict, not a double booking.
	availability, err := s.computeAvailability(ctx, input.TripID)
	if err != nil {
		return nil, err
	}
	if len(input.Seats) > availability.AvailableSeats {
		return nil, ErrInsufficientSeats
	}
	occupied := make(map[string]bool, len(availability.OccupiedSeats))
	for _, seat := range availability.OccupiedSeats {
		occupied[seat.Label] = true
	}
	for _, label := range input.Seats {
		if occupied[label] {
			return nil, ErrSeatTaken
		}
	}

	booking := &models.Booking{
		UserID:          userID,
		TripID:          input.TripID,
		Seats:           input.Seats,
		Passengers:      input.Passengers,
		Contact:         input.Contact,
		BoardingPoint:   input.BoardingPoint,
		DeboardingPoint: input.DeboardingPoint,
		Fare:            input.Fare,
		PaymentMethod:   input.PaymentMethod,
		Status:          models.BookingStatusConfirmed,
	}
	switch input.PaymentMethod {
	case models.PaymentMethodOnline:
		booking.PaymentStatus = models.PaymentStatusSuccess
		booking.PaymentID = input.Payment.PaymentID
		booking.OrderID = input.Payment.OrderID
	case models.PaymentMethodCash:
		// Cash bookings commit inventory immediately and stay
		// payment-pending until collection.
		booking.PaymentStatus = models.PaymentStatusPending
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, interfaces.ErrSeatConflict) {
			return nil, ErrSeatTaken
		}
		return nil, NewInternal(err)
	}

	s.invalidateAvailability(ctx, input.TripID)
	s.log.WithFields(map[string]interface{}{
		"booking_id": booking.ID.Hex(),
		"trip_id":    input.TripID.Hex(),
		"seats":      booking.Seats,
		"method":     booking.PaymentMethod,
	}).Info("booking created")

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id, userID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, NewInternal(err)
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	bookings, total, err := s.bookingRepo.GetByUser(ctx, userID, params)
	if err != nil {
		return nil, 0, NewInternal(err)
	}
	return bookings, total, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id, userID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, NewInternal(err)
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	if !booking.Cancellable() {
		return nil, ErrNotCancellable
	}

	// Conditional update: the status precondition is re-checked by the
	// store, so losing a race against a completed/concurrent cancel is
	// reported, never silently absorbed.
	if err := s.bookingRepo.Cancel(ctx, id, userID); err != nil {
		if errors.Is(err, interfaces.ErrPreconditionFailed) {
			return nil, ErrNotCancellable
		}
		return nil, NewInternal(err)
	}

	s.invalidateAvailability(ctx, booking.TripID)
	s.log.WithFields(map[string]interface{}{
		"booking_id": id.Hex(),
		"trip_id":    booking.TripID.Hex(),
	}).Info("booking cancelled")

	return s.reload(ctx, id)
}

// promoteOnAssign names the implicit transition bundled into assignment:
// assigning a vehicle or driver to a pending booking confirms it.
// Precondition: status is pending or confirmed. Postcondition: status is
// confirmed.
func promoteOnAssign(status models.BookingStatus) bool {
	return status == models.BookingStatusPending
}

func (s *bookingService) AssignBooking(ctx context.Context, id primitive.ObjectID, vehicleID, driverID *primitive.ObjectID) (*models.Booking, error) {
	if vehicleID == nil && driverID == nil {
		return nil, NewInvalidInput("EMPTY_ASSIGNMENT", "assignment requires a vehicle or a driver")
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, NewInternal(err)
	}
	if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusConfirmed {
		return nil, ErrAssignmentNotAllowed
	}

	if vehicleID != nil {
		if _, err := s.vehicleRepo.GetByID(ctx, *vehicleID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, ErrVehicleNotFound
			}
			return nil, NewInternal(err)
		}
	}
	if driverID != nil {
		if _, err := s.driverRepo.GetByID(ctx, *driverID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, ErrDriverNotFound
			}
			return nil, NewInternal(err)
		}
	}

	err = s.bookingRepo.Assign(ctx, id, vehicleID, driverID, promoteOnAssign(booking.Status))
	if err != nil {
		// A cancel that landed between our read and this write.
		if errors.Is(err, interfaces.ErrPreconditionFailed) {
			return nil, ErrBookingConflict
		}
		return nil, NewInternal(err)
	}

	return s.reload(ctx, id)
}

func (s *bookingService) reload(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternal(err)
	}
	return booking, nil
}

func (s *bookingService) invalidateAvailability(ctx context.Context, tripID primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, availabilityCacheKey(tripID)); err != nil {
		s.log.WithError(err).WithField("trip_id", tripID.Hex()).Warn("failed to invalidate availability cache")
	}
}

func validateBookingInput(input *CreateBookingInput) error {
	if input == nil || input.TripID.IsZero() {
		return NewInvalidInput("MISSING_TRIP", "trip id is required")
	}
	if len(input.Seats) == 0 {
		return NewInvalidInput("MISSING_SEATS", "at least one seat is required")
	}
	if len(input.Seats) > utils.MaxSeatsPerBooking {
		return NewInvalidInput("TOO_MANY_SEATS", fmt.Sprintf("at most %d seats per booking", utils.MaxSeatsPerBooking))
	}
	if len(input.Passengers) != len(input.Seats) {
		return NewInvalidInput("PASSENGER_SEAT_MISMATCH", "passenger count must match seat count")
	}
	if input.Fare < 0 {
		return NewInvalidInput("INVALID_FARE", "fare must be non-negative")
	}

	seen := make(map[string]bool, len(input.Seats))
	for _, label := range input.Seats {
		if label == "" {
			return NewInvalidInput("INVALID_SEAT_LABEL", "seat labels must be non-empty")
		}
		if seen[label] {
			return NewInvalidInput("DUPLICATE_SEAT", "duplicate seat label "+label)
		}
		seen[label] = true
	}
	for _, p := range input.Passengers {
		if !seen[p.SeatLabel] {
			return NewInvalidInput("PASSENGER_SEAT_MISMATCH", "passenger seat "+p.SeatLabel+" is not among the requested seats")
		}
		if p.Gender != models.GenderMale && p.Gender != models.GenderFemale {
			return NewInvalidInput("INVALID_GENDER", "passenger gender must be male or female")
		}
	}

	switch input.PaymentMethod {
	case models.PaymentMethodOnline:
		if input.Payment == nil || input.Payment.OrderID == "" || input.Payment.PaymentID == "" || input.Payment.Signature == "" {
			return NewInvalidInput("MISSING_PAYMENT", "online bookings require a complete payment assertion")
		}
	case models.PaymentMethodCash:
	default:
		return NewInvalidInput("INVALID_PAYMENT_METHOD", "payment method must be online or cash")
	}

	return nil
}

func validateSeatsAgainstVehicle(input *CreateBookingInput, vehicle *models.Vehicle) error {
	if len(input.Seats) > vehicle.Capacity {
		return NewInvalidInput("TOO_MANY_SEATS", "requested seats exceed vehicle capacity")
	}

	// Every accepted label must come from the seat chart. Otherwise
	// fabricated labels would all be distinct under the uniqueness index
	// and the capacity bound would rest on the advisory recheck alone.
	if len(vehicle.Seats) == 0 {
		return ErrVehicleUnavailable
	}

	known := make(map[string]bool, len(vehicle.Seats))
	for _, s := range vehicle.Seats {
		known[s.Label] = true
	}
	for _, label := range input.Seats {
		if !known[label] {
			return NewInvalidInput("UNKNOWN_SEAT", "seat "+label+" does not exist on this vehicle")
		}
	}

	policy := vehicle.FemaleOnlySeats()
	for _, p := range input.Passengers {
		if policy[p.SeatLabel] && p.Gender != models.GenderFemale {
			return NewInvalidInput("SEAT_RESTRICTED", "seat "+p.SeatLabel+" is reserved for female passengers")
		}
	}

	return nil
}
