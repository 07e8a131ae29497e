package services

import (
	"context"
	"math"
	"sync"
	"time"

	"shuttlebook/internal/models"
	"shuttlebook/internal/repositories/interfaces"
	"shuttlebook/internal/utils"
	"shuttlebook/pkg/logger"
	"shuttlebook/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the service tests. They reproduce the
// store-level contracts the services rely on: the unique seat index on
// active bookings and the conditional status-pinned updates.

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	return &c
}

func (r *memBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	holds := booking.IsActive()
	if holds {
		for _, existing := range r.bookings {
			if !existing.HoldsSeats || existing.TripID != booking.TripID {
				continue
			}
			for _, taken := range existing.Seats {
				for _, seat := range booking.Seats {
					if seat == taken {
						return interfaces.ErrSeatConflict
					}
				}
			}
		}
	}

	booking.ID = primitive.NewObjectID()
	booking.HoldsSeats = holds
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	r.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *memBookingRepo) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, cloneBooking(b))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) GetByTrip(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Booking
	for _, b := range r.bookings {
		if b.TripID == tripID {
			out = append(out, cloneBooking(b))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) GetSeatHolders(ctx context.Context, tripID primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Booking
	for _, b := range r.bookings {
		if b.TripID == tripID && b.HoldsSeats {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *memBookingRepo) Cancel(ctx context.Context, id, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.UserID != userID {
		return interfaces.ErrPreconditionFailed
	}
	if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
		return interfaces.ErrPreconditionFailed
	}

	now := time.Now()
	b.Status = models.BookingStatusCancelled
	b.HoldsSeats = false
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

func (r *memBookingRepo) MarkPaymentSuccess(ctx context.Context, id primitive.ObjectID, paymentID string, confirm bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.PaymentStatus != models.PaymentStatusPending {
		return interfaces.ErrPreconditionFailed
	}
	if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
		return interfaces.ErrPreconditionFailed
	}

	b.PaymentStatus = models.PaymentStatusSuccess
	b.PaymentID = paymentID
	if confirm {
		b.Status = models.BookingStatusConfirmed
	}
	b.UpdatedAt = time.Now()
	return nil
}

func (r *memBookingRepo) Assign(ctx context.Context, id primitive.ObjectID, vehicleID, driverID *primitive.ObjectID, confirm bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return interfaces.ErrPreconditionFailed
	}
	if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
		return interfaces.ErrPreconditionFailed
	}

	if vehicleID != nil {
		b.AssignedVehicleID = vehicleID
	}
	if driverID != nil {
		b.AssignedDriverID = driverID
	}
	if confirm {
		b.Status = models.BookingStatusConfirmed
	}
	b.UpdatedAt = time.Now()
	return nil
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return interfaces.ErrPreconditionFailed
	}
	allowed := false
	for _, f := range from {
		if b.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return interfaces.ErrPreconditionFailed
	}

	b.Status = to
	if to == models.BookingStatusCancelled {
		now := time.Now()
		b.HoldsSeats = false
		b.CancelledAt = &now
	}
	b.UpdatedAt = time.Now()
	return nil
}

// seed inserts a booking as-is, bypassing the seat conflict check. Used to
// arrange states CreateBooking never produces, such as pending bookings.
func (r *memBookingRepo) seed(booking *models.Booking) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	booking.HoldsSeats = booking.IsActive()
	r.bookings[booking.ID] = cloneBooking(booking)
	return booking.ID
}

type memTripRepo struct {
	mu    sync.Mutex
	trips map[primitive.ObjectID]*models.Trip
}

func newMemTripRepo() *memTripRepo {
	return &memTripRepo{trips: make(map[primitive.ObjectID]*models.Trip)}
}

func cloneTrip(t *models.Trip) *models.Trip {
	c := *t
	return &c
}

func (r *memTripRepo) Create(ctx context.Context, trip *models.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip.ID = primitive.NewObjectID()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	r.trips[trip.ID] = cloneTrip(trip)
	return nil
}

func (r *memTripRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *memTripRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "vehicle_id":
			v := value.(primitive.ObjectID)
			t.VehicleID = &v
		case "driver_id":
			v := value.(primitive.ObjectID)
			t.DriverID = &v
		case "status":
			t.Status = value.(models.TripStatus)
		case "fare":
			t.Fare = value.(float64)
		}
	}
	t.UpdatedAt = time.Now()
	return nil
}

func (r *memTripRepo) List(ctx context.Context, filter *interfaces.TripFilter, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Trip
	for _, t := range r.trips {
		if filter != nil {
			if filter.Origin != "" && t.Origin != filter.Origin {
				continue
			}
			if filter.Destination != "" && t.Destination != filter.Destination {
				continue
			}
			if filter.Status != "" && t.Status != filter.Status {
				continue
			}
		}
		out = append(out, cloneTrip(t))
	}
	return out, int64(len(out)), nil
}

func (r *memTripRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.TripStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[id]
	if !ok || t.Status != from {
		return interfaces.ErrPreconditionFailed
	}
	t.Status = to
	t.UpdatedAt = time.Now()
	return nil
}

func (r *memTripRepo) SetRating(ctx context.Context, id primitive.ObjectID, summary *models.RatingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	t.NumReviews = summary.NumReviews
	t.AverageRating = summary.AverageRating
	return nil
}

type memVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func newMemVehicleRepo() *memVehicleRepo {
	return &memVehicleRepo{vehicles: make(map[primitive.ObjectID]*models.Vehicle)}
}

func (r *memVehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.vehicles {
		if v.RegistrationNumber == vehicle.RegistrationNumber {
			return interfaces.ErrDuplicate
		}
	}
	vehicle.ID = primitive.NewObjectID()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt
	c := *vehicle
	r.vehicles[vehicle.ID] = &c
	return nil
}

func (r *memVehicleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	c := *v
	return &c, nil
}

func (r *memVehicleRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if status, ok := updates["status"]; ok {
		v.Status = status.(models.VehicleStatus)
	}
	v.UpdatedAt = time.Now()
	return nil
}

func (r *memVehicleRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Vehicle
	for _, v := range r.vehicles {
		c := *v
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

type memDriverRepo struct {
	mu      sync.Mutex
	drivers map[primitive.ObjectID]*models.Driver
}

func newMemDriverRepo() *memDriverRepo {
	return &memDriverRepo{drivers: make(map[primitive.ObjectID]*models.Driver)}
}

func (r *memDriverRepo) Create(ctx context.Context, driver *models.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.drivers {
		if d.Phone == driver.Phone {
			return interfaces.ErrDuplicate
		}
	}
	driver.ID = primitive.NewObjectID()
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = driver.CreatedAt
	c := *driver
	r.drivers[driver.ID] = &c
	return nil
}

func (r *memDriverRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drivers[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	c := *d
	return &c, nil
}

func (r *memDriverRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drivers[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if status, ok := updates["status"]; ok {
		d.Status = status.(models.DriverStatus)
	}
	d.UpdatedAt = time.Now()
	return nil
}

func (r *memDriverRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Driver
	for _, d := range r.drivers {
		c := *d
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

func (r *memDriverRepo) SetRating(ctx context.Context, id primitive.ObjectID, summary *models.RatingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drivers[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	d.NumReviews = summary.NumReviews
	d.AverageRating = summary.AverageRating
	return nil
}

type memReviewRepo struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]*models.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[primitive.ObjectID]*models.Review)}
}

func (r *memReviewRepo) Create(ctx context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reviews {
		if existing.BookingID == review.BookingID && existing.UserID == review.UserID {
			return interfaces.ErrDuplicate
		}
	}
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	c := *review
	r.reviews[review.ID] = &c
	return nil
}

func (r *memReviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, ok := r.reviews[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	c := *rev
	return &c, nil
}

func (r *memReviewRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *memReviewRepo) ListByTrip(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Review
	for _, rev := range r.reviews {
		if rev.TripID == tripID {
			c := *rev
			out = append(out, &c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memReviewRepo) ListByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Review
	for _, rev := range r.reviews {
		if rev.DriverID != nil && *rev.DriverID == driverID {
			c := *rev
			out = append(out, &c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memReviewRepo) Aggregate(ctx context.Context, entity models.RatingEntity, id primitive.ObjectID) (*models.RatingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int
	var sum float64
	for _, rev := range r.reviews {
		switch entity {
		case models.RatingEntityTrip:
			if rev.TripID != id {
				continue
			}
		case models.RatingEntityDriver:
			if rev.DriverID == nil || *rev.DriverID != id {
				continue
			}
		}
		count++
		sum += rev.Rating
	}

	summary := &models.RatingSummary{}
	if count > 0 {
		summary.NumReviews = count
		summary.AverageRating = math.Round(sum/float64(count)*10) / 10
	}
	return summary, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Phone == user.Phone {
			return interfaces.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *memUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Phone == phone {
			c := *u
			return &c, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

// testEnv wires the services over the in-memory repositories with a real
// signature gateway and a no-op logger.
type testEnv struct {
	bookings *memBookingRepo
	trips    *memTripRepo
	vehicles *memVehicleRepo
	drivers  *memDriverRepo
	reviews  *memReviewRepo
	users    *memUserRepo
	gateway  *payment.Gateway

	bookingSvc BookingService
	paymentSvc PaymentService
	reviewSvc  ReviewService
	tripSvc    TripService
	fleetSvc   FleetService
	userSvc    UserService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookings: newMemBookingRepo(),
		trips:    newMemTripRepo(),
		vehicles: newMemVehicleRepo(),
		drivers:  newMemDriverRepo(),
		reviews:  newMemReviewRepo(),
		users:    newMemUserRepo(),
		gateway:  payment.NewGateway("rzp_test_key", "test-secret"),
	}

	log := logger.NewNop()
	env.bookingSvc = NewBookingService(env.bookings, env.trips, env.vehicles, env.drivers, env.gateway, nil, log)
	env.paymentSvc = NewPaymentService(env.bookings, env.gateway, "INR", log)
	env.reviewSvc = NewReviewService(env.reviews, env.bookings, env.trips, env.drivers, log)
	env.tripSvc = NewTripService(env.trips, env.bookings, env.vehicles, env.drivers, nil, log)
	env.fleetSvc = NewFleetService(env.vehicles, env.drivers, log)
	env.userSvc = NewUserService(env.users, "test-jwt-secret", log)
	return env
}

// addShuttle registers a six seat vehicle (S1 is female-only), a driver and
// a scheduled trip using them, and returns the trip. Unique suffixes come
// from the ObjectID counter bytes; the leading bytes are a timestamp and
// collide within a second.
func (env *testEnv) addShuttle(ctx context.Context) *models.Trip {
	vehicle := &models.Vehicle{
		Name:               "Shuttle 1",
		RegistrationNumber: "KA01AB" + primitive.NewObjectID().Hex()[18:],
		Capacity:           6,
		Seats: []models.SeatSpec{
			{Label: "S1", FemaleOnly: true},
			{Label: "S2"}, {Label: "S3"}, {Label: "S4"}, {Label: "S5"}, {Label: "S6"},
		},
		Status: models.VehicleStatusActive,
	}
	if err := env.vehicles.Create(ctx, vehicle); err != nil {
		panic(err)
	}

	driver := &models.Driver{
		Name:          "R. Kumar",
		Phone:         "+91" + primitive.NewObjectID().Hex()[14:],
		LicenseNumber: "DL-" + primitive.NewObjectID().Hex()[16:],
		Status:        models.DriverStatusActive,
	}
	if err := env.drivers.Create(ctx, driver); err != nil {
		panic(err)
	}

	trip := &models.Trip{
		Origin:        "Bengaluru",
		Destination:   "Mysuru",
		DepartureTime: time.Now().Add(24 * time.Hour),
		ArrivalTime:   time.Now().Add(27 * time.Hour),
		VehicleID:     &vehicle.ID,
		DriverID:      &driver.ID,
		Fare:          450,
		Status:        models.TripStatusScheduled,
	}
	if err := env.trips.Create(ctx, trip); err != nil {
		panic(err)
	}
	return trip
}

// cashBooking builds a valid cash booking request for the given seats with
// male passengers.
func cashBooking(tripID primitive.ObjectID, seats ...string) *CreateBookingInput {
	passengers := make([]models.Passenger, 0, len(seats))
	for _, seat := range seats {
		passengers = append(passengers, models.Passenger{
			Name:      "Passenger " + seat,
			Age:       30,
			Gender:    models.GenderMale,
			SeatLabel: seat,
		})
	}
	return &CreateBookingInput{
		TripID:        tripID,
		Seats:         seats,
		Passengers:    passengers,
		Contact:       models.ContactDetails{Phone: "+919900000000"},
		Fare:          450 * float64(len(seats)),
		PaymentMethod: models.PaymentMethodCash,
	}
}
