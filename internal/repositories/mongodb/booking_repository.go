package mongodb

import (
	"context"
	"fmt"
	"time"

	"shuttlebook/internal/models"
	"shuttlebook/internal/repositories/interfaces"
	"shuttlebook/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.HoldsSeats = booking.IsActive()

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		// The partial unique index over (trip_id, seats) rejects any
		// insert claiming a seat some other seat-holding booking already
		// has. This is the commit-time atomicity of the reservation.
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrSeatConflict
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.find(ctx, bson.M{"user_id": userID}, params)
}

func (r *bookingRepository) GetByTrip(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.find(ctx, bson.M{"trip_id": tripID}, params)
}

func (r *bookingRepository) GetSeatHolders(ctx context.Context, tripID primitive.ObjectID) ([]*models.Booking, error) {
	// holds_seats is the same predicate the uniqueness index filters on,
	// so availability and the index can never disagree about a seat.
	filter := bson.M{
		"trip_id":     tripID,
		"holds_seats": true,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query seat holders: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode seat holders: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id, userID primitive.ObjectID) error {
	now := time.Now()
	filter := bson.M{
		"_id":     id,
		"user_id": userID,
		"status": bson.M{"$in": []models.BookingStatus{
			models.BookingStatusPending,
			models.BookingStatusConfirmed,
		}},
	}
	update := bson.M{"$set": bson.M{
		"status":       models.BookingStatusCancelled,
		"holds_seats":  false,
		"cancelled_at": now,
		"updated_at":   now,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrPreconditionFailed
	}
	return nil
}

func (r *bookingRepository) MarkPaymentSuccess(ctx context.Context, id primitive.ObjectID, paymentID string, confirm bool) error {
	filter := bson.M{
		"_id":            id,
		"payment_status": models.PaymentStatusPending,
		"status": bson.M{"$in": []models.BookingStatus{
			models.BookingStatusPending,
			models.BookingStatusConfirmed,
		}},
	}
	set := bson.M{
		"payment_status": models.PaymentStatusSuccess,
		"payment_id":     paymentID,
		"updated_at":     time.Now(),
	}
	if confirm {
		set["status"] = models.BookingStatusConfirmed
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrPreconditionFailed
	}
	return nil
}

func (r *bookingRepository) Assign(ctx context.Context, id primitive.ObjectID, vehicleID, driverID *primitive.ObjectID, confirm bool) error {
	filter := bson.M{
		"_id": id,
		"status": bson.M{"$in": []models.BookingStatus{
			models.BookingStatusPending,
			models.BookingStatusConfirmed,
		}},
	}
	set := bson.M{"updated_at": time.Now()}
	if vehicleID != nil {
		set["assigned_vehicle_id"] = *vehicleID
	}
	if driverID != nil {
		set["assigned_driver_id"] = *driverID
	}
	if confirm {
		set["status"] = models.BookingStatusConfirmed
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to assign booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrPreconditionFailed
	}
	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus) error {
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	set := bson.M{"status": to, "updated_at": time.Now()}
	if to == models.BookingStatusCancelled {
		set["holds_seats"] = false
		set["cancelled_at"] = time.Now()
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrPreconditionFailed
	}
	return nil
}

func (r *bookingRepository) find(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetFindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}
