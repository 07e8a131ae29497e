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

type tripRepository struct {
	collection *mongo.Collection
}

func NewTripRepository(db *mongo.Database) interfaces.TripRepository {
	return &tripRepository{
		collection: db.Collection("trips"),
	}
}

func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) error {
	trip.ID = primitive.NewObjectID()
	now := time.Now()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, trip)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	var trip models.Trip
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

func (r *tripRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *tripRepository) List(ctx context.Context, filter *interfaces.TripFilter, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	query := bson.M{}
	if filter != nil {
		if filter.Origin != "" {
			query["origin"] = filter.Origin
		}
		if filter.Destination != "" {
			query["destination"] = filter.Destination
		}
		if filter.Status != "" {
			query["status"] = filter.Status
		}
		if !filter.Date.IsZero() {
			dayStart := filter.Date.Truncate(24 * time.Hour)
			query["departure_time"] = bson.M{
				"$gte": dayStart,
				"$lt":  dayStart.Add(24 * time.Hour),
			}
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetFindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, 0, fmt.Errorf("failed to decode trips: %w", err)
	}
	return trips, total, nil
}

func (r *tripRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.TripStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update trip status: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrPreconditionFailed
	}
	return nil
}

func (r *tripRepository) SetRating(ctx context.Context, id primitive.ObjectID, summary *models.RatingSummary) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"num_reviews":    summary.NumReviews,
			"average_rating": summary.AverageRating,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to set trip rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}
