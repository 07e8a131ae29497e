package mongodb

import (
	"context"
	"fmt"
	"math"
	"time"

	"shuttlebook/internal/models"
	"shuttlebook/internal/repositories/interfaces"
	"shuttlebook/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type reviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) interfaces.ReviewRepository {
	return &reviewRepository{
		collection: db.Collection("reviews"),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrDuplicate
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *reviewRepository) ListByTrip(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	return r.find(ctx, bson.M{"trip_id": tripID}, params)
}

func (r *reviewRepository) ListByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	return r.find(ctx, bson.M{"driver_id": driverID}, params)
}

// Aggregate reads count and mean in a single aggregation so the stored
// summary always reflects one consistent snapshot of the collection.
func (r *reviewRepository) Aggregate(ctx context.Context, entity models.RatingEntity, id primitive.ObjectID) (*models.RatingSummary, error) {
	field := "trip_id"
	if entity == models.RatingEntityDriver {
		field = "driver_id"
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{field: id}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"rating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Count  int     `bson:"count"`
		Rating float64 `bson:"rating"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode review aggregate: %w", err)
	}

	if len(results) == 0 {
		return &models.RatingSummary{}, nil
	}

	return &models.RatingSummary{
		NumReviews:    results[0].Count,
		AverageRating: math.Round(results[0].Rating*10) / 10,
	}, nil
}

func (r *reviewRepository) find(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetFindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, total, nil
}
