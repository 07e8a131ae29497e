package interfaces

import (
	"context"

	"shuttlebook/internal/models"
	"shuttlebook/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewRepository interface {
	// Create inserts a review; the unique index on (booking_id, user_id)
	// surfaces a second review for the same booking as ErrDuplicate.
	Create(ctx context.Context, review *models.Review) error

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByTrip(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	ListByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)

	// Aggregate computes count and mean rating over all reviews currently
	// referencing the entity, as one consistent snapshot.
	Aggregate(ctx context.Context, entity models.RatingEntity, id primitive.ObjectID) (*models.RatingSummary, error)
}
