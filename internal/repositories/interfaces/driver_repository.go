package interfaces

import (
	"context"

	"shuttlebook/internal/models"
	"shuttlebook/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error)

	// SetRating overwrites the derived aggregate fields with a freshly
	// computed snapshot.
	SetRating(ctx context.Context, id primitive.ObjectID, summary *models.RatingSummary) error
}
