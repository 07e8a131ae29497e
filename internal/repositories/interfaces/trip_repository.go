package interfaces

import (
	"context"
	"time"

	"shuttlebook/internal/models"
	"shuttlebook/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripFilter narrows trip listings. Zero values are ignored.
type TripFilter struct {
	Origin      string
	Destination string
	Date        time.Time
	Status      models.TripStatus
}

type TripRepository interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	List(ctx context.Context, filter *TripFilter, params *utils.PaginationParams) ([]*models.Trip, int64, error)

	// UpdateStatus applies a guarded lifecycle transition; the filter pins
	// the current status so concurrent transitions cannot overwrite each
	// other blindly.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.TripStatus) error

	// SetRating overwrites the derived aggregate fields with a freshly
	// computed snapshot.
	SetRating(ctx context.Context, id primitive.ObjectID, summary *models.RatingSummary) error
}
