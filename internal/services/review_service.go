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

type CreateReviewInput struct {
	BookingID primitive.ObjectID `json:"booking_id"`
	Rating    float64            `json:"rating"`
	Comment   string             `json:"comment"`
}

type ReviewService interface {
	CreateReview(ctx context.Context, userID primitive.ObjectID, input *CreateReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, id, userID primitive.ObjectID, isAdmin bool) error
	ListTripReviews(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	ListDriverReviews(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
}

type reviewService struct {
	reviewRepo  interfaces.ReviewRepository
	bookingRepo interfaces.BookingRepository
	tripRepo    interfaces.TripRepository
	driverRepo  interfaces.DriverRepository
	log         *logger.Logger
}

func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	bookingRepo interfaces.BookingRepository,
	tripRepo interfaces.TripRepository,
	driverRepo interfaces.DriverRepository,
	log *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		driverRepo:  driverRepo,
		log:         log,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, userID primitive.ObjectID, input *CreateReviewInput) (*models.Review, error) {
	if input == nil || input.BookingID.IsZero() {
		return nil, NewInvalidInput("MISSING_BOOKING", "booking id is required")
	}
	if input.Rating < utils.MinRating || input.Rating > utils.MaxRating {
		return nil, NewInvalidInput("INVALID_RATING", "rating must be between 1 and 5")
	}

	booking, err := s.bookingRepo.GetByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, NewInternal(err)
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, ErrBookingNotCompleted
	}

	// Trip and driver are denormalized onto the review at creation time so
	// the aggregates stay attributable even if the trip is later re-crewed.
	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, NewInternal(err)
	}

	review := &models.Review{
		BookingID: input.BookingID,
		UserID:    userID,
		TripID:    trip.ID,
		DriverID:  trip.DriverID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, NewInternal(err)
	}

	s.refreshRatings(ctx, review.TripID, review.DriverID)

	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, id, userID primitive.ObjectID, isAdmin bool) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrReviewNotFound
		}
		return NewInternal(err)
	}
	if !isAdmin && review.UserID != userID {
		return ErrReviewNotFound
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrReviewNotFound
		}
		return NewInternal(err)
	}

	s.refreshRatings(ctx, review.TripID, review.DriverID)

	return nil
}

func (s *reviewService) ListTripReviews(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	reviews, total, err := s.reviewRepo.ListByTrip(ctx, tripID, params)
	if err != nil {
		return nil, 0, NewInternal(err)
	}
	return reviews, total, nil
}

func (s *reviewService) ListDriverReviews(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	reviews, total, err := s.reviewRepo.ListByDriver(ctx, driverID, params)
	if err != nil {
		return nil, 0, NewInternal(err)
	}
	return reviews, total, nil
}

// refreshRatings recomputes and overwrites the derived aggregates for the
// trip and, when present, the driver. Failures are logged and picked up by
// the next triggering review; they never fail the caller's submission.
func (s *reviewService) refreshRatings(ctx context.Context, tripID primitive.ObjectID, driverID *primitive.ObjectID) {
	if summary, err := s.reviewRepo.Aggregate(ctx, models.RatingEntityTrip, tripID); err != nil {
		s.log.WithError(err).WithField("trip_id", tripID.Hex()).Error("trip rating aggregation failed")
	} else if err := s.tripRepo.SetRating(ctx, tripID, summary); err != nil {
		s.log.WithError(err).WithField("trip_id", tripID.Hex()).Error("failed to store trip rating")
	}

	if driverID == nil {
		return
	}
	if summary, err := s.reviewRepo.Aggregate(ctx, models.RatingEntityDriver, *driverID); err != nil {
		s.log.WithError(err).WithField("driver_id", driverID.Hex()).Error("driver rating aggregation failed")
	} else if err := s.driverRepo.SetRating(ctx, *driverID, summary); err != nil {
		s.log.WithError(err).WithField("driver_id", driverID.Hex()).Error("failed to store driver rating")
	}
}
