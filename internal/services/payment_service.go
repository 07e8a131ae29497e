package services

import (
	"context"
	"errors"

	"shuttlebook/internal/models"
	"shuttlebook/internal/repositories/interfaces"
	"shuttlebook/pkg/logger"
	"shuttlebook/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentService interface {
	// CreateOrder registers a gateway order the client pays against. Pure
	// pass-through; the resulting assertion comes back via CreateBooking
	// or ReconcilePayment.
	CreateOrder(ctx context.Context, userID primitive.ObjectID, amount float64, currency string) (*payment.Order, error)

	// ReconcilePayment applies an out-of-band payment confirmation to an
	// existing booking. Idempotent for already-successful bookings.
	ReconcilePayment(ctx context.Context, userID, bookingID primitive.ObjectID, assertion *models.PaymentAssertion) (*models.Booking, error)
}

type paymentService struct {
	bookingRepo interfaces.BookingRepository
	gateway     *payment.Gateway
	currency    string
	log         *logger.Logger
}

func NewPaymentService(bookingRepo interfaces.BookingRepository, gateway *payment.Gateway, currency string, log *logger.Logger) PaymentService {
	return &paymentService{
		bookingRepo: bookingRepo,
		gateway:     gateway,
		currency:    currency,
		log:         log,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, userID primitive.ObjectID, amount float64, currency string) (*payment.Order, error) {
	if amount <= 0 {
		return nil, NewInvalidInput("INVALID_AMOUNT", "amount must be positive")
	}
	if currency == "" {
		currency = s.currency
	}

	order, err := s.gateway.CreateOrder(amount, currency, userID.Hex(), map[string]interface{}{
		"user_id": userID.Hex(),
	})
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID.Hex()).Error("gateway order creation failed")
		return nil, NewInternal(err)
	}

	return order, nil
}

func (s *paymentService) ReconcilePayment(ctx context.Context, userID, bookingID primitive.ObjectID, assertion *models.PaymentAssertion) (*models.Booking, error) {
	if assertion == nil || assertion.OrderID == "" || assertion.PaymentID == "" || assertion.Signature == "" {
		return nil, NewInvalidInput("MISSING_PAYMENT", "order id, payment id and signature are required")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, NewInternal(err)
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}

	// Reconciling an already-settled booking is a no-op, not an error.
	if booking.PaymentStatus == models.PaymentStatusSuccess {
		return booking, nil
	}

	if !s.gateway.VerifySignature(assertion.OrderID, assertion.PaymentID, assertion.Signature) {
		s.log.WithFields(map[string]interface{}{
			"booking_id": bookingID.Hex(),
			"order_id":   assertion.OrderID,
		}).Warn("payment assertion rejected: signature mismatch")
		return nil, ErrInvalidSignature
	}

	confirm := booking.Status == models.BookingStatusPending
	if err := s.bookingRepo.MarkPaymentSuccess(ctx, bookingID, assertion.PaymentID, confirm); err != nil {
		if errors.Is(err, interfaces.ErrPreconditionFailed) {
			// A concurrent reconcile may have settled it first; that
			// retry is still a success for the caller.
			current, rerr := s.bookingRepo.GetByID(ctx, bookingID)
			if rerr == nil && current.PaymentStatus == models.PaymentStatusSuccess {
				return current, nil
			}
			return nil, ErrBookingConflict
		}
		return nil, NewInternal(err)
	}

	s.log.WithFields(map[string]interface{}{
		"booking_id": bookingID.Hex(),
		"payment_id": assertion.PaymentID,
	}).Info("payment reconciled")

	updated, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, NewInternal(err)
	}
	return updated, nil
}
