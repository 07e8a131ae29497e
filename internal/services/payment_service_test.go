package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shuttlebook/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func assertion(env *testEnv, orderID, paymentID string) *models.PaymentAssertion {
	return &models.PaymentAssertion{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: env.gateway.Sign(orderID, paymentID),
	}
}

func TestReconcilePayment(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	trip := env.addShuttle(ctx)
	userID := primitive.NewObjectID()

	booking, err := env.bookingSvc.CreateBooking(ctx, userID, cashBooking(trip.ID, "S2"))
	if err != nil {
		t.Fatal(err)
	}

	updated, err := env.paymentSvc.ReconcilePayment(ctx, userID, booking.ID, assertion(env, "order_42", "pay_42"))
	if err != nil {
		t.Fatalf("ReconcilePayment: %v", err)
	}
	if updated.PaymentStatus != models.PaymentStatusSuccess {
		t.Errorf("payment status = %s, want success", updated.PaymentStatus)
	}
	if updated.PaymentID != "pay_42" {
		t.Errorf("payment id = %s, want pay_42", updated.PaymentID)
	}
	if updated.Status != models.BookingStatusConfirmed {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}
}

func TestReconcilePaymentIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	trip := env.addShuttle(ctx)
	userID := primitive.NewObjectID()

	booking, err := env.bookingSvc.CreateBooking(ctx, userID, cashBooking(trip.ID, "S2"))
	if err != nil {
		t.Fatal(err)
	}

	first, err := env.paymentSvc.ReconcilePayment(ctx, userID, booking.ID, assertion(env, "order_42", "pay_42"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := env.paymentSvc.ReconcilePayment(ctx, userID, booking.ID, assertion(env, "order_42", "pay_42"))
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if second.PaymentID != first.PaymentID || second.PaymentStatus != models.PaymentStatusSuccess {
		t.Errorf("retry result diverged: %+v vs %+v", second, first)
	}
}

func TestReconcilePaymentConfirmsPending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	trip := env.addShuttle(ctx)
	userID := primitive.NewObjectID()

	id := env.bookings.seed(&models.Booking{
		UserID:        userID,
		TripID:        trip.ID,
		Seats:         []string{"S3"},
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	})

	updated, err := env.paymentSvc.ReconcilePayment(ctx, userID, id, assertion(env, "order_7", "pay_7"))
	if err != nil {
		t.Fatalf("ReconcilePayment: %v", err)
	}
	if updated.Status != models.BookingStatusConfirmed {
		t.Errorf("status = %s, want confirmed after settlement", updated.Status)
	}
}

func TestReconcilePaymentTamperedSignature(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	trip := env.addShuttle(ctx)
	userID := primitive.NewObjectID()

	booking, err := env.bookingSvc.CreateBooking(ctx, userID, cashBooking(trip.ID, "S2"))
	if err != nil {
		t.Fatal(err)
	}

	forged := &models.PaymentAssertion{OrderID: "order_42", PaymentID: "pay_42", Signature: "0000"}
	if _, err := env.paymentSvc.ReconcilePayment(ctx, userID, booking.ID, forged); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}

	// The rejected assertion left the booking untouched.
	current, err := env.bookings.GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current.PaymentStatus != models.PaymentStatusPending || current.PaymentID != "" {
		t.Errorf("booking mutated by rejected assertion: %+v", current)
	}
}

func TestReconcilePaymentOwnership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	trip := env.addShuttle(ctx)

	booking, err := env.bookingSvc.CreateBooking(ctx, primitive.NewObjectID(), cashBooking(trip.ID, "S2"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = env.paymentSvc.ReconcilePayment(ctx, primitive.NewObjectID(), booking.ID, assertion(env, "o", "p"))
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("err = %v, want ErrBookingNotFound", err)
	}
}

func TestReconcilePaymentMissingAssertion(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for _, a := range []*models.PaymentAssertion{
		nil,
		{PaymentID: "p", Signature: "s"},
		{OrderID: "o", Signature: "s"},
		{OrderID: "o", PaymentID: "p"},
	} {
		if _, err := env.paymentSvc.ReconcilePayment(ctx, primitive.NewObjectID(), primitive.NewObjectID(), a); KindOf(err) != KindInvalidInput {
			t.Errorf("assertion %+v: kind = %s, want invalid_input", a, KindOf(err))
		}
	}
}

func TestReconcilePaymentConcurrentRetries(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	trip := env.addShuttle(ctx)
	userID := primitive.NewObjectID()

	booking, err := env.bookingSvc.CreateBooking(ctx, userID, cashBooking(trip.ID, "S2"))
	if err != nil {
		t.Fatal(err)
	}

	const retries = 8
	errs := make(chan error, retries)
	var wg sync.WaitGroup
	for i := 0; i < retries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.paymentSvc.ReconcilePayment(ctx, userID, booking.ID, assertion(env, "order_42", "pay_42"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// Every retry of the same settlement reports success.
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent reconcile: %v", err)
		}
	}

	current, err := env.bookings.GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current.PaymentStatus != models.PaymentStatusSuccess || current.PaymentID != "pay_42" {
		t.Errorf("final booking state: %+v", current)
	}
}
