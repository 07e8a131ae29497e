package models

import "testing"

func TestCanTransitionBooking(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		// forward path
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusConfirmed, BookingStatusOngoing, true},
		{BookingStatusOngoing, BookingStatusCompleted, true},
		// cancellation is only allowed before the trip starts
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusOngoing, BookingStatusCancelled, false},
		// terminal states have no outgoing transitions
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusOngoing, false},
		// skipping states
		{BookingStatusPending, BookingStatusOngoing, false},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusCompleted, false},
	}
	for _, tc := range cases {
		if got := CanTransitionBooking(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionBooking(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanTransitionTrip(t *testing.T) {
	cases := []struct {
		from, to TripStatus
		want     bool
	}{
		{TripStatusScheduled, TripStatusActive, true},
		{TripStatusScheduled, TripStatusDelayed, true},
		{TripStatusDelayed, TripStatusScheduled, true},
		{TripStatusActive, TripStatusCompleted, true},
		{TripStatusScheduled, TripStatusCancelled, true},
		{TripStatusCompleted, TripStatusActive, false},
		{TripStatusCancelled, TripStatusScheduled, false},
		{TripStatusScheduled, TripStatusCompleted, false},
	}
	for _, tc := range cases {
		if got := CanTransitionTrip(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionTrip(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestBookingCancellable(t *testing.T) {
	for status, want := range map[BookingStatus]bool{
		BookingStatusPending:   true,
		BookingStatusConfirmed: true,
		BookingStatusOngoing:   false,
		BookingStatusCompleted: false,
		BookingStatusCancelled: false,
	} {
		b := &Booking{Status: status}
		if got := b.Cancellable(); got != want {
			t.Errorf("Cancellable() with status %s = %v, want %v", status, got, want)
		}
	}
}
