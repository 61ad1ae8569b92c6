package model

import (
	"testing"
	"time"
)

func TestReservationTransitions(t *testing.T) {
	cases := []struct {
		from ReservationStatus
		to   ReservationStatus
		ok   bool
	}{
		{ReservationPending, ReservationConfirmed, true},
		{ReservationPending, ReservationCancelled, true},
		{ReservationConfirmed, ReservationCancelled, true},
		// completed is not a defined successor of pending for reservations
		{ReservationPending, ReservationCompleted, false},
		{ReservationConfirmed, ReservationCompleted, false},
		{ReservationConfirmed, ReservationConfirmed, false},
		{ReservationCancelled, ReservationPending, false},
		{ReservationCancelled, ReservationConfirmed, false},
		{ReservationCompleted, ReservationCancelled, false},
		{ReservationPending, ReservationPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("reservation %s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestReservationTerminalStates(t *testing.T) {
	if ReservationPending.IsTerminal() {
		t.Error("pending must not be terminal")
	}
	if ReservationConfirmed.IsTerminal() {
		t.Error("confirmed can still be cancelled")
	}
	for _, s := range []ReservationStatus{ReservationCompleted, ReservationCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestPurchaseTransitions(t *testing.T) {
	cases := []struct {
		from PurchaseStatus
		to   PurchaseStatus
		ok   bool
	}{
		{PurchasePending, PurchasePaid, true},
		{PurchasePending, PurchaseCompleted, true},
		{PurchasePending, PurchaseCancelled, true},
		{PurchasePaid, PurchaseCompleted, true},
		{PurchasePaid, PurchaseCancelled, true},
		// completed is terminal: requesting it again, or leaving it, fails
		{PurchaseCompleted, PurchaseCompleted, false},
		{PurchaseCompleted, PurchaseCancelled, false},
		{PurchaseCompleted, PurchasePending, false},
		{PurchaseCancelled, PurchasePending, false},
		{PurchaseCancelled, PurchaseCompleted, false},
		{PurchasePaid, PurchasePending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("purchase %s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

// Every state reachable from the transition tables must itself be a key
// of the parse function, so the tables can never move a row into an
// unknown status.
func TestTransitionTablesInternallyConsistent(t *testing.T) {
	for _, from := range []ReservationStatus{ReservationPending, ReservationConfirmed, ReservationCompleted, ReservationCancelled} {
		for _, to := range []ReservationStatus{ReservationPending, ReservationConfirmed, ReservationCompleted, ReservationCancelled} {
			if from.CanTransitionTo(to) {
				if _, ok := ParseReservationStatus(string(to)); !ok {
					t.Errorf("reservation table targets unknown status %q", to)
				}
			}
		}
	}
	for _, from := range []PurchaseStatus{PurchasePending, PurchasePaid, PurchaseCompleted, PurchaseCancelled} {
		for _, to := range []PurchaseStatus{PurchasePending, PurchasePaid, PurchaseCompleted, PurchaseCancelled} {
			if from.CanTransitionTo(to) {
				if _, ok := ParsePurchaseStatus(string(to)); !ok {
					t.Errorf("purchase table targets unknown status %q", to)
				}
			}
		}
	}
}

func TestParseStatuses(t *testing.T) {
	if _, ok := ParseReservationStatus("pending"); !ok {
		t.Error("pending should parse")
	}
	if _, ok := ParseReservationStatus("PENDING"); ok {
		t.Error("statuses are stored lowercase; uppercase must not parse")
	}
	if _, ok := ParsePurchaseStatus("paid"); !ok {
		t.Error("paid should parse")
	}
	if _, ok := ParsePurchaseStatus("refunded"); ok {
		t.Error("unknown status must not parse")
	}
	if _, ok := ParsePaymentMethod("transfer"); !ok {
		t.Error("transfer should parse")
	}
	if _, ok := ParsePaymentMethod("crypto"); ok {
		t.Error("unknown payment method must not parse")
	}
}

func TestValidateReservationDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		date time.Time
		ok   bool
	}{
		{now.AddDate(0, 0, 1), true},
		{now, true}, // same day is allowed
		{time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{now.AddDate(0, 0, -1), false},
		{now.AddDate(0, -1, 0), false},
		{now.AddDate(-1, 0, 0), false},
		{now.AddDate(1, 0, 0), true},
	}
	for _, tc := range cases {
		if got := ValidateReservationDate(tc.date, now); got != tc.ok {
			t.Errorf("ValidateReservationDate(%v): got %v, want %v", tc.date, got, tc.ok)
		}
	}
}

func TestValidRating(t *testing.T) {
	for _, r := range []int{1, 2, 3, 4, 5} {
		if !ValidRating(r) {
			t.Errorf("rating %d should be valid", r)
		}
	}
	for _, r := range []int{0, 6, -1, 100} {
		if ValidRating(r) {
			t.Errorf("rating %d should be invalid", r)
		}
	}
}
