package model

import "time"

// ReservationStatus is the closed set of states a reservation can be in.
// Transition legality is expressed by reservationTransitions below; any
// requested change that is not listed there is rejected by the
// repository layer without touching the row.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// reservationTransitions maps a current status to the set of statuses an
// administrator may move it to.  A pending reservation can be confirmed
// or cancelled; a confirmed one can only be cancelled.  The completed
// status exists in the schema but has no inbound transition: confirmed
// is treated as terminal for the happy path.
var reservationTransitions = map[ReservationStatus]map[ReservationStatus]bool{
	ReservationPending:   {ReservationConfirmed: true, ReservationCancelled: true},
	ReservationConfirmed: {ReservationCancelled: true},
}

// ParseReservationStatus validates a raw status string.  It returns the
// typed status and true when the value is one of the known states.
func ParseReservationStatus(raw string) (ReservationStatus, bool) {
	switch s := ReservationStatus(raw); s {
	case ReservationPending, ReservationConfirmed, ReservationCompleted, ReservationCancelled:
		return s, true
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to next is a legal
// reservation transition.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	return reservationTransitions[s][next]
}

// IsTerminal reports whether no further transition is defined from s.
func (s ReservationStatus) IsTerminal() bool {
	return len(reservationTransitions[s]) == 0
}

// Reservation records a customer's request to reserve a car for a visit
// on a specific date.  Contact details are captured as entered on the
// form so the record stays meaningful even if the user account changes
// later.  UpdatedAt moves together with every status change, in the
// same statement.
type Reservation struct {
	ID              uint64            // reservations.id
	CarID           uint64            // reservations.car_id
	CarName         string            // joined from cars (read paths only)
	UserID          uint64            // reservations.user_id
	Username        string            // joined from users (read paths only)
	CustomerName    string            // reservations.customer_name
	Phone           string            // reservations.phone
	Email           string            // reservations.email
	ReservationDate time.Time         // reservations.reservation_date
	Status          ReservationStatus // reservations.status
	Notes           string            // reservations.notes (nullable)
	CreatedAt       time.Time         // reservations.created_at
	UpdatedAt       time.Time         // reservations.updated_at
}

// ValidateReservationDate rejects reservation dates that lie in the past
// relative to now.  Handlers validate this on the form, but the
// repository re-checks before commit so a stale form cannot slip a past
// date through.  Dates are compared at day granularity in UTC.
func ValidateReservationDate(date, now time.Time) bool {
	y1, m1, d1 := date.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	if y1 != y2 {
		return y1 > y2
	}
	if m1 != m2 {
		return m1 > m2
	}
	return d1 >= d2
}
