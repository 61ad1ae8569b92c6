// Package queue defines the payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Event kinds carried on the order.events queue.
const (
	KindReservationConfirmed = "reservation.confirmed"
	KindPurchaseCompleted    = "purchase.completed"
)

// OrderEvent is published when a reservation is confirmed or a purchase
// is completed. It carries enough context for downstream consumers to
// log or notify without querying the primary database.
type OrderEvent struct {
	Kind       string `json:"kind"`
	OrderID    uint64 `json:"order_id"`
	UserID     uint64 `json:"user_id"`
	CarID      uint64 `json:"car_id"`
	CarName    string `json:"car_name"`
	PriceCents uint64 `json:"price_cents,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
