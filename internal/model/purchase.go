package model

import "time"

// PurchaseStatus is the closed set of states a purchase order can be in.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchasePaid      PurchaseStatus = "paid"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// purchaseTransitions is the legality table for purchase status changes.
// paid is an optional intermediate step between pending and completed;
// completed and cancelled are terminal.  Entering completed is the only
// transition that stamps completed_at, and it can happen at most once.
var purchaseTransitions = map[PurchaseStatus]map[PurchaseStatus]bool{
	PurchasePending: {PurchasePaid: true, PurchaseCompleted: true, PurchaseCancelled: true},
	PurchasePaid:    {PurchaseCompleted: true, PurchaseCancelled: true},
}

// ParsePurchaseStatus validates a raw status string against the known set.
func ParsePurchaseStatus(raw string) (PurchaseStatus, bool) {
	switch s := PurchaseStatus(raw); s {
	case PurchasePending, PurchasePaid, PurchaseCompleted, PurchaseCancelled:
		return s, true
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to next is a legal
// purchase transition.
func (s PurchaseStatus) CanTransitionTo(next PurchaseStatus) bool {
	return purchaseTransitions[s][next]
}

// IsTerminal reports whether no further transition is defined from s.
func (s PurchaseStatus) IsTerminal() bool {
	return len(purchaseTransitions[s]) == 0
}

// PaymentMethod enumerates how a purchase is paid for.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCredit   PaymentMethod = "credit"
)

// ParsePaymentMethod validates a raw payment method string.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch m := PaymentMethod(raw); m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCredit:
		return m, true
	}
	return "", false
}

// Purchase records a sale of a car to a customer.  PriceCents is a
// snapshot of the agreed price taken when the order is created; later
// edits to the listing price never change a historical purchase.
// CompletedAt stays NULL until the order reaches completed and is never
// reset afterwards.
type Purchase struct {
	ID            uint64         // purchases.id
	CarID         uint64         // purchases.car_id
	CarName       string         // joined from cars (read paths only)
	UserID        uint64         // purchases.user_id
	Username      string         // joined from users (read paths only)
	CustomerName  string         // purchases.customer_name
	Phone         string         // purchases.phone
	Email         string         // purchases.email
	PriceCents    uint64         // purchases.price_cents
	PaymentMethod PaymentMethod  // purchases.payment_method
	Status        PurchaseStatus // purchases.status
	Notes         string         // purchases.notes (nullable)
	PurchaseDate  time.Time      // purchases.purchase_date
	CompletedAt   *time.Time     // purchases.completed_at (nullable)
}
