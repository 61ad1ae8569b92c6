package repository

import (
	"testing"
	"time"

	"github.com/iliyamo/auto-dealership/internal/model"
)

// fakePurchase applies the same guard order as Transition: legality is
// checked against the current status first, and completed_at is stamped
// only when the order actually enters completed.
type fakePurchase struct {
	status      model.PurchaseStatus
	completedAt *time.Time
}

func (p *fakePurchase) transition(next model.PurchaseStatus, now time.Time) error {
	if !p.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	p.status = next
	if next == model.PurchaseCompleted {
		t := now
		p.completedAt = &t
	}
	return nil
}

func TestCompletionStampsTimestampOnce(t *testing.T) {
	p := &fakePurchase{status: model.PurchasePending}
	first := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	if err := p.transition(model.PurchaseCompleted, first); err != nil {
		t.Fatalf("completing a pending purchase: %v", err)
	}
	if p.completedAt == nil || !p.completedAt.Equal(first) {
		t.Fatalf("completed_at = %v, want %v", p.completedAt, first)
	}

	// A second completion request is illegal from completed and must
	// leave the original timestamp intact.
	later := first.Add(48 * time.Hour)
	if err := p.transition(model.PurchaseCompleted, later); err != ErrInvalidTransition {
		t.Fatalf("re-completing: got %v, want ErrInvalidTransition", err)
	}
	if p.status != model.PurchaseCompleted {
		t.Fatalf("status = %q, want completed", p.status)
	}
	if !p.completedAt.Equal(first) {
		t.Fatalf("completed_at moved to %v after rejected transition, want %v", p.completedAt, first)
	}
}

func TestCompletionViaPaidStampsOnEntry(t *testing.T) {
	p := &fakePurchase{status: model.PurchasePending}
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	if err := p.transition(model.PurchasePaid, now); err != nil {
		t.Fatalf("pending to paid: %v", err)
	}
	if p.completedAt != nil {
		t.Fatal("paid must not stamp completed_at")
	}
	if err := p.transition(model.PurchaseCompleted, now.Add(time.Hour)); err != nil {
		t.Fatalf("paid to completed: %v", err)
	}
	if p.completedAt == nil {
		t.Fatal("entering completed must stamp completed_at")
	}
}

func TestCancelledPurchaseNeverStamps(t *testing.T) {
	p := &fakePurchase{status: model.PurchasePending}
	now := time.Now()
	if err := p.transition(model.PurchaseCancelled, now); err != nil {
		t.Fatalf("cancelling: %v", err)
	}
	if p.completedAt != nil {
		t.Fatal("cancellation must not stamp completed_at")
	}
	if err := p.transition(model.PurchaseCompleted, now); err != ErrInvalidTransition {
		t.Fatalf("completing a cancelled purchase: got %v, want ErrInvalidTransition", err)
	}
	if p.completedAt != nil {
		t.Fatal("rejected completion must leave completed_at unset")
	}
}
