package repository

import (
	"strings"
	"testing"

	"github.com/iliyamo/auto-dealership/internal/model"
)

// fakeLedger mirrors the decision logic of the comments_ratings upsert
// without a database: locate the pair's non-null-rating row and update
// it in place, otherwise insert.  Comment rows are append-only and are
// never touched by rating writes.
type fakeLedger struct {
	rows   []ledgerRow
	nextID uint64
}

type ledgerRow struct {
	id      uint64
	carID   uint64
	userID  uint64
	rating  *int
	comment *string
}

func (l *fakeLedger) setRating(carID, userID uint64, rating int) error {
	if !model.ValidRating(rating) {
		return ErrInvalidRating
	}
	for i := range l.rows {
		r := &l.rows[i]
		if r.carID == carID && r.userID == userID && r.rating != nil {
			v := rating
			r.rating = &v
			return nil
		}
	}
	l.nextID++
	v := rating
	l.rows = append(l.rows, ledgerRow{id: l.nextID, carID: carID, userID: userID, rating: &v})
	return nil
}

func (l *fakeLedger) addComment(carID, userID uint64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > model.MaxCommentLength {
		return ErrEmptyComment
	}
	l.nextID++
	l.rows = append(l.rows, ledgerRow{id: l.nextID, carID: carID, userID: userID, comment: &text})
	return nil
}

// ratingSlot returns the pair's rating rows and the value of the last
// one, so tests can assert both the count and the stored value.
func (l *fakeLedger) ratingSlot(carID, userID uint64) (count, value int) {
	for _, r := range l.rows {
		if r.carID == carID && r.userID == userID && r.rating != nil {
			count++
			value = *r.rating
		}
	}
	return count, value
}

func (l *fakeLedger) commentCount(carID uint64) int {
	n := 0
	for _, r := range l.rows {
		if r.carID == carID && r.comment != nil {
			n++
		}
	}
	return n
}

// Rating the same car twice keeps a single row for the pair, holding
// the second value.
func TestSetRatingTwiceKeepsOneRow(t *testing.T) {
	l := &fakeLedger{}
	if err := l.setRating(1, 7, 3); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if err := l.setRating(1, 7, 5); err != nil {
		t.Fatalf("second rating: %v", err)
	}
	count, value := l.ratingSlot(1, 7)
	if count != 1 {
		t.Fatalf("rating rows for pair = %d, want 1", count)
	}
	if value != 5 {
		t.Fatalf("stored rating = %d, want the replacing value 5", value)
	}
	if len(l.rows) != 1 {
		t.Fatalf("total rows = %d, want 1", len(l.rows))
	}
}

// Each user keeps their own slot; re-rating one user never disturbs
// another's row.
func TestSetRatingIsPerUser(t *testing.T) {
	l := &fakeLedger{}
	_ = l.setRating(1, 7, 4)
	_ = l.setRating(1, 8, 2)
	_ = l.setRating(1, 7, 1)
	if count, value := l.ratingSlot(1, 7); count != 1 || value != 1 {
		t.Fatalf("user 7 slot = (%d, %d), want (1, 1)", count, value)
	}
	if count, value := l.ratingSlot(1, 8); count != 1 || value != 2 {
		t.Fatalf("user 8 slot = (%d, %d), want (1, 2)", count, value)
	}
}

// Comment rows for the pair are not the slot and survive rating upserts
// untouched.
func TestSetRatingLeavesCommentsAlone(t *testing.T) {
	l := &fakeLedger{}
	if err := l.addComment(1, 7, "solid engine"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	_ = l.setRating(1, 7, 4)
	_ = l.setRating(1, 7, 2)
	if n := l.commentCount(1); n != 1 {
		t.Fatalf("comments = %d, want 1", n)
	}
	if count, value := l.ratingSlot(1, 7); count != 1 || value != 2 {
		t.Fatalf("slot = (%d, %d), want (1, 2)", count, value)
	}
}

// Out-of-range values fail and write nothing, even when a slot already
// exists.
func TestSetRatingOutOfRangeWritesNothing(t *testing.T) {
	l := &fakeLedger{}
	_ = l.setRating(1, 7, 4)
	for _, bad := range []int{0, 6, -1} {
		if err := l.setRating(1, 7, bad); err != ErrInvalidRating {
			t.Fatalf("rating %d: got %v, want ErrInvalidRating", bad, err)
		}
	}
	if count, value := l.ratingSlot(1, 7); count != 1 || value != 4 {
		t.Fatalf("slot = (%d, %d), want (1, 4) after rejected writes", count, value)
	}
}
