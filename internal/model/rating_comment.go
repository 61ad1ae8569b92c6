package model

import "time"

// Rating bounds for a car review.
const (
	MinRating = 1
	MaxRating = 5
)

// MaxCommentLength caps free-text comments.  The form enforces it too;
// the repository re-checks so oversized payloads never reach the table.
const MaxCommentLength = 1000

// ValidRating reports whether a rating value lies within the accepted
// 1–5 range.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// RatingComment is one row of the comments_ratings table.  The table
// colocates two logically distinct things: the singular rating slot for
// a (car, user) pair and the unbounded list of that user's comments on
// the car.  A row carries a non-null Rating, a non-null Comment, or
// both; at most one row per pair may hold a rating, while any number
// of rows may hold comments.
type RatingComment struct {
	ID        uint64    // comments_ratings.id
	CarID     uint64    // comments_ratings.car_id
	UserID    uint64    // comments_ratings.user_id
	Username  string    // joined from users (read paths only)
	Rating    *int      // comments_ratings.rating (nullable, 1–5)
	Comment   *string   // comments_ratings.comment (nullable)
	CreatedAt time.Time // comments_ratings.created_at
}
