package model

import "time"

// Favorite marks a car as saved by a user.  The (user, car) pair is
// unique; adding the same favorite twice is a no-op.
type Favorite struct {
	ID        uint64    // favorites.id
	UserID    uint64    // favorites.user_id
	CarID     uint64    // favorites.car_id
	CreatedAt time.Time // favorites.created_at
}
