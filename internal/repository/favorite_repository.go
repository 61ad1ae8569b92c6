package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/auto-dealership/internal/model"
)

// FavoriteRepo manages the favorites table.  The (user_id, car_id) pair
// carries a unique index, so a favorite can never be double-counted;
// Add treats the duplicate-key error as success.
type FavoriteRepo struct {
	db *sql.DB
}

// NewFavoriteRepo returns a FavoriteRepo bound to the given database.
func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add saves a car to the user's favorites.  Adding an existing favorite
// is a no-op.
func (r *FavoriteRepo) Add(ctx context.Context, userID, carID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, car_id) VALUES (?, ?)`, userID, carID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return nil
	}
	return err
}

// Remove deletes a favorite pair.  Removing a pair that does not exist
// is a no-op.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, carID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND car_id = ?`, userID, carID)
	return err
}

// IsFavorite reports whether the user saved the car.
func (r *FavoriteRepo) IsFavorite(ctx context.Context, userID, carID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND car_id = ?`,
		userID, carID,
	).Scan(&n)
	return n > 0, err
}

// ListCars returns the user's favorite cars, most recently saved first.
func (r *FavoriteRepo) ListCars(ctx context.Context, userID uint64) ([]model.Car, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.brand, c.name, c.model, c.year, c.mileage, c.price_cents,
		        c.description, c.is_available, c.created_at
		 FROM cars c
		 JOIN favorites f ON f.car_id = c.id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC, f.id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cars := make([]model.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cars, nil
}

// CountForCar returns how many users saved the car.
func (r *FavoriteRepo) CountForCar(ctx context.Context, carID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE car_id = ?`, carID,
	).Scan(&n)
	return n, err
}
