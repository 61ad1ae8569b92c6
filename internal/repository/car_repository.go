package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/auto-dealership/internal/model"
)

// CarRepo provides read access to the cars table for the catalog and
// the order flows.  Listing management itself lives in the back office
// and is deliberately thin here: the order and gallery subsystems only
// ever reference cars by ID.
type CarRepo struct {
	db *sql.DB
}

// NewCarRepo returns a CarRepo bound to the given database.
func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{db: db} }

const carSelect = `SELECT id, brand, name, model, year, mileage, price_cents, description, is_available, created_at FROM cars`

func scanCar(row rowScanner) (model.Car, error) {
	var c model.Car
	var desc sql.NullString
	err := row.Scan(&c.ID, &c.Brand, &c.Name, &c.Model, &c.Year, &c.Mileage,
		&c.PriceCents, &desc, &c.IsAvailable, &c.CreatedAt)
	if err != nil {
		return model.Car{}, err
	}
	if desc.Valid {
		c.Description = desc.String
	}
	return c, nil
}

// GetByID returns one car.  sql.ErrNoRows propagates for unknown IDs.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (model.Car, error) {
	return scanCar(r.db.QueryRowContext(ctx, carSelect+` WHERE id = ?`, id))
}

// ListAvailable returns cars currently for sale, newest first.
func (r *CarRepo) ListAvailable(ctx context.Context) ([]model.Car, error) {
	rows, err := r.db.QueryContext(ctx,
		carSelect+` WHERE is_available = 1 ORDER BY created_at DESC, id DESC`)
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

// Update rewrites the editable fields of a listing.  Orders keep their
// own price snapshot, so repricing here never rewrites history.  The
// caller resolves the row first; an UPDATE that changes nothing reports
// zero affected rows on MySQL, which makes RowsAffected useless as an
// existence check.
func (r *CarRepo) Update(ctx context.Context, c *model.Car) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM cars WHERE id = ?`, c.ID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrCarNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE cars
		 SET brand = ?, name = ?, model = ?, year = ?, mileage = ?,
		     price_cents = ?, description = ?, is_available = ?
		 WHERE id = ?`,
		c.Brand, c.Name, c.Model, c.Year, c.Mileage, c.PriceCents,
		nullableString(c.Description), c.IsAvailable, c.ID,
	)
	return err
}

// Delete removes a listing together with its favorites rows, in one
// transaction so a concurrent reader never sees a favorite pointing at
// a missing car.
func (r *CarRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM favorites WHERE car_id = ?`, id,
	); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCarNotFound
	}
	return tx.Commit()
}

// Create inserts a listing.  Used by the back office and by tests that
// need a referenced car row.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cars (brand, name, model, year, mileage, price_cents, description, is_available)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Brand, c.Name, c.Model, c.Year, c.Mileage, c.PriceCents,
		nullableString(c.Description), c.IsAvailable,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}
