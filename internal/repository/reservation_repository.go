package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/auto-dealership/internal/model"
)

// ReservationRepo provides CRUD and guarded status transitions for
// reservations.  A reservation is created pending and is moved by staff
// through the legal transitions declared in model.ReservationStatus;
// every transition writes status and updated_at in one statement, so
// the pair can never come apart under a concurrent reader.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts a new pending reservation and returns it with the
// store-assigned ID and timestamps.  The reservation date is
// re-validated here even though the form already checked it: the form
// may have been on screen long enough for the date to slip into the
// past.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	if !model.ValidateReservationDate(res.ReservationDate, time.Now()) {
		return ErrPastDate
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reservations
		 (car_id, user_id, customer_name, phone, email, reservation_date, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.CarID, res.UserID, res.CustomerName, res.Phone, res.Email,
		res.ReservationDate.UTC().Format("2006-01-02 15:04:05"),
		model.ReservationPending, nullableString(res.Notes),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.Status = model.ReservationPending
	// Query back to pick up the DB-assigned created_at/updated_at.
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM reservations WHERE id = ?`, res.ID,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// Transition moves a reservation to newStatus when the change is legal
// from its current status.  The current status is read under a row lock
// and checked against the transition table; an illegal request fails
// with ErrInvalidTransition and performs no write.  On success, status
// and updated_at change in the same statement.
func (r *ReservationRepo) Transition(ctx context.Context, id uint64, newStatus model.ReservationStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM reservations WHERE id = ? FOR UPDATE`, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	current, ok := model.ParseReservationStatus(raw)
	if !ok || !current.CanTransitionTo(newStatus) {
		return ErrInvalidTransition
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
		newStatus, id,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID returns one reservation with its car and user names joined.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, reservationSelect+` WHERE r.id = ?`, id)
	res, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrOrderNotFound
	}
	return res, err
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	return r.list(ctx, reservationSelect+` ORDER BY r.created_at DESC, r.id DESC`)
}

// ListByStatus returns reservations in the given status, newest first.
func (r *ReservationRepo) ListByStatus(ctx context.Context, status model.ReservationStatus) ([]model.Reservation, error) {
	return r.list(ctx,
		reservationSelect+` WHERE r.status = ? ORDER BY r.created_at DESC, r.id DESC`, status)
}

// ListByUser returns one user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx,
		reservationSelect+` WHERE r.user_id = ? ORDER BY r.created_at DESC, r.id DESC`, userID)
}

// Delete removes a reservation entirely.  Used by the back office to
// clean up abandoned requests; returns ErrOrderNotFound when the ID is
// unknown.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

const reservationSelect = `SELECT r.id, r.car_id, CONCAT(c.brand, ' ', c.model), r.user_id, u.email,
       r.customer_name, r.phone, r.email, r.reservation_date, r.status, r.notes,
       r.created_at, r.updated_at
  FROM reservations r
  JOIN cars c ON c.id = r.car_id
  JOIN users u ON u.id = r.user_id`

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (model.Reservation, error) {
	var res model.Reservation
	var raw string
	var notes sql.NullString
	err := row.Scan(
		&res.ID, &res.CarID, &res.CarName, &res.UserID, &res.Username,
		&res.CustomerName, &res.Phone, &res.Email, &res.ReservationDate,
		&raw, &notes, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return model.Reservation{}, err
	}
	res.Status, _ = model.ParseReservationStatus(raw)
	if notes.Valid {
		res.Notes = notes.String
	}
	return res, nil
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// nullableString maps "" to NULL for optional text columns.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
