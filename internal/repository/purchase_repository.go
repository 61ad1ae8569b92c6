package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/auto-dealership/internal/model"
)

// PurchaseRepo provides CRUD and guarded status transitions for
// purchase orders.  The sale price is captured as an argument when the
// order is created and never re-read from the listing, so later price
// edits cannot rewrite history.  completed_at is stamped exactly when
// the order enters completed, in the same statement as the status
// change, and is never touched again.
type PurchaseRepo struct {
	db *sql.DB
}

// NewPurchaseRepo returns a PurchaseRepo bound to the given database.
func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

// Create inserts a new pending purchase and returns it with the
// store-assigned ID and purchase date.
func (r *PurchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO purchases
		 (car_id, user_id, customer_name, phone, email, price_cents, payment_method, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CarID, p.UserID, p.CustomerName, p.Phone, p.Email,
		p.PriceCents, p.PaymentMethod, model.PurchasePending, nullableString(p.Notes),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.Status = model.PurchasePending
	return r.db.QueryRowContext(ctx,
		`SELECT purchase_date FROM purchases WHERE id = ?`, p.ID,
	).Scan(&p.PurchaseDate)
}

// Transition moves a purchase to newStatus when legal from its current
// status, read under a row lock.  Entering completed also stamps
// completed_at; both columns change in one statement.  Illegal requests
// fail with ErrInvalidTransition without any write, which makes a
// second "completed" request a rejected no-op that leaves the original
// completed_at intact.
func (r *PurchaseRepo) Transition(ctx context.Context, id uint64, newStatus model.PurchaseStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM purchases WHERE id = ? FOR UPDATE`, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	current, ok := model.ParsePurchaseStatus(raw)
	if !ok || !current.CanTransitionTo(newStatus) {
		return ErrInvalidTransition
	}

	if newStatus == model.PurchaseCompleted {
		_, err = tx.ExecContext(ctx,
			`UPDATE purchases SET status = ?, completed_at = UTC_TIMESTAMP() WHERE id = ?`,
			newStatus, id)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE purchases SET status = ? WHERE id = ?`,
			newStatus, id)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID returns one purchase with its car and user names joined.
func (r *PurchaseRepo) GetByID(ctx context.Context, id uint64) (model.Purchase, error) {
	row := r.db.QueryRowContext(ctx, purchaseSelect+` WHERE p.id = ?`, id)
	p, err := scanPurchase(row)
	if err == sql.ErrNoRows {
		return model.Purchase{}, ErrOrderNotFound
	}
	return p, err
}

// ListAll returns every purchase, newest first.
func (r *PurchaseRepo) ListAll(ctx context.Context) ([]model.Purchase, error) {
	return r.list(ctx, purchaseSelect+` ORDER BY p.purchase_date DESC, p.id DESC`)
}

// ListByStatus returns purchases in the given status, newest first.
func (r *PurchaseRepo) ListByStatus(ctx context.Context, status model.PurchaseStatus) ([]model.Purchase, error) {
	return r.list(ctx,
		purchaseSelect+` WHERE p.status = ? ORDER BY p.purchase_date DESC, p.id DESC`, status)
}

// ListByUser returns one user's purchases, newest first.
func (r *PurchaseRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Purchase, error) {
	return r.list(ctx,
		purchaseSelect+` WHERE p.user_id = ? ORDER BY p.purchase_date DESC, p.id DESC`, userID)
}

// Delete removes a purchase entirely (back-office cleanup).
func (r *PurchaseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, id)
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

const purchaseSelect = `SELECT p.id, p.car_id, CONCAT(c.brand, ' ', c.model), p.user_id, u.email,
       p.customer_name, p.phone, p.email, p.price_cents, p.payment_method,
       p.status, p.notes, p.purchase_date, p.completed_at
  FROM purchases p
  JOIN cars c ON c.id = p.car_id
  JOIN users u ON u.id = p.user_id`

func scanPurchase(row rowScanner) (model.Purchase, error) {
	var p model.Purchase
	var rawStatus, rawMethod string
	var notes sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.CarID, &p.CarName, &p.UserID, &p.Username,
		&p.CustomerName, &p.Phone, &p.Email, &p.PriceCents, &rawMethod,
		&rawStatus, &notes, &p.PurchaseDate, &completedAt,
	)
	if err != nil {
		return model.Purchase{}, err
	}
	p.Status, _ = model.ParsePurchaseStatus(rawStatus)
	p.PaymentMethod, _ = model.ParsePaymentMethod(rawMethod)
	if notes.Valid {
		p.Notes = notes.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		p.CompletedAt = &t
	}
	return p, nil
}

func (r *PurchaseRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Purchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
