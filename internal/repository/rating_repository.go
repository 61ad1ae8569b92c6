package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/auto-dealership/internal/model"
)

// RatingRepo owns the comments_ratings table.  The table holds two
// kinds of rows for a (car, user) pair: at most one row with a non-null
// rating (the singular rating slot, maintained by upsert) and any
// number of rows with non-null comments (append-only).  The upsert is
// check-then-act, so it runs inside a transaction with the slot row
// locked; concurrent writers to the same pair serialize and the last
// committed value wins, never a duplicate rating row.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo returns a RatingRepo bound to the given database.
func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// SetRating stores the user's rating for a car, replacing any previous
// value in place.  Values outside 1–5 fail with ErrInvalidRating and
// write nothing.
func (r *RatingRepo) SetRating(ctx context.Context, carID, userID uint64, rating int) error {
	if !model.ValidRating(rating) {
		return ErrInvalidRating
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Locate and lock the pair's rating slot.  Rows holding only a
	// comment are not the slot and are left alone.
	var id uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM comments_ratings
		 WHERE car_id = ? AND user_id = ? AND rating IS NOT NULL
		 FOR UPDATE`,
		carID, userID,
	).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comments_ratings (car_id, user_id, rating) VALUES (?, ?, ?)`,
			carID, userID, rating,
		); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE comments_ratings SET rating = ? WHERE id = ?`,
			rating, id,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AddComment appends a comment row for the pair.  Comments are never
// updated in place; every call inserts a new row.  Blank or oversized
// text fails with ErrEmptyComment as a defensive floor under the form
// validation.
func (r *RatingRepo) AddComment(ctx context.Context, carID, userID uint64, text string) (uint64, error) {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > model.MaxCommentLength {
		return 0, ErrEmptyComment
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments_ratings (car_id, user_id, comment) VALUES (?, ?, ?)`,
		carID, userID, text,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UserRating returns the rating the user gave a car, or 0 when none.
func (r *RatingRepo) UserRating(ctx context.Context, carID, userID uint64) (int, error) {
	var rating int
	err := r.db.QueryRowContext(ctx,
		`SELECT rating FROM comments_ratings
		 WHERE car_id = ? AND user_id = ? AND rating IS NOT NULL`,
		carID, userID,
	).Scan(&rating)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rating, nil
}

// AverageRating returns the mean of all ratings for a car, 0 when the
// car has no ratings.
func (r *RatingRepo) AverageRating(ctx context.Context, carID uint64) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(rating) FROM comments_ratings WHERE car_id = ? AND rating IS NOT NULL`,
		carID,
	).Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

// RatingsCount returns how many users rated a car.
func (r *RatingRepo) RatingsCount(ctx context.Context, carID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments_ratings WHERE car_id = ? AND rating IS NOT NULL`,
		carID,
	).Scan(&n)
	return n, err
}

// CommentsCount returns how many comments a car has.
func (r *RatingRepo) CommentsCount(ctx context.Context, carID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments_ratings WHERE car_id = ? AND comment IS NOT NULL`,
		carID,
	).Scan(&n)
	return n, err
}

// ListComments returns a car's comments newest-first, joined with the
// author's email for display.
func (r *RatingRepo) ListComments(ctx context.Context, carID uint64) ([]model.RatingComment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT cr.id, cr.car_id, cr.user_id, u.email, cr.comment, cr.created_at
		 FROM comments_ratings cr
		 JOIN users u ON u.id = cr.user_id
		 WHERE cr.car_id = ? AND cr.comment IS NOT NULL
		 ORDER BY cr.created_at DESC, cr.id DESC`,
		carID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.RatingComment, 0)
	for rows.Next() {
		var e model.RatingComment
		var comment sql.NullString
		if err := rows.Scan(&e.ID, &e.CarID, &e.UserID, &e.Username, &comment, &e.CreatedAt); err != nil {
			return nil, err
		}
		if comment.Valid {
			c := comment.String
			e.Comment = &c
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntry removes one comments_ratings row by ID.  Only the author
// or an administrator may delete; the ownership check is part of the
// DELETE statement so a non-owner cannot race it.  Deleting a row that
// holds the pair's rating frees the slot; nothing cascades.
func (r *RatingRepo) DeleteEntry(ctx context.Context, entryID, requestingUserID uint64, isAdmin bool) error {
	var (
		res sql.Result
		err error
	)
	if isAdmin {
		res, err = r.db.ExecContext(ctx,
			`DELETE FROM comments_ratings WHERE id = ?`, entryID)
	} else {
		res, err = r.db.ExecContext(ctx,
			`DELETE FROM comments_ratings WHERE id = ? AND user_id = ?`,
			entryID, requestingUserID)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row never existed or it belongs to someone else.
		// Distinguish so handlers can answer 403 vs 404.
		var owner uint64
		err := r.db.QueryRowContext(ctx,
			`SELECT user_id FROM comments_ratings WHERE id = ?`, entryID,
		).Scan(&owner)
		if err == sql.ErrNoRows {
			return ErrEntryNotFound
		}
		if err != nil {
			return err
		}
		return ErrForbidden
	}
	return nil
}
