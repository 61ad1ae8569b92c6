package repository

import (
	"context"
	"database/sql"
	"sort"

	"github.com/iliyamo/auto-dealership/internal/model"
)

// PhotoRepo owns the car photo gallery and its single-main invariant:
// a car with at least one photo has exactly one photo flagged main, and
// never more than one.  The schema declares no partial-unique index, so
// the repo emulates it with reset-then-set sequences executed inside a
// transaction; gallery rows of the affected car are locked first with
// SELECT ... FOR UPDATE so two concurrent mutations serialize.
type PhotoRepo struct {
	db *sql.DB
}

// NewPhotoRepo returns a PhotoRepo bound to the given database.
func NewPhotoRepo(db *sql.DB) *PhotoRepo { return &PhotoRepo{db: db} }

// MainOnInsert decides the is_main flag for a photo being added to a
// gallery that currently holds existing photos.  The first photo of a
// car is always forced main, whatever the caller asked for, because a
// non-empty gallery without a main photo is not a legal state.
func MainOnInsert(existing int, requested bool) bool {
	return existing == 0 || requested
}

// ReplacementMain picks the photo that becomes main after the current
// main is deleted: lowest display order, ties broken by lowest ID.  The
// second return value is false for an empty slice.
func ReplacementMain(photos []model.CarPhoto) (uint64, bool) {
	if len(photos) == 0 {
		return 0, false
	}
	best := photos[0]
	for _, p := range photos[1:] {
		if p.DisplayOrder < best.DisplayOrder ||
			(p.DisplayOrder == best.DisplayOrder && p.ID < best.ID) {
			best = p
		}
	}
	return best.ID, true
}

// SortGallery orders photos the way callers display them: main photo
// first, then by ascending display order, insertion order breaking ties.
// Index 0 is the cover image whenever the gallery is non-empty.
func SortGallery(photos []model.CarPhoto) {
	sort.SliceStable(photos, func(i, j int) bool {
		if photos[i].IsMain != photos[j].IsMain {
			return photos[i].IsMain
		}
		if photos[i].DisplayOrder != photos[j].DisplayOrder {
			return photos[i].DisplayOrder < photos[j].DisplayOrder
		}
		return photos[i].ID < photos[j].ID
	})
}

// AddPhoto inserts a new gallery photo for a car.  The display order is
// the current maximum plus one (1 for an empty gallery).  When isMain
// is requested, the main flag is first cleared on every existing photo
// of the car; when the gallery is empty the new photo is forced main.
// The whole sequence commits as one transaction.
func (r *PhotoRepo) AddPhoto(ctx context.Context, carID uint64, url string, isMain bool) (model.CarPhoto, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.CarPhoto{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the car's gallery rows and read count + max order in one go.
	var count int
	var maxOrder uint32
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(display_order), 0) FROM car_photos WHERE car_id = ? FOR UPDATE`,
		carID,
	).Scan(&count, &maxOrder)
	if err != nil {
		return model.CarPhoto{}, err
	}

	main := MainOnInsert(count, isMain)
	if main && count > 0 {
		// Reset-then-set: clear the flag on the whole gallery before the
		// insert so the new row is the only main when the tx commits.
		if _, err := tx.ExecContext(ctx,
			`UPDATE car_photos SET is_main = 0 WHERE car_id = ?`, carID,
		); err != nil {
			return model.CarPhoto{}, err
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO car_photos (car_id, url, is_main, display_order) VALUES (?, ?, ?, ?)`,
		carID, url, main, maxOrder+1,
	)
	if err != nil {
		return model.CarPhoto{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.CarPhoto{}, err
	}

	var photo model.CarPhoto
	err = tx.QueryRowContext(ctx,
		`SELECT id, car_id, url, is_main, display_order, created_at FROM car_photos WHERE id = ?`,
		id,
	).Scan(&photo.ID, &photo.CarID, &photo.URL, &photo.IsMain, &photo.DisplayOrder, &photo.CreatedAt)
	if err != nil {
		return model.CarPhoto{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.CarPhoto{}, err
	}
	return photo, nil
}

// SetMain makes the given photo the car's main photo.  It resolves the
// owning car, clears the flag on the whole gallery and sets it on the
// target, all in one transaction.  A photo that is already main is a
// successful no-op without writes.  Returns ErrPhotoNotFound when the
// ID does not exist.
func (r *PhotoRepo) SetMain(ctx context.Context, photoID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var carID uint64
	var isMain bool
	err = tx.QueryRowContext(ctx,
		`SELECT car_id, is_main FROM car_photos WHERE id = ? FOR UPDATE`, photoID,
	).Scan(&carID, &isMain)
	if err == sql.ErrNoRows {
		return ErrPhotoNotFound
	}
	if err != nil {
		return err
	}
	if isMain {
		return tx.Commit()
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE car_photos SET is_main = 0 WHERE car_id = ?`, carID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE car_photos SET is_main = 1 WHERE id = ?`, photoID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// DeletePhoto removes a photo from its gallery.  Deleting the car's
// only photo fails with ErrLastPhoto.  When the deleted photo was main
// and others remain, the photo with the lowest display order (lowest ID
// on ties) is promoted in the same transaction, so the gallery is never
// observable without a main photo.
func (r *PhotoRepo) DeletePhoto(ctx context.Context, photoID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var carID uint64
	var wasMain bool
	err = tx.QueryRowContext(ctx,
		`SELECT car_id, is_main FROM car_photos WHERE id = ? FOR UPDATE`, photoID,
	).Scan(&carID, &wasMain)
	if err == sql.ErrNoRows {
		return ErrPhotoNotFound
	}
	if err != nil {
		return err
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM car_photos WHERE car_id = ? FOR UPDATE`, carID,
	).Scan(&count); err != nil {
		return err
	}
	if count == 1 {
		return ErrLastPhoto
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM car_photos WHERE id = ?`, photoID,
	); err != nil {
		return err
	}

	if wasMain {
		// Promote a deterministic replacement: lowest display_order, then
		// lowest id.  Mirrors ReplacementMain.
		if _, err := tx.ExecContext(ctx,
			`UPDATE car_photos SET is_main = 1
			 WHERE car_id = ?
			 ORDER BY display_order ASC, id ASC
			 LIMIT 1`,
			carID,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListPhotos returns a car's gallery ordered main-first, then by display
// order ascending with insertion order breaking ties.  Callers show
// "photo 1 of N" using index 0 as the cover image.
func (r *PhotoRepo) ListPhotos(ctx context.Context, carID uint64) ([]model.CarPhoto, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, car_id, url, is_main, display_order, created_at
		 FROM car_photos
		 WHERE car_id = ?
		 ORDER BY is_main DESC, display_order ASC, id ASC`,
		carID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	photos := make([]model.CarPhoto, 0)
	for rows.Next() {
		var p model.CarPhoto
		if err := rows.Scan(&p.ID, &p.CarID, &p.URL, &p.IsMain, &p.DisplayOrder, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return photos, nil
}

// MainPhotoURL returns the URL of the car's main photo.  When no photo
// carries the flag (an empty gallery), it falls back to the first photo
// by display order and finally to an empty string.
func (r *PhotoRepo) MainPhotoURL(ctx context.Context, carID uint64) (string, error) {
	var url string
	err := r.db.QueryRowContext(ctx,
		`SELECT url FROM car_photos
		 WHERE car_id = ?
		 ORDER BY is_main DESC, display_order ASC, id ASC
		 LIMIT 1`,
		carID,
	).Scan(&url)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

// CountPhotos returns the number of photos in a car's gallery.
func (r *PhotoRepo) CountPhotos(ctx context.Context, carID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM car_photos WHERE car_id = ?`, carID,
	).Scan(&n)
	return n, err
}
