package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/auto-dealership/internal/model"
)

// StatsRepo is the read-only aggregation layer behind the back-office
// dashboards.  It never writes; every number it produces is derived
// from tables whose invariants the writing repositories maintain, so a
// car's main-photo count is always 0 or 1 and a (car, user) pair never
// contributes more than one rating.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo returns a StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Totals is the headline block of the statistics dashboard.
type Totals struct {
	Cars              int     `json:"cars"`
	AvailableCars     int     `json:"available_cars"`
	Users             int     `json:"users"`
	Admins            int     `json:"admins"`
	Reservations      int     `json:"reservations"`
	Purchases         int     `json:"purchases"`
	Comments          int     `json:"comments"`
	Ratings           int     `json:"ratings"`
	Favorites         int     `json:"favorites"`
	AveragePriceCents float64 `json:"average_price_cents"`
}

// Totals computes the headline counters in one round trip per table.
func (r *StatsRepo) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	var avg sql.NullFloat64
	steps := []struct {
		query string
		dest  interface{}
	}{
		{`SELECT COUNT(*) FROM cars`, &t.Cars},
		{`SELECT COUNT(*) FROM cars WHERE is_available = 1`, &t.AvailableCars},
		{`SELECT COUNT(*) FROM users WHERE role = 'USER'`, &t.Users},
		{`SELECT COUNT(*) FROM users WHERE role = 'ADMIN'`, &t.Admins},
		{`SELECT COUNT(*) FROM reservations`, &t.Reservations},
		{`SELECT COUNT(*) FROM purchases`, &t.Purchases},
		{`SELECT COUNT(*) FROM comments_ratings WHERE comment IS NOT NULL`, &t.Comments},
		{`SELECT COUNT(*) FROM comments_ratings WHERE rating IS NOT NULL`, &t.Ratings},
		{`SELECT COUNT(*) FROM favorites`, &t.Favorites},
		{`SELECT AVG(price_cents) FROM cars`, &avg},
	}
	for _, s := range steps {
		if err := r.db.QueryRowContext(ctx, s.query).Scan(s.dest); err != nil {
			return Totals{}, err
		}
	}
	t.AveragePriceCents = avg.Float64
	return t, nil
}

// BrandCount is one row of the top-brands rollup.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// TopBrands returns the most-listed brands, largest first.
func (r *StatsRepo) TopBrands(ctx context.Context, limit int) ([]BrandCount, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT brand, COUNT(*) AS cnt
		 FROM cars
		 WHERE brand IS NOT NULL AND brand != ''
		 GROUP BY brand
		 ORDER BY cnt DESC, brand ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BrandCount, 0, limit)
	for rows.Next() {
		var b BrandCount
		if err := rows.Scan(&b.Brand, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MostExpensiveCar returns the priciest listing, or sql.ErrNoRows when
// the catalog is empty.
func (r *StatsRepo) MostExpensiveCar(ctx context.Context) (model.Car, error) {
	return scanCar(r.db.QueryRowContext(ctx,
		carSelect+` ORDER BY price_cents DESC, id ASC LIMIT 1`))
}

// CheapestCar returns the cheapest listing.
func (r *StatsRepo) CheapestCar(ctx context.Context) (model.Car, error) {
	return scanCar(r.db.QueryRowContext(ctx,
		carSelect+` ORDER BY price_cents ASC, id ASC LIMIT 1`))
}

// StatusCount is one row of a per-status rollup.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ReservationsByStatus groups reservations by status.
func (r *StatsRepo) ReservationsByStatus(ctx context.Context) ([]StatusCount, error) {
	return r.statusRollup(ctx, `SELECT status, COUNT(*) FROM reservations GROUP BY status ORDER BY status`)
}

// PurchasesByStatus groups purchases by status.
func (r *StatsRepo) PurchasesByStatus(ctx context.Context) ([]StatusCount, error) {
	return r.statusRollup(ctx, `SELECT status, COUNT(*) FROM purchases GROUP BY status ORDER BY status`)
}

func (r *StatsRepo) statusRollup(ctx context.Context, query string) ([]StatusCount, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]StatusCount, 0, 4)
	for rows.Next() {
		var s StatusCount
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CompletedRevenueCents sums the snapshot prices of completed purchases.
func (r *StatsRepo) CompletedRevenueCents(ctx context.Context) (uint64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(price_cents) FROM purchases WHERE status = ?`,
		model.PurchaseCompleted,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return uint64(total.Int64), nil
}

// CarGalleryStat is the per-car photo rollup.  MainPhotos is derived
// with a clamp so aggregate reporting can never double-count mains even
// if a bug elsewhere violated the gallery invariant.
type CarGalleryStat struct {
	CarID      uint64 `json:"car_id"`
	Photos     int    `json:"photos"`
	MainPhotos int    `json:"main_photos"`
}

// GalleryStats returns photo counts per car, mains clamped to {0,1}.
func (r *StatsRepo) GalleryStats(ctx context.Context) ([]CarGalleryStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT car_id, COUNT(*), LEAST(SUM(is_main), 1)
		 FROM car_photos
		 GROUP BY car_id
		 ORDER BY car_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CarGalleryStat, 0)
	for rows.Next() {
		var s CarGalleryStat
		if err := rows.Scan(&s.CarID, &s.Photos, &s.MainPhotos); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DetailItem is one row of the dashboard drill-down lists (who, which
// car, what happened, when).
type DetailItem struct {
	ID      uint64    `json:"id"`
	Who     string    `json:"who"`
	CarName string    `json:"car_name"`
	Detail  string    `json:"detail"`
	At      time.Time `json:"at"`
}

// ReservationDetails lists reservations for the drill-down screen,
// newest first.
func (r *StatsRepo) ReservationDetails(ctx context.Context) ([]DetailItem, error) {
	return r.details(ctx,
		`SELECT r.id, r.customer_name, CONCAT(c.brand, ' ', c.model), r.status, r.created_at
		 FROM reservations r
		 JOIN cars c ON c.id = r.car_id
		 ORDER BY r.created_at DESC, r.id DESC`)
}

// PurchaseDetails lists purchases for the drill-down screen.
func (r *StatsRepo) PurchaseDetails(ctx context.Context) ([]DetailItem, error) {
	return r.details(ctx,
		`SELECT p.id, p.customer_name, CONCAT(c.brand, ' ', c.model), p.status, p.purchase_date
		 FROM purchases p
		 JOIN cars c ON c.id = p.car_id
		 ORDER BY p.purchase_date DESC, p.id DESC`)
}

// CommentDetails lists comments (truncated to 50 chars) for the
// drill-down screen.
func (r *StatsRepo) CommentDetails(ctx context.Context) ([]DetailItem, error) {
	return r.details(ctx,
		`SELECT cr.id, u.email, CONCAT(c.brand, ' ', c.model),
		        CONCAT(SUBSTRING(cr.comment, 1, 50), '...'), cr.created_at
		 FROM comments_ratings cr
		 JOIN users u ON u.id = cr.user_id
		 JOIN cars c ON c.id = cr.car_id
		 WHERE cr.comment IS NOT NULL
		 ORDER BY cr.created_at DESC, cr.id DESC`)
}

// RatingDetails lists ratings for the drill-down screen.
func (r *StatsRepo) RatingDetails(ctx context.Context) ([]DetailItem, error) {
	return r.details(ctx,
		`SELECT cr.id, u.email, CONCAT(c.brand, ' ', c.model),
		        CONCAT(cr.rating, '/5'), cr.created_at
		 FROM comments_ratings cr
		 JOIN users u ON u.id = cr.user_id
		 JOIN cars c ON c.id = cr.car_id
		 WHERE cr.rating IS NOT NULL
		 ORDER BY cr.created_at DESC, cr.id DESC`)
}

func (r *StatsRepo) details(ctx context.Context, query string) ([]DetailItem, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]DetailItem, 0)
	for rows.Next() {
		var d DetailItem
		if err := rows.Scan(&d.ID, &d.Who, &d.CarName, &d.Detail, &d.At); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
