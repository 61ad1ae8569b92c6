package handler

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auto-dealership/internal/repository"
)

// StatsHandler serves the back-office dashboard.  Everything here is
// read-only and derived; no statistics endpoint ever writes.
type StatsHandler struct {
	Stats *repository.StatsRepo
}

func NewStatsHandler(stats *repository.StatsRepo) *StatsHandler {
	return &StatsHandler{Stats: stats}
}

type priceExtreme struct {
	ID         uint64 `json:"id"`
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	PriceCents uint64 `json:"price_cents"`
}

// Overview returns the headline dashboard block: totals, price extremes,
// top brands, order rollups, revenue and gallery health.
func (h *StatsHandler) Overview(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	totals, err := h.Stats.Totals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	resp := echo.Map{"totals": totals}

	if car, err := h.Stats.MostExpensiveCar(ctx); err == nil {
		resp["most_expensive"] = priceExtreme{ID: car.ID, Brand: car.Brand, Model: car.Model, PriceCents: car.PriceCents}
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if car, err := h.Stats.CheapestCar(ctx); err == nil {
		resp["cheapest"] = priceExtreme{ID: car.ID, Brand: car.Brand, Model: car.Model, PriceCents: car.PriceCents}
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("brands"))
	brands, err := h.Stats.TopBrands(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp["top_brands"] = brands

	resByStatus, err := h.Stats.ReservationsByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp["reservations_by_status"] = resByStatus

	purByStatus, err := h.Stats.PurchasesByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp["purchases_by_status"] = purByStatus

	revenue, err := h.Stats.CompletedRevenueCents(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp["completed_revenue_cents"] = revenue

	galleries, err := h.Stats.GalleryStats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp["galleries"] = galleries

	return c.JSON(http.StatusOK, resp)
}

// Details returns one of the drill-down feeds selected by the "kind"
// path parameter: reservations, purchases, comments or ratings.
func (h *StatsHandler) Details(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		items []repository.DetailItem
		err   error
	)
	switch kind := c.Param("kind"); kind {
	case "reservations":
		items, err = h.Stats.ReservationDetails(ctx)
	case "purchases":
		items, err = h.Stats.PurchaseDetails(ctx)
	case "comments":
		items, err = h.Stats.CommentDetails(ctx)
	case "ratings":
		items, err = h.Stats.RatingDetails(ctx)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown detail kind"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
