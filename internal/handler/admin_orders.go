package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auto-dealership/internal/model"
	"github.com/iliyamo/auto-dealership/internal/queue"
	"github.com/iliyamo/auto-dealership/internal/repository"
	"github.com/iliyamo/auto-dealership/internal/service"
)

// AdminOrderHandler is the back-office view of reservations and
// purchases: listing, status transitions and deletion.
type AdminOrderHandler struct {
	Reservations *repository.ReservationRepo
	Purchases    *repository.PurchaseRepo
}

func NewAdminOrderHandler(res *repository.ReservationRepo, pur *repository.PurchaseRepo) *AdminOrderHandler {
	return &AdminOrderHandler{Reservations: res, Purchases: pur}
}

// ListReservations returns all reservations, optionally filtered with
// ?status=pending|confirmed|completed|cancelled.
func (h *AdminOrderHandler) ListReservations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		list []model.Reservation
		err  error
	)
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		status, ok := model.ParseReservationStatus(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		list, err = h.Reservations.ListByStatus(ctx, status)
	} else {
		list, err = h.Reservations.ListAll(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items := make([]echo.Map, 0, len(list))
	for _, r := range list {
		items = append(items, reservationResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

type transitionReq struct {
	Status string `json:"status"`
}

// TransitionReservation moves a reservation to a new status.  Illegal
// moves are rejected by the repository without touching the row; a
// confirmation publishes an order event for downstream consumers.
func (h *AdminOrderHandler) TransitionReservation(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, okStatus := model.ParseReservationStatus(strings.TrimSpace(req.Status))
	if !okStatus {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reservations.Transition(ctx, id, status); err != nil {
		switch err {
		case repository.ErrOrderNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case repository.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, echo.Map{"error": "illegal status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}

	r, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if status == model.ReservationConfirmed {
		publishOrderEvent(queue.OrderEvent{
			Kind:       queue.KindReservationConfirmed,
			OrderID:    r.ID,
			UserID:     r.UserID,
			CarID:      r.CarID,
			CarName:    r.CarName,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, reservationResp(r))
}

// DeleteReservation removes a reservation record entirely.
func (h *AdminOrderHandler) DeleteReservation(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reservations.Delete(ctx, id); err != nil {
		if err == repository.ErrOrderNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation deleted"})
}

// ListPurchases returns all purchase orders, optionally filtered with
// ?status=pending|paid|completed|cancelled.
func (h *AdminOrderHandler) ListPurchases(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		list []model.Purchase
		err  error
	)
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		status, ok := model.ParsePurchaseStatus(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		list, err = h.Purchases.ListByStatus(ctx, status)
	} else {
		list, err = h.Purchases.ListAll(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items := make([]echo.Map, 0, len(list))
	for _, p := range list {
		items = append(items, purchaseResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"purchases": items})
}

// TransitionPurchase moves a purchase order to a new status.  Entering
// completed stamps completed_at exactly once, in the same statement as
// the status change; completion also publishes an order event.
func (h *AdminOrderHandler) TransitionPurchase(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid purchase id"})
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, okStatus := model.ParsePurchaseStatus(strings.TrimSpace(req.Status))
	if !okStatus {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Purchases.Transition(ctx, id, status); err != nil {
		switch err {
		case repository.ErrOrderNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "purchase not found"})
		case repository.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, echo.Map{"error": "illegal status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}

	p, err := h.Purchases.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if status == model.PurchaseCompleted {
		publishOrderEvent(queue.OrderEvent{
			Kind:       queue.KindPurchaseCompleted,
			OrderID:    p.ID,
			UserID:     p.UserID,
			CarID:      p.CarID,
			CarName:    p.CarName,
			PriceCents: p.PriceCents,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, purchaseResp(p))
}

// DeletePurchase removes a purchase record entirely.
func (h *AdminOrderHandler) DeletePurchase(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid purchase id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Purchases.Delete(ctx, id); err != nil {
		if err == repository.ErrOrderNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "purchase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "purchase deleted"})
}

// publishOrderEvent fires the broker publish in the background with its
// own timeout.  Publish failures are logged inside the service and
// never fail the HTTP request.
func publishOrderEvent(ev queue.OrderEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = service.PublishOrderEvent(ctx, ev)
	}()
}
