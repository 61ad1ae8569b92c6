package handler

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auto-dealership/internal/model"
	"github.com/iliyamo/auto-dealership/internal/repository"
	"github.com/iliyamo/auto-dealership/internal/utils"
)

// OrderHandler covers the customer side of reservations and purchases.
type OrderHandler struct {
	Cars         *repository.CarRepo
	Reservations *repository.ReservationRepo
	Purchases    *repository.PurchaseRepo
}

func NewOrderHandler(cars *repository.CarRepo, res *repository.ReservationRepo, pur *repository.PurchaseRepo) *OrderHandler {
	return &OrderHandler{Cars: cars, Reservations: res, Purchases: pur}
}

type createReservationReq struct {
	CarID           uint64 `json:"car_id"`
	CustomerName    string `json:"customer_name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	ReservationDate string `json:"reservation_date"` // YYYY-MM-DD
	Notes           string `json:"notes"`
}

// CreateReservation books a showroom visit for a car.  The date must
// not be in the past; the repository re-checks that before commit.
func (h *OrderHandler) CreateReservation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateContact(req.CustomerName, req.Phone, req.Email); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.ReservationDate), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_date must be YYYY-MM-DD"})
	}
	if !model.ValidateReservationDate(date, time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation date is in the past"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	car, err := h.Cars.GetByID(ctx, req.CarID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !car.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "car is no longer available"})
	}

	res := model.Reservation{
		CarID:           car.ID,
		UserID:          uid,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		Phone:           strings.TrimSpace(req.Phone),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		ReservationDate: date,
		Notes:           strings.TrimSpace(req.Notes),
	}
	if err := h.Reservations.Create(ctx, &res); err != nil {
		if err == repository.ErrPastDate {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation date is in the past"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	return c.JSON(http.StatusCreated, reservationResp(res))
}

type createPurchaseReq struct {
	CarID         uint64 `json:"car_id"`
	CustomerName  string `json:"customer_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// CreatePurchase opens a purchase order for a car.  The listing price
// is snapshotted into the order at this moment; later price edits never
// touch it.
func (h *OrderHandler) CreatePurchase(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPurchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateContact(req.CustomerName, req.Phone, req.Email); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	method, ok := model.ParsePaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be cash, card, transfer or credit"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	car, err := h.Cars.GetByID(ctx, req.CarID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !car.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "car is no longer available"})
	}

	p := model.Purchase{
		CarID:         car.ID,
		UserID:        uid,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PriceCents:    car.PriceCents, // snapshot at order time
		PaymentMethod: method,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := h.Purchases.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create purchase failed"})
	}
	return c.JSON(http.StatusCreated, purchaseResp(p))
}

// MyReservations lists the caller's reservations, newest first.
func (h *OrderHandler) MyReservations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Reservations.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]echo.Map, 0, len(list))
	for _, r := range list {
		items = append(items, reservationResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

// MyPurchases lists the caller's purchase orders, newest first.
func (h *OrderHandler) MyPurchases(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Purchases.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]echo.Map, 0, len(list))
	for _, p := range list {
		items = append(items, purchaseResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"purchases": items})
}

// validateContact checks the contact block shared by both order forms.
// It returns an error message, empty when valid.
func validateContact(name, phone, email string) string {
	if !utils.ValidPersonName(strings.TrimSpace(name)) {
		return "customer_name required"
	}
	if !utils.ValidPhone(strings.TrimSpace(phone)) {
		return "valid phone required"
	}
	if !utils.ValidEmail(strings.ToLower(strings.TrimSpace(email))) {
		return "valid email required"
	}
	return ""
}

func reservationResp(r model.Reservation) echo.Map {
	m := echo.Map{
		"id":               r.ID,
		"car_id":           r.CarID,
		"customer_name":    r.CustomerName,
		"phone":            r.Phone,
		"email":            r.Email,
		"reservation_date": r.ReservationDate.UTC().Format("2006-01-02"),
		"status":           r.Status,
		"created_at":       r.CreatedAt,
		"updated_at":       r.UpdatedAt,
	}
	if r.CarName != "" {
		m["car_name"] = r.CarName
	}
	if r.Username != "" {
		m["username"] = r.Username
	}
	if r.Notes != "" {
		m["notes"] = r.Notes
	}
	return m
}

func purchaseResp(p model.Purchase) echo.Map {
	m := echo.Map{
		"id":             p.ID,
		"car_id":         p.CarID,
		"customer_name":  p.CustomerName,
		"phone":          p.Phone,
		"email":          p.Email,
		"price_cents":    p.PriceCents,
		"payment_method": p.PaymentMethod,
		"status":         p.Status,
		"purchase_date":  p.PurchaseDate,
	}
	if p.CarName != "" {
		m["car_name"] = p.CarName
	}
	if p.Username != "" {
		m["username"] = p.Username
	}
	if p.Notes != "" {
		m["notes"] = p.Notes
	}
	if p.CompletedAt != nil {
		m["completed_at"] = *p.CompletedAt
	}
	return m
}
