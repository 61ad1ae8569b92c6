package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auto-dealership/internal/repository"
)

// ReviewHandler covers ratings and comments on car listings.
type ReviewHandler struct {
	Cars    *repository.CarRepo
	Ratings *repository.RatingRepo
}

func NewReviewHandler(cars *repository.CarRepo, ratings *repository.RatingRepo) *ReviewHandler {
	return &ReviewHandler{Cars: cars, Ratings: ratings}
}

type setRatingReq struct {
	Rating int `json:"rating"`
}

// SetRating records the caller's 1-5 rating for a car.  A repeated
// rating replaces the previous value; a user never holds two rating
// rows for the same car.
func (h *ReviewHandler) SetRating(c echo.Context) error {
	carID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req setRatingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Cars.GetByID(ctx, carID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Ratings.SetRating(ctx, carID, uid, req.Rating); err != nil {
		if err == repository.ErrInvalidRating {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set rating failed"})
	}

	avg, err := h.Ratings.AverageRating(ctx, carID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rating": req.Rating, "average_rating": avg})
}

type addCommentReq struct {
	Comment string `json:"comment"`
}

// AddComment appends a comment to a car.  Comments accumulate; they are
// never replaced the way ratings are.
func (h *ReviewHandler) AddComment(c echo.Context) error {
	carID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Cars.GetByID(ctx, carID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Ratings.AddComment(ctx, carID, uid, req.Comment)
	if err != nil {
		if err == repository.ErrEmptyComment {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment must be non-empty and at most 1000 characters"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add comment failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// MyRating returns the caller's current rating for a car, 0 when unset.
func (h *ReviewHandler) MyRating(c echo.Context) error {
	carID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rating, err := h.Ratings.UserRating(ctx, carID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rating": rating})
}

// DeleteEntry removes a rating/comment row.  Authors delete their own
// entries; admins delete anything.
func (h *ReviewHandler) DeleteEntry(c echo.Context) error {
	entryID, ok := parseIDParam(c, "entry_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Ratings.DeleteEntry(ctx, entryID, uid, isAdmin(c)); err != nil {
		switch err {
		case repository.ErrEntryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your entry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "entry deleted"})
}
