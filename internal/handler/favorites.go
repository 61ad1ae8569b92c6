package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auto-dealership/internal/repository"
)

// FavoriteHandler lets customers keep a shortlist of cars.
type FavoriteHandler struct {
	Cars      *repository.CarRepo
	Favorites *repository.FavoriteRepo
}

func NewFavoriteHandler(cars *repository.CarRepo, favorites *repository.FavoriteRepo) *FavoriteHandler {
	return &FavoriteHandler{Cars: cars, Favorites: favorites}
}

// Add marks a car as favorite.  Adding twice is a no-op success.
func (h *FavoriteHandler) Add(c echo.Context) error {
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

	if _, err := h.Cars.GetByID(ctx, carID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Favorites.Add(ctx, uid, carID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add favorite failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "favorite added"})
}

// Remove drops a car from the caller's favorites.
func (h *FavoriteHandler) Remove(c echo.Context) error {
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

	if err := h.Favorites.Remove(ctx, uid, carID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove favorite failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "favorite removed"})
}

// Status reports whether the car is in the caller's favorites.
func (h *FavoriteHandler) Status(c echo.Context) error {
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

	fav, err := h.Favorites.IsFavorite(ctx, uid, carID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"favorite": fav})
}

// List returns the caller's favorite cars.
func (h *FavoriteHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cars, err := h.Favorites.ListCars(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]carListItem, 0, len(cars))
	for _, car := range cars {
		items = append(items, carListItem{
			ID: car.ID, Brand: car.Brand, Name: car.Name, Model: car.Model,
			Year: car.Year, Mileage: car.Mileage, PriceCents: car.PriceCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"favorites": items})
}
