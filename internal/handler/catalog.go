package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auto-dealership/internal/model"
	"github.com/iliyamo/auto-dealership/internal/repository"
)

// CatalogHandler serves the public car browse endpoints and the admin
// listing management.
type CatalogHandler struct {
	Cars      *repository.CarRepo
	Photos    *repository.PhotoRepo
	Ratings   *repository.RatingRepo
	Favorites *repository.FavoriteRepo
}

func NewCatalogHandler(cars *repository.CarRepo, photos *repository.PhotoRepo, ratings *repository.RatingRepo, favorites *repository.FavoriteRepo) *CatalogHandler {
	return &CatalogHandler{Cars: cars, Photos: photos, Ratings: ratings, Favorites: favorites}
}

type carListItem struct {
	ID            uint64  `json:"id"`
	Brand         string  `json:"brand"`
	Name          string  `json:"name"`
	Model         string  `json:"model"`
	Year          uint16  `json:"year"`
	Mileage       uint32  `json:"mileage"`
	PriceCents    uint64  `json:"price_cents"`
	MainPhotoURL  string  `json:"main_photo_url,omitempty"`
	PhotosCount   int     `json:"photos_count"`
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int     `json:"ratings_count"`
}

type commentItem struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

type photoItem struct {
	ID           uint64 `json:"id"`
	URL          string `json:"url"`
	IsMain       bool   `json:"is_main"`
	DisplayOrder uint32 `json:"display_order"`
}

type carDetailResp struct {
	carListItem
	Description    string        `json:"description,omitempty"`
	IsAvailable    bool          `json:"is_available"`
	Photos         []photoItem   `json:"photos"`
	Comments       []commentItem `json:"comments"`
	CommentsCount  int           `json:"comments_count"`
	FavoritesCount int           `json:"favorites_count"`
}

// ListCars returns the available listings with their cover photo and
// rating aggregate.  This endpoint sits behind the response cache.
func (h *CatalogHandler) ListCars(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cars, err := h.Cars.ListAvailable(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items := make([]carListItem, 0, len(cars))
	for _, car := range cars {
		item, err := h.listItem(c, car)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"cars": items})
}

// GetCar returns one listing with its full gallery, comments and
// rating aggregates.
func (h *CatalogHandler) GetCar(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	car, err := h.Cars.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	item, err := h.listItem(c, car)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	photos, err := h.Photos.ListPhotos(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	comments, err := h.Ratings.ListComments(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	commentsCount, err := h.Ratings.CommentsCount(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	favoritesCount, err := h.Favorites.CountForCar(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	resp := carDetailResp{
		carListItem:    item,
		Description:    car.Description,
		IsAvailable:    car.IsAvailable,
		Photos:         make([]photoItem, 0, len(photos)),
		Comments:       make([]commentItem, 0, len(comments)),
		CommentsCount:  commentsCount,
		FavoritesCount: favoritesCount,
	}
	for _, p := range photos {
		resp.Photos = append(resp.Photos, photoItem{
			ID: p.ID, URL: p.URL, IsMain: p.IsMain, DisplayOrder: p.DisplayOrder,
		})
	}
	for _, cm := range comments {
		if cm.Comment == nil {
			continue
		}
		resp.Comments = append(resp.Comments, commentItem{
			ID: cm.ID, UserID: cm.UserID, Username: cm.Username,
			Comment: *cm.Comment, CreatedAt: cm.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) listItem(c echo.Context, car model.Car) (carListItem, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	mainURL, err := h.Photos.MainPhotoURL(ctx, car.ID)
	if err != nil && err != sql.ErrNoRows {
		return carListItem{}, err
	}
	avg, err := h.Ratings.AverageRating(ctx, car.ID)
	if err != nil {
		return carListItem{}, err
	}
	count, err := h.Ratings.RatingsCount(ctx, car.ID)
	if err != nil {
		return carListItem{}, err
	}
	photosCount, err := h.Photos.CountPhotos(ctx, car.ID)
	if err != nil {
		return carListItem{}, err
	}
	return carListItem{
		ID: car.ID, Brand: car.Brand, Name: car.Name, Model: car.Model,
		Year: car.Year, Mileage: car.Mileage, PriceCents: car.PriceCents,
		MainPhotoURL: mainURL, PhotosCount: photosCount,
		AverageRating: avg, RatingsCount: count,
	}, nil
}

type createCarReq struct {
	Brand       string `json:"brand"`
	Name        string `json:"name"`
	Model       string `json:"model"`
	Year        uint16 `json:"year"`
	Mileage     uint32 `json:"mileage"`
	PriceCents  uint64 `json:"price_cents"`
	Description string `json:"description"`
}

// CreateCar adds a listing to the catalog (admin only, enforced by the
// router).
func (h *CatalogHandler) CreateCar(c echo.Context) error {
	var req createCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Brand = strings.TrimSpace(req.Brand)
	req.Name = strings.TrimSpace(req.Name)
	req.Model = strings.TrimSpace(req.Model)
	if req.Brand == "" || req.Name == "" || req.Model == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "brand, name and model required"})
	}
	if req.Year < 1900 || req.PriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year and price required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	car := model.Car{
		Brand: req.Brand, Name: req.Name, Model: req.Model,
		Year: req.Year, Mileage: req.Mileage, PriceCents: req.PriceCents,
		Description: strings.TrimSpace(req.Description), IsAvailable: true,
	}
	if err := h.Cars.Create(ctx, &car); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create car failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": car.ID})
}

type updateCarReq struct {
	createCarReq
	IsAvailable bool `json:"is_available"`
}

// UpdateCar rewrites a listing's editable fields (admin only).  Open
// orders keep the price snapshot taken when they were created.
func (h *CatalogHandler) UpdateCar(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	var req updateCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Brand = strings.TrimSpace(req.Brand)
	req.Name = strings.TrimSpace(req.Name)
	req.Model = strings.TrimSpace(req.Model)
	if req.Brand == "" || req.Name == "" || req.Model == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "brand, name and model required"})
	}
	if req.Year < 1900 || req.PriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year and price required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	car := model.Car{
		ID:    id,
		Brand: req.Brand, Name: req.Name, Model: req.Model,
		Year: req.Year, Mileage: req.Mileage, PriceCents: req.PriceCents,
		Description: strings.TrimSpace(req.Description), IsAvailable: req.IsAvailable,
	}
	if err := h.Cars.Update(ctx, &car); err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update car failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "car updated"})
}

// DeleteCar removes a listing (admin only).  Favorites referencing the
// car are cleaned up in the same transaction.
func (h *CatalogHandler) DeleteCar(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Cars.Delete(ctx, id); err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete car failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "car deleted"})
}
