package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auto-dealership/internal/repository"
)

// GalleryHandler manages car photo galleries (admin only).  Every write
// goes through the PhotoRepo transactions that keep the single-main
// invariant.
type GalleryHandler struct {
	Photos *repository.PhotoRepo
}

func NewGalleryHandler(photos *repository.PhotoRepo) *GalleryHandler {
	return &GalleryHandler{Photos: photos}
}

type addPhotoReq struct {
	URL    string `json:"url"`
	IsMain bool   `json:"is_main"`
}

// AddPhoto appends a photo to a car's gallery.  The first photo of a
// car becomes main regardless of the request flag.
func (h *GalleryHandler) AddPhoto(c echo.Context) error {
	carID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	var req addPhotoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	photo, err := h.Photos.AddPhoto(ctx, carID, req.URL, req.IsMain)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add photo failed"})
	}
	return c.JSON(http.StatusCreated, photoItem{
		ID: photo.ID, URL: photo.URL, IsMain: photo.IsMain, DisplayOrder: photo.DisplayOrder,
	})
}

// SetMain makes the given photo the cover image of its car.  Pointing
// at the current main photo is a no-op success.
func (h *GalleryHandler) SetMain(c echo.Context) error {
	photoID, ok := parseIDParam(c, "photo_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Photos.SetMain(ctx, photoID); err != nil {
		if err == repository.ErrPhotoNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set main failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "main photo updated"})
}

// DeletePhoto removes a photo.  A car's only photo cannot be deleted;
// deleting the main photo promotes the next one by display order.
func (h *GalleryHandler) DeletePhoto(c echo.Context) error {
	photoID, ok := parseIDParam(c, "photo_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Photos.DeletePhoto(ctx, photoID); err != nil {
		switch err {
		case repository.ErrPhotoNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
		case repository.ErrLastPhoto:
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete the only photo"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete photo failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "photo deleted"})
}

// ListPhotos returns a car's gallery, main photo first.
func (h *GalleryHandler) ListPhotos(c echo.Context) error {
	carID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	photos, err := h.Photos.ListPhotos(ctx, carID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]photoItem, 0, len(photos))
	for _, p := range photos {
		items = append(items, photoItem{ID: p.ID, URL: p.URL, IsMain: p.IsMain, DisplayOrder: p.DisplayOrder})
	}
	return c.JSON(http.StatusOK, echo.Map{"photos": items})
}
