package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// adminCtx builds an echo context for an admin request with the given
// body and :id param, acting as the user with actorID.
func adminCtx(t *testing.T, method, body, idParam string, actorID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(idParam)
	c.Set("user_id", actorID)
	return c, rec
}

func TestAdminUserUpdateRejectsBadID(t *testing.T) {
	h := &AdminUserHandler{}
	c, rec := adminCtx(t, http.MethodPut, `{"full_name":"Ada Lovelace","role":"USER"}`, "zero", 1)
	if err := h.Update(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminUserUpdateRejectsUnknownRole(t *testing.T) {
	h := &AdminUserHandler{}
	c, rec := adminCtx(t, http.MethodPut, `{"full_name":"Ada Lovelace","role":"OWNER"}`, "7", 1)
	if err := h.Update(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminUserUpdateRejectsBlankName(t *testing.T) {
	h := &AdminUserHandler{}
	c, rec := adminCtx(t, http.MethodPut, `{"full_name":"   ","role":"USER"}`, "7", 1)
	if err := h.Update(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminCannotDeactivateSelf(t *testing.T) {
	h := &AdminUserHandler{}
	c, rec := adminCtx(t, http.MethodPut, `{"active":false}`, "3", 3)
	if err := h.SetActive(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	h := &AdminUserHandler{}
	c, rec := adminCtx(t, http.MethodDelete, "", "3", 3)
	if err := h.Delete(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestUpdateCarRejectsBadID(t *testing.T) {
	h := &CatalogHandler{}
	c, rec := adminCtx(t, http.MethodPut, `{"brand":"BMW","name":"i3","model":"base","year":2020,"price_cents":1}`, "0", 1)
	if err := h.UpdateCar(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateCarRejectsMissingFields(t *testing.T) {
	h := &CatalogHandler{}
	c, rec := adminCtx(t, http.MethodPut, `{"brand":"","name":"i3","model":"base","year":2020,"price_cents":1}`, "4", 1)
	if err := h.UpdateCar(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteCarRejectsBadID(t *testing.T) {
	h := &CatalogHandler{}
	c, rec := adminCtx(t, http.MethodDelete, "", "not-a-number", 1)
	if err := h.DeleteCar(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
