package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auto-dealership/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec := runProtected(t, "", JWTAuth(testSecret))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthGarbageToken(t *testing.T) {
	rec := runProtected(t, "Bearer not.a.jwt", JWTAuth(testSecret))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 7, "USER", 1)
	if err != nil {
		t.Fatal(err)
	}
	rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "USER", 1)
	if err != nil {
		t.Fatal(err)
	}
	rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
}

func TestRequireRoleBlocksCustomer(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "USER", 1)
	if err != nil {
		t.Fatal(err)
	}
	rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 1, "ADMIN", 1)
	if err != nil {
		t.Fatal(err)
	}
	rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
