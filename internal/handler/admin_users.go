package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auto-dealership/internal/model"
	"github.com/iliyamo/auto-dealership/internal/repository"
	"github.com/iliyamo/auto-dealership/internal/utils"
)

// AdminUserHandler manages accounts from the back office: listing,
// profile edits, activation toggles and deletion.  Admins cannot
// deactivate or delete their own account, so the system always keeps
// at least the acting administrator.
type AdminUserHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAdminUserHandler(users *repository.UserRepo, tokens *repository.TokenRepo) *AdminUserHandler {
	return &AdminUserHandler{Users: users, Tokens: tokens}
}

type adminUserItem struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// List returns every account, newest first.
func (h *AdminUserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]adminUserItem, 0, len(users))
	for _, u := range users {
		items = append(items, adminUserItem{
			ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role,
			IsActive: u.IsActive, CreatedAt: u.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": items})
}

type updateUserReq struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Update edits an account's full name and role.
func (h *AdminUserHandler) Update(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if !utils.ValidPersonName(req.FullName) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full name required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleUser && role != model.RoleAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be USER or ADMIN"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Update(ctx, id, req.FullName, role); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated"})
}

type setActiveReq struct {
	Active bool `json:"active"`
}

// SetActive toggles an account's is_active flag.  Deactivation also
// revokes the account's refresh tokens so live sessions cannot outlive
// the flag.
func (h *AdminUserHandler) SetActive(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	self, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if id == self && !req.Active {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot deactivate your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SetActive(ctx, id, req.Active); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	if !req.Active {
		if err := h.Tokens.RevokeAllForUser(ctx, id); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke tokens failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated"})
}

// Delete removes an account entirely.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	self, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if id == self {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
